// Zaparoo Title Check
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Zaparoo Title Check.
//
// Zaparoo Title Check is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Zaparoo Title Check is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Zaparoo Title Check.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigDir = "/etc/titlecheck"

func writeConfig(t *testing.T, fs afero.Fs, content string) {
	t.Helper()
	require.NoError(t, fs.MkdirAll(testConfigDir, 0o750))
	require.NoError(t, afero.WriteFile(fs, filepath.Join(testConfigDir, CfgFile), []byte(content), 0o600))
}

func TestNewConfig_WritesDefaultFile(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cfg, err := NewConfig(fs, testConfigDir, BaseDefaults)
	require.NoError(t, err)

	exists, err := afero.Exists(fs, filepath.Join(testConfigDir, CfgFile))
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, filepath.Join(testConfigDir, CfgFile), cfg.Path())

	data, err := afero.ReadFile(fs, cfg.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "config_schema = 1")
}

func TestNewConfig_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := NewConfig(afero.NewMemMapFs(), testConfigDir, BaseDefaults)
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIPort, cfg.APIPort())
	assert.Equal(t, ":7560", cfg.APIListen())
	assert.Empty(t, cfg.AllowedOrigins())
	assert.Empty(t, cfg.AllowedIPs())
	assert.True(t, cfg.RateLimitEnabled())
	assert.Equal(t, DefaultRequestsPerMinute, cfg.RequestsPerMinute())
	assert.Equal(t, DefaultRateLimitBurst, cfg.RateLimitBurst())
	assert.InDelta(t, DefaultMatchThreshold, cfg.DefaultThreshold(), 1e-12)
	assert.InDelta(t, DefaultShortCircuitFloor, cfg.ShortCircuitFloor(), 1e-12)
	assert.Empty(t, cfg.MethodThresholds())
	assert.False(t, cfg.LexicalStemming())
	assert.False(t, cfg.LexicalFoldAccents())
	assert.Equal(t, ProviderNone, cfg.SemanticProvider())
	assert.Equal(t, DefaultEmbeddingModel, cfg.SemanticModel())
	assert.Equal(t, DefaultSemanticTimeout, cfg.SemanticTimeout())
	assert.Equal(t, DefaultMaxSemanticCandidates, cfg.SemanticMaxCandidates())
	assert.False(t, cfg.SemanticSerialize())
	assert.False(t, cfg.DebugLogging())
	assert.False(t, cfg.ErrorReporting())
}

func TestNewConfig_LoadsFileValues(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeConfig(t, fs, `
config_schema = 1
debug_logging = true

[service]
api_port = 9000
allowed_ips = ["10.0.0.0/8"]

[service.rate_limit]
enabled = false
requests_per_minute = 30
burst = 5

[matching]
default_threshold = 0.8
short_circuit_floor = 0.99

[matching.method_thresholds]
phonetic = 0.9

[lexical]
stemming = true
fold_accents = true

[semantic]
provider = "ollama"
model = "nomic-embed-text"
timeout = "3s"
max_candidates = 50
serialize = true
`)

	cfg, err := NewConfig(fs, testConfigDir, BaseDefaults)
	require.NoError(t, err)

	assert.True(t, cfg.DebugLogging())
	assert.Equal(t, 9000, cfg.APIPort())
	assert.Equal(t, ":9000", cfg.APIListen())
	assert.Equal(t, []string{"10.0.0.0/8"}, cfg.AllowedIPs())
	assert.False(t, cfg.RateLimitEnabled())
	assert.Equal(t, 30, cfg.RequestsPerMinute())
	assert.Equal(t, 5, cfg.RateLimitBurst())
	assert.InDelta(t, 0.8, cfg.DefaultThreshold(), 1e-12)
	assert.InDelta(t, 0.99, cfg.ShortCircuitFloor(), 1e-12)
	assert.Equal(t, map[string]float64{"phonetic": 0.9}, cfg.MethodThresholds())
	assert.True(t, cfg.LexicalStemming())
	assert.True(t, cfg.LexicalFoldAccents())
	assert.Equal(t, ProviderOllama, cfg.SemanticProvider())
	assert.Equal(t, DefaultOllamaURL, cfg.SemanticURL())
	assert.Equal(t, "nomic-embed-text", cfg.SemanticModel())
	assert.Equal(t, 3*time.Second, cfg.SemanticTimeout())
	assert.Equal(t, 50, cfg.SemanticMaxCandidates())
	assert.True(t, cfg.SemanticSerialize())
}

func TestNewConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "schema mismatch", content: "config_schema = 2\n"},
		{name: "bad toml", content: "config_schema = \n"},
		{name: "threshold out of range", content: "config_schema = 1\n[matching]\ndefault_threshold = 1.5\n"},
		{name: "zero floor", content: "config_schema = 1\n[matching]\nshort_circuit_floor = 0.0\n"},
		{
			name:    "method threshold out of range",
			content: "config_schema = 1\n[matching.method_thresholds]\nlexical = -1.0\n",
		},
		{name: "unknown provider", content: "config_schema = 1\n[semantic]\nprovider = \"bert\"\n"},
		{name: "bad timeout", content: "config_schema = 1\n[semantic]\ntimeout = \"soon\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			writeConfig(t, fs, tt.content)
			_, err := NewConfig(fs, testConfigDir, BaseDefaults)
			require.Error(t, err)
		})
	}
}

func TestSaveAndReload(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	cfg, err := NewConfig(fs, testConfigDir, BaseDefaults)
	require.NoError(t, err)

	cfg.SetAPIPort(8123)
	cfg.SetDefaultThreshold(0.6)
	cfg.SetSemanticProvider(ProviderOpenAI)
	cfg.SetDebugLogging(true)
	cfg.SetErrorReporting(true)
	require.NoError(t, cfg.Save())

	reloaded, err := NewConfig(fs, testConfigDir, BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, 8123, reloaded.APIPort())
	assert.InDelta(t, 0.6, reloaded.DefaultThreshold(), 1e-12)
	assert.Equal(t, ProviderOpenAI, reloaded.SemanticProvider())
	assert.Empty(t, reloaded.SemanticURL(), "openai has no default url")
	assert.True(t, reloaded.DebugLogging())
	assert.True(t, reloaded.ErrorReporting())
}

func TestMethodThresholds_ReturnsCopy(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeConfig(t, fs, "config_schema = 1\n[matching.method_thresholds]\nphonetic = 0.9\n")
	cfg, err := NewConfig(fs, testConfigDir, BaseDefaults)
	require.NoError(t, err)

	got := cfg.MethodThresholds()
	got["phonetic"] = 0.1
	assert.InDelta(t, 0.9, cfg.MethodThresholds()["phonetic"], 1e-12)
}

func TestAPIListen_Explicit(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeConfig(t, fs, "config_schema = 1\n[service]\napi_listen = \"127.0.0.1:8080\"\n")
	cfg, err := NewConfig(fs, testConfigDir, BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.APIListen())
}
