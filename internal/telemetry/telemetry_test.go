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

package telemetry

import (
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no username in path",
			input:    "/usr/local/bin/titlecheck",
			expected: "/usr/local/bin/titlecheck",
		},
		{
			name:     "linux home path",
			input:    "/home/alex/.config/titlecheck/titlecheck.toml",
			expected: "/home/<user>/.config/titlecheck/titlecheck.toml",
		},
		{
			name:     "macos users path",
			input:    "/Users/alex/Library/titlecheck.log",
			expected: "/Users/<user>/Library/titlecheck.log",
		},
		{
			name:     "windows path",
			input:    "C:\\Users\\alex\\AppData\\Local\\titlecheck",
			expected: "C:\\Users\\<user>\\AppData\\Local\\titlecheck",
		},
		{
			name:     "error message with path",
			input:    "failed to read config file: /home/user123/titlecheck.toml: no such file",
			expected: "failed to read config file: /home/<user>/titlecheck.toml: no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizePath(tt.input))
		})
	}
}

func TestSanitizeEvent(t *testing.T) {
	t.Parallel()

	event := &sentry.Event{
		ServerName: "build-host",
		Message:    "open /home/alex/corpus.csv: permission denied",
		Extra: map[string]any{
			"title":  "My Secret Draft",
			"path":   "/home/alex/corpus.csv",
			"method": "lexical",
		},
		Exception: []sentry.Exception{{
			Stacktrace: &sentry.Stacktrace{
				Frames: []sentry.Frame{{AbsPath: "/home/alex/src/checker.go", Filename: "checker.go"}},
			},
		}},
	}

	out := sanitizeEvent(event)
	require.NotNil(t, out)
	assert.Empty(t, out.ServerName)
	assert.Equal(t, "open /home/<user>/corpus.csv: permission denied", out.Message)
	assert.Equal(t, "<redacted>", out.Extra["title"])
	assert.Equal(t, "/home/<user>/corpus.csv", out.Extra["path"])
	assert.Equal(t, "lexical", out.Extra["method"])
	assert.Equal(t, "/home/<user>/src/checker.go", out.Exception[0].Stacktrace.Frames[0].AbsPath)
}

func TestSanitizeEvent_DropsRequestBody(t *testing.T) {
	t.Parallel()

	event := &sentry.Event{
		Request: &sentry.Request{
			URL:         "http://localhost:8000/check-similarity",
			Method:      "POST",
			Data:        `{"title":"My Secret Draft","existing_titles":["Another Draft"]}`,
			QueryString: "threshold=0.8",
		},
	}

	out := sanitizeEvent(event)
	require.NotNil(t, out.Request)
	assert.Empty(t, out.Request.Data)
	assert.Empty(t, out.Request.QueryString)
	assert.Equal(t, "POST", out.Request.Method)
}

func TestInit_DisabledIsNoop(t *testing.T) {
	t.Parallel()

	require.NoError(t, Init(Options{Version: "test", Command: "check"}))
	assert.False(t, enabled)
}

func TestInit_EnabledWithoutDSN(t *testing.T) {
	t.Parallel()

	err := Init(Options{Enabled: true, Version: "test", Command: "serve"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sentry_dsn")
	assert.False(t, enabled)
}

func TestCloseWhenDisabled(t *testing.T) {
	t.Parallel()

	// Should not panic when called while disabled
	Close()
	Flush()
}
