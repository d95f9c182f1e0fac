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

package service

import (
	"context"
	"testing"

	"github.com/ZaparooProject/titlecheck/pkg/embedding"
	"github.com/ZaparooProject/titlecheck/pkg/similarity"
	"github.com/ZaparooProject/titlecheck/pkg/testing/helpers"
	"github.com/ZaparooProject/titlecheck/pkg/testing/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLoadProvider_NoneIsNull(t *testing.T) {
	t.Parallel()

	fs := helpers.NewMemoryFS()
	cfg, err := helpers.NewTestConfig(fs.Fs, "/config")
	require.NoError(t, err)

	p := LoadProvider(context.Background(), cfg)
	assert.IsType(t, embedding.Null{}, p)
	assert.False(t, p.Available())
}

func TestNewChecker_MethodOverrides(t *testing.T) {
	t.Parallel()

	fs := helpers.NewMemoryFS()
	require.NoError(t, fs.CreateConfigFile("/config/titlecheck.toml", map[string]any{
		"config_schema": 1,
		"matching": map[string]any{
			"method_thresholds": map[string]any{"edit-distance": 0.9},
		},
	}))
	cfg, err := helpers.NewTestConfig(fs.Fs, "/config")
	require.NoError(t, err)

	checker, err := NewChecker(cfg, embedding.Null{})
	require.NoError(t, err)

	// edit similarity of these two is 9/11
	hasEdit := func(res similarity.Result) bool {
		for _, m := range res.Matches {
			if m.Method == similarity.EditDistance {
				return true
			}
		}
		return false
	}

	threshold := 0.7
	res, err := checker.Check(context.Background(), "Hello World", []string{"Helo Wurld"}, &threshold)
	require.NoError(t, err)
	assert.False(t, hasEdit(res), "override should raise the edit-distance threshold")

	res, err = checker.Check(context.Background(), "Hello World", []string{"Helo Wurld"}, nil)
	require.NoError(t, err)
	assert.True(t, hasEdit(res), "overrides only apply to explicit thresholds")
}

func TestNewChecker_UnknownMethod(t *testing.T) {
	t.Parallel()

	fs := helpers.NewMemoryFS()
	require.NoError(t, fs.CreateConfigFile("/config/titlecheck.toml", map[string]any{
		"config_schema": 1,
		"matching": map[string]any{
			"method_thresholds": map[string]any{"soundex": 0.9},
		},
	}))
	cfg, err := helpers.NewTestConfig(fs.Fs, "/config")
	require.NoError(t, err)

	_, err = NewChecker(cfg, embedding.Null{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "soundex")
}

func TestNewChecker_UsesProvider(t *testing.T) {
	t.Parallel()

	fs := helpers.NewMemoryFS()
	cfg, err := helpers.NewTestConfig(fs.Fs, "/config")
	require.NoError(t, err)

	checker, err := NewChecker(cfg, mocks.NewMockProvider())
	require.NoError(t, err)
	assert.True(t, checker.SemanticEnabled())
}

func TestStartStop(t *testing.T) {
	t.Parallel()

	fs := helpers.NewMemoryFS()
	cfg, err := helpers.NewTestConfigWithListen(fs.Fs, "/config", "127.0.0.1:0")
	require.NoError(t, err)

	stop, done, err := Start(cfg)
	require.NoError(t, err)
	require.NoError(t, stop())

	select {
	case <-done:
	default:
		t.Fatal("done should be closed after stop returns")
	}
}
