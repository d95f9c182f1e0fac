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

package helpers

import (
	"fmt"

	"github.com/ZaparooProject/titlecheck/pkg/config"
	"github.com/spf13/afero"
)

// NewTestConfig creates a config backed by fs with the base defaults and
// debug logging on.
func NewTestConfig(fs afero.Fs, configDir string) (*config.Instance, error) {
	defaults := config.BaseDefaults
	defaults.DebugLogging = true

	cfg, err := config.NewConfig(fs, configDir, defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to create test config: %w", err)
	}
	return cfg, nil
}

// NewTestConfigWithListen is NewTestConfig bound to a specific listen
// address, such as "127.0.0.1:0" for an ephemeral port.
func NewTestConfigWithListen(fs afero.Fs, configDir, listen string) (*config.Instance, error) {
	defaults := config.BaseDefaults
	defaults.DebugLogging = true
	defaults.Service.APIListen = listen

	cfg, err := config.NewConfig(fs, configDir, defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to create test config: %w", err)
	}
	return cfg, nil
}
