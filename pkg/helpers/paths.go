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
	"os"
	"path/filepath"
	"sync"

	"github.com/ZaparooProject/titlecheck/pkg/config"
	"github.com/adrg/xdg"
)

// PortableDir is the directory name that, when found next to the
// executable, holds config and logs instead of the XDG locations.
const PortableDir = "user"

var (
	portableOnce sync.Once
	portablePath string
	portableOK   bool
)

// HasPortableDir reports whether a portable directory exists next to the
// executable and returns its path. The result is cached.
func HasPortableDir() (string, bool) {
	portableOnce.Do(func() {
		exe, err := os.Executable()
		if err != nil {
			return
		}
		dir := filepath.Join(filepath.Dir(exe), PortableDir)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			portablePath = dir
			portableOK = true
		}
	})
	return portablePath, portableOK
}

func ConfigDir() string {
	if v, ok := HasPortableDir(); ok {
		return v
	}
	return filepath.Join(xdg.ConfigHome, config.AppName)
}

func DataDir() string {
	if v, ok := HasPortableDir(); ok {
		return v
	}
	return filepath.Join(xdg.DataHome, config.AppName)
}

// LogDir is where the rotating log file is written.
func LogDir() string {
	return filepath.Join(DataDir(), "logs")
}
