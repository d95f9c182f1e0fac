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
	"path/filepath"
	"testing"

	"github.com/ZaparooProject/titlecheck/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestDirsEndWithAppName(t *testing.T) {
	t.Parallel()

	if _, ok := HasPortableDir(); ok {
		t.Skip("portable directory present next to test binary")
	}

	assert.Equal(t, config.AppName, filepath.Base(ConfigDir()))
	assert.Equal(t, config.AppName, filepath.Base(DataDir()))
	assert.Equal(t, filepath.Join(DataDir(), "logs"), LogDir())
}
