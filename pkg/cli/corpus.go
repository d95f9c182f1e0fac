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

package cli

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/spf13/afero"
)

type corpusRow struct {
	Title string `csv:"title"`
}

// LoadCorpus reads existing titles from path. Files ending in .csv must
// have a "title" column; anything else is read as one title per line.
// Blank entries are kept and dropped later by the checker.
func LoadCorpus(fs afero.Fs, path string) ([]string, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open corpus: %w", err)
	}
	defer func() { _ = file.Close() }()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		rows := make([]corpusRow, 0)
		if err := gocsv.Unmarshal(file, &rows); err != nil {
			return nil, fmt.Errorf("failed to unmarshal corpus CSV: %w", err)
		}
		titles := make([]string, len(rows))
		for i, row := range rows {
			titles[i] = row.Title
		}
		return titles, nil
	}

	var titles []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		titles = append(titles, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}
	return titles, nil
}
