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

// Package similarity scores a candidate title against a corpus of existing
// titles and decides whether it is a near-duplicate.
package similarity

import (
	"encoding/json"
	"fmt"
)

// Method identifies which scorer produced a match.
type Method int

const (
	EditDistance Method = iota
	Phonetic
	Lexical
	Semantic
)

// Methods lists every method in tie-break order.
var Methods = []Method{EditDistance, Phonetic, Lexical, Semantic}

func (m Method) String() string {
	switch m {
	case EditDistance:
		return "edit-distance"
	case Phonetic:
		return "phonetic"
	case Lexical:
		return "lexical"
	case Semantic:
		return "semantic"
	default:
		return fmt.Sprintf("method(%d)", int(m))
	}
}

// ParseMethod returns the method for a wire name.
func ParseMethod(s string) (Method, error) {
	for _, m := range Methods {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown similarity method: %q", s)
}

func (m Method) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(m.String())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal method: %w", err)
	}
	return b, nil
}

func (m *Method) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("failed to unmarshal method: %w", err)
	}
	parsed, err := ParseMethod(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
