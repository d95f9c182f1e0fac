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

package similarity

import (
	"context"
	"strings"

	"github.com/antzucaro/matchr"
)

// PhoneticScorer compares Double Metaphone encodings of two titles. Each
// word is encoded separately and the primary codes are joined with spaces,
// so "Night Knight" and "Nite Nite" encode alike.
type PhoneticScorer struct{}

func (PhoneticScorer) Method() Method { return Phonetic }

// Score returns 1 for identical codes, 0 when either code is empty, and
// otherwise the normalized edit distance between the codes.
func (PhoneticScorer) Score(a, b string) float64 {
	return comparePhoneticCodes(PhoneticCode(a), PhoneticCode(b))
}

func (PhoneticScorer) Scores(ctx context.Context, query string, corpus []string) ([]float64, error) {
	queryCode := PhoneticCode(query)
	scores := make([]float64, len(corpus))
	for i, title := range corpus {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err //nolint:wrapcheck // context errors pass through
			}
		}
		scores[i] = comparePhoneticCodes(queryCode, PhoneticCode(title))
	}
	return scores, nil
}

// PhoneticCode returns the space-joined primary Double Metaphone codes for
// each word of s. Words without a code are skipped.
func PhoneticCode(s string) string {
	words := strings.Fields(strings.ToLower(s))
	codes := make([]string, 0, len(words))
	for _, w := range words {
		primary, _ := matchr.DoubleMetaphone(w)
		if primary != "" {
			codes = append(codes, primary)
		}
	}
	return strings.Join(codes, " ")
}

func comparePhoneticCodes(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	return normalizedLevenshtein(a, b)
}
