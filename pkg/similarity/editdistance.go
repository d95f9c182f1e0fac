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
	"math"
	"strings"
	"unicode/utf8"

	"github.com/hbollon/go-edlib"
)

// Scorer computes one similarity score in [0, 1] per corpus entry.
type Scorer interface {
	Method() Method
	Scores(ctx context.Context, query string, corpus []string) ([]float64, error)
}

// EditDistanceScorer scores by normalized Levenshtein distance on
// lower-cased text.
type EditDistanceScorer struct{}

func (EditDistanceScorer) Method() Method { return EditDistance }

// Score returns 1 - distance/maxLen, or 0 when either side is empty.
func (EditDistanceScorer) Score(a, b string) float64 {
	return normalizedLevenshtein(strings.ToLower(a), strings.ToLower(b))
}

// Scores runs to completion even if ctx is done.
func (s EditDistanceScorer) Scores(_ context.Context, query string, corpus []string) ([]float64, error) {
	scores := make([]float64, len(corpus))
	for i, title := range corpus {
		scores[i] = s.Score(query, title)
	}
	return scores, nil
}

// ReverseWords reverses the order of whitespace-delimited words.
func ReverseWords(s string) string {
	words := strings.Fields(s)
	for i, j := 0, len(words)-1; i < j; i, j = i+1, j-1 {
		words[i], words[j] = words[j], words[i]
	}
	return strings.Join(words, " ")
}

func normalizedLevenshtein(a, b string) float64 {
	la := utf8.RuneCountInString(a)
	lb := utf8.RuneCountInString(b)
	if la == 0 || lb == 0 {
		return 0
	}
	if a == b {
		return 1
	}
	maxLen := max(la, lb)
	dist := edlib.LevenshteinDistance(a, b)
	return clamp01(1 - float64(dist)/float64(maxLen))
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
