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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// ============================================================================
// Generators
// ============================================================================

var titleWords = []string{
	"hello", "world", "report", "quarterly", "annual", "phone", "fone",
	"book", "cook", "night", "knight", "2023", "review", "guide", "red",
}

func titleGen() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		words := rapid.SliceOfN(rapid.SampledFrom(titleWords), 1, 4).Draw(t, "words")
		return strings.Join(words, " ")
	})
}

func corpusGen() *rapid.Generator[[]string] {
	return rapid.SliceOfN(titleGen(), 0, 8)
}

func maxEditScore(title string, corpus []string) float64 {
	var best float64
	reversed := ReverseWords(title)
	for _, entry := range CleanCorpus(corpus) {
		best = math.Max(best, EditDistanceScorer{}.Score(title, entry))
		best = math.Max(best, EditDistanceScorer{}.Score(reversed, entry))
	}
	return best
}

// ============================================================================
// Properties
// ============================================================================

func TestPropertySelfScoreIsOne(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		title := titleGen().Draw(t, "title")
		corpus := append(corpusGen().Draw(t, "corpus"), title)

		assert.InDelta(t, 1.0, EditDistanceScorer{}.Score(title, title), 1e-12)
		if PhoneticCode(title) != "" {
			assert.InDelta(t, 1.0, PhoneticScorer{}.Score(title, title), 1e-12)
		}

		lexical, err := LexicalScorer{}.Scores(context.Background(), title, corpus)
		require.NoError(t, err)
		if len(LexicalScorer{}.Tokenize(title)) > 0 {
			assert.InDelta(t, 1.0, lexical[len(corpus)-1], 1e-9)
		}
	})
}

func TestPropertyScoresInRange(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		title := titleGen().Draw(t, "title")
		corpus := corpusGen().Draw(t, "corpus")
		ctx := context.Background()

		for _, scorer := range []Scorer{EditDistanceScorer{}, PhoneticScorer{}, LexicalScorer{}} {
			scores, err := scorer.Scores(ctx, title, corpus)
			require.NoError(t, err)
			require.Len(t, scores, len(corpus))
			for _, s := range scores {
				assert.GreaterOrEqual(t, s, 0.0)
				assert.LessOrEqual(t, s, 1.0)
			}
		}
	})
}

func TestPropertyIdempotent(t *testing.T) {
	t.Parallel()

	checker := NewChecker(Options{})
	rapid.Check(t, func(t *rapid.T) {
		title := titleGen().Draw(t, "title")
		corpus := corpusGen().Draw(t, "corpus")
		threshold := rapid.Float64Range(0, 1).Draw(t, "threshold")

		first := mustCheck(t, checker, context.Background(), title, corpus, &threshold)
		second := mustCheck(t, checker, context.Background(), title, corpus, &threshold)
		assert.Equal(t, first, second)
	})
}

func TestPropertyNoDuplicateTitleMethod(t *testing.T) {
	t.Parallel()

	checker := NewChecker(Options{})
	rapid.Check(t, func(t *rapid.T) {
		title := titleGen().Draw(t, "title")
		corpus := corpusGen().Draw(t, "corpus")
		threshold := rapid.Float64Range(0, 1).Draw(t, "threshold")

		res := mustCheck(t, checker, context.Background(), title, corpus, &threshold)
		seen := make(map[matchKey]bool)
		for i, m := range res.Matches {
			key := matchKey{title: m.Title, method: m.Method}
			assert.False(t, seen[key], "duplicate %v", key)
			seen[key] = true
			assert.GreaterOrEqual(t, m.Score, threshold)
			if i > 0 {
				assert.GreaterOrEqual(t, res.Matches[i-1].Score, m.Score)
			}
		}
		if len(res.Matches) == 0 {
			assert.Equal(t, StatusUnique, res.Status)
		} else {
			assert.Equal(t, StatusNotUnique, res.Status)
		}
	})
}

func TestPropertyShortCircuitKeepsNearExactEntries(t *testing.T) {
	t.Parallel()

	checker := NewChecker(Options{})
	rapid.Check(t, func(t *rapid.T) {
		title := titleGen().Draw(t, "title")
		corpus := corpusGen().Draw(t, "corpus")
		threshold := rapid.Float64Range(0, 1).Draw(t, "threshold")
		floor := math.Max(threshold, DefaultShortCircuitFloor)

		res := mustCheck(t, checker, context.Background(), title, corpus, &threshold)
		reversed := ReverseWords(title)
		for _, entry := range CleanCorpus(corpus) {
			score := math.Max(EditDistanceScorer{}.Score(title, entry), EditDistanceScorer{}.Score(reversed, entry))
			if score >= floor {
				assert.True(t, hasMatch(res.Matches, entry, EditDistance), "missing %q", entry)
			}
		}
	})
}

// Raising the threshold never adds matches while both thresholds take the
// same path: either both short-circuit or neither finds an edit-distance
// hit, so the other methods see the whole corpus both times.
func TestPropertyMonotonicWithinPath(t *testing.T) {
	t.Parallel()

	checker := NewChecker(Options{})
	rapid.Check(t, func(t *rapid.T) {
		title := titleGen().Draw(t, "title")
		corpus := corpusGen().Draw(t, "corpus")
		low := rapid.Float64Range(0, 1).Draw(t, "low")
		high := rapid.Float64Range(low, 1).Draw(t, "high")

		best := maxEditScore(title, corpus)
		bothShortCircuit := best >= math.Max(high, DefaultShortCircuitFloor)
		bothFullScore := best < low
		if !bothShortCircuit && !bothFullScore {
			t.Skip("thresholds take different paths")
		}

		lowRes := mustCheck(t, checker, context.Background(), title, corpus, &low)
		highRes := mustCheck(t, checker, context.Background(), title, corpus, &high)
		require.LessOrEqual(t, len(highRes.Matches), len(lowRes.Matches))

		lowKeys := make(map[matchKey]bool, len(lowRes.Matches))
		for _, m := range lowRes.Matches {
			lowKeys[matchKey{title: m.Title, method: m.Method}] = true
		}
		for _, m := range highRes.Matches {
			assert.True(t, lowKeys[matchKey{title: m.Title, method: m.Method}])
		}
	})
}
