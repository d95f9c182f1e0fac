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
	"math"
	"sort"
)

const (
	// DefaultMaxSemanticCandidates caps how many entries are embedded per check.
	DefaultMaxSemanticCandidates = 500
	// lexicalRescueMargin lets entries just under the threshold through the
	// cap when they score well lexically.
	lexicalRescueMargin = 0.1
)

// SelectSemanticCandidates picks the corpus indices worth embedding. It
// takes the top min(limit, len(lexical)) indices by descending lexical
// score, ties going to the lower index, then appends any remaining index
// whose lexical score is at least max(threshold-0.1, 0). The result has no
// duplicates and keeps first-seen order.
func SelectSemanticCandidates(lexical []float64, threshold float64, limit int) []int {
	if len(lexical) == 0 {
		return []int{}
	}
	if limit <= 0 {
		limit = DefaultMaxSemanticCandidates
	}

	order := make([]int, len(lexical))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return lexical[order[a]] > lexical[order[b]]
	})

	n := min(limit, len(lexical))
	selected := make([]int, 0, n)
	seen := make(map[int]struct{}, n)
	for _, idx := range order[:n] {
		selected = append(selected, idx)
		seen[idx] = struct{}{}
	}

	floor := math.Max(threshold-lexicalRescueMargin, 0)
	for idx, score := range lexical {
		if _, ok := seen[idx]; ok {
			continue
		}
		if score >= floor {
			selected = append(selected, idx)
			seen[idx] = struct{}{}
		}
	}
	return selected
}
