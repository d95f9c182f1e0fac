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

import "sort"

// Status is the verdict of a check.
type Status string

const (
	StatusInvalid   Status = "Invalid"
	StatusUnique    Status = "Unique"
	StatusNotUnique Status = "Not Unique"
)

// Match is one corpus entry that met the threshold under one method.
type Match struct {
	Title  string
	Score  float64
	Method Method
	// Index is the first corpus position holding Title.
	Index int
}

// Result is the outcome of a check. Matches are sorted by descending
// score.
type Result struct {
	Status  Status
	Matches []Match
}

type matchKey struct {
	title  string
	method Method
}

// MatchSet collects matches keyed by (title, method), keeping the highest
// score per key.
type MatchSet struct {
	matches map[matchKey]Match
}

// NewMatchSet returns an empty set.
func NewMatchSet() *MatchSet {
	return &MatchSet{matches: make(map[matchKey]Match)}
}

// Add inserts m or raises the stored score for its key. The lowest index
// seen for a key is kept.
func (s *MatchSet) Add(m Match) {
	key := matchKey{title: m.Title, method: m.Method}
	existing, ok := s.matches[key]
	if !ok {
		s.matches[key] = m
		return
	}
	if m.Score > existing.Score {
		existing.Score = m.Score
	}
	if m.Index < existing.Index {
		existing.Index = m.Index
	}
	s.matches[key] = existing
}

// AddScores adds a match for every score at or above threshold. scores[i]
// belongs to corpus[indices[i]]; a nil indices means scores line up with
// corpus directly.
func (s *MatchSet) AddScores(
	method Method,
	scores []float64,
	corpus []string,
	indices []int,
	threshold float64,
) {
	for i, score := range scores {
		if score < threshold {
			continue
		}
		idx := i
		if indices != nil {
			idx = indices[i]
		}
		s.Add(Match{
			Title:  corpus[idx],
			Score:  score,
			Method: method,
			Index:  idx,
		})
	}
}

// Len returns the number of distinct (title, method) matches.
func (s *MatchSet) Len() int {
	return len(s.matches)
}

// MaxScore returns the highest score in the set, or 0 when empty.
func (s *MatchSet) MaxScore() float64 {
	var best float64
	for _, m := range s.matches {
		best = max(best, m.Score)
	}
	return best
}

// Sorted returns the matches by descending score, then ascending corpus
// index, then method order.
func (s *MatchSet) Sorted() []Match {
	out := make([]Match, 0, len(s.matches))
	for _, m := range s.matches {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Index != out[j].Index {
			return out[i].Index < out[j].Index
		}
		return out[i].Method < out[j].Method
	})
	return out
}
