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
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/titlecheck/pkg/embedding"
)

// DefaultSemanticTimeout bounds both embedding calls of one check.
const DefaultSemanticTimeout = 10 * time.Second

// SemanticScorer scores by cosine similarity of embedding vectors. With no
// usable provider every score is 0.
type SemanticScorer struct {
	Provider embedding.Provider
	Timeout  time.Duration
}

func (SemanticScorer) Method() Method { return Semantic }

// Enabled reports whether the scorer has a usable model.
func (s SemanticScorer) Enabled() bool {
	return s.Provider != nil && s.Provider.Available()
}

// Scores embeds the query and the corpus in two batched calls. Negative
// cosine values are reported as 0.
func (s SemanticScorer) Scores(ctx context.Context, query string, corpus []string) ([]float64, error) {
	scores := make([]float64, len(corpus))
	if len(corpus) == 0 || !s.Enabled() {
		return scores, nil
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = DefaultSemanticTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	queryVecs, err := s.Provider.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed title: %w", err)
	}
	if len(queryVecs) != 1 {
		return nil, errors.New("failed to embed title: no vector returned")
	}

	corpusVecs, err := s.Provider.Embed(ctx, corpus)
	if err != nil {
		return nil, fmt.Errorf("failed to embed %d candidates: %w", len(corpus), err)
	}
	if len(corpusVecs) != len(corpus) {
		return nil, fmt.Errorf("failed to embed candidates: got %d vectors for %d titles",
			len(corpusVecs), len(corpus))
	}

	for i, vec := range corpusVecs {
		scores[i] = clamp01(embedding.Cosine(queryVecs[0], vec))
	}
	return scores, nil
}
