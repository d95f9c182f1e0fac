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
	"unicode"
	"unicode/utf8"

	"github.com/surgebase/porter2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// LexicalScorer scores by cosine similarity of TF-IDF vectors. The vector
// space is built from the query plus the corpus on every call.
type LexicalScorer struct {
	// Stem reduces tokens to their Porter2 stem before weighting.
	Stem bool
	// FoldAccents strips combining marks, so "Pokémon" matches "Pokemon".
	FoldAccents bool
}

func (LexicalScorer) Method() Method { return Lexical }

// Scores returns the cosine similarity between the query vector and each
// corpus vector. Weights use raw term counts and the smoothed inverse
// document frequency ln((1+n)/(1+df)) + 1, with L2-normalized vectors.
func (s LexicalScorer) Scores(ctx context.Context, query string, corpus []string) ([]float64, error) {
	if len(corpus) == 0 {
		return []float64{}, nil
	}

	docs := make([]termDoc, 0, len(corpus)+1)
	docs = append(docs, newTermDoc(s.Tokenize(query)))
	for i, title := range corpus {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err //nolint:wrapcheck // context errors pass through
			}
		}
		docs = append(docs, newTermDoc(s.Tokenize(title)))
	}

	df := make(map[string]int)
	for _, doc := range docs {
		for _, term := range doc.terms {
			df[term]++
		}
	}

	n := float64(len(docs))
	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = math.Log((1+n)/(1+float64(count))) + 1
	}

	queryVec := docs[0].weigh(idf)
	scores := make([]float64, len(corpus))
	if len(queryVec) == 0 {
		return scores, nil
	}
	for i, doc := range docs[1:] {
		vec := doc.weigh(idf)
		var dot float64
		for _, term := range docs[0].terms {
			dot += queryVec[term] * vec[term]
		}
		scores[i] = clamp01(dot)
	}
	return scores, nil
}

// Tokenize lower-cases and NFKC-normalizes s, then splits it into runs of
// two or more word characters (letters, digits and underscore).
func (s LexicalScorer) Tokenize(text string) []string {
	text = s.normalize(text)

	var tokens []string
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		tok := text[start:end]
		if utf8.RuneCountInString(tok) >= 2 {
			if s.Stem {
				tok = porter2.Stem(tok)
			}
			tokens = append(tokens, tok)
		}
		start = -1
	}
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(text))
	return tokens
}

func (s LexicalScorer) normalize(text string) string {
	text = norm.NFKC.String(text)
	if s.FoldAccents {
		t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
		if folded, _, err := transform.String(t, text); err == nil {
			text = folded
		}
	}
	return strings.ToLower(text)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

// termDoc holds term counts with the terms in first-seen order, so sums
// over a document always run in the same order.
type termDoc struct {
	counts map[string]int
	terms  []string
}

func newTermDoc(tokens []string) termDoc {
	doc := termDoc{counts: make(map[string]int, len(tokens))}
	for _, t := range tokens {
		if doc.counts[t] == 0 {
			doc.terms = append(doc.terms, t)
		}
		doc.counts[t]++
	}
	return doc
}

// weigh returns the L2-normalized TF-IDF vector of the document.
func (d termDoc) weigh(idf map[string]float64) map[string]float64 {
	vec := make(map[string]float64, len(d.terms))
	var sumSq float64
	for _, term := range d.terms {
		w := float64(d.counts[term]) * idf[term]
		vec[term] = w
		sumSq += w * w
	}
	if sumSq == 0 {
		return vec
	}
	length := math.Sqrt(sumSq)
	for _, term := range d.terms {
		vec[term] /= length
	}
	return vec
}
