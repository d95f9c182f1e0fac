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

package models

import (
	"math"

	"github.com/ZaparooProject/titlecheck/pkg/api/validation"
	"github.com/ZaparooProject/titlecheck/pkg/similarity"
)

const (
	PathRoot            = "/"
	PathHealth          = "/health"
	PathCheckSimilarity = "/check-similarity"
	PathFavicon         = "/favicon.ico"
)

// CheckSimilarityRequest is the body of POST /check-similarity. Title is
// a pointer so a missing field can be told apart from an empty one.
type CheckSimilarityRequest struct {
	Title          *string  `json:"title" validate:"required"`
	Threshold      *float64 `json:"threshold"`
	ExistingTitles []string `json:"existing_titles" validate:"required"`
}

type MatchResponse struct {
	Title      string            `json:"title"`
	Type       similarity.Method `json:"type"`
	Similarity float64           `json:"similarity"`
}

type CheckSimilarityResponse struct {
	Status  similarity.Status `json:"status"`
	Matches []MatchResponse   `json:"matches"`
}

// NewCheckSimilarityResponse renders a check result, rounding scores to
// four decimals. Matches is never null.
func NewCheckSimilarityResponse(res similarity.Result) CheckSimilarityResponse {
	matches := make([]MatchResponse, len(res.Matches))
	for i, m := range res.Matches {
		matches[i] = MatchResponse{
			Title:      m.Title,
			Type:       m.Method,
			Similarity: RoundScore(m.Score),
		}
	}
	return CheckSimilarityResponse{Status: res.Status, Matches: matches}
}

// RoundScore rounds s to four decimal places.
func RoundScore(s float64) float64 {
	return math.Round(s*10000) / 10000
}

type HealthResponse struct {
	OK bool `json:"ok"`
}

type Endpoints struct {
	Health          string `json:"health"`
	CheckSimilarity string `json:"check_similarity"`
}

type IndexResponse struct {
	Message   string    `json:"message"`
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Endpoints Endpoints `json:"endpoints"`
}

// ErrorResponse is returned with every 4xx answer produced by handlers.
type ErrorResponse struct {
	Error  string                  `json:"error"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}
