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

// Package embedding provides text embedding models used for semantic
// similarity. A Provider is created once at startup and shared by every
// request.
package embedding

import (
	"context"
	"errors"
	"math"
)

// ErrUnavailable is returned by providers that have no usable model.
var ErrUnavailable = errors.New("embedding model unavailable")

// ModelInfo describes the loaded embedding model.
type ModelInfo struct {
	Name       string `json:"name"`
	Provider   string `json:"provider"`
	Dimensions int    `json:"dimensions"`
}

// Provider turns texts into dense vectors.
type Provider interface {
	// Info describes the model. Dimensions is zero until the first
	// successful call.
	Info() ModelInfo
	// Available reports whether Embed can succeed.
	Available() bool
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Close() error
}

// Null is the provider used when no model is configured or the model
// failed to load.
type Null struct{}

func (Null) Info() ModelInfo { return ModelInfo{Provider: "none"} }

func (Null) Available() bool { return false }

func (Null) Embed(context.Context, []string) ([][]float32, error) {
	return nil, ErrUnavailable
}

func (Null) Close() error { return nil }

// Cosine returns the cosine similarity of two vectors. Mismatched lengths
// and zero vectors give 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
