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

package mocks

import (
	"context"
	"fmt"

	"github.com/ZaparooProject/titlecheck/pkg/embedding"
	"github.com/stretchr/testify/mock"
)

// MockProvider is a mock implementation of embedding.Provider using testify/mock
type MockProvider struct {
	mock.Mock
}

// Info describes the mocked model
func (m *MockProvider) Info() embedding.ModelInfo {
	args := m.Called()
	if info, ok := args.Get(0).(embedding.ModelInfo); ok {
		return info
	}
	return embedding.ModelInfo{}
}

// Available reports whether the mocked model can embed
func (m *MockProvider) Available() bool {
	args := m.Called()
	return args.Bool(0)
}

// Embed returns the vectors registered for texts
func (m *MockProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	args := m.Called(ctx, texts)
	if err := args.Error(1); err != nil {
		return nil, fmt.Errorf("mock operation failed: %w", err)
	}
	if vecs, ok := args.Get(0).([][]float32); ok {
		return vecs, nil
	}
	return nil, nil
}

// Close releases the mocked model
func (m *MockProvider) Close() error {
	args := m.Called()
	if err := args.Error(0); err != nil {
		return fmt.Errorf("mock operation failed: %w", err)
	}
	return nil
}

// NewMockProvider creates a MockProvider with SetupBasicMock applied
func NewMockProvider() *MockProvider {
	m := &MockProvider{}
	m.SetupBasicMock()
	return m
}

// SetupBasicMock registers an available model with a fixed name. Embed
// expectations are left to each test.
func (m *MockProvider) SetupBasicMock() {
	m.On("Available").Return(true).Maybe()
	m.On("Info").Return(embedding.ModelInfo{
		Name:       "mock-minilm",
		Provider:   "mock",
		Dimensions: 3,
	}).Maybe()
	m.On("Close").Return(nil).Maybe()
}

// SetupEmbeddings registers one Embed call per batch, answering each
// text with its vector from vectors.
func (m *MockProvider) SetupEmbeddings(vectors map[string][]float32, batches ...[]string) {
	for _, batch := range batches {
		out := make([][]float32, len(batch))
		for i, text := range batch {
			out[i] = vectors[text]
		}
		m.On("Embed", mock.Anything, batch).Return(out, nil)
	}
}
