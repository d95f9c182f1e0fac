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

package config

import (
	"time"
)

const (
	DefaultMatchThreshold        = 0.75
	DefaultShortCircuitFloor     = 0.95
	DefaultSemanticTimeout       = 10 * time.Second
	DefaultMaxSemanticCandidates = 500
	DefaultOllamaURL             = "http://localhost:11434"
	DefaultEmbeddingModel        = "all-minilm"

	ProviderNone   = "none"
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

type Matching struct {
	DefaultThreshold  *float64 `toml:"default_threshold,omitempty"`
	ShortCircuitFloor *float64 `toml:"short_circuit_floor,omitempty"`
	// MethodThresholds is keyed by method name, e.g. phonetic = 0.9.
	MethodThresholds map[string]float64 `toml:"method_thresholds,omitempty"`
}

type Lexical struct {
	Stemming    bool `toml:"stemming"`
	FoldAccents bool `toml:"fold_accents"`
}

type Semantic struct {
	Provider      string `toml:"provider"`
	URL           string `toml:"url,omitempty"`
	Model         string `toml:"model,omitempty"`
	APIKey        string `toml:"api_key,omitempty"`
	Timeout       string `toml:"timeout,omitempty"`
	MaxCandidates int    `toml:"max_candidates,omitempty"`
	Serialize     bool   `toml:"serialize,omitempty"`
}

func parseDuration(s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err //nolint:wrapcheck // wrapped by caller
	}
	return d, nil
}

func (c *Instance) DefaultThreshold() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Matching.DefaultThreshold == nil {
		return DefaultMatchThreshold
	}
	return *c.vals.Matching.DefaultThreshold
}

func (c *Instance) SetDefaultThreshold(threshold float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Matching.DefaultThreshold = &threshold
}

func (c *Instance) ShortCircuitFloor() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Matching.ShortCircuitFloor == nil {
		return DefaultShortCircuitFloor
	}
	return *c.vals.Matching.ShortCircuitFloor
}

// MethodThresholds returns a copy of the per-method threshold overrides.
func (c *Instance) MethodThresholds() map[string]float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]float64, len(c.vals.Matching.MethodThresholds))
	for k, v := range c.vals.Matching.MethodThresholds {
		out[k] = v
	}
	return out
}

func (c *Instance) LexicalStemming() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Lexical.Stemming
}

func (c *Instance) LexicalFoldAccents() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Lexical.FoldAccents
}

func (c *Instance) SemanticProvider() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Semantic.Provider == "" {
		return ProviderNone
	}
	return c.vals.Semantic.Provider
}

func (c *Instance) SetSemanticProvider(provider string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Semantic.Provider = provider
}

func (c *Instance) SemanticURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Semantic.URL == "" && c.vals.Semantic.Provider == ProviderOllama {
		return DefaultOllamaURL
	}
	return c.vals.Semantic.URL
}

func (c *Instance) SemanticModel() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Semantic.Model == "" {
		return DefaultEmbeddingModel
	}
	return c.vals.Semantic.Model
}

func (c *Instance) SemanticAPIKey() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Semantic.APIKey
}

// SemanticTimeout bounds the embedding calls of a single check.
func (c *Instance) SemanticTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Semantic.Timeout == "" {
		return DefaultSemanticTimeout
	}
	d, err := parseDuration(c.vals.Semantic.Timeout)
	if err != nil || d <= 0 {
		return DefaultSemanticTimeout
	}
	return d
}

func (c *Instance) SemanticMaxCandidates() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Semantic.MaxCandidates <= 0 {
		return DefaultMaxSemanticCandidates
	}
	return c.vals.Semantic.MaxCandidates
}

// SemanticSerialize reports whether embedding calls must not overlap.
func (c *Instance) SemanticSerialize() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Semantic.Serialize
}
