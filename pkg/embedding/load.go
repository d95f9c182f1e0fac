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

package embedding

import (
	"context"
	"fmt"
	"time"

	"github.com/ZaparooProject/titlecheck/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
)

const probeTimeout = 15 * time.Second

// Serialized wraps a provider that must not be called concurrently.
type Serialized struct {
	inner Provider
	mu    syncutil.Mutex
}

// NewSerialized returns p guarded by a mutex.
func NewSerialized(p Provider) *Serialized {
	return &Serialized{inner: p}
}

func (s *Serialized) Info() ModelInfo { return s.inner.Info() }

func (s *Serialized) Available() bool { return s.inner.Available() }

func (s *Serialized) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("embed cancelled while waiting: %w", err)
	}
	return s.inner.Embed(ctx, texts) //nolint:wrapcheck // inner errors are already wrapped
}

func (s *Serialized) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Close() //nolint:wrapcheck // inner errors are already wrapped
}

// LoadOptions selects and configures the embedding model at startup.
type LoadOptions struct {
	HTTP      HTTPOptions
	Serialize bool
	SkipProbe bool
}

// Load builds the configured provider and checks that it answers. Any
// failure is logged and the Null provider is returned, so the service
// starts with semantic scoring disabled rather than not at all.
func Load(ctx context.Context, opts LoadOptions) Provider {
	if opts.HTTP.Kind == "" || opts.HTTP.Kind == KindNone {
		log.Info().Msg("semantic scoring disabled: no embedding provider configured")
		return Null{}
	}

	hp, err := NewHTTPProvider(opts.HTTP)
	if err != nil {
		log.Warn().Err(err).Msg("semantic scoring disabled: invalid embedding provider config")
		return Null{}
	}

	var p Provider = hp
	if opts.Serialize {
		p = NewSerialized(hp)
	}

	if !opts.SkipProbe {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		if _, err := p.Embed(probeCtx, []string{"probe"}); err != nil {
			log.Warn().Err(err).
				Str("provider", opts.HTTP.Kind).
				Str("model", opts.HTTP.Model).
				Msg("semantic scoring disabled: embedding model unavailable")
			_ = p.Close()
			return Null{}
		}
	}

	info := p.Info()
	log.Info().
		Str("provider", info.Provider).
		Str("model", info.Name).
		Int("dimensions", info.Dimensions).
		Msg("embedding model loaded")
	return p
}
