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

// Package service assembles the checker, the embedding provider and the
// HTTP API from a loaded config.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/titlecheck/pkg/api"
	"github.com/ZaparooProject/titlecheck/pkg/api/middleware"
	"github.com/ZaparooProject/titlecheck/pkg/config"
	"github.com/ZaparooProject/titlecheck/pkg/embedding"
	"github.com/ZaparooProject/titlecheck/pkg/similarity"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const shutdownTimeout = 10 * time.Second

// LoadProvider builds the embedding provider described by cfg. It never
// fails; an unusable model yields embedding.Null.
func LoadProvider(ctx context.Context, cfg *config.Instance) embedding.Provider {
	return embedding.Load(ctx, embedding.LoadOptions{
		HTTP: embedding.HTTPOptions{
			Kind:    cfg.SemanticProvider(),
			URL:     cfg.SemanticURL(),
			Model:   cfg.SemanticModel(),
			APIKey:  cfg.SemanticAPIKey(),
			Timeout: cfg.SemanticTimeout(),
		},
		Serialize: cfg.SemanticSerialize(),
	})
}

// NewChecker creates a checker configured from cfg and backed by provider.
func NewChecker(cfg *config.Instance, provider embedding.Provider) (*similarity.Checker, error) {
	overrides := make(map[similarity.Method]float64)
	for name, threshold := range cfg.MethodThresholds() {
		m, err := similarity.ParseMethod(name)
		if err != nil {
			return nil, fmt.Errorf("invalid matching.method_thresholds key: %w", err)
		}
		overrides[m] = threshold
	}

	return similarity.NewChecker(similarity.Options{
		Provider:         provider,
		MethodThresholds: overrides,
		Lexical: similarity.LexicalScorer{
			Stem:        cfg.LexicalStemming(),
			FoldAccents: cfg.LexicalFoldAccents(),
		},
		DefaultThreshold:      cfg.DefaultThreshold(),
		ShortCircuitFloor:     cfg.ShortCircuitFloor(),
		MaxSemanticCandidates: cfg.SemanticMaxCandidates(),
		SemanticTimeout:       cfg.SemanticTimeout(),
	}), nil
}

// Start runs the API service in the background. stop shuts it down and
// waits for cleanup; done is closed once cleanup has finished.
func Start(cfg *config.Instance) (stop func() error, done <-chan struct{}, err error) {
	log.Info().Msgf("version: %s", config.AppVersion)

	ctx, cancel := context.WithCancel(context.Background())

	log.Info().Msg("loading embedding provider")
	provider := LoadProvider(ctx, cfg)
	info := provider.Info()
	if provider.Available() {
		log.Info().
			Str("provider", info.Provider).
			Str("model", info.Name).
			Int("dimensions", info.Dimensions).
			Msg("semantic scoring enabled")
	} else {
		log.Warn().Msg("running without semantic scoring")
	}

	checker, err := NewChecker(cfg, provider)
	if err != nil {
		cancel()
		_ = provider.Close()
		return nil, nil, err
	}

	clock := clockwork.NewRealClock()

	var limiter *middleware.IPRateLimiter
	if cfg.RateLimitEnabled() {
		limiter = middleware.NewIPRateLimiter(
			clock,
			cfg.RequestsPerMinute(),
			cfg.RateLimitBurst(),
		)
		limiter.StartCleanup(ctx)
	}

	log.Info().Msg("starting API service")
	srv := api.NewServer(cfg, checker, limiter)
	if err := srv.Start(); err != nil {
		cancel()
		_ = provider.Close()
		return nil, nil, fmt.Errorf("failed to start API service: %w", err)
	}

	// embedding provider settings are only read at startup
	watcher, err := WatchConfig(ctx, clock, cfg, func(c *config.Instance) {
		reloaded, err := NewChecker(c, provider)
		if err != nil {
			log.Error().Err(err).Msg("keeping previous matching settings")
			return
		}
		srv.SetChecker(reloaded)
	})
	if err != nil {
		log.Warn().Err(err).Msg("config hot reload disabled")
	}

	var shutdownErr error
	doneCh := make(chan struct{})
	go func() {
		<-ctx.Done()
		log.Info().Msg("service context cancelled, running cleanup")

		if watcher != nil {
			<-watcher.Done()
		}

		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelShutdown()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			shutdownErr = err
		}
		if err := provider.Close(); err != nil {
			shutdownErr = errors.Join(shutdownErr, fmt.Errorf("failed to close embedding provider: %w", err))
		}

		log.Info().Msg("service cleanup completed")
		close(doneCh)
	}()

	stop = func() error {
		cancel()
		<-doneCh
		return shutdownErr
	}
	return stop, doneCh, nil
}
