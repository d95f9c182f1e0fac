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

// Package api serves the duplicate-title check over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/titlecheck/pkg/api/middleware"
	"github.com/ZaparooProject/titlecheck/pkg/api/models"
	"github.com/ZaparooProject/titlecheck/pkg/api/validation"
	"github.com/ZaparooProject/titlecheck/pkg/config"
	"github.com/ZaparooProject/titlecheck/pkg/similarity"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

const (
	maxBodyBytes      = 8 << 20
	readHeaderTimeout = 10 * time.Second
)

// Server owns the HTTP listener and routes checks to the current checker.
type Server struct {
	cfg     *config.Instance
	checker atomic.Pointer[similarity.Checker]
	limiter *middleware.IPRateLimiter
	srv     *http.Server
	addr    net.Addr
	done    chan error
}

// NewServer builds a server. limiter may be nil, in which case rate
// limiting is skipped.
func NewServer(
	cfg *config.Instance,
	checker *similarity.Checker,
	limiter *middleware.IPRateLimiter,
) *Server {
	s := &Server{
		cfg:     cfg,
		limiter: limiter,
	}
	s.checker.Store(checker)
	s.srv = &http.Server{
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	return s
}

// SetChecker replaces the checker used by requests that start after it
// returns.
func (s *Server) SetChecker(checker *similarity.Checker) {
	s.checker.Store(checker)
}

// Router returns the HTTP handler with every route and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.HTTPIPFilterMiddleware(middleware.NewIPFilter(s.cfg.AllowedIPs())))
	if s.limiter != nil {
		r.Use(middleware.HTTPRateLimitMiddleware(s.limiter))
	}
	r.Use(chimiddleware.NoCache)
	r.Use(chimiddleware.Timeout(config.APIRequestTimeout))

	origins := s.cfg.AllowedOrigins()
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader},
	}))

	r.Get(models.PathRoot, s.handleIndex)
	r.Get(models.PathHealth, handleHealth)
	r.Get(models.PathFavicon, handleFavicon)
	r.With(chimiddleware.AllowContentType("application/json")).
		Post(models.PathCheckSimilarity, s.handleCheckSimilarity)

	return r
}

// Start binds the configured listen address and serves in the
// background. The server accepts connections once Start returns.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.APIListen())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.APIListen(), err)
	}
	s.addr = listener.Addr()
	s.done = make(chan error, 1)

	go func() {
		err := s.srv.Serve(listener)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			log.Error().Err(err).Msg("API server stopped")
		}
		s.done <- err
	}()

	log.Info().Str("addr", s.addr.String()).Msg("API server listening")
	return nil
}

// Addr returns the bound address, or nil before Start.
func (s *Server) Addr() net.Addr {
	return s.addr
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down API server: %w", err)
	}
	if s.done != nil {
		return <-s.done
	}
	return nil
}

func (s *Server) handleCheckSimilarity(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large", nil)
			return
		}
		writeError(w, http.StatusBadRequest, "failed to read request body", nil)
		return
	}

	var req models.CheckSimilarityRequest
	if err := validation.ValidateAndUnmarshal(body, &req); err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			writeError(w, http.StatusUnprocessableEntity, "validation failed", verr.Fields)
			return
		}
		log.Debug().Err(err).Msg("rejected check request")
		writeError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	ctx := similarity.WithCheckID(r.Context(), middleware.GetRequestID(r.Context()))
	res, err := s.checker.Load().Check(ctx, *req.Title, req.ExistingTitles, req.Threshold)
	if err != nil {
		status := http.StatusServiceUnavailable
		if errors.Is(err, context.DeadlineExceeded) {
			status = http.StatusGatewayTimeout
		}
		writeError(w, status, err.Error(), nil)
		return
	}
	writeJSON(w, http.StatusOK, models.NewCheckSimilarityResponse(res))
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.IndexResponse{
		Message: "Title similarity check API",
		Status:  "running",
		Version: config.AppVersion,
		Endpoints: models.Endpoints{
			Health:          models.PathHealth,
			CheckSimilarity: models.PathCheckSimilarity,
		},
	})
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{OK: true})
}

func handleFavicon(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string, fields []validation.FieldError) {
	writeJSON(w, status, models.ErrorResponse{Error: msg, Fields: fields})
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("request_id", middleware.GetRequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(started)).
			Msg("http request")
	})
}
