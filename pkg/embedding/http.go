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
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/titlecheck/pkg/shared/httpclient"
)

const (
	KindNone   = "none"
	KindOllama = "ollama"
	KindOpenAI = "openai"
)

// HTTPOptions configures an HTTP embedding provider.
type HTTPOptions struct {
	Kind    string
	URL     string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// HTTPProvider calls a remote embedding server. Both the Ollama /api/embed
// and the OpenAI-compatible /v1/embeddings batch APIs are supported. It is
// safe for concurrent use.
type HTTPProvider struct {
	client *httpclient.Client
	opts   HTTPOptions
	dims   atomic.Int64
}

type ollamaRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type ollamaResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

type openAIRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type openAIResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// NewHTTPProvider creates a provider for opts.Kind.
func NewHTTPProvider(opts HTTPOptions) (*HTTPProvider, error) {
	switch opts.Kind {
	case KindOllama, KindOpenAI:
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %q", opts.Kind)
	}
	if opts.URL == "" {
		return nil, errors.New("embedding provider url is empty")
	}
	if opts.Model == "" {
		return nil, errors.New("embedding model name is empty")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = httpclient.DefaultTimeoutSeconds * time.Second
	}
	opts.URL = strings.TrimRight(opts.URL, "/")

	return &HTTPProvider{
		client: httpclient.NewClientWithTimeout(opts.Timeout, opts.APIKey),
		opts:   opts,
	}, nil
}

func (p *HTTPProvider) Info() ModelInfo {
	return ModelInfo{
		Name:       p.opts.Model,
		Provider:   p.opts.Kind,
		Dimensions: int(p.dims.Load()),
	}
}

func (*HTTPProvider) Available() bool { return true }

func (p *HTTPProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	var (
		vecs [][]float32
		err  error
	)
	switch p.opts.Kind {
	case KindOpenAI:
		vecs, err = p.embedOpenAI(ctx, texts)
	default:
		vecs, err = p.embedOllama(ctx, texts)
	}
	if err != nil {
		return nil, err
	}

	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d vectors", len(texts), len(vecs))
	}
	if len(vecs[0]) > 0 {
		p.dims.Store(int64(len(vecs[0])))
	}
	return vecs, nil
}

func (p *HTTPProvider) embedOllama(ctx context.Context, texts []string) ([][]float32, error) {
	var resp ollamaResponse
	err := p.client.PostJSON(ctx, p.opts.URL+"/api/embed", ollamaRequest{
		Model: p.opts.Model,
		Input: texts,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("ollama embed request failed: %w", err)
	}
	return resp.Embeddings, nil
}

func (p *HTTPProvider) embedOpenAI(ctx context.Context, texts []string) ([][]float32, error) {
	var resp openAIResponse
	err := p.client.PostJSON(ctx, p.opts.URL+"/v1/embeddings", openAIRequest{
		Model: p.opts.Model,
		Input: texts,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("openai embed request failed: %w", err)
	}

	vecs := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vecs) {
			return nil, fmt.Errorf("embedding index out of range: %d", d.Index)
		}
		vecs[d.Index] = d.Embedding
	}
	return vecs, nil
}

func (p *HTTPProvider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
