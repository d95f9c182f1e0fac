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
	"math"
	"strings"
	"time"

	"github.com/ZaparooProject/titlecheck/pkg/embedding"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultThreshold applies when the caller gives no threshold.
	DefaultThreshold = 0.75
	// DefaultShortCircuitFloor is the edit-distance score that ends a check
	// early, unless the threshold is higher.
	DefaultShortCircuitFloor = 0.95
)

// Stage is a step of a check, reported in debug logs.
type Stage int

const (
	StageStart Stage = iota
	StageEditDistance
	StageShortCircuit
	StageNarrowed
	StageFullScore
	StageMerge
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageStart:
		return "start"
	case StageEditDistance:
		return "edit_distance_pass"
	case StageShortCircuit:
		return "short_circuit"
	case StageNarrowed:
		return "narrow_and_score_others"
	case StageFullScore:
		return "full_score_others"
	case StageMerge:
		return "merge"
	case StageDone:
		return "done"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Options configures a Checker. Zero values select the defaults.
type Options struct {
	Provider embedding.Provider
	// MethodThresholds raises the threshold of individual methods when the
	// caller passes an explicit threshold. An override never lowers it.
	MethodThresholds      map[Method]float64
	Lexical               LexicalScorer
	DefaultThreshold      float64
	ShortCircuitFloor     float64
	MaxSemanticCandidates int
	SemanticTimeout       time.Duration
}

// Checker runs the tiered duplicate check. It holds no per-check state
// and is safe for concurrent use.
type Checker struct {
	methodThresholds map[Method]float64
	semantic         SemanticScorer
	lexical          LexicalScorer
	phonetic         PhoneticScorer
	edit             EditDistanceScorer
	defaultThreshold float64
	floor            float64
	maxCandidates    int
}

// NewChecker creates a Checker from opts.
func NewChecker(opts Options) *Checker {
	c := &Checker{
		methodThresholds: make(map[Method]float64, len(opts.MethodThresholds)),
		lexical:          opts.Lexical,
		semantic: SemanticScorer{
			Provider: opts.Provider,
			Timeout:  opts.SemanticTimeout,
		},
		defaultThreshold: DefaultThreshold,
		floor:            DefaultShortCircuitFloor,
		maxCandidates:    DefaultMaxSemanticCandidates,
	}
	if c.semantic.Provider == nil {
		c.semantic.Provider = embedding.Null{}
	}
	if opts.DefaultThreshold > 0 && opts.DefaultThreshold <= 1 {
		c.defaultThreshold = opts.DefaultThreshold
	}
	if opts.ShortCircuitFloor > 0 && opts.ShortCircuitFloor <= 1 {
		c.floor = opts.ShortCircuitFloor
	}
	if opts.MaxSemanticCandidates > 0 {
		c.maxCandidates = opts.MaxSemanticCandidates
	}
	for m, t := range opts.MethodThresholds {
		c.methodThresholds[m] = clamp01(t)
	}
	return c
}

// SemanticEnabled reports whether semantic scoring has a usable model.
func (c *Checker) SemanticEnabled() bool {
	return c.semantic.Enabled()
}

type checkIDKey struct{}

// WithCheckID attaches an identifier that is logged with every stage of
// checks run under ctx.
func WithCheckID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, checkIDKey{}, id)
}

// ResolveThreshold returns the threshold a check will use. nil and NaN
// select the default; other values are clamped to [0, 1].
func (c *Checker) ResolveThreshold(threshold *float64) float64 {
	if threshold == nil || math.IsNaN(*threshold) {
		return c.defaultThreshold
	}
	return clamp01(*threshold)
}

func (c *Checker) methodThreshold(m Method, base float64, explicit bool) float64 {
	if !explicit {
		return base
	}
	if override, ok := c.methodThresholds[m]; ok {
		return math.Max(base, override)
	}
	return base
}

// CleanCorpus trims every entry and drops the blank ones.
func CleanCorpus(corpus []string) []string {
	cleaned := make([]string, 0, len(corpus))
	for _, title := range corpus {
		if t := strings.TrimSpace(title); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	return cleaned
}

// Check decides whether title duplicates an entry of corpus. Scorer
// failures never fail the check; the failing method contributes no
// matches. If ctx ends before a Unique verdict is reached, Check returns
// an error wrapping ErrIncomplete, since the methods that were cut short
// may have missed a duplicate. A Not Unique verdict stands regardless.
func (c *Checker) Check(
	ctx context.Context,
	title string,
	corpus []string,
	threshold *float64,
) (Result, error) {
	checkID, ok := ctx.Value(checkIDKey{}).(string)
	if !ok || checkID == "" {
		checkID = uuid.NewString()
	}
	logger := log.With().Str("check_id", checkID).Logger()
	started := time.Now()

	title = strings.TrimSpace(title)
	if title == "" {
		logger.Debug().Err(ErrInvalidInput).Msg("check rejected")
		return Result{Status: StatusInvalid, Matches: []Match{}}, nil
	}

	corpus = CleanCorpus(corpus)
	thr := c.ResolveThreshold(threshold)
	explicit := threshold != nil && !math.IsNaN(*threshold)
	logger.Debug().
		Stringer("stage", StageStart).
		Int("corpus", len(corpus)).
		Float64("threshold", thr).
		Msg("check started")

	if len(corpus) == 0 {
		return Result{Status: StatusUnique, Matches: []Match{}}, nil
	}

	set := NewMatchSet()
	matched := c.editDistancePass(logger, title, corpus, set, c.methodThreshold(EditDistance, thr, explicit))
	logger.Debug().
		Stringer("stage", StageEditDistance).
		Int("matched", len(matched)).
		Float64("best", set.MaxScore()).
		Msg("edit distance pass complete")

	if set.Len() > 0 && set.MaxScore() >= math.Max(thr, c.floor) {
		logger.Debug().
			Stringer("stage", StageShortCircuit).
			Dur("elapsed", time.Since(started)).
			Msg("near-exact match, skipping other methods")
		return finish(set), nil
	}

	indices := matched
	stage := StageNarrowed
	if len(indices) == 0 {
		stage = StageFullScore
		indices = make([]int, len(corpus))
		for i := range indices {
			indices[i] = i
		}
	}
	subset := make([]string, len(indices))
	for i, idx := range indices {
		subset[i] = corpus[idx]
	}

	scores := c.scoreOthers(ctx, logger, title, subset, thr)
	logger.Debug().
		Stringer("stage", stage).
		Int("scored", len(subset)).
		Int("embedded", len(scores.semanticIdx)).
		Bool("degraded", scores.degraded).
		Msg("other methods scored")

	set.AddScores(Phonetic, scores.phonetic, corpus, indices,
		c.methodThreshold(Phonetic, thr, explicit))
	set.AddScores(Lexical, scores.lexical, corpus, indices,
		c.methodThreshold(Lexical, thr, explicit))
	semanticIdx := make([]int, len(scores.semanticIdx))
	for i, pos := range scores.semanticIdx {
		semanticIdx[i] = indices[pos]
	}
	set.AddScores(Semantic, scores.semantic, corpus, semanticIdx,
		c.methodThreshold(Semantic, thr, explicit))

	res := finish(set)
	if err := ctx.Err(); err != nil {
		if res.Status == StatusUnique {
			logger.Warn().Err(err).Msg("check interrupted before a verdict")
			return Result{}, fmt.Errorf("%w: %w", ErrIncomplete, err)
		}
		logger.Warn().Err(err).Msg("check interrupted, matches may be partial")
	}
	logger.Debug().
		Stringer("stage", StageDone).
		Str("status", string(res.Status)).
		Int("matches", len(res.Matches)).
		Dur("elapsed", time.Since(started)).
		Msg("check finished")
	return res, nil
}

func finish(set *MatchSet) Result {
	matches := set.Sorted()
	if len(matches) == 0 {
		return Result{Status: StatusUnique, Matches: matches}
	}
	return Result{Status: StatusNotUnique, Matches: matches}
}

// editDistancePass scores every entry against the title and its
// word-reversed form, adds hits to set and returns their indices in
// corpus order. It ignores cancellation: it is cheap and its hits are
// conclusive.
func (c *Checker) editDistancePass(
	logger zerolog.Logger,
	title string,
	corpus []string,
	set *MatchSet,
	threshold float64,
) []int {
	ctx := context.Background()
	forward, err := c.runScorer(ctx, c.edit, title, corpus)
	if err != nil {
		logger.Warn().Err(err).Msg("scorer failed, using zero scores")
	}
	backward := forward
	if reversed := ReverseWords(title); reversed != title {
		backward, err = c.runScorer(ctx, c.edit, reversed, corpus)
		if err != nil {
			logger.Warn().Err(err).Msg("scorer failed, using zero scores")
		}
	}

	var matched []int
	for i := range corpus {
		score := math.Max(forward[i], backward[i])
		if score < threshold {
			continue
		}
		matched = append(matched, i)
		set.Add(Match{Title: corpus[i], Score: score, Method: EditDistance, Index: i})
	}
	return matched
}

type otherScores struct {
	phonetic []float64
	lexical  []float64
	semantic []float64
	// semanticIdx maps semantic[i] to a position in the scored subset.
	semanticIdx []int
	// degraded is set when any method fell back to zero scores.
	degraded bool
}

// scoreOthers runs the phonetic scorer alongside the lexical scorer and
// the semantic scorer that depends on it.
func (c *Checker) scoreOthers(
	ctx context.Context,
	logger zerolog.Logger,
	title string,
	subset []string,
	threshold float64,
) otherScores {
	var out otherScores
	var g errgroup.Group

	g.Go(func() error {
		var err error
		out.phonetic, err = c.runScorer(ctx, c.phonetic, title, subset)
		if err != nil {
			logger.Warn().Err(err).Msg("scorer failed, using zero scores")
		}
		return err
	})
	g.Go(func() error {
		var lexErr error
		out.lexical, lexErr = c.runScorer(ctx, c.lexical, title, subset)
		if lexErr != nil {
			logger.Warn().Err(lexErr).Msg("scorer failed, using zero scores")
		}
		if !c.semantic.Enabled() {
			logger.Debug().Msg("semantic scoring skipped: no embedding model")
			return lexErr
		}
		out.semanticIdx = SelectSemanticCandidates(out.lexical, threshold, c.maxCandidates)
		candidates := make([]string, len(out.semanticIdx))
		for i, pos := range out.semanticIdx {
			candidates[i] = subset[pos]
		}
		var semErr error
		out.semantic, semErr = c.runScorer(ctx, c.semantic, title, candidates)
		if semErr != nil {
			logger.Warn().Err(semErr).Msg("scorer failed, using zero scores")
		}
		return errors.Join(lexErr, semErr)
	})
	out.degraded = g.Wait() != nil

	return out
}

// runScorer calls s. An error, a panic or a malformed result yields
// all-zero scores and a *ScorerError.
func (c *Checker) runScorer(
	ctx context.Context,
	s Scorer,
	query string,
	corpus []string,
) (scores []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &ScorerError{Method: s.Method(), Err: fmt.Errorf("panic: %v", r)}
			scores = make([]float64, len(corpus))
		}
	}()

	scores, err = s.Scores(ctx, query, corpus)
	if err != nil {
		return make([]float64, len(corpus)), &ScorerError{Method: s.Method(), Err: err}
	}
	if len(scores) != len(corpus) {
		return make([]float64, len(corpus)), &ScorerError{
			Method: s.Method(),
			Err:    fmt.Errorf("got %d scores for %d titles", len(scores), len(corpus)),
		}
	}
	for i := range scores {
		scores[i] = clamp01(scores[i])
	}
	return scores, nil
}
