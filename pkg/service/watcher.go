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

package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ZaparooProject/titlecheck/pkg/config"
	"github.com/ZaparooProject/titlecheck/pkg/helpers"
	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const reloadDebounce = 250 * time.Millisecond

// ConfigWatcher reloads the config file when it changes on disk and
// hands the result to onReload. Invalid files are logged and ignored.
type ConfigWatcher struct {
	clock    clockwork.Clock
	cfg      *config.Instance
	onReload func(*config.Instance)
	watcher  *fsnotify.Watcher
	done     chan struct{}
}

// WatchConfig starts watching the directory holding cfg's file. The
// directory is watched rather than the file so editors that replace the
// file on save are seen. Watching stops when ctx is cancelled.
func WatchConfig(
	ctx context.Context,
	clock clockwork.Clock,
	cfg *config.Instance,
	onReload func(*config.Instance),
) (*ConfigWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(cfg.Path())); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("failed to watch config directory: %w", err)
	}

	w := &ConfigWatcher{
		clock:    clock,
		cfg:      cfg,
		onReload: onReload,
		watcher:  watcher,
		done:     make(chan struct{}),
	}
	go w.loop(ctx)
	return w, nil
}

// Done is closed once the watcher has stopped.
func (w *ConfigWatcher) Done() <-chan struct{} {
	return w.done
}

func (w *ConfigWatcher) loop(ctx context.Context) {
	defer close(w.done)
	defer func() { _ = w.watcher.Close() }()

	path := filepath.Clean(w.cfg.Path())
	var pending clockwork.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if pending != nil {
				pending.Stop()
			}
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			// editors often write in several steps
			if pending != nil {
				pending.Stop()
			}
			pending = w.clock.NewTimer(reloadDebounce)
			fire = pending.Chan()
		case <-fire:
			pending, fire = nil, nil
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("config watcher error")
		}
	}
}

func (w *ConfigWatcher) reload() {
	if err := w.cfg.Load(); err != nil {
		log.Error().Err(err).Str("path", w.cfg.Path()).Msg("config reload failed, keeping previous values")
		return
	}
	helpers.SetLogLevel(w.cfg.DebugLogging())
	log.Info().Str("path", w.cfg.Path()).Msg("config reloaded")
	w.onReload(w.cfg)
}
