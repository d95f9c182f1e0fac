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

// Package cli implements the titlecheck command line: running the HTTP
// service and one-off checks against a corpus file.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZaparooProject/titlecheck/internal/telemetry"
	"github.com/ZaparooProject/titlecheck/pkg/api/models"
	"github.com/ZaparooProject/titlecheck/pkg/config"
	"github.com/ZaparooProject/titlecheck/pkg/helpers"
	"github.com/ZaparooProject/titlecheck/pkg/service"
	"github.com/ZaparooProject/titlecheck/pkg/similarity"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
)

// Exit codes of the check command.
const (
	ExitNotUnique = 2
	ExitInvalid   = 3
)

// App holds the environment the commands run in. Zero fields fall back
// to the real filesystem, stdout and the default directories.
type App struct {
	Fs         afero.Fs
	Stdout     io.Writer
	ConfigDir  string
	LogDir     string
	LogWriters []io.Writer
}

// Setup initializes logging, loads the config and starts error reporting
// if it is enabled. command tags error reports; configPath, when set,
// overrides the config location.
func (a *App) Setup(command, configPath string) (*config.Instance, error) {
	if err := helpers.InitLogging(a.logDir(), a.LogWriters); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	if configPath != "" {
		if err := os.Setenv(config.CfgEnv, configPath); err != nil {
			return nil, fmt.Errorf("failed to set config path: %w", err)
		}
	}

	cfg, err := config.NewConfig(a.fs(), a.configDir(), config.BaseDefaults)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	helpers.SetLogLevel(cfg.DebugLogging())

	err = telemetry.Init(telemetry.Options{
		Enabled: cfg.ErrorReporting(),
		DSN:     cfg.SentryDSN(),
		Version: config.AppVersion,
		Command: command,
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}

	return cfg, nil
}

// Command builds the urfave/cli application.
func (a *App) Command() *cli.App {
	return &cli.App{
		Name:    config.AppName,
		Usage:   "detect near-duplicate titles",
		Version: config.AppVersion,
		Writer:  a.stdout(),
		// exit codes are handled by the caller of Run
		ExitErrHandler: func(*cli.Context, error) {},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file path",
				EnvVars: []string{config.CfgEnv},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API service",
				Action: a.serve,
			},
			{
				Name:  "check",
				Usage: "check one title against a corpus file",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Aliases:  []string{"t"},
						Usage:    "title to check",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "corpus",
						Usage:    "existing titles, .csv with a title column or one per line",
						Required: true,
					},
					&cli.Float64Flag{
						Name:  "threshold",
						Usage: "similarity threshold in [0, 1] (default from config)",
					},
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "output as JSON",
					},
				},
				Action: a.check,
			},
		},
	}
}

func (a *App) serve(c *cli.Context) error {
	cfg, err := a.Setup(c.Command.Name, c.String("config"))
	if err != nil {
		return err
	}
	defer telemetry.Close()

	stop, done, err := service.Start(cfg)
	if err != nil {
		log.Error().Err(err).Msg("error starting service")
		return fmt.Errorf("error starting service: %w", err)
	}

	ctx, cancel := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case <-done:
		return errors.New("service stopped unexpectedly")
	}

	if err := stop(); err != nil {
		log.Error().Err(err).Msg("error stopping service")
		return fmt.Errorf("error stopping service: %w", err)
	}
	return nil
}

func (a *App) check(c *cli.Context) error {
	cfg, err := a.Setup(c.Command.Name, c.String("config"))
	if err != nil {
		return err
	}
	defer telemetry.Close()

	corpus, err := LoadCorpus(a.fs(), c.String("corpus"))
	if err != nil {
		return err
	}

	ctx := c.Context
	if ctx == nil {
		ctx = context.Background()
	}
	provider := service.LoadProvider(ctx, cfg)
	defer func() { _ = provider.Close() }()

	checker, err := service.NewChecker(cfg, provider)
	if err != nil {
		return err
	}

	var threshold *float64
	if c.IsSet("threshold") {
		t := c.Float64("threshold")
		threshold = &t
	}

	res, err := checker.Check(ctx, c.String("title"), corpus, threshold)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	if err := a.printResult(res, c.Bool("json")); err != nil {
		return err
	}

	switch res.Status {
	case similarity.StatusNotUnique:
		return cli.Exit("", ExitNotUnique)
	case similarity.StatusInvalid:
		return cli.Exit("", ExitInvalid)
	default:
		return nil
	}
}

func (a *App) printResult(res similarity.Result, asJSON bool) error {
	out := a.stdout()
	resp := models.NewCheckSimilarityResponse(res)

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return nil
	}

	_, _ = fmt.Fprintln(out, resp.Status)
	for _, m := range resp.Matches {
		_, _ = fmt.Fprintf(out, "  %.4f  %-13s  %s\n", m.Similarity, m.Type, m.Title)
	}
	return nil
}

func (a *App) fs() afero.Fs {
	if a.Fs == nil {
		return afero.NewOsFs()
	}
	return a.Fs
}

func (a *App) stdout() io.Writer {
	if a.Stdout == nil {
		return os.Stdout
	}
	return a.Stdout
}

func (a *App) configDir() string {
	if a.ConfigDir == "" {
		return helpers.ConfigDir()
	}
	return a.ConfigDir
}

func (a *App) logDir() string {
	if a.LogDir == "" {
		return helpers.LogDir()
	}
	return a.LogDir
}
