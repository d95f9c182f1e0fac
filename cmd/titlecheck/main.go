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

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ZaparooProject/titlecheck/internal/telemetry"
	"github.com/ZaparooProject/titlecheck/pkg/cli"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	urfave "github.com/urfave/cli/v2"
)

func main() {
	if err := run(); err != nil {
		var ec urfave.ExitCoder
		if errors.As(err, &ec) {
			os.Exit(ec.ExitCode())
		}
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{
		LogWriters: []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr}},
	}

	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %s\n", err)
			telemetry.Flush()
			log.Fatal().Msgf("panic: %v", err)
		}
	}()

	return app.Command().Run(os.Args) //nolint:wrapcheck // exit codes are read from the error
}
