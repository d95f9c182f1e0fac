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
	"errors"
	"fmt"
)

// ErrInvalidInput is returned for a title that is empty after trimming.
var ErrInvalidInput = errors.New("title is empty")

// ErrIncomplete is returned when a check is cancelled or times out before
// it can rule out a duplicate.
var ErrIncomplete = errors.New("check did not complete")

// ScorerError records a scoring method that failed during a check. The
// method's scores are treated as zero.
type ScorerError struct {
	Err    error
	Method Method
}

func (e *ScorerError) Error() string {
	return fmt.Sprintf("%s scorer failed: %v", e.Method, e.Err)
}

func (e *ScorerError) Unwrap() error {
	return e.Err
}
