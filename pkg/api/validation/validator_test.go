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

package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkBody struct {
	Title     *string  `json:"title" validate:"required"`
	Threshold *float64 `json:"threshold,omitempty"`
	Corpus    []string `json:"existing_titles" validate:"required"`
}

func TestValidateAndUnmarshal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		wantErr   error
		name      string
		body      string
		wantField string
	}{
		{name: "valid", body: `{"title":"a","existing_titles":["b"]}`},
		{name: "empty title is allowed", body: `{"title":"","existing_titles":[]}`},
		{name: "empty body", body: "  ", wantErr: ErrMissingBody},
		{name: "malformed", body: `{"title":`, wantErr: ErrInvalidBody},
		{name: "wrong type", body: `{"title":1,"existing_titles":[]}`, wantErr: ErrInvalidBody},
		{name: "missing title", body: `{"existing_titles":[]}`, wantField: "title"},
		{name: "null corpus", body: `{"title":"a","existing_titles":null}`, wantField: "existing_titles"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var dest checkBody
			err := ValidateAndUnmarshal([]byte(tt.body), &dest)

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantField != "":
				var verr *Error
				require.ErrorAs(t, err, &verr)
				require.Len(t, verr.Fields, 1)
				assert.Equal(t, tt.wantField, verr.Fields[0].Field)
				assert.Equal(t, tt.wantField+" is required", verr.Fields[0].Message)
			default:
				require.NoError(t, err)
			}
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	t.Parallel()

	err := NewValidator().Validate(&checkBody{})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, "title is required; existing_titles is required", verr.Error())
}

func TestErrorFormatting(t *testing.T) {
	t.Parallel()

	type bounded struct {
		Mode  string `json:"mode" validate:"oneof=fast full"`
		Count int    `json:"count" validate:"min=1,max=5"`
		Ratio int    `json:"ratio" validate:"gte=2"`
	}

	err := NewValidator().Validate(&bounded{Mode: "slow", Count: 9, Ratio: 1})
	var verr *Error
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Fields, 3)
	assert.Equal(t, "mode must be one of: fast full", verr.Fields[0].Message)
	assert.Equal(t, "count must be at most 5", verr.Fields[1].Message)
	assert.Equal(t, "ratio must be greater than or equal to 2", verr.Fields[2].Message)
}

func TestErrorEmptyFields(t *testing.T) {
	t.Parallel()

	err := &Error{}
	assert.Equal(t, "validation failed", err.Error())
}
