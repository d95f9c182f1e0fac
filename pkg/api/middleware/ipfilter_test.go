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

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRemoteIP(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "192.168.1.1", ParseRemoteIP("192.168.1.1:8080").String())
	assert.Equal(t, "::1", ParseRemoteIP("[::1]:8080").String())
	assert.Equal(t, "10.0.0.1", ParseRemoteIP("10.0.0.1").String())
	assert.Equal(t, "10.0.0.1", ParseRemoteIP("[::ffff:10.0.0.1]:80").String())
	assert.False(t, ParseRemoteIP("not-an-ip").IsValid())
}

func TestIPFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		addr    string
		allowed []string
		want    bool
	}{
		{name: "empty list allows all", allowed: nil, addr: "8.8.8.8:1", want: true},
		{name: "exact ip", allowed: []string{"192.168.1.5"}, addr: "192.168.1.5:4000", want: true},
		{name: "other ip", allowed: []string{"192.168.1.5"}, addr: "192.168.1.6:4000", want: false},
		{name: "cidr", allowed: []string{"10.0.0.0/8"}, addr: "10.20.30.40:80", want: true},
		{name: "ipv6 loopback", allowed: []string{"::1"}, addr: "[::1]:80", want: true},
		{name: "ip with port in config", allowed: []string{"127.0.0.1:7560"}, addr: "127.0.0.1:1", want: true},
		{name: "invalid entries skipped", allowed: []string{"bogus", "127.0.0.1"}, addr: "127.0.0.1:1", want: true},
		{name: "unparseable client", allowed: []string{"127.0.0.1"}, addr: "garbage", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NewIPFilter(tt.allowed).IsAllowed(tt.addr))
		})
	}
}

func TestHTTPIPFilterMiddleware(t *testing.T) {
	t.Parallel()

	handler := HTTPIPFilterMiddleware(NewIPFilter([]string{"127.0.0.1"}))(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.RemoteAddr = "127.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req.RemoteAddr = "10.1.1.1:1234"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
