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

package config

import (
	"strconv"
)

const (
	DefaultAPIPort           = 7560
	DefaultRequestsPerMinute = 100
	DefaultRateLimitBurst    = 20
)

type Service struct {
	APIPort        *int      `toml:"api_port,omitempty"`
	RateLimit      RateLimit `toml:"rate_limit,omitempty"`
	APIListen      string    `toml:"api_listen,omitempty"`
	AllowedOrigins []string  `toml:"allowed_origins,omitempty"`
	AllowedIPs     []string  `toml:"allowed_ips,omitempty"`
}

type RateLimit struct {
	Enabled           *bool `toml:"enabled,omitempty"`
	RequestsPerMinute int   `toml:"requests_per_minute,omitempty"`
	Burst             int   `toml:"burst,omitempty"`
}

func (c *Instance) APIPort() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiPortLocked()
}

// apiPortLocked returns the API port. Caller must hold mu (read or write).
func (c *Instance) apiPortLocked() int {
	if c.vals.Service.APIPort == nil {
		return DefaultAPIPort
	}
	return *c.vals.Service.APIPort
}

func (c *Instance) SetAPIPort(port int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Service.APIPort = &port
}

func (c *Instance) APIListen() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Service.APIListen == "" {
		return ":" + strconv.Itoa(c.apiPortLocked())
	}
	return c.vals.Service.APIListen
}

// AllowedOrigins returns the CORS origins. Empty means any origin.
func (c *Instance) AllowedOrigins() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.AllowedOrigins
}

// AllowedIPs returns the client IP and CIDR allowlist. Empty means any.
func (c *Instance) AllowedIPs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Service.AllowedIPs
}

func (c *Instance) RateLimitEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Service.RateLimit.Enabled == nil {
		return true
	}
	return *c.vals.Service.RateLimit.Enabled
}

func (c *Instance) RequestsPerMinute() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Service.RateLimit.RequestsPerMinute <= 0 {
		return DefaultRequestsPerMinute
	}
	return c.vals.Service.RateLimit.RequestsPerMinute
}

func (c *Instance) RateLimitBurst() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Service.RateLimit.Burst <= 0 {
		return DefaultRateLimitBurst
	}
	return c.vals.Service.RateLimit.Burst
}
