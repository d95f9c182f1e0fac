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
	"net"
	"net/http"
	"net/netip"

	"github.com/rs/zerolog/log"
)

// ParseRemoteIP returns the address part of an "ip:port" RemoteAddr. An
// unparseable address gives the zero netip.Addr.
func ParseRemoteIP(remoteAddr string) netip.Addr {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}
	}
	return addr.Unmap()
}

// IPFilter is an allowlist of client addresses and prefixes.
type IPFilter struct {
	prefixes []netip.Prefix
	open     bool
}

// NewIPFilter builds a filter from IPs and CIDRs. An empty list allows
// every client. Invalid entries are logged and skipped.
func NewIPFilter(allowed []string) *IPFilter {
	filter := &IPFilter{open: len(allowed) == 0}

	for _, entry := range allowed {
		// tolerate "ip:port" pasted into the config
		if host, _, err := net.SplitHostPort(entry); err == nil {
			entry = host
		}

		if prefix, err := netip.ParsePrefix(entry); err == nil {
			filter.prefixes = append(filter.prefixes, prefix.Masked())
			continue
		}

		if addr, err := netip.ParseAddr(entry); err == nil {
			addr = addr.Unmap()
			filter.prefixes = append(filter.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
			continue
		}

		log.Warn().Str("ip", entry).Msg("invalid IP or CIDR in allowed_ips, skipping")
	}

	return filter
}

// IsAllowed reports whether a request from remoteAddr may proceed.
func (f *IPFilter) IsAllowed(remoteAddr string) bool {
	if f.open {
		return true
	}

	addr := ParseRemoteIP(remoteAddr)
	if !addr.IsValid() {
		log.Warn().Str("addr", remoteAddr).Msg("failed to parse IP address")
		return false
	}

	for _, prefix := range f.prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// HTTPIPFilterMiddleware answers 403 to clients outside the allowlist.
func HTTPIPFilterMiddleware(filter *IPFilter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !filter.IsAllowed(r.RemoteAddr) {
				log.Debug().
					Str("addr", r.RemoteAddr).
					Str("path", r.URL.Path).
					Str("method", r.Method).
					Msg("request from blocked IP")

				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
