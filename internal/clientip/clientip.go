// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package clientip resolves the visitor's IP address from proxy headers.
// The resolved IP is one half of the anonymous like fingerprint, so the
// precedence order is part of observable behavior and must stay stable.
package clientip

import (
	"net/http"
	"strings"
)

// Unknown is returned when no header yields an address.
const Unknown = "unknown"

// FromRequest returns the client IP with the following precedence:
// CF-Connecting-IP (trusted proxy), the first entry of X-Forwarded-For,
// X-Real-IP, then "unknown". RemoteAddr is deliberately not used — the
// original deployment always sat behind a proxy, and falling back to the
// socket address would silently change like fingerprints.
func FromRequest(r *http.Request) string {
	if cf := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); cf != "" {
		return cf
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := xff
		if idx := strings.IndexByte(xff, ','); idx != -1 {
			first = xff[:idx]
		}
		if first = strings.TrimSpace(first); first != "" {
			return first
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	return Unknown
}
