// Copyright (c) 2026 Tagraph. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware provides the HTTP processing chain of the operator API.

Chain, outermost first:

  - [RequestID]: correlation id on the context and the response.
  - [StructuredLogger]: one access log line per request, and a request-scoped
    logger for everything downstream.
  - [Recoverer]: turns a handler panic into a 500 envelope.
  - [RateLimiter]: per-IP token buckets, mounted on /api/v1 only.

The API has no authentication of its own. It is expected to sit behind an
authorizing gateway, which is also why there is no CORS handling.
*/
package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/taibuivan/tagraph/internal/platform/constants"
)

// RealIP returns the client address, preferring the headers set by the
// gateway in front of the API.
func RealIP(request *http.Request) string {
	if ip := strings.TrimSpace(request.Header.Get(constants.HeaderXRealIP)); ip != "" {
		return ip
	}

	if forwarded := request.Header.Get(constants.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
