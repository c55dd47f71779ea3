// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, the access logger used in production
// builds. It scrubs obvious secrets and PII from request metadata before the
// log line is emitted. Bodies are never logged, which matters doubly here:
// request bodies carry account passwords on the auth route and ciphertext
// blobs on the message route, and neither belongs in a log pipeline.
package middleware

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// RedactOptions configures extra scrub behavior for RedactingLogger.
//
// MaskHeaders lists additional header names whose values are replaced with
// "[REDACTED]". Matching is case-insensitive and merged with the built-in
// set (Authorization, Cookie, Set-Cookie).
type RedactOptions struct {
	MaskHeaders []string
}

// Query parameter names whose values are always masked, whatever a client
// manages to put on a URL.
var maskedQueryKeys = map[string]struct{}{
	"password": {},
	"token":    {},
	"key":      {},
	"secret":   {},
}

// RedactingLogger returns a Gin middleware that logs requests with sensitive
// values scrubbed.
//
// It masks built-in and configured headers outright, masks the values of
// credential-looking query parameters, and applies regex substitution to the
// remaining query string and header values to catch email addresses and
// UUID-shaped identifiers. Level is info by default, warn for 4xx, error for
// 5xx.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	uuidRE := regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	emailRE := regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)

	redact := func(s string) string {
		if s == "" {
			return s
		}
		out := uuidRE.ReplaceAllString(s, "[REDACTED:id]")
		return emailRE.ReplaceAllString(out, "[REDACTED:email]")
	}

	maskHeaders := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			maskHeaders[h] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		safeQuery := redact(scrubQuery(c.Request.URL.RawQuery))

		safeHeaders := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := maskHeaders[strings.ToLower(k)]; ok {
				safeHeaders[k] = "[REDACTED]"
				continue
			}
			safeHeaders[k] = redact(strings.Join(vv, ", "))
		}

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		size := c.Writer.Size()

		reqID := c.Writer.Header().Get("X-Request-ID")
		if reqID == "" {
			reqID = c.GetHeader("X-Request-ID")
		}

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}

		ev.
			Str("request_id", reqID).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", safeQuery).
			Int("status", status).
			Int("bytes", size).
			Dur("latency", latency).
			Interface("headers", safeHeaders).
			Msg("http_request")
	}
}

// scrubQuery re-encodes rawQuery with the values of credential-looking keys
// masked. An unparseable query string is returned as-is; the regex pass still
// applies to it.
func scrubQuery(rawQuery string) string {
	if rawQuery == "" {
		return rawQuery
	}
	vals, err := url.ParseQuery(rawQuery)
	if err != nil {
		return rawQuery
	}
	changed := false
	for k := range vals {
		if _, ok := maskedQueryKeys[strings.ToLower(k)]; ok {
			vals[k] = []string{"[REDACTED]"}
			changed = true
		}
	}
	if !changed {
		return rawQuery
	}
	return vals.Encode()
}
