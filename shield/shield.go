// Package shield holds the HTTP middleware in front of the syllabus API:
// security headers, request body ceiling, trace IDs with a per-request
// logger, and per-IP rate limiting backed by SQLite rules.
//
// Usage:
//
//	rl := shield.NewRateLimiter(db)
//	for _, mw := range shield.APIStack(rl, cfg.MaxFileBytes()) {
//	    r.Use(mw)
//	}
package shield

import "net/http"

type contextKey string

// LoggerKey is the context key for the per-request structured logger.
const LoggerKey contextKey = "shield_logger"

// APIStack returns the middleware chain for the JSON API, outermost first:
// SecurityHeaders, MaxBody, TraceID, then rate limiting when rl is non-nil.
// maxUpload is the largest accepted file; multipart framing gets 1 MiB on top.
func APIStack(rl *RateLimiter, maxUpload int64) []func(http.Handler) http.Handler {
	stack := []func(http.Handler) http.Handler{
		SecurityHeaders(APIHeaders()),
		MaxBody(maxUpload + 1<<20),
		TraceID,
	}
	if rl != nil {
		stack = append(stack, rl.Middleware)
	}
	return stack
}
