package shield

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/hazyhaar/syllabus/idgen"
	"github.com/hazyhaar/syllabus/kit"
)

var newTraceID = idgen.Hex(8)

// TraceID assigns an 8-hex trace ID to each request. The ID is stored with
// kit.WithTraceID, echoed in X-Trace-ID and attached to a per-request logger
// stored under LoggerKey. A client X-Request-ID is propagated with
// kit.WithRequestID. Completion is logged with status and duration.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := newTraceID()
		w.Header().Set("X-Trace-ID", traceID)

		logger := slog.Default().With(
			"trace_id", traceID,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_ip", ExtractIP(r),
		)
		ctx := kit.WithTraceID(r.Context(), traceID)
		ctx = kit.WithTransport(ctx, "http")
		if rid := r.Header.Get("X-Request-ID"); rid != "" {
			ctx = kit.WithRequestID(ctx, rid)
			logger = logger.With("request_id", rid)
		}
		ctx = context.WithValue(ctx, LoggerKey, logger)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		logger.Info("request",
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}

// GetLogger returns the per-request logger, or slog.Default() outside a
// traced request.
func GetLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(LoggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
