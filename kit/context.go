package kit

import "context"

type contextKey string

// Context keys for request-scoped values shared by the HTTP and MCP surfaces.
const (
	TransportKey contextKey = "kit_transport" // "http", "mcp", "cli"
	RequestIDKey contextKey = "kit_request_id"
	TraceIDKey   contextKey = "kit_trace_id"
)

func with(ctx context.Context, k contextKey, v string) context.Context {
	return context.WithValue(ctx, k, v)
}

func get(ctx context.Context, k contextKey) string {
	v, _ := ctx.Value(k).(string)
	return v
}

func WithTransport(ctx context.Context, t string) context.Context { return with(ctx, TransportKey, t) }

// GetTransport defaults to "http".
func GetTransport(ctx context.Context) string {
	if t := get(ctx, TransportKey); t != "" {
		return t
	}
	return "http"
}

// WithRequestID stores a caller-supplied correlation ID.
func WithRequestID(ctx context.Context, id string) context.Context { return with(ctx, RequestIDKey, id) }
func GetRequestID(ctx context.Context) string                     { return get(ctx, RequestIDKey) }

func WithTraceID(ctx context.Context, id string) context.Context { return with(ctx, TraceIDKey, id) }
func GetTraceID(ctx context.Context) string                     { return get(ctx, TraceIDKey) }
