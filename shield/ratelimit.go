package shield

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Rule is the limit for one "METHOD /path" endpoint.
type Rule struct {
	MaxRequests int
	Window      time.Duration
	Enabled     bool
}

type window struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// RateLimiter is a fixed-window, per-IP, per-endpoint limiter. Rules live in
// the rate_limits table (see Schema) and are reloaded by StartReloader.
// Endpoints without an enabled rule are not limited.
type RateLimiter struct {
	db      *sql.DB
	mu      sync.RWMutex
	rules   map[string]Rule
	windows sync.Map // ip + " " + endpoint -> *window
	now     func() time.Time
}

// NewRateLimiter creates a limiter over db and loads the current rules.
// The rate_limits table must exist (Init).
func NewRateLimiter(db *sql.DB) *RateLimiter {
	rl := &RateLimiter{db: db, rules: map[string]Rule{}, now: time.Now}
	if err := rl.Reload(context.Background()); err != nil {
		slog.Warn("ratelimit: initial load failed", "error", err)
	}
	return rl
}

// SetRule upserts a rule and reloads.
func (rl *RateLimiter) SetRule(ctx context.Context, endpoint string, maxRequests int, per time.Duration) error {
	_, err := rl.db.ExecContext(ctx,
		`INSERT INTO rate_limits (endpoint, max_requests, window_seconds, enabled) VALUES (?, ?, ?, 1)
		 ON CONFLICT(endpoint) DO UPDATE SET max_requests = excluded.max_requests,
		   window_seconds = excluded.window_seconds, enabled = 1`,
		endpoint, maxRequests, int(per.Seconds()))
	if err != nil {
		return fmt.Errorf("ratelimit: set rule %q: %w", endpoint, err)
	}
	return rl.Reload(ctx)
}

// Reload replaces the in-memory rules with the table contents.
func (rl *RateLimiter) Reload(ctx context.Context) error {
	rows, err := rl.db.QueryContext(ctx,
		`SELECT endpoint, max_requests, window_seconds, enabled FROM rate_limits`)
	if err != nil {
		return fmt.Errorf("ratelimit: load rules: %w", err)
	}
	defer rows.Close()

	rules := make(map[string]Rule)
	for rows.Next() {
		var (
			endpoint string
			secs     int
			enabled  int
			rule     Rule
		)
		if err := rows.Scan(&endpoint, &rule.MaxRequests, &secs, &enabled); err != nil {
			return fmt.Errorf("ratelimit: scan rule: %w", err)
		}
		rule.Window = time.Duration(secs) * time.Second
		rule.Enabled = enabled == 1 && rule.MaxRequests > 0 && secs > 0
		rules[endpoint] = rule
	}
	if err := rows.Err(); err != nil {
		return err
	}

	rl.mu.Lock()
	rl.rules = rules
	rl.mu.Unlock()
	slog.Debug("ratelimit: rules loaded", "count", len(rules))
	return nil
}

// StartReloader reloads rules every minute and drops expired windows every
// five, until ctx is done.
func (rl *RateLimiter) StartReloader(ctx context.Context) {
	reload := time.NewTicker(time.Minute)
	gc := time.NewTicker(5 * time.Minute)
	go func() {
		defer reload.Stop()
		defer gc.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-reload.C:
				if err := rl.Reload(ctx); err != nil {
					slog.Warn("ratelimit: reload failed", "error", err)
				}
			case <-gc.C:
				rl.gc()
			}
		}
	}()
}

func (rl *RateLimiter) gc() {
	now := rl.now()
	rl.windows.Range(func(key, value any) bool {
		w := value.(*window)
		w.mu.Lock()
		expired := now.After(w.resetAt)
		w.mu.Unlock()
		if expired {
			rl.windows.Delete(key)
		}
		return true
	})
}

// allow reports whether the request may proceed and, if not, how long
// until the window resets.
func (rl *RateLimiter) allow(ip, endpoint string) (bool, time.Duration) {
	rl.mu.RLock()
	rule, ok := rl.rules[endpoint]
	rl.mu.RUnlock()
	if !ok || !rule.Enabled {
		return true, 0
	}

	now := rl.now()
	v, _ := rl.windows.LoadOrStore(ip+" "+endpoint, &window{})
	w := v.(*window)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.resetAt.IsZero() || now.After(w.resetAt) {
		w.count = 0
		w.resetAt = now.Add(rule.Window)
	}
	w.count++
	if w.count > rule.MaxRequests {
		return false, w.resetAt.Sub(now)
	}
	return true, 0
}

// Middleware enforces the rules. Refused requests get 429 with Retry-After
// and a JSON {error, kind} body.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if len(path) > 1 {
			path = strings.TrimSuffix(path, "/")
		}
		endpoint := r.Method + " " + path
		ip := ExtractIP(r)

		ok, retry := rl.allow(ip, endpoint)
		if ok {
			next.ServeHTTP(w, r)
			return
		}

		GetLogger(r.Context()).Warn("ratelimit: request blocked", "ip", ip, "endpoint", endpoint)
		secs := int(retry.Round(time.Second).Seconds())
		if secs < 1 {
			secs = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(secs))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]string{
			"error": "rate limit exceeded",
			"kind":  "rate_limited",
		})
	})
}

// ExtractIP returns the first X-Forwarded-For hop, or the RemoteAddr host.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
