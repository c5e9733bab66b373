package shield

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/syllabus/dbopen"
	"github.com/hazyhaar/syllabus/kit"
)

func newLimiter(t *testing.T) *RateLimiter {
	t.Helper()
	db := dbopen.OpenMemory(t, dbopen.WithSchema(Schema))
	return NewRateLimiter(db)
}

func TestAPIStack_Headers(t *testing.T) {
	// WHAT: Responses carry the API security headers and an 8-hex X-Trace-ID.
	// WHY: Upload responses echo document text; they must never be sniffed or framed.
	r := chi.NewRouter()
	for _, mw := range APIStack(nil, 1024) {
		r.Use(mw)
	}
	var traced string
	r.Get("/test", func(w http.ResponseWriter, r *http.Request) {
		traced = kit.GetTraceID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

	checks := map[string]string{
		"X-Frame-Options":         "DENY",
		"X-Content-Type-Options":  "nosniff",
		"Cache-Control":           "no-store",
		"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
	}
	for header, want := range checks {
		if got := w.Header().Get(header); got != want {
			t.Errorf("%s: got %q, want %q", header, got, want)
		}
	}
	id := w.Header().Get("X-Trace-ID")
	if len(id) != 8 || strings.Trim(id, "0123456789abcdef") != "" {
		t.Errorf("X-Trace-ID = %q, want 8 hex chars", id)
	}
	if traced != id {
		t.Errorf("context trace id = %q, header %q", traced, id)
	}
}

func TestGetLogger_Default(t *testing.T) {
	if GetLogger(context.Background()) == nil {
		t.Fatal("GetLogger must fall back to slog.Default")
	}
}

func TestMaxBody(t *testing.T) {
	// WHAT: Declared oversize bodies get 413 before the handler runs.
	// WHY: Large uploads must be refused without buffering them.
	called := false
	h := MaxBody(10)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/syllabi", strings.NewReader(strings.Repeat("x", 11))))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", w.Code)
	}
	if called {
		t.Error("handler should not run for oversize body")
	}
	if !strings.Contains(w.Body.String(), `"kind":"too_large"`) {
		t.Errorf("body = %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest("POST", "/api/syllabi", strings.NewReader("small")))
	if w.Code != http.StatusOK || !called {
		t.Errorf("small body: status=%d called=%v", w.Code, called)
	}
}

func TestRateLimiter_Window(t *testing.T) {
	// WHAT: Requests over the rule are refused with 429 until the window resets.
	// WHY: Parsing is CPU-bound; one client must not monopolize the service.
	rl := newLimiter(t)
	if err := rl.SetRule(context.Background(), "POST /api/syllabi", 2, time.Minute); err != nil {
		t.Fatal(err)
	}
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	post := func(path, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", path, nil)
		req.RemoteAddr = ip + ":5555"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	for i := 0; i < 2; i++ {
		if w := post("/api/syllabi", "10.0.0.1"); w.Code != http.StatusCreated {
			t.Fatalf("request %d: status %d", i, w.Code)
		}
	}
	w := post("/api/syllabi/", "10.0.0.1")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q, want 60", w.Header().Get("Retry-After"))
	}
	if !strings.Contains(w.Body.String(), "rate_limited") {
		t.Errorf("body = %s", w.Body.String())
	}

	if w := post("/api/syllabi", "10.0.0.2"); w.Code != http.StatusCreated {
		t.Errorf("other ip: status %d", w.Code)
	}

	now = now.Add(61 * time.Second)
	if w := post("/api/syllabi", "10.0.0.1"); w.Code != http.StatusCreated {
		t.Errorf("after reset: status %d", w.Code)
	}
}

func TestRateLimiter_UnlistedEndpoint(t *testing.T) {
	rl := newLimiter(t)
	if err := rl.SetRule(context.Background(), "POST /api/syllabi", 1, time.Minute); err != nil {
		t.Fatal(err)
	}
	h := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest("GET", "/api/syllabi", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("GET %d: status %d", i, w.Code)
		}
	}
}

func TestRateLimiter_GC(t *testing.T) {
	rl := newLimiter(t)
	rl.SetRule(context.Background(), "POST /x", 5, time.Second)
	now := time.Now()
	rl.now = func() time.Time { return now }
	rl.allow("1.2.3.4", "POST /x")

	now = now.Add(2 * time.Second)
	rl.gc()
	n := 0
	rl.windows.Range(func(_, _ any) bool { n++; return true })
	if n != 0 {
		t.Errorf("windows after gc = %d, want 0", n)
	}
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name   string
		xff    string
		remote string
		want   string
	}{
		{"remote addr", "", "192.0.2.1:1234", "192.0.2.1"},
		{"forwarded chain", "203.0.113.9, 10.0.0.1", "10.0.0.1:80", "203.0.113.9"},
		{"forwarded single", " 198.51.100.7 ", "10.0.0.1:80", "198.51.100.7"},
		{"no port", "", "unix", "unix"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remote
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := ExtractIP(r); got != tt.want {
				t.Errorf("ExtractIP = %q, want %q", got, tt.want)
			}
		})
	}
}
