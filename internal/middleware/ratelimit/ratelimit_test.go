package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_Window(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rl := newLimiter(Config{RequestsPerMinute: 2}, func() time.Time { return now })

	if !rl.Allow("1.1.1.1") || !rl.Allow("1.1.1.1") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("1.1.1.1") {
		t.Fatal("third request within the window should be rejected")
	}
	if !rl.Allow("2.2.2.2") {
		t.Fatal("other clients have their own window")
	}

	now = now.Add(time.Minute)
	if !rl.Allow("1.1.1.1") {
		t.Fatal("new window should reset the counter")
	}

	m := rl.GetMetrics()
	if m.TotalHits != 1 || m.ClientCount != 2 {
		t.Fatalf("metrics = %+v", m)
	}
}

func TestLimiter_CleanupStaleEntries(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rl := newLimiter(DefaultConfig(), func() time.Time { return now })
	rl.Allow("1.1.1.1")
	now = now.Add(11 * time.Minute)
	rl.Allow("2.2.2.2")

	if removed := rl.cleanupStaleEntries(); removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if rl.ActiveClients() != 1 {
		t.Fatalf("active = %d, want 1", rl.ActiveClients())
	}
}

func TestLimiter_MiddlewareLimitsOnlyListedMethods(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	rl := newLimiter(Config{RequestsPerMinute: 1}, func() time.Time { return now })
	ip := func(*http.Request) string { return "1.1.1.1" }
	h := rl.Middleware(ip, nil, http.MethodPost)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		method string
		want   int
	}{
		{http.MethodPost, http.StatusNoContent},
		{http.MethodPost, http.StatusTooManyRequests},
		{http.MethodGet, http.StatusNoContent},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(tt.method, "/", nil))
		if rr.Code != tt.want {
			t.Fatalf("%s: status = %d, want %d", tt.method, rr.Code, tt.want)
		}
		if rr.Code == http.StatusTooManyRequests && rr.Header().Get("Retry-After") != "60" {
			t.Fatal("missing Retry-After")
		}
	}
}

func TestLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewLimiter(DefaultConfig())
	rl.Stop()
	rl.Stop()
}
