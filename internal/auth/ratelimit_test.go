package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func newTestRegistry(cfg LimitConfig) *RateLimiterRegistry {
	return NewRateLimiterRegistry(map[RouteClass]LimitConfig{
		RouteClassDefault: cfg,
	})
}

func TestRateLimiterAllowsBurst(t *testing.T) {
	reg := newTestRegistry(LimitConfig{Rate: rate.Limit(10), Burst: 5})

	handler := reg.Middleware(RouteClassDefault)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("request %d: expected status 200, got %d", i+1, rr.Code)
		}
	}
}

func TestRateLimiterBlocksExcessRequests(t *testing.T) {
	reg := newTestRegistry(LimitConfig{Rate: rate.Limit(1), Burst: 2})

	handler := reg.Middleware(RouteClassDefault)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("burst request %d: expected status 200, got %d", i+1, rr.Code)
		}
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("rate limited request: expected status 429, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
}

func TestRateLimiterSeparatesClientsByIP(t *testing.T) {
	reg := newTestRegistry(LimitConfig{Rate: rate.Limit(1), Burst: 1})

	handler := reg.Middleware(RouteClassDefault)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req1 := httptest.NewRequest("GET", "/", nil)
	req1.RemoteAddr = "192.168.1.1:12345"
	rr1 := httptest.NewRecorder()
	handler.ServeHTTP(rr1, req1)
	if rr1.Code != http.StatusOK {
		t.Errorf("client 1 first request: expected status 200, got %d", rr1.Code)
	}

	req2 := httptest.NewRequest("GET", "/", nil)
	req2.RemoteAddr = "192.168.1.1:12345"
	rr2 := httptest.NewRecorder()
	handler.ServeHTTP(rr2, req2)
	if rr2.Code != http.StatusTooManyRequests {
		t.Errorf("client 1 second request: expected status 429, got %d", rr2.Code)
	}

	req3 := httptest.NewRequest("GET", "/", nil)
	req3.RemoteAddr = "192.168.1.2:12345"
	rr3 := httptest.NewRecorder()
	handler.ServeHTTP(rr3, req3)
	if rr3.Code != http.StatusOK {
		t.Errorf("client 2 first request: expected status 200, got %d", rr3.Code)
	}
}

func TestRateLimiterRespectsXForwardedFor(t *testing.T) {
	reg := newTestRegistry(LimitConfig{Rate: rate.Limit(1), Burst: 1})

	handler := reg.Middleware(RouteClassDefault)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req1 := httptest.NewRequest("GET", "/", nil)
	req1.RemoteAddr = "10.0.0.1:12345"
	req1.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.1")
	rr1 := httptest.NewRecorder()
	handler.ServeHTTP(rr1, req1)
	if rr1.Code != http.StatusOK {
		t.Errorf("first request: expected status 200, got %d", rr1.Code)
	}

	req2 := httptest.NewRequest("GET", "/", nil)
	req2.RemoteAddr = "10.0.0.1:12345"
	req2.Header.Set("X-Forwarded-For", "203.0.113.1, 10.0.0.1")
	rr2 := httptest.NewRecorder()
	handler.ServeHTTP(rr2, req2)
	if rr2.Code != http.StatusTooManyRequests {
		t.Errorf("second request: expected status 429, got %d", rr2.Code)
	}
}

func TestRateLimiterRespectsXRealIP(t *testing.T) {
	reg := newTestRegistry(LimitConfig{Rate: rate.Limit(1), Burst: 1})

	handler := reg.Middleware(RouteClassDefault)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req1 := httptest.NewRequest("GET", "/", nil)
	req1.RemoteAddr = "10.0.0.1:12345"
	req1.Header.Set("X-Real-IP", "203.0.113.2")
	rr1 := httptest.NewRecorder()
	handler.ServeHTTP(rr1, req1)
	if rr1.Code != http.StatusOK {
		t.Errorf("first request: expected status 200, got %d", rr1.Code)
	}

	req2 := httptest.NewRequest("GET", "/", nil)
	req2.RemoteAddr = "10.0.0.1:12345"
	req2.Header.Set("X-Real-IP", "203.0.113.2")
	rr2 := httptest.NewRecorder()
	handler.ServeHTTP(rr2, req2)
	if rr2.Code != http.StatusTooManyRequests {
		t.Errorf("second request: expected status 429, got %d", rr2.Code)
	}
}

func TestRateLimiterRecoversAfterTime(t *testing.T) {
	reg := newTestRegistry(LimitConfig{Rate: rate.Limit(10), Burst: 1})

	handler := reg.Middleware(RouteClassDefault)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req1 := httptest.NewRequest("GET", "/", nil)
	req1.RemoteAddr = "192.168.1.1:12345"
	rr1 := httptest.NewRecorder()
	handler.ServeHTTP(rr1, req1)
	if rr1.Code != http.StatusOK {
		t.Errorf("first request: expected status 200, got %d", rr1.Code)
	}

	req2 := httptest.NewRequest("GET", "/", nil)
	req2.RemoteAddr = "192.168.1.1:12345"
	rr2 := httptest.NewRecorder()
	handler.ServeHTTP(rr2, req2)
	if rr2.Code != http.StatusTooManyRequests {
		t.Errorf("second request: expected status 429, got %d", rr2.Code)
	}

	time.Sleep(150 * time.Millisecond)

	req3 := httptest.NewRequest("GET", "/", nil)
	req3.RemoteAddr = "192.168.1.1:12345"
	rr3 := httptest.NewRecorder()
	handler.ServeHTTP(rr3, req3)
	if rr3.Code != http.StatusOK {
		t.Errorf("third request after wait: expected status 200, got %d", rr3.Code)
	}
}

func TestDefaultLimitConfigs(t *testing.T) {
	configs := DefaultLimitConfigs()

	login := configs[RouteClassLogin]
	if login.Burst != 5 {
		t.Errorf("expected login burst 5, got %d", login.Burst)
	}

	register := configs[RouteClassRegister]
	if register.Burst != 3 {
		t.Errorf("expected register burst 3, got %d", register.Burst)
	}

	authOther := configs[RouteClassAuthOther]
	if authOther.Burst != 20 {
		t.Errorf("expected auth_other burst 20, got %d", authOther.Burst)
	}

	def := configs[RouteClassDefault]
	if def.Burst != 100 {
		t.Errorf("expected default burst 100, got %d", def.Burst)
	}
}

func TestMiddlewareFallsBackToDefaultClass(t *testing.T) {
	reg := NewRateLimiterRegistry(map[RouteClass]LimitConfig{
		RouteClassDefault: {Rate: rate.Limit(1), Burst: 1},
	})

	handler := reg.Middleware(RouteClassLogin)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.168.1.1:12345"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected fallback to default class to succeed, got %d", rr.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		expected   string
	}{
		{name: "RemoteAddr only", remoteAddr: "192.168.1.1:12345", expected: "192.168.1.1:12345"},
		{name: "X-Forwarded-For single IP", remoteAddr: "10.0.0.1:12345", xff: "203.0.113.1", expected: "203.0.113.1"},
		{name: "X-Forwarded-For multiple IPs", remoteAddr: "10.0.0.1:12345", xff: "203.0.113.1, 10.0.0.1", expected: "203.0.113.1"},
		{name: "X-Real-IP", remoteAddr: "10.0.0.1:12345", xri: "203.0.113.2", expected: "203.0.113.2"},
		{name: "X-Forwarded-For takes precedence over X-Real-IP", remoteAddr: "10.0.0.1:12345", xff: "203.0.113.1", xri: "203.0.113.2", expected: "203.0.113.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}

			got := clientIP(req)
			if got != tt.expected {
				t.Errorf("clientIP() = %q, want %q", got, tt.expected)
			}
		})
	}
}
