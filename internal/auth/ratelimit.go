package auth

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/HMB-research/open-accounting/internal/apierror"
)

// RouteClass groups routes that share a rate-limit bucket (§4.8).
type RouteClass string

const (
	RouteClassLogin     RouteClass = "login"
	RouteClassRegister  RouteClass = "register"
	RouteClassAuthOther RouteClass = "auth_other"
	RouteClassDefault   RouteClass = "default"
)

// LimitConfig is one route class's token-bucket parameters.
type LimitConfig struct {
	Rate  rate.Limit
	Burst int
}

// DefaultLimitConfigs are the §4.8 defaults: login 5/minute, register
// 3/5-minutes, other auth 20/minute, everything else 100/minute.
func DefaultLimitConfigs() map[RouteClass]LimitConfig {
	return map[RouteClass]LimitConfig{
		RouteClassLogin:     {Rate: rate.Limit(5.0 / 60.0), Burst: 5},
		RouteClassRegister:  {Rate: rate.Limit(3.0 / 300.0), Burst: 3},
		RouteClassAuthOther: {Rate: rate.Limit(20.0 / 60.0), Burst: 20},
		RouteClassDefault:   {Rate: rate.Limit(100.0 / 60.0), Burst: 100},
	}
}

// ipLimiter is a token bucket per remote IP for a single route class, with a
// background sweep that evicts visitors idle past cleanup.
type ipLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	cfg      LimitConfig
	cleanup  time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(cfg LimitConfig) *ipLimiter {
	l := &ipLimiter{
		visitors: make(map[string]*visitor),
		cfg:      cfg,
		cleanup:  3 * time.Minute,
	}
	go l.sweep()
	return l
}

func (l *ipLimiter) sweep() {
	for {
		time.Sleep(l.cleanup)
		l.mu.Lock()
		for ip, v := range l.visitors {
			if time.Since(v.lastSeen) > l.cleanup {
				delete(l.visitors, ip)
			}
		}
		l.mu.Unlock()
	}
}

func (l *ipLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.cfg.Rate, l.cfg.Burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// RateLimiterRegistry holds one ipLimiter per route class.
type RateLimiterRegistry struct {
	limiters map[RouteClass]*ipLimiter
}

// NewRateLimiterRegistry builds a registry from the given per-class configs.
func NewRateLimiterRegistry(configs map[RouteClass]LimitConfig) *RateLimiterRegistry {
	reg := &RateLimiterRegistry{limiters: make(map[RouteClass]*ipLimiter, len(configs))}
	for class, cfg := range configs {
		reg.limiters[class] = newIPLimiter(cfg)
	}
	return reg
}

// clientIP extracts the client IP with the precedence the audit recorder
// uses for remote-address capture: X-Forwarded-For, then X-Real-IP, then
// RemoteAddr.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// Middleware builds http middleware that rate-limits by (client IP, class).
// Exceeding the bucket returns 429 with Retry-After and X-RateLimit-* headers
// per §4.8, via the standard error envelope (§6).
func (reg *RateLimiterRegistry) Middleware(class RouteClass) func(http.Handler) http.Handler {
	limiter, ok := reg.limiters[class]
	if !ok {
		limiter = reg.limiters[RouteClassDefault]
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			rl := limiter.get(ip)

			now := time.Now()
			reservation := rl.ReserveN(now, 1)
			if !reservation.OK() {
				writeRateLimited(w, 1)
				return
			}

			delay := reservation.DelayFrom(now)
			if delay > 0 {
				reservation.CancelAt(now)
				retryAfter := int(delay.Seconds()) + 1
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.cfg.Burst))
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(now.Add(delay).Unix(), 10))
				writeRateLimited(w, retryAfter)
				return
			}

			tokens := int(rl.Tokens())
			if tokens < 0 {
				tokens = 0
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.cfg.Burst))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(tokens))
			next.ServeHTTP(w, r)
		})
	}
}

func writeRateLimited(w http.ResponseWriter, retryAfterSeconds int) {
	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds))
	apierror.WriteJSON(w, "", apierror.New(apierror.RateLimited, "Too many requests. Please try again later."))
}
