package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// tokenBucket: max tokens = burst, refilled at rate per second.
type tokenBucket struct {
	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// limiter keeps one bucket per client. Buckets of clients that went quiet
// expire after ttl.
type limiter struct {
	rate    float64
	burst   float64
	ttl     time.Duration
	create  sync.Mutex
	buckets *cache.Cache
}

func newLimiter(rps float64, burst int, ttl time.Duration) *limiter {
	return &limiter{
		rate:    rps,
		burst:   float64(burst),
		ttl:     ttl,
		buckets: cache.New(ttl, ttl),
	}
}

func (l *limiter) bucket(key string, now time.Time) *tokenBucket {
	if v, ok := l.buckets.Get(key); ok {
		return v.(*tokenBucket)
	}
	l.create.Lock()
	defer l.create.Unlock()
	if v, ok := l.buckets.Get(key); ok {
		return v.(*tokenBucket)
	}
	tb := &tokenBucket{tokens: l.burst, last: now}
	l.buckets.Set(key, tb, l.ttl)
	return tb
}

func (l *limiter) allow(key string) bool {
	now := time.Now()
	tb := l.bucket(key, now)
	l.buckets.Set(key, tb, l.ttl)

	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.tokens = min(l.burst, tb.tokens+now.Sub(tb.last).Seconds()*l.rate)
	tb.last = now
	if tb.tokens < 1.0 {
		return false
	}
	tb.tokens -= 1.0
	return true
}

// RateLimit limits requests per client IP.
// Example: RateLimit(120, 60) => 120 req/min with burst 60
func RateLimit(reqPerMin int, burst int) func(http.Handler) http.Handler {
	if reqPerMin <= 0 {
		// disabled
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	l := newLimiter(float64(reqPerMin)/60.0, burst, 10*time.Minute)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	// honor X-Forwarded-For if behind a proxy
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
