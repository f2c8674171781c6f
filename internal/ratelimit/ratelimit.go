// Package ratelimit throttles requests per client address.
package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Limiter hands out one token bucket per client. Buckets idle for longer than
// the TTL are evicted.
type Limiter struct {
	limit   rate.Limit
	burst   int
	clients *gocache.Cache
	mu      sync.Mutex
}

// New returns a limiter allowing limit requests per second with the given
// burst. A non-positive limit disables limiting.
func New(limit float64, burst int, ttl time.Duration) *Limiter {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		limit:   rate.Limit(limit),
		burst:   burst,
		clients: gocache.New(ttl, ttl),
	}
}

// Allow reports whether the client identified by key may proceed.
func (l *Limiter) Allow(key string) bool {
	if l == nil || l.limit <= 0 {
		return true
	}
	return l.bucket(key).Allow()
}

func (l *Limiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, ok := l.clients.Get(key); ok {
		bucket := cached.(*rate.Limiter)
		l.clients.SetDefault(key, bucket)
		return bucket
	}
	bucket := rate.NewLimiter(l.limit, l.burst)
	l.clients.SetDefault(key, bucket)
	return bucket
}

// Middleware rejects requests over the limit with 429.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(ClientKey(r)) {
			w.Header().Set("Retry-After", "1")
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientKey returns the host part of the request's remote address.
func ClientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
