package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/hlog"
	"golang.org/x/time/rate"
)

type clientLimiters struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      rate.Limit
	burst    int
	counter  atomic.Int64
}

func newClientLimiters(rps float64, burst int) *clientLimiters {
	return &clientLimiters{
		limiters: make(map[string]*rate.Limiter),
		rps:      rate.Limit(rps),
		burst:    burst,
	}
}

func (s *clientLimiters) get(client string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.limiters[client]
	if !ok {
		l = rate.NewLimiter(s.rps, s.burst)
		s.limiters[client] = l
	}

	// every 1000 lookups, drop idle clients
	if s.counter.Add(1)%1000 == 0 {
		s.evictIdle()
	}
	return l
}

// evictIdle removes clients whose bucket has refilled completely.
func (s *clientLimiters) evictIdle() {
	for client, l := range s.limiters {
		if l.Tokens() >= float64(s.burst) {
			delete(s.limiters, client)
		}
	}
}

// ClientLimiter returns middleware enforcing a token bucket per client IP.
// With rps <= 0 it passes every request through.
func ClientLimiter(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst <= 0 {
		burst = max(1, int(rps))
	}
	store := newClientLimiters(rps, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !store.get(ip).Allow() {
				hlog.FromRequest(r).Warn().Str("client", ip).Msg("client rate limit exceeded")

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"success":    false,
					"error":      "Too many requests, please slow down.",
					"retryAfter": 1,
					"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP keys buckets on the connection address. Forwarding headers are
// only honored when the router rewrites RemoteAddr from them for a trusted proxy.
func clientIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
