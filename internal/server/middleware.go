package server

import (
	"log/slog"
	"net"
	"net/http"

	"roomrank/internal/metrics"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// ClientHeader carries the client identity.
const ClientHeader = "X-Client-Token"

// RateLimiter limits requests per peer address and, for identified requests,
// per client as well. A request must fit both budgets, so rotating client
// tokens does not escape the address limit. Limiters of the least recently
// seen keys are evicted once the table is full.
type RateLimiter struct {
	limiters *lru.Cache[string, *rate.Limiter]
	rate     rate.Limit
	burst    int
	identify func(*http.Request) string
	metrics  *metrics.Metrics
}

// NewRateLimiter creates a limiter allowing r requests per second with burst b
// for each of up to size addresses and clients.
func NewRateLimiter(r rate.Limit, b, size int, identify func(*http.Request) string, m *metrics.Metrics) (*RateLimiter, error) {
	cache, err := lru.New[string, *rate.Limiter](size)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{
		limiters: cache,
		rate:     r,
		burst:    b,
		identify: identify,
		metrics:  m,
	}, nil
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	if l, ok := rl.limiters.Get(key); ok {
		return l
	}
	l := rate.NewLimiter(rl.rate, rl.burst)
	// a concurrent request may have stored one first
	if prev, ok, _ := rl.limiters.PeekOrAdd(key, l); ok {
		return prev
	}
	return l
}

// allow takes a token from the address limiter, then from the client one.
func (rl *RateLimiter) allow(ip, client string) bool {
	if !rl.limiter("ip:" + ip).Allow() {
		return false
	}
	return client == "" || rl.limiter("client:"+client).Allow()
}

// Middleware rejects requests over the address or client limit with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := remoteIP(r)
		client := rl.identify(r)
		if !rl.allow(ip, client) {
			slog.Warn("Rate limited", "address", ip, "client", client, "path", r.URL.Path)
			rl.metrics.ObserveRateLimited()
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequestSizeLimiter caps request bodies at maxBytes.
func RequestSizeLimiter(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// remoteIP returns the host part of the peer address.
func remoteIP(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
