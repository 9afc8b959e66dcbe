package serverutil

import (
	"net"
	"net/http"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	seyerrs "github.com/jdholdren/murmur/internal/errors"
)

// RateLimiter hands out one token bucket per client key. Only the most recently
// seen keys keep a bucket.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

// NewRateLimiter allows perSecond requests per key with bursts of up to burst,
// tracking at most maxKeys keys.
func NewRateLimiter(perSecond float64, burst, maxKeys int) (*RateLimiter, error) {
	cache, err := lru.New[string, *rate.Limiter](maxKeys)
	if err != nil {
		return nil, err
	}

	return &RateLimiter{
		limiters: cache,
		limit:    rate.Limit(perSecond),
		burst:    burst,
	}, nil
}

// Allow reports whether a request for key may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	l, ok := rl.limiters.Get(key)
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters.Add(key, l)
	}
	rl.mu.Unlock()

	return l.Allow()
}

// Middleware rejects requests over the client IP's budget with a 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	reject := HandlerFuncE(func(w http.ResponseWriter, r *http.Request) error {
		return seyerrs.E("rate limit exceeded", http.StatusTooManyRequests)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientIP(r)) {
			reject.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP keys on the connection's address. Behind a proxy every client shares
// the proxy's bucket unless the server rewrites RemoteAddr from forwarding
// headers first (see api.ServerConfig.TrustProxyHeaders).
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
