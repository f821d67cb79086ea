package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"mercator-hq/jobscan/pkg/api"
	"mercator-hq/jobscan/pkg/config"
)

// idleLimiterTTL is how long an idle client's bucket is kept.
const idleLimiterTTL = 10 * time.Minute

// RateLimit applies a token bucket per client IP and answers 429 when the
// bucket is empty. The client IP is taken from the connection; forwarding
// headers are not trusted.
func RateLimit(cfg *config.RateLimitConfig) Middleware {
	return func(next http.Handler) http.Handler {
		if cfg == nil || !cfg.Enabled {
			return next
		}

		limiter := NewIPLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			if limiter.Allow(key) {
				next.ServeHTTP(w, r)
				return
			}

			slog.WarnContext(r.Context(), "request rejected by rate limiter",
				"client", key,
				"path", r.URL.Path,
			)
			w.Header().Set("Retry-After", strconv.Itoa(limiter.RetryAfter()))
			api.WriteError(w, http.StatusTooManyRequests, api.MsgTooManyRequests)
		})
	}
}

// IPLimiter holds one rate.Limiter per client key.
type IPLimiter struct {
	limit rate.Limit
	burst int

	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
	now       func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPLimiter creates a per-key limiter allowing limit events per second
// with the given burst.
func NewIPLimiter(limit rate.Limit, burst int) *IPLimiter {
	return &IPLimiter{
		limit:   limit,
		burst:   burst,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

// Allow reports whether an event for key may happen now.
func (l *IPLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	c, ok := l.clients[key]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = c
	}
	c.lastSeen = now

	return c.limiter.AllowN(now, 1)
}

// RetryAfter is the whole number of seconds until one token is refilled.
func (l *IPLimiter) RetryAfter() int {
	if l.limit <= 0 {
		return 1
	}
	return int(math.Max(1, math.Ceil(1/float64(l.limit))))
}

// Len returns the number of tracked clients.
func (l *IPLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.clients)
}

// sweep drops idle clients at most once per TTL. Callers hold l.mu.
func (l *IPLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < idleLimiterTTL {
		return
	}
	l.lastSweep = now

	for key, c := range l.clients {
		if now.Sub(c.lastSeen) > idleLimiterTTL {
			delete(l.clients, key)
		}
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
