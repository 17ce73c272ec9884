package httpapi

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Aleph-Alpha/superheroes/internal/apperr"
)

const msgRateLimited = "Too many requests from this IP, please try again later."

// RateLimiter allows at most maxRequests requests per client IP in each fixed
// window. A client's window starts with its first request; the count resets
// once the window has passed. Idle clients are forgotten after one window.
type RateLimiter struct {
	mu          sync.Mutex
	clients     map[string]*rateClient
	maxRequests int
	window      time.Duration
	lastSweep   time.Time
	now         func() time.Time
	errors      *ErrorHandler
}

type rateClient struct {
	count   int
	resetAt time.Time
}

func NewRateLimiter(window time.Duration, maxRequests int, errs *ErrorHandler) *RateLimiter {
	if maxRequests < 1 {
		maxRequests = 1
	}
	if window <= 0 {
		window = time.Minute
	}

	return &RateLimiter{
		clients:     make(map[string]*rateClient),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
		errors:      errs,
	}
}

// Allow reports whether key may make another request now. When it may not,
// retryAfter is the time left until its window resets.
func (rl *RateLimiter) Allow(key string) (allowed bool, retryAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	c, ok := rl.clients[key]
	if !ok || !now.Before(c.resetAt) {
		c = &rateClient{resetAt: now.Add(rl.window)}
		rl.clients[key] = c
	}

	if c.count >= rl.maxRequests {
		return false, c.resetAt.Sub(now)
	}
	c.count++
	return true, 0
}

// sweep drops clients whose window has ended.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window {
		return
	}
	for key, c := range rl.clients {
		if !now.Before(c.resetAt) {
			delete(rl.clients, key)
		}
	}
	rl.lastSweep = now
}

// Middleware rejects requests over the limit with RATE_LIMIT_ERROR and a
// Retry-After header in whole seconds.
func (rl *RateLimiter) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ok, retryAfter := rl.Allow(clientIP(r)); !ok {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
				rl.errors.Write(w, r, apperr.New(apperr.KindRateLimited, msgRateLimited))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP is the peer address of the connection. Forwarding headers are not
// trusted.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
