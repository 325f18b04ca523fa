package httpapi

import (
	"net/http"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

const maxTrackedLimiters = 10000

// RateLimiter throttles requests per authenticated user, falling back to the
// remote address. Limiters of inactive keys are evicted by the LRU.
type RateLimiter struct {
	mu       sync.Mutex
	limiters *lru.Cache[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

// NewRateLimiter allows n requests per period. n <= 0 disables limiting.
func NewRateLimiter(n int, period time.Duration) (*RateLimiter, error) {
	cache, err := lru.New[string, *rate.Limiter](maxTrackedLimiters)
	if err != nil {
		return nil, err
	}
	rl := &RateLimiter{limiters: cache, limit: rate.Inf}
	if n > 0 {
		rl.limit = rate.Every(period / time.Duration(n))
		rl.burst = n
	}
	return rl, nil
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, ok := rl.limiters.Get(key)
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters.Add(key, l)
	}
	return l
}

// Allow reports whether a request for key may proceed now.
func (rl *RateLimiter) Allow(key string) bool {
	if rl.limit == rate.Inf {
		return true
	}
	return rl.limiter(key).Allow()
}

func (s *Server) rateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := userIDFrom(r.Context())
			if key == "" {
				key = r.RemoteAddr
			}
			if !rl.Allow(key) {
				s.logger.Warn(r.Context(), "rate limit exceeded", "key", key, "path", r.URL.Path)
				w.Header().Set("Retry-After", "60")
				writeJSON(w, http.StatusTooManyRequests, errorResponse{
					Error:   "rate_limited",
					Message: "Too many requests, try again later",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
