package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/planora/server/internal/config"
)

type RateLimitTier string

const (
	TierPublic RateLimitTier = "public"
	TierLogin  RateLimitTier = "login" // Aggressive rate limiting for login attempts
)

const rateLimitTierKey contextKey = "rateLimitTier"

// limiterTTL is how long an idle client entry survives before cleanup.
const limiterTTL = 15 * time.Minute

func WithRateLimitTier(tier RateLimitTier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), rateLimitTierKey, tier)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RateLimit applies a per-client token bucket. The tier comes from the
// request context (default public); the login tier refills over 15 minutes
// to slow credential stuffing.
func RateLimit(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	store := newLimiterStore(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/healthz" || r.URL.Path == "/readyz" {
				next.ServeHTTP(w, r)
				return
			}

			tier := TierPublic
			if value, ok := r.Context().Value(rateLimitTierKey).(RateLimitTier); ok {
				tier = value
			}

			limiter := store.limiter(tier, clientKey(r))
			if limiter == nil {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow() {
				retryAfter := "60"
				if tier == TierLogin {
					retryAfter = "180"
				}
				w.Header().Set("Retry-After", retryAfter)
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// limiterStore holds one token bucket per (tier, client) pair. Idle entries
// are swept inline on the first lookup after limiterTTL elapses, so the
// store needs no background goroutine and no lifecycle hooks.
type limiterStore struct {
	mu          sync.Mutex
	limiters    map[string]*limiterEntry
	cfg         config.RateLimitConfig
	lastCleanup time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterStore(cfg config.RateLimitConfig) *limiterStore {
	return &limiterStore{
		limiters:    make(map[string]*limiterEntry),
		cfg:         cfg,
		lastCleanup: time.Now(),
	}
}

func (s *limiterStore) limiter(tier RateLimitTier, key string) *rate.Limiter {
	var limit rate.Limit
	var burst int
	switch tier {
	case TierLogin:
		if s.cfg.LoginPer15Minutes <= 0 {
			return nil
		}
		limit = rate.Limit(float64(s.cfg.LoginPer15Minutes) / (15 * 60))
		burst = s.cfg.LoginPer15Minutes
	default:
		if s.cfg.PublicPerMinute <= 0 {
			return nil
		}
		limit = rate.Limit(float64(s.cfg.PublicPerMinute) / 60)
		burst = s.cfg.PublicPerMinute
	}

	lookup := string(tier) + ":" + key
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastCleanup) >= limiterTTL {
		cutoff := now.Add(-limiterTTL)
		for k, entry := range s.limiters {
			if entry.lastSeen.Before(cutoff) {
				delete(s.limiters, k)
			}
		}
		s.lastCleanup = now
	}

	if entry, ok := s.limiters[lookup]; ok {
		entry.lastSeen = now
		return entry.limiter
	}

	entry := &limiterEntry{
		limiter:  rate.NewLimiter(limit, burst),
		lastSeen: now,
	}
	s.limiters[lookup] = entry
	return entry.limiter
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
