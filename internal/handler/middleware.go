package handler

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// SecurityHeaders sets the response headers of a JSON API that is never
// rendered as a page or framed. Intake responses are not cacheable.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		if r.Method == http.MethodPost {
			h.Set("Cache-Control", "no-store")
		}
		next.ServeHTTP(w, r)
	})
}

const rateWindow = time.Minute

// RateLimiter limits intake submissions per client IP over a sliding
// one-minute window.
type RateLimiter struct {
	limit          int
	trustedProxies int
	now            func() time.Time

	mu   sync.Mutex
	hits map[string][]time.Time
}

// LimiterOption configures a RateLimiter.
type LimiterOption func(*RateLimiter)

// WithTrustedProxies sets how many reverse proxies append to
// X-Forwarded-For in front of the service. Zero ignores the header.
func WithTrustedProxies(n int) LimiterOption {
	return func(rl *RateLimiter) { rl.trustedProxies = n }
}

// NewRateLimiter allows perMinute submissions per client. It assumes one
// trusted reverse proxy unless told otherwise. Idle clients are forgotten
// every few minutes until ctx is done.
func NewRateLimiter(ctx context.Context, perMinute int, opts ...LimiterOption) *RateLimiter {
	rl := &RateLimiter{
		limit:          perMinute,
		trustedProxies: 1,
		now:            time.Now,
		hits:           make(map[string][]time.Time),
	}
	for _, opt := range opts {
		opt(rl)
	}
	go rl.sweepLoop(ctx)
	return rl
}

// take records a submission for client. When the window is full it
// returns false and how long until the oldest hit expires.
func (rl *RateLimiter) take(client string) (bool, time.Duration) {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	recent := prune(rl.hits[client], now.Add(-rateWindow))
	if len(recent) >= rl.limit {
		rl.hits[client] = recent
		return false, recent[0].Add(rateWindow).Sub(now)
	}
	rl.hits[client] = append(recent, now)
	return true, 0
}

// prune drops hits at or before cutoff, reusing the backing array.
func prune(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

func (rl *RateLimiter) sweep() {
	cutoff := rl.now().Add(-rateWindow)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for client, hits := range rl.hits {
		if hits = prune(hits, cutoff); len(hits) == 0 {
			delete(rl.hits, client)
		} else {
			rl.hits[client] = hits
		}
	}
}

func (rl *RateLimiter) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

// Middleware rejects over-limit requests with 429 and Retry-After.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ok, wait := rl.take(clientIP(r, rl.trustedProxies))
		if !ok {
			w.Header().Set("Retry-After", retryAfterSeconds(wait))
			writeFailure(w, http.StatusTooManyRequests, "rate_limited",
				"Too many requests. Please try again shortly.", errorTypeRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// retryAfterSeconds rounds d up to whole seconds, at least 1.
func retryAfterSeconds(d time.Duration) string {
	secs := int((d + time.Second - 1) / time.Second)
	return strconv.Itoa(max(secs, 1))
}

// clientIP returns the address the nearest trusted proxy saw. Entries left
// of it in X-Forwarded-For are client-controlled and ignored.
func clientIP(r *http.Request, trustedProxies int) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && trustedProxies > 0 {
		hops := strings.Split(xff, ",")
		if i := len(hops) - trustedProxies; i >= 0 {
			if ip := strings.TrimSpace(hops[i]); ip != "" {
				return ip
			}
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
