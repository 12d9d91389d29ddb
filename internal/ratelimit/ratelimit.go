// Package ratelimit throttles login attempts with fixed-window counters.
package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/erazemk/sneakerbox/internal/metrics"
)

// Counter increments a key, setting ttl when the key is first created.
type Counter interface {
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}

// Limiter allows at most Limit attempts per client IP in each Window.
// Proxy headers are only consulted when TrustProxy is set.
type Limiter struct {
	Counter    Counter
	Name       string
	Window     time.Duration
	Limit      int
	TrustProxy bool
	Metrics    *metrics.Metrics
}

func (l *Limiter) enabled() bool {
	return l != nil && l.Counter != nil && l.Window > 0 && l.Limit > 0
}

func (l *Limiter) key(ip string) string {
	name := l.Name
	if name == "" {
		name = "login"
	}
	return fmt.Sprintf("rl:ip:%s:%s", name, ip)
}

// Allow counts one attempt from ip and reports whether it is within the limit.
func (l *Limiter) Allow(ctx context.Context, ip string) (bool, error) {
	if !l.enabled() || ip == "" {
		return true, nil
	}
	count, err := l.Counter.IncrWithTTL(ctx, l.key(ip), l.Window)
	if err != nil {
		return false, fmt.Errorf("counting attempt: %w", err)
	}
	return count <= int64(l.Limit), nil
}

// Middleware rejects requests over the limit with 429. A counter failure
// lets the request through.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	if !l.enabled() {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r, l.TrustProxy)
		ok, err := l.Allow(r.Context(), ip)
		if err != nil {
			slog.Error("rate limiter unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if !ok {
			slog.Warn("login throttled", "ip", ip, "limit", l.Limit, "window", l.Window)
			l.Metrics.LoginThrottled()
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(l.Window.Seconds())))
			http.Error(w, "too many login attempts, try again later", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the caller's address. Without trustProxy it is always
// the connection's remote host. With it, X-Real-IP wins, then the last
// X-Forwarded-For hop, which is the one the proxy appended.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
			return ip
		}
		if header := r.Header.Get("X-Forwarded-For"); header != "" {
			parts := strings.Split(header, ",")
			for i := len(parts) - 1; i >= 0; i-- {
				if ip := strings.TrimSpace(parts[i]); ip != "" {
					return ip
				}
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
