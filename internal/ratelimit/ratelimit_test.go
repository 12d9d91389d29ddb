package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/sneakerbox/internal/metrics"
)

type fakeCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	ttls   map[string]time.Duration
	err    error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCounter) IncrWithTTL(_ context.Context, key string, ttl time.Duration) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.counts[key]++
	if f.counts[key] == 1 {
		f.ttls[key] = ttl
	}
	return f.counts[key], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func post(h http.Handler, remote string) int {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestMiddlewareBlocksOverLimit(t *testing.T) {
	counter := newFakeCounter()
	l := &Limiter{Counter: counter, Window: time.Minute, Limit: 2, Metrics: metrics.New(prometheus.NewRegistry())}
	h := l.Middleware(okHandler())

	assert.Equal(t, http.StatusOK, post(h, "1.2.3.4:1000"))
	assert.Equal(t, http.StatusOK, post(h, "1.2.3.4:1001"))
	assert.Equal(t, http.StatusTooManyRequests, post(h, "1.2.3.4:1002"))
	assert.Equal(t, http.StatusOK, post(h, "5.6.7.8:1000"))

	assert.Equal(t, time.Minute, counter.ttls["rl:ip:login:1.2.3.4"])
}

func TestMiddlewareFailsOpen(t *testing.T) {
	counter := newFakeCounter()
	counter.err = errors.New("redis down")
	l := &Limiter{Counter: counter, Window: time.Minute, Limit: 1}

	assert.Equal(t, http.StatusOK, post(l.Middleware(okHandler()), "1.2.3.4:1"))
}

func TestDisabledLimiterPassesThrough(t *testing.T) {
	var l *Limiter
	h := l.Middleware(okHandler())
	for range 5 {
		assert.Equal(t, http.StatusOK, post(h, "1.2.3.4:1"))
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", ClientIP(req, false))
	assert.Equal(t, "10.0.0.1", ClientIP(req, true))

	req.Header.Set("X-Forwarded-For", " 10.0.0.3 , 10.0.0.4")
	assert.Equal(t, "10.0.0.1", ClientIP(req, false))
	assert.Equal(t, "10.0.0.4", ClientIP(req, true))

	req.Header.Set("X-Real-IP", "10.0.0.2")
	assert.Equal(t, "10.0.0.1", ClientIP(req, false))
	assert.Equal(t, "10.0.0.2", ClientIP(req, true))
}

func TestSpoofedForwardedForStillThrottled(t *testing.T) {
	l := &Limiter{Counter: newFakeCounter(), Window: time.Minute, Limit: 2}
	h := l.Middleware(okHandler())

	codes := make([]int, 0, 3)
	for i := range 3 {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "1.2.3.4:1000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestTrustedProxyKeysOnForwardedFor(t *testing.T) {
	counter := newFakeCounter()
	l := &Limiter{Counter: counter, Window: time.Minute, Limit: 1, TrustProxy: true}
	h := l.Middleware(okHandler())

	for _, client := range []string{"203.0.113.1", "203.0.113.2"} {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "127.0.0.1:1000"
		req.Header.Set("X-Forwarded-For", client)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, int64(1), counter.counts["rl:ip:login:203.0.113.1"])
	assert.Equal(t, int64(1), counter.counts["rl:ip:login:203.0.113.2"])
}

func TestMemoryCounterWindows(t *testing.T) {
	c := NewMemoryCounter()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	n, err := c.IncrWithTTL(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, _ = c.IncrWithTTL(ctx, "k", time.Minute)
	assert.Equal(t, int64(2), n)

	now = now.Add(time.Minute)
	n, _ = c.IncrWithTTL(ctx, "k", time.Minute)
	assert.Equal(t, int64(1), n)
}
