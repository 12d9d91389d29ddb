// Package rotation keeps a periodically re-picked value, such as the public
// collection preview or the displayed quote.
package rotation

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const defaultInterval = 7 * time.Second

// PickFunc produces the next value.
type PickFunc[T any] func(ctx context.Context) (T, error)

// Rotator re-picks a value on a fixed interval. Readers always see the last
// successful pick.
type Rotator[T any] struct {
	name     string
	interval time.Duration
	pick     PickFunc[T]

	mu      sync.RWMutex
	current T
	picked  time.Time
}

// New builds a rotator. A non-positive interval uses the default of seven
// seconds.
func New[T any](name string, interval time.Duration, pick PickFunc[T]) *Rotator[T] {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Rotator[T]{name: name, interval: interval, pick: pick}
}

// Interval returns the rotation period.
func (r *Rotator[T]) Interval() time.Duration {
	return r.interval
}

// Run picks once immediately and then on every tick until ctx is canceled.
func (r *Rotator[T]) Run(ctx context.Context) error {
	r.Refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.Refresh(ctx)
		}
	}
}

// Refresh picks a new value now. A failed pick is logged and the previous
// value is kept.
func (r *Rotator[T]) Refresh(ctx context.Context) {
	v, err := r.pick(ctx)
	if err != nil {
		if ctx.Err() == nil {
			slog.Error("rotation pick failed", "rotator", r.name, "error", err)
		}
		return
	}

	r.mu.Lock()
	r.current = v
	r.picked = time.Now()
	r.mu.Unlock()
}

// Current returns the last picked value.
func (r *Rotator[T]) Current() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// PickedAt returns when the current value was picked, or the zero time.
func (r *Rotator[T]) PickedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.picked
}
