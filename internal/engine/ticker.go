// Package engine provides the simulation drivers: the fixed-interval tick
// loop and the delayed attack animator.
package engine

import (
	"sync"
	"time"
)

// Ticker runs registered callbacks at a fixed interval, passing each the
// measured elapsed seconds since its previous invocation. Callbacks are
// invoked sequentially on the ticker goroutine.
//
// Invariant: all callbacks are invoked at most once per interval.
type Ticker struct {
	interval time.Duration
	mu       sync.Mutex
	ticks    map[string]func(dt float64)
	done     chan struct{}
	once     sync.Once
}

// NewTicker returns a Ticker that fires every interval once started.
//
// Precondition: interval must be > 0.
func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		panic("engine.NewTicker: interval must be > 0")
	}
	return &Ticker{
		interval: interval,
		ticks:    make(map[string]func(dt float64)),
		done:     make(chan struct{}),
	}
}

// Register registers a callback under name. Replaces any existing callback.
func (t *Ticker) Register(name string, fn func(dt float64)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.ticks[name] = fn
}

// Unregister removes the callback for name.
func (t *Ticker) Unregister(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.ticks, name)
}

// Start runs the tick loop, blocking until Stop is called.
//
// Postcondition: all registered callbacks are invoked once per interval
// with the wall-clock seconds elapsed since the previous tick.
func (t *Ticker) Start() error {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-t.done:
			return nil
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now

			t.mu.Lock()
			callbacks := make([]func(dt float64), 0, len(t.ticks))
			for _, fn := range t.ticks {
				callbacks = append(callbacks, fn)
			}
			t.mu.Unlock()

			for _, fn := range callbacks {
				fn(dt)
			}
		}
	}
}

// Stop terminates the tick loop. Safe to call multiple times.
func (t *Ticker) Stop() {
	t.once.Do(func() { close(t.done) })
}
