package engine

import (
	"sync"
	"time"
)

// DelayedAnimator simulates the presentation layer's timed attack effects:
// each attack request resolves its completion callback after a fixed lead
// on a one-shot timer. A zero lead resolves synchronously.
//
// All slots report in range; slot world positions are a fixed horizontal
// spread so consumers have stable coordinates to render against.
type DelayedAnimator struct {
	lead    time.Duration
	mu      sync.Mutex
	stopped bool
}

// NewDelayedAnimator creates a DelayedAnimator with the given lead.
//
// Precondition: lead >= 0.
func NewDelayedAnimator(lead time.Duration) *DelayedAnimator {
	return &DelayedAnimator{lead: lead}
}

// RequestPlayerAttack schedules onHit with the unmodified damage after the
// configured lead.
func (a *DelayedAnimator) RequestPlayerAttack(damage float64, targetSlot int, onHit func(damage float64, targetSlot int)) {
	a.after(func() { onHit(damage, targetSlot) })
}

// RequestMonsterAttack schedules onComplete after the configured lead.
func (a *DelayedAnimator) RequestMonsterAttack(slot int, onComplete func()) {
	a.after(onComplete)
}

// IsSlotInRange always reports true: the headless simulation keeps every
// monster in engagement range.
func (a *DelayedAnimator) IsSlotInRange(slot int) bool {
	return true
}

// SlotWorldPosition returns a fixed per-slot position.
func (a *DelayedAnimator) SlotWorldPosition(slot int) (x, y float64) {
	return float64(slot) * 2.0, 0
}

// Stop suppresses pending and future callbacks. Safe to call multiple
// times. A callback already past its stopped check may still complete
// concurrently with Stop.
func (a *DelayedAnimator) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
}

// after runs fn following the configured lead unless the animator has been
// stopped. A zero lead runs fn synchronously.
func (a *DelayedAnimator) after(fn func()) {
	a.mu.Lock()
	stopped := a.stopped
	a.mu.Unlock()
	if stopped {
		return
	}
	if a.lead <= 0 {
		fn()
		return
	}
	time.AfterFunc(a.lead, func() {
		a.mu.Lock()
		s := a.stopped
		a.mu.Unlock()
		if !s {
			fn()
		}
	})
}
