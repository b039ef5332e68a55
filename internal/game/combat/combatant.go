// Package combat implements the tick-driven auto-battle encounter core:
// combatant state, targeting, attack resolution, death and reward
// handling, and group respawn.
package combat

import (
	"github.com/cory-johannsen/grind/internal/game/monster"
)

// Phase is the encounter lifecycle phase.
type Phase int

const (
	// PhaseIdle means no encounter is active.
	PhaseIdle Phase = iota
	// PhaseFighting means attacks accumulate and resolve each tick.
	PhaseFighting
	// PhaseDefeat means the player died; all mutation is frozen until
	// ResumeAfterDefeat.
	PhaseDefeat
)

// String returns a human-readable phase label.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFighting:
		return "fighting"
	case PhaseDefeat:
		return "defeat"
	default:
		return "unknown"
	}
}

// Combatant is the mutable state for one participant (player or monster).
//
// Invariant: 0 <= CurrentHealth <= MaxHealth.
type Combatant struct {
	// ID uniquely identifies this combatant within the encounter.
	ID string
	// Name is the display name.
	Name string
	// CurrentHealth is the current health; 0 means dead.
	CurrentHealth float64
	// MaxHealth is the health ceiling.
	MaxHealth float64
	// AttackDamage is the flat damage per hit.
	AttackDamage float64
	// AttackTimer is the seconds elapsed since the last attack trigger.
	// It increases monotonically each tick until reset to 0 on trigger.
	AttackTimer float64
	// AttackPeriod is the seconds between attack triggers.
	AttackPeriod float64
	// PendingAttack is true between an attack trigger and its animation
	// completion callback. It prevents a second attack from queuing while
	// the first is unresolved.
	PendingAttack bool
}

// IsDead reports whether this combatant has zero health.
func (c *Combatant) IsDead() bool {
	return c.CurrentHealth <= 0
}

// ApplyDamage reduces CurrentHealth by amount, flooring at zero.
//
// Precondition: amount >= 0.
// Postcondition: CurrentHealth >= 0.
func (c *Combatant) ApplyDamage(amount float64) {
	c.CurrentHealth -= amount
	if c.CurrentHealth < 0 {
		c.CurrentHealth = 0
	}
}

// HealBy restores CurrentHealth by amount, capped at MaxHealth.
//
// Precondition: amount >= 0.
// Postcondition: CurrentHealth <= MaxHealth.
func (c *Combatant) HealBy(amount float64) {
	c.CurrentHealth += amount
	if c.CurrentHealth > c.MaxHealth {
		c.CurrentHealth = c.MaxHealth
	}
}

// AttackProgress returns the cadence completion fraction in [0, 1].
func (c *Combatant) AttackProgress() float64 {
	if c.AttackPeriod <= 0 {
		return 0
	}
	p := c.AttackTimer / c.AttackPeriod
	if p > 1 {
		return 1
	}
	return p
}

// Slot is one fixed position in the active-monster sequence: a combatant
// plus the immutable template that spawned it and the slot index the
// targeting policy and animation layer use to address it.
//
// Slots are never removed or compacted: a dead slot stays in the sequence
// with CurrentHealth == 0 until the next group spawn replaces it.
type Slot struct {
	Combatant
	// Index is the slot's position, stable for the encounter's lifetime.
	Index int
	// Template is the immutable archetype this slot was drawn from.
	Template *monster.Template
}
