package combat

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/grind/internal/game/monster"
	"github.com/cory-johannsen/grind/internal/game/rng"
)

// Encounter is the live state of one combat session. It is created on
// StartCombat, mutated in place through intervening group respawns, and
// discarded on EndCombat. The Controller exclusively owns it; nothing
// outside the combat package holds a reference into it.
type Encounter struct {
	// ID uniquely identifies this session.
	ID string
	// Phase is the current lifecycle phase.
	Phase Phase
	// Pool is the immutable candidate template list supplied by the caller.
	Pool []*monster.Template
	// MobCount is the group size, fixed for the encounter's lifetime.
	MobCount int
	// Slots is the active-monster sequence, always exactly MobCount long.
	Slots []*Slot
	// TargetIndex indexes Slots; it refers to a living slot whenever any
	// living slot exists.
	TargetIndex int
	// Player is the player's combat state for this session.
	Player Combatant
}

// NewEncounter creates an Encounter in PhaseIdle with no slots spawned.
//
// Precondition: pool must be non-empty; mobCount >= 1.
func NewEncounter(pool []*monster.Template, mobCount int) *Encounter {
	return &Encounter{
		ID:       uuid.New().String(),
		Phase:    PhaseIdle,
		Pool:     pool,
		MobCount: mobCount,
	}
}

// SpawnGroup replaces all slots with a freshly drawn monster group: each
// slot independently draws one template from the pool, uniformly and with
// replacement. Timers reset to zero and the target returns to slot 0.
//
// Precondition: src must be non-nil; e.Pool must be non-empty.
// Postcondition: len(e.Slots) == e.MobCount; every slot is alive at its
// template's full health; e.TargetIndex == 0.
func (e *Encounter) SpawnGroup(src rng.Source) {
	slots := make([]*Slot, e.MobCount)
	for i := range slots {
		tmpl := e.Pool[src.Intn(len(e.Pool))]
		slots[i] = &Slot{
			Combatant: Combatant{
				ID:            fmt.Sprintf("%s-%d-%s", tmpl.ID, i, uuid.New().String()[:8]),
				Name:          tmpl.Name,
				CurrentHealth: tmpl.MaxHealth,
				MaxHealth:     tmpl.MaxHealth,
				AttackDamage:  tmpl.AttackDamage,
				AttackPeriod:  tmpl.AttackPeriod,
			},
			Index:    i,
			Template: tmpl,
		}
	}
	e.Slots = slots
	e.TargetIndex = 0
}

// LivingCount returns the number of slots with CurrentHealth > 0.
func (e *Encounter) LivingCount() int {
	n := 0
	for _, s := range e.Slots {
		if !s.IsDead() {
			n++
		}
	}
	return n
}

// AllDead reports whether every slot is dead. An encounter with no slots
// spawned yet reports true.
func (e *Encounter) AllDead() bool {
	return e.LivingCount() == 0
}
