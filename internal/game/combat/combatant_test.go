package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/grind/internal/game/combat"
)

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "idle", combat.PhaseIdle.String())
	assert.Equal(t, "fighting", combat.PhaseFighting.String())
	assert.Equal(t, "defeat", combat.PhaseDefeat.String())
	assert.Equal(t, "unknown", combat.Phase(99).String())
}

func TestCombatant_ApplyDamage_FloorsAtZero(t *testing.T) {
	c := combat.Combatant{CurrentHealth: 10, MaxHealth: 30}
	c.ApplyDamage(4)
	assert.Equal(t, 6.0, c.CurrentHealth)
	assert.False(t, c.IsDead())

	c.ApplyDamage(100)
	assert.Equal(t, 0.0, c.CurrentHealth)
	assert.True(t, c.IsDead())
}

func TestCombatant_HealBy_CapsAtMax(t *testing.T) {
	c := combat.Combatant{CurrentHealth: 25, MaxHealth: 30}
	c.HealBy(3)
	assert.Equal(t, 28.0, c.CurrentHealth)
	c.HealBy(10)
	assert.Equal(t, 30.0, c.CurrentHealth)
}

func TestCombatant_AttackProgress(t *testing.T) {
	c := combat.Combatant{AttackTimer: 0.75, AttackPeriod: 1.5}
	assert.InDelta(t, 0.5, c.AttackProgress(), 1e-9)

	c.AttackTimer = 3.0
	assert.Equal(t, 1.0, c.AttackProgress(), "progress clamps at 1")

	c.AttackPeriod = 0
	assert.Equal(t, 0.0, c.AttackProgress())
}

// TestCombatant_Property_HealthBounds verifies the health invariant under
// arbitrary damage/heal sequences.
func TestCombatant_Property_HealthBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		maxHealth := rapid.Float64Range(1, 1000).Draw(rt, "max_health")
		c := combat.Combatant{CurrentHealth: maxHealth, MaxHealth: maxHealth}

		ops := rapid.IntRange(1, 40).Draw(rt, "ops")
		for i := 0; i < ops; i++ {
			amount := rapid.Float64Range(0, maxHealth*2).Draw(rt, "amount")
			if rapid.Bool().Draw(rt, "heal") {
				c.HealBy(amount)
			} else {
				c.ApplyDamage(amount)
			}
			assert.GreaterOrEqual(rt, c.CurrentHealth, 0.0)
			assert.LessOrEqual(rt, c.CurrentHealth, c.MaxHealth)
		}
	})
}
