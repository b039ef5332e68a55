// Package progression implements the in-memory character progression
// service: level, experience, gold, and the canonical health pool.
package progression

import (
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/grind/internal/game/stats"
)

// Growth describes how base stats scale with level.
type Growth struct {
	// HealthPerLevel is added to base max health on each level-up.
	HealthPerLevel float64
	// DamagePerLevel is added to base attack damage on each level-up.
	DamagePerLevel float64
	// XPPerLevel scales the experience required for the next level:
	// requirement = XPPerLevel * currentLevel.
	XPPerLevel int
}

// DefaultGrowth is the growth curve used when the caller supplies none.
var DefaultGrowth = Growth{
	HealthPerLevel: 10,
	DamagePerLevel: 2,
	XPPerLevel:     100,
}

// Character is the player's persistent progression state.
// All methods are safe for concurrent use.
//
// Invariant: 0 <= currentHealth <= MaxHealth(); level >= 1; xp and gold >= 0.
type Character struct {
	mu            sync.RWMutex
	name          string
	level         int
	xp            int
	gold          int
	currentHealth float64
	base          stats.Base
	growth        Growth
	logger        *zap.Logger
}

// NewCharacter creates a level-1 character at full health.
//
// Precondition: base.MaxHealth > 0; logger must be non-nil.
// Postcondition: Returns a non-nil Character with CurrentHealth == MaxHealth.
func NewCharacter(name string, base stats.Base, growth Growth, logger *zap.Logger) *Character {
	if growth.XPPerLevel <= 0 {
		growth = DefaultGrowth
	}
	return &Character{
		name:          name,
		level:         1,
		currentHealth: base.MaxHealth,
		base:          base,
		growth:        growth,
		logger:        logger,
	}
}

// Name returns the character's display name.
func (c *Character) Name() string { return c.name }

// Level returns the current level.
func (c *Character) Level() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.level
}

// XP returns the experience accumulated toward the next level.
func (c *Character) XP() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.xp
}

// Gold returns the current gold balance.
func (c *Character) Gold() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gold
}

// BaseStats returns the character's intrinsic stat block at the current
// level, before equipment and talents.
func (c *Character) BaseStats() stats.Base {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.base
}

// CurrentHealth returns the canonical current health value.
func (c *Character) CurrentHealth() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.currentHealth
}

// MaxHealth returns the base maximum health at the current level.
func (c *Character) MaxHealth() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.base.MaxHealth
}

// AddXP grants experience, applying as many level-ups as the new total
// covers. Each level-up raises base health and damage per the growth curve
// and restores the character to full health.
//
// Precondition: amount >= 0.
// Postcondition: level >= previous level; currentHealth <= MaxHealth().
func (c *Character) AddXP(amount int) {
	if amount <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.xp += amount
	for c.xp >= c.growth.XPPerLevel*c.level {
		c.xp -= c.growth.XPPerLevel * c.level
		c.level++
		c.base.MaxHealth += c.growth.HealthPerLevel
		c.base.AttackDamage += c.growth.DamagePerLevel
		c.currentHealth = c.base.MaxHealth
		c.logger.Info("level up",
			zap.String("character", c.name),
			zap.Int("level", c.level),
			zap.Float64("max_health", c.base.MaxHealth),
			zap.Float64("attack_damage", c.base.AttackDamage),
		)
	}
}

// AddGold grants gold.
//
// Precondition: amount >= 0.
func (c *Character) AddGold(amount int) {
	if amount <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gold += amount
}

// SpendGold deducts amount from the balance when sufficient funds exist.
//
// Postcondition: Returns true and deducts iff gold >= amount.
func (c *Character) SpendGold(amount int) bool {
	if amount <= 0 {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gold < amount {
		return false
	}
	c.gold -= amount
	return true
}

// TakeDamage reduces current health by amount, flooring at zero.
//
// Precondition: amount >= 0.
// Postcondition: CurrentHealth() >= 0.
func (c *Character) TakeDamage(amount float64) {
	if amount <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentHealth -= amount
	if c.currentHealth < 0 {
		c.currentHealth = 0
	}
}

// Heal restores current health by amount, capped at maximum.
//
// Precondition: amount >= 0.
// Postcondition: CurrentHealth() <= MaxHealth().
func (c *Character) Heal(amount float64) {
	if amount <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentHealth += amount
	if c.currentHealth > c.base.MaxHealth {
		c.currentHealth = c.base.MaxHealth
	}
}

// HealToFull restores current health to the maximum.
func (c *Character) HealToFull() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentHealth = c.base.MaxHealth
}
