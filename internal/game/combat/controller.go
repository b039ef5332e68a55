package combat

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/grind/internal/game/monster"
	"github.com/cory-johannsen/grind/internal/game/rng"
	"github.com/cory-johannsen/grind/internal/game/services"
	"github.com/cory-johannsen/grind/internal/game/stats"
)

// EquipmentStatsProvider is the pure aggregate-stats query over equipped gear.
type EquipmentStatsProvider interface {
	Bonuses() stats.Bonuses
}

// TalentStatsProvider is the pure aggregate-stats query over learned talents.
type TalentStatsProvider interface {
	Bonuses() stats.Bonuses
}

// BaseStatsProvider extends ProgressionService with the intrinsic stat
// block stat resolution starts from.
type BaseStatsProvider interface {
	ProgressionService
	BaseStats() stats.Base
}

// Config holds the encounter tuning parameters.
type Config struct {
	// MobCount is the default group size when StartCombat receives none.
	MobCount int
	// RespawnDelay is the seconds between a group wipe and the next spawn.
	RespawnDelay float64
}

// Validate checks the configuration invariants.
//
// Postcondition: Returns nil iff MobCount >= 1 and RespawnDelay >= 0.
func (c Config) Validate() error {
	if c.MobCount < 1 {
		return fmt.Errorf("combat config: mob_count must be >= 1, got %d", c.MobCount)
	}
	if c.RespawnDelay < 0 {
		return fmt.Errorf("combat config: respawn_delay must be >= 0, got %f", c.RespawnDelay)
	}
	return nil
}

// Controller is the encounter state machine. It is driven by an external
// per-frame Tick and owns the Encounter exclusively; external services are
// reached only through the narrow contracts passed at construction or
// looked up in the capability registry.
//
// mu serialises tick processing, public operations, and animation
// completion callbacks. Event handlers and range queries are invoked with
// mu held and must not call back into the Controller.
type Controller struct {
	mu          sync.Mutex
	cfg         Config
	progression BaseStatsProvider
	equip       EquipmentStatsProvider
	talents     TalentStatsProvider
	rewards     *Distributor
	registry    *services.Registry
	src         rng.Source
	logger      *zap.Logger
	observers   *observerList

	// enc is nil exactly when no encounter exists (phase Idle).
	enc      *Encounter
	resolved stats.Resolved
	// respawnPending/respawnTimer implement the one scheduled (non-cadence)
	// timer in the system: the delayed group respawn, counted down by Tick.
	respawnPending bool
	respawnTimer   float64
}

// attackRequest is a triggered attack awaiting dispatch to the animation
// collaborator. Requests are collected under mu and dispatched after it is
// released so a synchronously-resolving animator cannot deadlock.
type attackRequest struct {
	player    bool
	damage    float64
	crit      bool
	targetIdx int
	slot      *Slot
}

// NewController creates a Controller.
//
// Precondition: cfg must pass Validate; progression, rewards, src, and
// logger must be non-nil. equip, talents, and registry may be nil and
// degrade to zero bonuses / no optional integrations.
// Postcondition: Returns a Controller in PhaseIdle, or an error.
func NewController(
	cfg Config,
	progression BaseStatsProvider,
	equip EquipmentStatsProvider,
	talents TalentStatsProvider,
	rewards *Distributor,
	registry *services.Registry,
	src rng.Source,
	logger *zap.Logger,
) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if progression == nil {
		return nil, fmt.Errorf("combat: progression service must not be nil")
	}
	if rewards == nil {
		return nil, fmt.Errorf("combat: reward distributor must not be nil")
	}
	if src == nil {
		return nil, fmt.Errorf("combat: rng source must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("combat: logger must not be nil")
	}
	return &Controller{
		cfg:         cfg,
		progression: progression,
		equip:       equip,
		talents:     talents,
		rewards:     rewards,
		registry:    registry,
		src:         src,
		logger:      logger,
		observers:   newObserverList(),
	}, nil
}

// Subscribe registers fn as an event observer and returns its handle.
// Handlers run synchronously on the mutating goroutine in unspecified
// order and must not call back into the Controller.
func (c *Controller) Subscribe(fn func(Event)) int {
	return c.observers.add(fn)
}

// Unsubscribe removes the observer with the given handle.
func (c *Controller) Unsubscribe(handle int) {
	c.observers.remove(handle)
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enc == nil {
		return PhaseIdle
	}
	return c.enc.Phase
}

// TargetIndex returns the current target slot index, or -1 when idle.
func (c *Controller) TargetIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enc == nil {
		return -1
	}
	return c.enc.TargetIndex
}

// PlayerState returns a snapshot of the player's combat state.
//
// Postcondition: ok is false when no encounter exists.
func (c *Controller) PlayerState() (Combatant, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enc == nil {
		return Combatant{}, false
	}
	return c.enc.Player, true
}

// SlotStates returns a snapshot of the active slots in slot order.
func (c *Controller) SlotStates() []Slot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enc == nil {
		return nil
	}
	out := make([]Slot, 0, len(c.enc.Slots))
	for _, s := range c.enc.Slots {
		out = append(out, *s)
	}
	return out
}

// ResolvedStats returns the stat block cached for the current session.
func (c *Controller) ResolvedStats() stats.Resolved {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resolved
}

// StartCombat begins a new encounter against mobCount monsters drawn
// uniformly (with replacement) from pool. An empty pool or non-positive
// mobCount is silently ignored. Any existing encounter is replaced.
//
// Postcondition: on success, phase is Fighting, mobCount slots are alive,
// the target is slot 0, and the player is at resolved max health.
func (c *Controller) StartCombat(pool []*monster.Template, mobCount int) {
	c.mu.Lock()
	if len(pool) == 0 {
		c.logger.Warn("start combat ignored: empty monster pool")
		c.mu.Unlock()
		return
	}
	if mobCount < 1 {
		mobCount = c.cfg.MobCount
	}

	c.resolveStatsLocked()
	c.enc = NewEncounter(pool, mobCount)
	c.respawnPending = false
	c.initPlayerLocked()
	c.enc.SpawnGroup(c.src)
	c.enc.Phase = PhaseFighting

	c.logger.Info("combat started",
		zap.String("encounter", c.enc.ID),
		zap.Int("mob_count", mobCount),
		zap.Int("pool_size", len(pool)),
	)
	c.notifyLocked(Event{Type: EventPhaseChanged, Phase: PhaseFighting, Slot: -1})
	c.emitSpawnsLocked()
	c.notifyLocked(Event{Type: EventTargetChanged, Slot: c.enc.TargetIndex})
	c.mu.Unlock()

	if tracker, ok := services.LookupAs[ActivityTracker](c.registry, services.CapActivityTracker); ok {
		tracker.CombatStarted()
	}
}

// Tick advances the encounter by dt seconds. Only the Fighting phase
// processes ticks; Idle and Defeat are inert. Attack triggers collected
// during the tick are dispatched to the animation collaborator after
// internal state is settled.
//
// Precondition: dt > 0 (other values are ignored).
func (c *Controller) Tick(dt float64) {
	if dt <= 0 {
		return
	}
	c.mu.Lock()
	if c.enc == nil || c.enc.Phase != PhaseFighting {
		c.mu.Unlock()
		return
	}

	if c.respawnPending {
		c.respawnTimer -= dt
		if c.respawnTimer <= 0 {
			c.respawnPending = false
			c.enc.SpawnGroup(c.src)
			c.logger.Info("monster group respawned", zap.String("encounter", c.enc.ID))
			c.emitSpawnsLocked()
			c.notifyLocked(Event{Type: EventTargetChanged, Slot: c.enc.TargetIndex})
		}
		c.mu.Unlock()
		return
	}

	anim := c.animatorLocked()
	var requests []attackRequest

	// Player cadence. The timer resets on trigger, not on resolution, so
	// the configured period is measured trigger-to-trigger regardless of
	// animation latency.
	p := &c.enc.Player
	p.AttackTimer += dt
	c.notifyLocked(Event{
		Type:     EventPlayerAttackProgress,
		Slot:     -1,
		Actor:    p.Name,
		Progress: p.AttackProgress(),
	})
	if p.AttackTimer >= p.AttackPeriod && c.enc.LivingCount() > 0 {
		p.AttackTimer = 0
		damage := c.resolved.AttackDamage
		draw := c.src.Float64()
		crit := c.resolved.CritChance > 0 && draw <= c.resolved.CritChance
		if crit {
			damage *= c.resolved.CritDamage
		}
		requests = append(requests, attackRequest{
			player:    true,
			damage:    damage,
			crit:      crit,
			targetIdx: c.enc.TargetIndex,
		})
	}

	// Monster cadences. A pending slot is skipped entirely until its
	// completion callback clears the flag; an out-of-range slot neither
	// accumulates nor triggers.
	for _, s := range c.enc.Slots {
		if s.IsDead() || s.PendingAttack {
			continue
		}
		if anim != nil && !anim.IsSlotInRange(s.Index) {
			continue
		}
		s.AttackTimer += dt
		c.notifyLocked(Event{
			Type:     EventMonsterAttackProgress,
			Slot:     s.Index,
			Actor:    s.Name,
			Progress: s.AttackProgress(),
		})
		if s.AttackTimer >= s.AttackPeriod {
			s.AttackTimer = 0
			s.PendingAttack = true
			requests = append(requests, attackRequest{slot: s})
		}
	}
	c.mu.Unlock()

	c.dispatch(requests, anim)
}

// dispatch hands collected attack requests to the animator, falling back
// to synchronous resolution when none is registered. Callbacks re-acquire
// the controller mutex, so a synchronously-resolving animator is safe.
func (c *Controller) dispatch(requests []attackRequest, anim Animator) {
	for _, r := range requests {
		if r.player {
			crit := r.crit
			if anim != nil {
				anim.RequestPlayerAttack(r.damage, r.targetIdx, func(damage float64, targetSlot int) {
					c.applyPlayerHit(damage, targetSlot, crit)
				})
			} else {
				c.applyPlayerHit(r.damage, r.targetIdx, crit)
			}
		} else {
			slot := r.slot
			if anim != nil {
				anim.RequestMonsterAttack(slot.Index, func() {
					c.completeMonsterAttack(slot)
				})
			} else {
				c.completeMonsterAttack(slot)
			}
		}
	}
}

// applyPlayerHit resolves a landed player attack: lifesteal, target damage,
// and death handling. Stale callbacks (after EndCombat or outside Fighting)
// are tolerated as no-ops.
func (c *Controller) applyPlayerHit(damage float64, targetSlot int, crit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.enc == nil || c.enc.Phase != PhaseFighting {
		return
	}
	if targetSlot < 0 || targetSlot >= len(c.enc.Slots) {
		return
	}
	slot := c.enc.Slots[targetSlot]

	if c.resolved.Lifesteal > 0 {
		heal := damage * c.resolved.Lifesteal
		c.enc.Player.HealBy(heal)
		c.progression.Heal(heal)
		c.notifyLocked(Event{
			Type:      EventPlayerHealthChanged,
			Slot:      -1,
			Health:    c.enc.Player.CurrentHealth,
			MaxHealth: c.enc.Player.MaxHealth,
		})
	}

	wasAlive := !slot.IsDead()
	slot.ApplyDamage(damage)
	c.notifyLocked(Event{
		Type:   EventDamageDealt,
		Slot:   slot.Index,
		Actor:  c.enc.Player.Name,
		Amount: damage,
		Crit:   crit,
	})
	c.notifyLocked(Event{
		Type:      EventMonsterHealthChanged,
		Slot:      slot.Index,
		Actor:     slot.Name,
		Health:    slot.CurrentHealth,
		MaxHealth: slot.MaxHealth,
	})

	if wasAlive && slot.IsDead() {
		c.handleDeathLocked(slot)
	}
}

// handleDeathLocked runs death resolution for slot: rewards and loot,
// retargeting when the dying slot was the target, and respawn scheduling
// when the group is wiped.
//
// Precondition: mu is held; slot just transitioned to dead.
func (c *Controller) handleDeathLocked(slot *Slot) {
	c.logger.Info("monster died",
		zap.String("encounter", c.enc.ID),
		zap.Int("slot", slot.Index),
		zap.String("template", slot.Template.ID),
	)
	c.notifyLocked(Event{Type: EventMonsterDied, Slot: slot.Index, Actor: slot.Name})

	for _, evt := range c.rewards.Distribute(slot, c.resolved) {
		c.notifyLocked(evt)
	}

	if slot.Index == c.enc.TargetIndex {
		prev := c.enc.TargetIndex
		if c.enc.EnsureValidTarget() && c.enc.TargetIndex != prev {
			c.notifyLocked(Event{Type: EventTargetChanged, Slot: c.enc.TargetIndex})
		}
	}

	if c.enc.AllDead() {
		c.respawnPending = true
		c.respawnTimer = c.cfg.RespawnDelay
		c.logger.Info("group wiped, respawn scheduled",
			zap.String("encounter", c.enc.ID),
			zap.Float64("delay_seconds", c.cfg.RespawnDelay),
		)
		c.notifyLocked(Event{Type: EventRespawnScheduled, Slot: -1})
	}
}

// completeMonsterAttack resolves a monster's attack after its animation:
// dodge roll, armor mitigation, player damage, and defeat detection.
// Stale callbacks are tolerated as no-ops beyond clearing the pending flag.
func (c *Controller) completeMonsterAttack(slot *Slot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	slot.PendingAttack = false
	if c.enc == nil || c.enc.Phase != PhaseFighting || !c.ownsSlotLocked(slot) {
		return
	}
	if slot.IsDead() {
		return
	}

	draw := c.src.Float64()
	if c.resolved.Dodge > 0 && draw <= c.resolved.Dodge {
		c.notifyLocked(Event{
			Type:   EventDamageTaken,
			Slot:   slot.Index,
			Actor:  slot.Name,
			Amount: 0,
			Dodged: true,
		})
		return
	}

	damage := slot.AttackDamage * (1 - c.resolved.Armor)
	if damage < 0 {
		damage = 0
	}
	c.enc.Player.ApplyDamage(damage)
	c.progression.TakeDamage(damage)
	c.notifyLocked(Event{
		Type:   EventDamageTaken,
		Slot:   slot.Index,
		Actor:  slot.Name,
		Amount: damage,
	})
	c.notifyLocked(Event{
		Type:      EventPlayerHealthChanged,
		Slot:      -1,
		Health:    c.enc.Player.CurrentHealth,
		MaxHealth: c.enc.Player.MaxHealth,
	})

	if c.enc.Player.IsDead() {
		c.enterDefeatLocked()
	}
}

// enterDefeatLocked freezes the encounter in PhaseDefeat.
//
// Precondition: mu is held; the player just reached zero health.
func (c *Controller) enterDefeatLocked() {
	c.enc.Phase = PhaseDefeat
	c.respawnPending = false
	c.logger.Info("player defeated", zap.String("encounter", c.enc.ID))
	c.notifyLocked(Event{Type: EventPhaseChanged, Phase: PhaseDefeat, Slot: -1})
}

// ResumeAfterDefeat returns from Defeat to Fighting: the player is healed
// to full, stats are re-resolved (an intervening level-up may have changed
// them), and a fresh monster group of the prior mob count spawns. Calls
// outside Defeat are silently ignored.
func (c *Controller) ResumeAfterDefeat() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.enc == nil || c.enc.Phase != PhaseDefeat {
		return
	}

	c.progression.HealToFull()
	c.resolveStatsLocked()
	c.initPlayerLocked()
	c.enc.SpawnGroup(c.src)
	c.enc.Phase = PhaseFighting

	c.logger.Info("combat resumed after defeat", zap.String("encounter", c.enc.ID))
	c.notifyLocked(Event{Type: EventPhaseChanged, Phase: PhaseFighting, Slot: -1})
	c.emitSpawnsLocked()
	c.notifyLocked(Event{Type: EventTargetChanged, Slot: c.enc.TargetIndex})
}

// EndCombat discards the encounter from any phase and returns to Idle.
// In-flight animation callbacks arriving afterwards are no-ops. Calling
// EndCombat while already idle does nothing.
func (c *Controller) EndCombat() {
	c.mu.Lock()
	if c.enc == nil {
		c.mu.Unlock()
		return
	}
	id := c.enc.ID
	c.enc = nil
	c.respawnPending = false
	c.logger.Info("combat ended", zap.String("encounter", id))
	c.notifyLocked(Event{Type: EventPhaseChanged, Phase: PhaseIdle, Slot: -1})
	c.mu.Unlock()

	if tracker, ok := services.LookupAs[ActivityTracker](c.registry, services.CapActivityTracker); ok {
		tracker.CombatStopped()
	}
}

// SetTarget points the player's target at index. Out-of-range indices and
// dead slots are silently ignored, matching UI-driven input expectations.
func (c *Controller) SetTarget(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enc == nil || c.enc.Phase != PhaseFighting {
		return
	}
	if c.enc.SetTarget(index) {
		c.notifyLocked(Event{Type: EventTargetChanged, Slot: c.enc.TargetIndex})
	}
}

// CycleTarget advances the target to the next living slot.
func (c *Controller) CycleTarget() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enc == nil || c.enc.Phase != PhaseFighting {
		return
	}
	if c.enc.CycleTarget() {
		c.notifyLocked(Event{Type: EventTargetChanged, Slot: c.enc.TargetIndex})
	}
}

// RefreshStats re-resolves the cached player stat block from the current
// base, equipment, and talent contributions. Callers invoke this after a
// level-up or gear/talent change; stats are never re-resolved per tick.
// The player's health bounds adjust to the new maximum, preserving the
// current value where possible.
func (c *Controller) RefreshStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resolveStatsLocked()
	if c.enc == nil {
		return
	}
	p := &c.enc.Player
	p.MaxHealth = c.resolved.MaxHealth
	p.AttackDamage = c.resolved.AttackDamage
	p.AttackPeriod = c.resolved.AttackPeriod
	if p.CurrentHealth > p.MaxHealth {
		p.CurrentHealth = p.MaxHealth
	}
	c.notifyLocked(Event{
		Type:      EventPlayerHealthChanged,
		Slot:      -1,
		Health:    p.CurrentHealth,
		MaxHealth: p.MaxHealth,
	})
}

// resolveStatsLocked recomputes the cached stat block.
//
// Precondition: mu is held.
func (c *Controller) resolveStatsLocked() {
	var equipB, talentB stats.Bonuses
	if c.equip != nil {
		equipB = c.equip.Bonuses()
	}
	if c.talents != nil {
		talentB = c.talents.Bonuses()
	}
	c.resolved = stats.Resolve(c.progression.BaseStats(), equipB, talentB)
}

// initPlayerLocked resets the player combat state to the resolved block at
// full health and synchronises the canonical pool.
//
// Precondition: mu is held; enc is non-nil; stats are resolved.
func (c *Controller) initPlayerLocked() {
	c.enc.Player = Combatant{
		ID:            "player",
		Name:          "player",
		CurrentHealth: c.resolved.MaxHealth,
		MaxHealth:     c.resolved.MaxHealth,
		AttackDamage:  c.resolved.AttackDamage,
		AttackPeriod:  c.resolved.AttackPeriod,
	}
	c.progression.HealToFull()
}

// emitSpawnsLocked emits one EventMonsterSpawned per slot.
//
// Precondition: mu is held; enc is non-nil.
func (c *Controller) emitSpawnsLocked() {
	for _, s := range c.enc.Slots {
		c.notifyLocked(Event{
			Type:      EventMonsterSpawned,
			Slot:      s.Index,
			Actor:     s.Name,
			Health:    s.CurrentHealth,
			MaxHealth: s.MaxHealth,
		})
	}
}

// ownsSlotLocked reports whether slot is still part of the live encounter.
// A slot pointer goes stale when a group respawn replaces the sequence.
//
// Precondition: mu is held; enc is non-nil.
func (c *Controller) ownsSlotLocked(slot *Slot) bool {
	return slot.Index >= 0 && slot.Index < len(c.enc.Slots) && c.enc.Slots[slot.Index] == slot
}

// animatorLocked resolves the optional animation collaborator.
//
// Precondition: mu is held.
func (c *Controller) animatorLocked() Animator {
	if c.registry == nil {
		return nil
	}
	anim, ok := services.LookupAs[Animator](c.registry, services.CapAnimator)
	if !ok {
		return nil
	}
	return anim
}

// notifyLocked broadcasts evt to all observers.
//
// Precondition: mu is held; handlers must not call back into the Controller.
func (c *Controller) notifyLocked(evt Event) {
	c.observers.notify(evt)
}
