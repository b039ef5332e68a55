package combat_test

import (
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/grind/internal/game/combat"
	"github.com/cory-johannsen/grind/internal/game/inventory"
	"github.com/cory-johannsen/grind/internal/game/monster"
	"github.com/cory-johannsen/grind/internal/game/services"
	"github.com/cory-johannsen/grind/internal/game/stats"
)

// scriptSource replays scripted draws so tests control every roll exactly.
// An exhausted float script yields 0.5; an exhausted int script yields 0,
// which makes multi-template spawns deterministically pick pool[0].
type scriptSource struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
}

func (s *scriptSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.floats) == 0 {
		return 0.5
	}
	v := s.floats[0]
	s.floats = s.floats[1:]
	return v
}

func (s *scriptSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if n <= 0 {
		panic("scriptSource: Intn called with n <= 0")
	}
	if len(s.ints) == 0 {
		return 0
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	return v % n
}

func (s *scriptSource) pushFloats(vals ...float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.floats = append(s.floats, vals...)
}

// fakeProgression is an in-memory ProgressionService + BaseStatsProvider
// with call counters for the mutating operations.
type fakeProgression struct {
	base            stats.Base
	current         float64
	level           int
	xp              int
	gold            int
	healToFullCalls int
}

func newFakeProgression(base stats.Base) *fakeProgression {
	return &fakeProgression{base: base, current: base.MaxHealth, level: 1}
}

func (f *fakeProgression) BaseStats() stats.Base  { return f.base }
func (f *fakeProgression) CurrentHealth() float64 { return f.current }
func (f *fakeProgression) MaxHealth() float64     { return f.base.MaxHealth }
func (f *fakeProgression) Level() int             { return f.level }

func (f *fakeProgression) TakeDamage(amount float64) {
	f.current -= amount
	if f.current < 0 {
		f.current = 0
	}
}

func (f *fakeProgression) Heal(amount float64) {
	f.current += amount
	if f.current > f.base.MaxHealth {
		f.current = f.base.MaxHealth
	}
}

func (f *fakeProgression) HealToFull() {
	f.current = f.base.MaxHealth
	f.healToFullCalls++
}

func (f *fakeProgression) AddXP(amount int)   { f.xp += amount }
func (f *fakeProgression) AddGold(amount int) { f.gold += amount }

// bonusProvider is a fixed stat-bonus bundle.
type bonusProvider struct {
	b stats.Bonuses
}

func (p bonusProvider) Bonuses() stats.Bonuses { return p.b }

// playerRequest is one captured RequestPlayerAttack call.
type playerRequest struct {
	damage     float64
	targetSlot int
	onHit      func(damage float64, targetSlot int)
}

// monsterRequest is one captured RequestMonsterAttack call.
type monsterRequest struct {
	slot       int
	onComplete func()
}

// captureAnimator records attack requests without resolving them, so tests
// drive completion callbacks explicitly.
type captureAnimator struct {
	mu         sync.Mutex
	player     []playerRequest
	monster    []monsterRequest
	outOfRange map[int]bool
}

func (a *captureAnimator) RequestPlayerAttack(damage float64, targetSlot int, onHit func(damage float64, targetSlot int)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.player = append(a.player, playerRequest{damage: damage, targetSlot: targetSlot, onHit: onHit})
}

func (a *captureAnimator) RequestMonsterAttack(slot int, onComplete func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.monster = append(a.monster, monsterRequest{slot: slot, onComplete: onComplete})
}

func (a *captureAnimator) IsSlotInRange(slot int) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return !a.outOfRange[slot]
}

func (a *captureAnimator) SlotWorldPosition(slot int) (float64, float64) {
	return float64(slot), 0
}

// recorder collects events from a subscription. Handlers run with the
// controller mutex held, so no locking of its own is needed in tests that
// drive the controller from one goroutine.
type recorder struct {
	events []combat.Event
}

func (r *recorder) record(evt combat.Event) {
	r.events = append(r.events, evt)
}

func (r *recorder) ofType(t combat.EventType) []combat.Event {
	var out []combat.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) reset() {
	r.events = nil
}

func dummyTemplate() *monster.Template {
	return &monster.Template{
		ID:           "dummy",
		Name:         "Training Dummy",
		Level:        1,
		MaxHealth:    30,
		AttackDamage: 5,
		AttackPeriod: 2.0,
		XPReward:     10,
		GoldReward:   10,
	}
}

func playerBase() stats.Base {
	return stats.Base{
		AttackDamage: 10,
		AttackPeriod: 1.0,
		MaxHealth:    100,
	}
}

// harness bundles a Controller with its collaborators for a test.
type harness struct {
	controller  *combat.Controller
	progression *fakeProgression
	src         *scriptSource
	rec         *recorder
}

type harnessOption func(*harnessConfig)

type harnessConfig struct {
	cfg      combat.Config
	equip    combat.EquipmentStatsProvider
	talents  combat.TalentStatsProvider
	registry *services.Registry
	inv      combat.InventoryService
	items    *inventory.Registry
}

func withConfig(cfg combat.Config) harnessOption {
	return func(h *harnessConfig) { h.cfg = cfg }
}

func withEquip(b stats.Bonuses) harnessOption {
	return func(h *harnessConfig) { h.equip = bonusProvider{b: b} }
}

func withTalents(b stats.Bonuses) harnessOption {
	return func(h *harnessConfig) { h.talents = bonusProvider{b: b} }
}

func withRegistry(r *services.Registry) harnessOption {
	return func(h *harnessConfig) { h.registry = r }
}

func withInventory(inv combat.InventoryService, items *inventory.Registry) harnessOption {
	return func(h *harnessConfig) {
		h.inv = inv
		h.items = items
	}
}

func newHarness(opts ...harnessOption) *harness {
	hc := harnessConfig{cfg: combat.Config{MobCount: 3, RespawnDelay: 3.0}}
	for _, opt := range opts {
		opt(&hc)
	}

	src := &scriptSource{}
	prog := newFakeProgression(playerBase())
	logger := zap.NewNop()
	rewards := combat.NewDistributor(prog, hc.inv, hc.items, src, logger)

	c, err := combat.NewController(hc.cfg, prog, hc.equip, hc.talents, rewards, hc.registry, src, logger)
	if err != nil {
		panic(err)
	}

	rec := &recorder{}
	c.Subscribe(rec.record)
	return &harness{controller: c, progression: prog, src: src, rec: rec}
}
