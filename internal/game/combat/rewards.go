package combat

import (
	"math"

	"go.uber.org/zap"

	"github.com/cory-johannsen/grind/internal/game/inventory"
	"github.com/cory-johannsen/grind/internal/game/monster"
	"github.com/cory-johannsen/grind/internal/game/rng"
	"github.com/cory-johannsen/grind/internal/game/stats"
)

// ProgressionService is the external owner of level, experience, gold, and
// the canonical health pool.
type ProgressionService interface {
	CurrentHealth() float64
	MaxHealth() float64
	Level() int
	TakeDamage(amount float64)
	Heal(amount float64)
	HealToFull()
	AddXP(amount int)
	AddGold(amount int)
}

// InventoryService accepts item-add requests and reports partial success
// when capacity is insufficient.
type InventoryService interface {
	TryAddItem(def *inventory.ItemDef, qty int) (added, remaining int)
}

// Distributor applies XP/gold multipliers and routes kill rewards to the
// progression and inventory services.
type Distributor struct {
	progression ProgressionService
	inv         InventoryService
	items       *inventory.Registry
	src         rng.Source
	logger      *zap.Logger
}

// NewDistributor creates a Distributor.
//
// Precondition: src and logger must be non-nil. progression, inv, and
// items may be nil; absent collaborators degrade to no-ops.
func NewDistributor(
	progression ProgressionService,
	inv InventoryService,
	items *inventory.Registry,
	src rng.Source,
	logger *zap.Logger,
) *Distributor {
	return &Distributor{
		progression: progression,
		inv:         inv,
		items:       items,
		src:         src,
		logger:      logger,
	}
}

// RoundReward applies a multiplicative bonus to a base reward value,
// rounding to the nearest integer with ties away from zero.
//
// Postcondition: RoundReward(10, 0.15) == 12.
func RoundReward(base int, bonus float64) int {
	return int(math.Round(float64(base) * (1 + bonus)))
}

// Distribute grants the kill rewards for slot: XP and gold scaled by the
// resolved bonuses, then one independent loot roll per loot-table entry.
// Items the inventory cannot hold are discarded after a warning; nothing
// here retries or fails the caller.
//
// Precondition: slot and slot.Template must be non-nil.
// Postcondition: Returned events describe every reward granted or lost,
// in grant order.
func (d *Distributor) Distribute(slot *Slot, resolved stats.Resolved) []Event {
	tmpl := slot.Template
	var events []Event

	xp := RoundReward(tmpl.XPReward, resolved.XPBonus)
	gold := RoundReward(tmpl.GoldReward, resolved.GoldBonus)
	if d.progression != nil {
		d.progression.AddXP(xp)
		d.progression.AddGold(gold)
	}
	events = append(events, Event{
		Type:  EventRewardGranted,
		Slot:  slot.Index,
		Actor: slot.Name,
		XP:    xp,
		Gold:  gold,
	})

	if tmpl.Loot == nil {
		return events
	}
	for _, item := range monster.RollLoot(*tmpl.Loot, d.src) {
		var def *inventory.ItemDef
		if d.items != nil {
			def = d.items.Item(item.ItemDefID)
		}
		if def == nil {
			d.logger.Warn("loot references unknown item",
				zap.String("item", item.ItemDefID),
				zap.String("monster", tmpl.ID),
			)
			continue
		}

		added, remaining := 0, item.Quantity
		if d.inv != nil {
			added, remaining = d.inv.TryAddItem(def, item.Quantity)
		}
		if added > 0 {
			events = append(events, Event{
				Type:     EventItemDropped,
				Slot:     slot.Index,
				Actor:    slot.Name,
				ItemID:   def.ID,
				Quantity: added,
			})
		}
		if remaining > 0 {
			d.logger.Warn("inventory full, loot lost",
				zap.String("item", def.ID),
				zap.Int("lost", remaining),
			)
			events = append(events, Event{
				Type:     EventItemLost,
				Slot:     slot.Index,
				ItemID:   def.ID,
				Quantity: remaining,
			})
		}
	}
	return events
}
