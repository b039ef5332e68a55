// Package equipment provides the slot-based gear loadout and its
// aggregate stat contribution.
package equipment

import (
	"fmt"
	"sync"

	"github.com/cory-johannsen/grind/internal/game/stats"
)

// Slot identifies a gear slot on the character.
type Slot string

const (
	// SlotWeapon is the main weapon slot.
	SlotWeapon Slot = "weapon"
	// SlotHead is the head armor slot.
	SlotHead Slot = "head"
	// SlotTorso is the torso armor slot.
	SlotTorso Slot = "torso"
	// SlotLegs is the leg armor slot.
	SlotLegs Slot = "legs"
	// SlotFeet is the feet armor slot.
	SlotFeet Slot = "feet"
	// SlotRing is the ring accessory slot.
	SlotRing Slot = "ring"
	// SlotAmulet is the amulet accessory slot.
	SlotAmulet Slot = "amulet"
)

// validSlots is the set of recognised gear slots.
var validSlots = map[Slot]bool{
	SlotWeapon: true,
	SlotHead:   true,
	SlotTorso:  true,
	SlotLegs:   true,
	SlotFeet:   true,
	SlotRing:   true,
	SlotAmulet: true,
}

// Gear records an item occupying a gear slot, with its stat contribution.
type Gear struct {
	// ItemDefID is the item definition identifier backing this gear.
	ItemDefID string
	// Name is the display name shown to the player.
	Name string
	// Bonuses is this piece's stat contribution.
	Bonuses stats.Bonuses
}

// Loadout holds the character's equipped gear, one piece per slot.
// All methods are safe for concurrent use.
type Loadout struct {
	mu    sync.RWMutex
	slots map[Slot]*Gear
}

// NewLoadout returns an empty Loadout.
func NewLoadout() *Loadout {
	return &Loadout{slots: make(map[Slot]*Gear)}
}

// Equip places g into slot, replacing any existing piece.
//
// Precondition: slot must be a recognised Slot; g must be non-nil.
// Postcondition: Returns the replaced piece (nil when the slot was empty),
// or an error for an unknown slot.
func (l *Loadout) Equip(slot Slot, g *Gear) (*Gear, error) {
	if !validSlots[slot] {
		return nil, fmt.Errorf("equipment: unknown slot %q", slot)
	}
	if g == nil {
		return nil, fmt.Errorf("equipment: gear must not be nil")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.slots[slot]
	l.slots[slot] = g
	return prev, nil
}

// Unequip removes and returns the piece in slot, or nil when empty.
func (l *Loadout) Unequip(slot Slot) *Gear {
	l.mu.Lock()
	defer l.mu.Unlock()
	prev := l.slots[slot]
	delete(l.slots, slot)
	return prev
}

// Equipped returns the piece in slot, or nil when empty.
func (l *Loadout) Equipped(slot Slot) *Gear {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.slots[slot]
}

// Bonuses returns the field-wise sum of all equipped pieces' contributions.
// This is the EquipmentStatsProvider query consumed by stat resolution.
//
// Postcondition: Returns the zero bundle when nothing is equipped.
func (l *Loadout) Bonuses() stats.Bonuses {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var total stats.Bonuses
	for _, g := range l.slots {
		total = stats.Sum(total, g.Bonuses)
	}
	return total
}
