package monster

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/cory-johannsen/grind/internal/game/rng"
)

// ItemDrop defines a single item entry in a loot table with a drop chance.
type ItemDrop struct {
	ItemID string  `yaml:"item"`
	Chance float64 `yaml:"chance"`
	MinQty int     `yaml:"min_qty"`
	MaxQty int     `yaml:"max_qty"`
}

// LootTable defines the possible loot drops for a monster template.
// Every entry is evaluated independently on each kill: one kill can award
// several distinct items, and every entry dropping nothing is a valid outcome.
type LootTable struct {
	Items []ItemDrop `yaml:"items"`
}

// Validate checks that the loot table satisfies its invariants.
//
// Precondition: lt must not be nil.
// Postcondition: Returns nil iff all item constraints hold; an empty loot
// table is valid.
func (lt *LootTable) Validate() error {
	for i, item := range lt.Items {
		if item.ItemID == "" {
			return fmt.Errorf("loot table: item[%d] must have a non-empty item id", i)
		}
		if item.Chance < 0 || item.Chance > 1.0 {
			return fmt.Errorf("loot table: item[%d] chance must be in [0, 1.0], got %f", i, item.Chance)
		}
		if item.MinQty < 1 {
			return fmt.Errorf("loot table: item[%d] min_qty must be >= 1, got %d", i, item.MinQty)
		}
		if item.MinQty > item.MaxQty {
			return fmt.Errorf("loot table: item[%d] min_qty (%d) must be <= max_qty (%d)", i, item.MinQty, item.MaxQty)
		}
	}
	return nil
}

// LootItem represents a single item instance in a loot result.
type LootItem struct {
	ItemDefID  string
	InstanceID string
	Quantity   int
}

// RollLoot evaluates each entry of lt independently with one uniform draw
// per entry: the entry drops iff draw <= Chance. No entry's roll affects
// another's.
//
// Precondition: lt must have passed Validate(); src must be non-nil.
// Postcondition: each awarded item's Quantity is in [MinQty, MaxQty].
func RollLoot(lt LootTable, src rng.Source) []LootItem {
	var items []LootItem
	for _, entry := range lt.Items {
		// A zero-chance entry never drops, even when the draw is exactly 0.
		if entry.Chance <= 0 || src.Float64() > entry.Chance {
			continue
		}
		qty := entry.MinQty
		if spread := entry.MaxQty - entry.MinQty; spread > 0 {
			qty += src.Intn(spread + 1)
		}
		items = append(items, LootItem{
			ItemDefID:  entry.ItemID,
			InstanceID: uuid.New().String(),
			Quantity:   qty,
		})
	}
	return items
}
