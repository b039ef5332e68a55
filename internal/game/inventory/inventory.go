package inventory

import (
	"fmt"
	"sync"
)

// Stack is one occupied inventory slot: an item definition plus a count.
type Stack struct {
	// Def is the item definition occupying this slot.
	Def *ItemDef
	// Quantity is the current stack size, in [1, Def.MaxStack].
	Quantity int
}

// Inventory is a capacity-bounded container of item stacks.
// All methods are safe for concurrent use.
//
// Invariant: len(slots) <= capacity; every stack's Quantity is in
// [1, Def.MaxStack]; non-stackable items always occupy one slot per unit.
type Inventory struct {
	mu       sync.RWMutex
	capacity int
	slots    []*Stack
}

// NewInventory creates an empty Inventory with the given slot capacity.
//
// Precondition: capacity >= 1.
// Postcondition: Returns a non-nil empty Inventory.
func NewInventory(capacity int) (*Inventory, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("inventory: capacity must be >= 1, got %d", capacity)
	}
	return &Inventory{capacity: capacity}, nil
}

// TryAddItem adds up to qty units of def, filling existing stacks before
// opening new slots. Partial success is reported, not retried: the caller
// owns deciding what happens to the remainder.
//
// Precondition: def must be non-nil; qty >= 1.
// Postcondition: Returns (added, remaining) with added+remaining == qty;
// remaining > 0 iff capacity was exhausted.
func (inv *Inventory) TryAddItem(def *ItemDef, qty int) (added, remaining int) {
	if def == nil || qty < 1 {
		return 0, qty
	}

	inv.mu.Lock()
	defer inv.mu.Unlock()

	remaining = qty

	if def.Stackable {
		for _, s := range inv.slots {
			if remaining == 0 {
				break
			}
			if s.Def.ID != def.ID || s.Quantity >= def.MaxStack {
				continue
			}
			take := def.MaxStack - s.Quantity
			if take > remaining {
				take = remaining
			}
			s.Quantity += take
			remaining -= take
		}
	}

	for remaining > 0 && len(inv.slots) < inv.capacity {
		take := 1
		if def.Stackable {
			take = def.MaxStack
			if take > remaining {
				take = remaining
			}
		}
		inv.slots = append(inv.slots, &Stack{Def: def, Quantity: take})
		remaining -= take
	}

	return qty - remaining, remaining
}

// Count returns the total quantity of the item with the given definition ID.
func (inv *Inventory) Count(itemID string) int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	total := 0
	for _, s := range inv.slots {
		if s.Def.ID == itemID {
			total += s.Quantity
		}
	}
	return total
}

// UsedSlots returns the number of occupied slots.
func (inv *Inventory) UsedSlots() int {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	return len(inv.slots)
}

// Capacity returns the slot capacity.
func (inv *Inventory) Capacity() int {
	return inv.capacity
}

// Stacks returns a snapshot of the occupied slots in slot order.
//
// Postcondition: Returns a non-nil slice; mutating it does not affect the
// inventory, but the stacks share Def pointers with the registry.
func (inv *Inventory) Stacks() []Stack {
	inv.mu.RLock()
	defer inv.mu.RUnlock()
	out := make([]Stack, 0, len(inv.slots))
	for _, s := range inv.slots {
		out = append(out, *s)
	}
	return out
}
