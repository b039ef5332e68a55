package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/grind/internal/game/inventory"
)

func stackableDef() *inventory.ItemDef {
	return &inventory.ItemDef{
		ID: "ear", Name: "Goblin Ear", Kind: inventory.KindJunk,
		Stackable: true, MaxStack: 10, Value: 2,
	}
}

func uniqueDef() *inventory.ItemDef {
	return &inventory.ItemDef{
		ID: "shiv", Name: "Rusty Shiv", Kind: inventory.KindEquipment,
		Stackable: false, MaxStack: 1, Value: 8,
	}
}

func TestNewInventory_RejectsNonPositiveCapacity(t *testing.T) {
	_, err := inventory.NewInventory(0)
	assert.Error(t, err)
}

func TestTryAddItem_FillsExistingStacksFirst(t *testing.T) {
	inv, err := inventory.NewInventory(4)
	require.NoError(t, err)

	added, remaining := inv.TryAddItem(stackableDef(), 7)
	assert.Equal(t, 7, added)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, 1, inv.UsedSlots())

	// 3 onto the existing stack, 4 into a new slot.
	added, remaining = inv.TryAddItem(stackableDef(), 7)
	assert.Equal(t, 7, added)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, 2, inv.UsedSlots())
	assert.Equal(t, 14, inv.Count("ear"))

	stacks := inv.Stacks()
	require.Len(t, stacks, 2)
	assert.Equal(t, 10, stacks[0].Quantity)
	assert.Equal(t, 4, stacks[1].Quantity)
}

func TestTryAddItem_NonStackableOneSlotPerUnit(t *testing.T) {
	inv, err := inventory.NewInventory(3)
	require.NoError(t, err)

	added, remaining := inv.TryAddItem(uniqueDef(), 2)
	assert.Equal(t, 2, added)
	assert.Equal(t, 0, remaining)
	assert.Equal(t, 2, inv.UsedSlots())
}

func TestTryAddItem_PartialWhenFull(t *testing.T) {
	inv, err := inventory.NewInventory(1)
	require.NoError(t, err)

	added, remaining := inv.TryAddItem(stackableDef(), 25)
	assert.Equal(t, 10, added, "one slot holds at most MaxStack units")
	assert.Equal(t, 15, remaining)
	assert.Equal(t, 10, inv.Count("ear"))
}

func TestTryAddItem_FullInventoryAddsNothing(t *testing.T) {
	inv, err := inventory.NewInventory(1)
	require.NoError(t, err)
	inv.TryAddItem(uniqueDef(), 1)

	added, remaining := inv.TryAddItem(stackableDef(), 3)
	assert.Equal(t, 0, added)
	assert.Equal(t, 3, remaining)
}

func TestTryAddItem_NilDef(t *testing.T) {
	inv, err := inventory.NewInventory(1)
	require.NoError(t, err)
	added, remaining := inv.TryAddItem(nil, 3)
	assert.Equal(t, 0, added)
	assert.Equal(t, 3, remaining)
}

// TestTryAddItem_Property_Conservation verifies added+remaining == qty and
// the capacity invariant for arbitrary add sequences.
func TestTryAddItem_Property_Conservation(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capacity := rapid.IntRange(1, 5).Draw(rt, "capacity")
		inv, err := inventory.NewInventory(capacity)
		require.NoError(rt, err)

		def := &inventory.ItemDef{
			ID: "mat", Name: "Material", Kind: inventory.KindMaterial,
			Stackable: true,
			MaxStack:  rapid.IntRange(1, 8).Draw(rt, "max_stack"),
		}

		total := 0
		adds := rapid.IntRange(1, 6).Draw(rt, "adds")
		for i := 0; i < adds; i++ {
			qty := rapid.IntRange(1, 20).Draw(rt, "qty")
			added, remaining := inv.TryAddItem(def, qty)
			assert.Equal(rt, qty, added+remaining, "no units may appear or vanish")
			total += added
		}

		assert.Equal(rt, total, inv.Count("mat"))
		assert.LessOrEqual(rt, inv.UsedSlots(), capacity)
	})
}
