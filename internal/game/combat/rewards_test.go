package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/grind/internal/game/combat"
	"github.com/cory-johannsen/grind/internal/game/inventory"
	"github.com/cory-johannsen/grind/internal/game/monster"
	"github.com/cory-johannsen/grind/internal/game/stats"
)

func TestRoundReward(t *testing.T) {
	assert.Equal(t, 10, combat.RoundReward(10, 0))
	assert.Equal(t, 12, combat.RoundReward(10, 0.15))
	assert.Equal(t, 5, combat.RoundReward(3, 0.5), "ties round away from zero")
	assert.Equal(t, 0, combat.RoundReward(0, 0.5))
}

func earDef() *inventory.ItemDef {
	return &inventory.ItemDef{
		ID: "ear", Name: "Goblin Ear", Kind: inventory.KindJunk,
		Stackable: true, MaxStack: 10, Value: 2,
	}
}

func lootSlot(tmpl *monster.Template) *combat.Slot {
	return &combat.Slot{
		Combatant: combat.Combatant{ID: "m-0", Name: tmpl.Name},
		Index:     0,
		Template:  tmpl,
	}
}

func TestDistribute_GrantsScaledRewards(t *testing.T) {
	prog := newFakeProgression(playerBase())
	d := combat.NewDistributor(prog, nil, nil, &scriptSource{}, zap.NewNop())

	events := d.Distribute(lootSlot(dummyTemplate()), stats.Resolved{XPBonus: 0.15, GoldBonus: 0.5})

	assert.Equal(t, 12, prog.xp)
	assert.Equal(t, 15, prog.gold)
	require.Len(t, events, 1)
	assert.Equal(t, combat.EventRewardGranted, events[0].Type)
	assert.Equal(t, 12, events[0].XP)
	assert.Equal(t, 15, events[0].Gold)
}

func TestDistribute_DeliversLootToInventory(t *testing.T) {
	tmpl := dummyTemplate()
	tmpl.Loot = &monster.LootTable{Items: []monster.ItemDrop{
		{ItemID: "ear", Chance: 1.0, MinQty: 2, MaxQty: 2},
	}}
	inv, err := inventory.NewInventory(4)
	require.NoError(t, err)
	items := inventory.NewRegistry([]*inventory.ItemDef{earDef()})

	d := combat.NewDistributor(newFakeProgression(playerBase()), inv, items, &scriptSource{floats: []float64{0.2}}, zap.NewNop())
	events := d.Distribute(lootSlot(tmpl), stats.Resolved{})

	assert.Equal(t, 2, inv.Count("ear"))
	dropped := filterEvents(events, combat.EventItemDropped)
	require.Len(t, dropped, 1)
	assert.Equal(t, "ear", dropped[0].ItemID)
	assert.Equal(t, 2, dropped[0].Quantity)
	assert.Empty(t, filterEvents(events, combat.EventItemLost))
}

func TestDistribute_FullInventoryLosesOverflow(t *testing.T) {
	tmpl := dummyTemplate()
	tmpl.Loot = &monster.LootTable{Items: []monster.ItemDrop{
		{ItemID: "ear", Chance: 1.0, MinQty: 15, MaxQty: 15},
	}}
	inv, err := inventory.NewInventory(1)
	require.NoError(t, err)
	items := inventory.NewRegistry([]*inventory.ItemDef{earDef()})

	d := combat.NewDistributor(newFakeProgression(playerBase()), inv, items, &scriptSource{floats: []float64{0.2}}, zap.NewNop())
	events := d.Distribute(lootSlot(tmpl), stats.Resolved{})

	assert.Equal(t, 10, inv.Count("ear"), "one slot caps at MaxStack")
	dropped := filterEvents(events, combat.EventItemDropped)
	require.Len(t, dropped, 1)
	assert.Equal(t, 10, dropped[0].Quantity)
	lost := filterEvents(events, combat.EventItemLost)
	require.Len(t, lost, 1)
	assert.Equal(t, 5, lost[0].Quantity)
}

func TestDistribute_UnknownItemSkipped(t *testing.T) {
	tmpl := dummyTemplate()
	tmpl.Loot = &monster.LootTable{Items: []monster.ItemDrop{
		{ItemID: "phantom", Chance: 1.0, MinQty: 1, MaxQty: 1},
	}}
	inv, err := inventory.NewInventory(4)
	require.NoError(t, err)
	items := inventory.NewRegistry(nil)

	d := combat.NewDistributor(newFakeProgression(playerBase()), inv, items, &scriptSource{floats: []float64{0.2}}, zap.NewNop())
	events := d.Distribute(lootSlot(tmpl), stats.Resolved{})

	assert.Equal(t, 0, inv.UsedSlots())
	assert.Empty(t, filterEvents(events, combat.EventItemDropped))
	assert.Empty(t, filterEvents(events, combat.EventItemLost))
}

func TestDistribute_NilLootTable(t *testing.T) {
	prog := newFakeProgression(playerBase())
	d := combat.NewDistributor(prog, nil, nil, &scriptSource{}, zap.NewNop())
	events := d.Distribute(lootSlot(dummyTemplate()), stats.Resolved{})
	require.Len(t, events, 1)
	assert.Equal(t, combat.EventRewardGranted, events[0].Type)
}

func filterEvents(events []combat.Event, t combat.EventType) []combat.Event {
	var out []combat.Event
	for _, e := range events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}
