package combat

import "sync"

// EventType identifies one observable combat output.
type EventType int

const (
	// EventPhaseChanged fires on every lifecycle transition.
	EventPhaseChanged EventType = iota
	// EventMonsterSpawned fires once per slot on each group spawn.
	EventMonsterSpawned
	// EventMonsterDied fires when a slot's health reaches zero.
	EventMonsterDied
	// EventTargetChanged fires when the target index moves.
	EventTargetChanged
	// EventPlayerHealthChanged fires when the player's health moves.
	EventPlayerHealthChanged
	// EventMonsterHealthChanged fires when a slot's health moves.
	EventMonsterHealthChanged
	// EventPlayerAttackProgress carries the player cadence fraction each tick.
	EventPlayerAttackProgress
	// EventMonsterAttackProgress carries a slot's cadence fraction each tick.
	EventMonsterAttackProgress
	// EventDamageDealt fires when player damage lands on a slot.
	EventDamageDealt
	// EventDamageTaken fires when monster damage resolves against the
	// player, including dodges (Amount 0, Dodged true).
	EventDamageTaken
	// EventItemDropped fires for each loot item added to the inventory.
	EventItemDropped
	// EventItemLost fires when inventory capacity discards loot.
	EventItemLost
	// EventRewardGranted carries the XP/gold awarded for one kill.
	EventRewardGranted
	// EventRespawnScheduled fires when a wiped group schedules its respawn.
	EventRespawnScheduled
)

// Event is one observable combat output. Only the fields relevant to the
// Type are populated; Slot is -1 for events not addressed to a slot.
type Event struct {
	Type  EventType
	Phase Phase
	// Slot is the addressed slot index, or -1.
	Slot int
	// Actor is the display name of the acting combatant.
	Actor string
	// Amount is the damage or heal magnitude.
	Amount float64
	// Health and MaxHealth describe the affected combatant after the change.
	Health    float64
	MaxHealth float64
	// Progress is the cadence fraction in [0, 1] for attack-progress events.
	Progress float64
	// Crit marks a critical player hit.
	Crit bool
	// Dodged marks a fully dodged monster hit.
	Dodged bool
	// XP and Gold carry kill rewards.
	XP   int
	Gold int
	// ItemID and Quantity carry loot notifications.
	ItemID   string
	Quantity int
}

// observerList is a broadcast list of event handlers. Notification order
// across handlers is unspecified and must not be relied upon.
type observerList struct {
	mu   sync.Mutex
	next int
	subs map[int]func(Event)
}

func newObserverList() *observerList {
	return &observerList{subs: make(map[int]func(Event))}
}

// add registers fn and returns its subscription handle.
func (o *observerList) add(fn func(Event)) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.next++
	o.subs[o.next] = fn
	return o.next
}

// remove drops the subscription with the given handle.
func (o *observerList) remove(handle int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.subs, handle)
}

// notify invokes every handler with evt.
func (o *observerList) notify(evt Event) {
	o.mu.Lock()
	handlers := make([]func(Event), 0, len(o.subs))
	for _, fn := range o.subs {
		handlers = append(handlers, fn)
	}
	o.mu.Unlock()
	for _, fn := range handlers {
		fn(evt)
	}
}
