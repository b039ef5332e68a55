package combat

// Animator is the optional animation/presentation collaborator. An attack
// trigger hands the logical hit to the animator, which performs its timed
// visual effect and invokes the completion callback with the resolved
// damage. When no animator is registered the controller applies hits
// synchronously with the unmodified damage.
type Animator interface {
	// RequestPlayerAttack plays the player attack effect against targetSlot
	// and calls onHit with the damage to apply when the effect lands.
	RequestPlayerAttack(damage float64, targetSlot int, onHit func(damage float64, targetSlot int))

	// RequestMonsterAttack plays the attack effect for slot and calls
	// onComplete when the hit should resolve.
	RequestMonsterAttack(slot int, onComplete func())

	// IsSlotInRange reports whether the monster in slot is close enough to
	// the player to attack.
	IsSlotInRange(slot int) bool

	// SlotWorldPosition returns the visual actor position for slot.
	SlotWorldPosition(slot int) (x, y float64)
}

// ActivityTracker is the optional consumer notified when auto-combat
// starts and stops.
type ActivityTracker interface {
	CombatStarted()
	CombatStopped()
}
