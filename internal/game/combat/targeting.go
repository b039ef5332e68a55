package combat

// Targeting policy. Ties for "first living" always resolve to the lowest
// slot index; there is no randomness in targeting.

// CycleTarget advances TargetIndex to the next living slot, wrapping
// circularly. When no living slot exists after a full wrap, the index is
// left unchanged (a no-op, not an error).
//
// Postcondition: Returns true iff the target moved to a different slot.
func (e *Encounter) CycleTarget() bool {
	if len(e.Slots) == 0 {
		return false
	}
	start := e.TargetIndex
	for i := 1; i <= len(e.Slots); i++ {
		idx := (start + i) % len(e.Slots)
		if !e.Slots[idx].IsDead() {
			e.TargetIndex = idx
			return idx != start
		}
	}
	return false
}

// EnsureValidTarget retargets to the first living slot (scanning from
// index 0) when the current target is dead or out of range. When no slot
// is living, the index is left unchanged and false is returned.
//
// Postcondition: Returns true iff TargetIndex refers to a living slot.
func (e *Encounter) EnsureValidTarget() bool {
	if e.TargetIndex >= 0 && e.TargetIndex < len(e.Slots) && !e.Slots[e.TargetIndex].IsDead() {
		return true
	}
	for i, s := range e.Slots {
		if !s.IsDead() {
			e.TargetIndex = i
			return true
		}
	}
	return false
}

// SetTarget points TargetIndex at index. Out-of-range indices and dead
// slots are silently ignored.
//
// Postcondition: Returns true iff the target was changed to index.
func (e *Encounter) SetTarget(index int) bool {
	if index < 0 || index >= len(e.Slots) {
		return false
	}
	if e.Slots[index].IsDead() {
		return false
	}
	if e.TargetIndex == index {
		return false
	}
	e.TargetIndex = index
	return true
}
