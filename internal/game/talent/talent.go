// Package talent provides the rank-based talent list and its aggregate
// stat contribution.
package talent

import (
	"fmt"
	"sync"

	"github.com/cory-johannsen/grind/internal/game/stats"
)

// Definition describes one talent: a per-rank stat contribution and a cap.
type Definition struct {
	ID   string
	Name string
	// MaxRank is the highest rank this talent can reach.
	MaxRank int
	// PerRank is the stat contribution granted by each rank.
	PerRank stats.Bonuses
}

// Validate checks that the definition satisfies basic invariants.
//
// Postcondition: Returns nil iff ID is non-empty and MaxRank >= 1.
func (d Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("talent: id must not be empty")
	}
	if d.MaxRank < 1 {
		return fmt.Errorf("talent %q: max_rank must be >= 1", d.ID)
	}
	return nil
}

// Tree holds the character's learned talent ranks.
// All methods are safe for concurrent use.
//
// Invariant: every stored rank is in [1, definition.MaxRank].
type Tree struct {
	mu    sync.RWMutex
	defs  map[string]Definition
	ranks map[string]int
}

// NewTree creates a Tree over the given definitions with no ranks learned.
//
// Precondition: every definition must pass Validate.
// Postcondition: Returns a non-nil Tree or the first validation error.
func NewTree(defs []Definition) (*Tree, error) {
	t := &Tree{
		defs:  make(map[string]Definition, len(defs)),
		ranks: make(map[string]int),
	}
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		t.defs[d.ID] = d
	}
	return t, nil
}

// Rank returns the learned rank for talentID, 0 when unlearned.
func (t *Tree) Rank(talentID string) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.ranks[talentID]
}

// Learn raises talentID by one rank.
//
// Postcondition: Returns the new rank, or an error when the talent is
// unknown or already at MaxRank.
func (t *Tree) Learn(talentID string) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	def, ok := t.defs[talentID]
	if !ok {
		return 0, fmt.Errorf("talent %q not found", talentID)
	}
	if t.ranks[talentID] >= def.MaxRank {
		return t.ranks[talentID], fmt.Errorf("talent %q already at max rank %d", talentID, def.MaxRank)
	}
	t.ranks[talentID]++
	return t.ranks[talentID], nil
}

// Bonuses returns the sum over all learned talents of rank * PerRank.
// This is the TalentStatsProvider query consumed by stat resolution.
//
// Postcondition: Returns the zero bundle when nothing is learned.
func (t *Tree) Bonuses() stats.Bonuses {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var total stats.Bonuses
	for id, rank := range t.ranks {
		per := t.defs[id].PerRank
		for i := 0; i < rank; i++ {
			total = stats.Sum(total, per)
		}
	}
	return total
}
