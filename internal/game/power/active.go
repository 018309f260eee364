package power

import (
	"errors"
	"fmt"
	"sort"
)

// ErrAlreadyOwned is returned when a Power that already belongs to an
// ActiveSet is added to another one.
var ErrAlreadyOwned = errors.New("power already owned")

// ActiveSet is the ordered collection of powers active on one entity.
// It is not safe for concurrent use; the caller must serialise access.
type ActiveSet struct {
	powers []*Power
}

// NewActiveSet creates an empty ActiveSet.
func NewActiveSet() *ActiveSet {
	return &ActiveSet{}
}

// Add appends p to the set. Insertion order breaks priority ties.
//
// Precondition: p must not be nil.
// Postcondition: p is owned by this set, or ErrAlreadyOwned is returned.
func (s *ActiveSet) Add(p *Power) error {
	if p == nil {
		return fmt.Errorf("Add: power must not be nil")
	}
	if p.owned {
		return fmt.Errorf("Add %s: %w", p.Name(), ErrAlreadyOwned)
	}
	p.owned = true
	s.powers = append(s.powers, p)
	return nil
}

// Remove deletes p from the set.
//
// Postcondition: Returns true iff p was present; p is no longer owned.
func (s *ActiveSet) Remove(p *Power) bool {
	for i, x := range s.powers {
		if x == p {
			s.powers = append(s.powers[:i], s.powers[i+1:]...)
			p.owned = false
			return true
		}
	}
	return false
}

// Has reports whether a power named name is active.
func (s *ActiveSet) Has(name string) bool {
	for _, p := range s.powers {
		if p.Name() == name {
			return true
		}
	}
	return false
}

// Len returns the number of active powers.
func (s *ActiveSet) Len() int { return len(s.powers) }

// All returns the active powers in insertion order. The slice is a new
// allocation; the Powers are shared.
func (s *ActiveSet) All() []*Power {
	out := make([]*Power, len(s.powers))
	copy(out, s.powers)
	return out
}

// Matching returns the powers listening to t in resolution order: powers
// marked ResolveLast after all others, then priority descending, then
// insertion order.
func (s *ActiveSet) Matching(t Trigger) []*Power {
	var out []*Power
	for _, p := range s.powers {
		if p.Listens(t) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].last != out[j].last {
			return !out[i].last
		}
		return out[i].priority > out[j].priority
	})
	return out
}

// Tick ages every power by one turn and removes those that expired.
//
// Postcondition: Returns the expired powers in insertion order; none of them
// remain in the set.
func (s *ActiveSet) Tick() []*Power {
	var expired []*Power
	kept := s.powers[:0]
	for _, p := range s.powers {
		if p.TurnTick() {
			p.owned = false
			expired = append(expired, p)
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(s.powers); i++ {
		s.powers[i] = nil
	}
	s.powers = kept
	return expired
}

// Clear removes every power, e.g. when the owning entity leaves play.
//
// Postcondition: Len() == 0; the removed powers are returned and no longer owned.
func (s *ActiveSet) Clear() []*Power {
	out := s.powers
	for _, p := range out {
		p.owned = false
	}
	s.powers = nil
	return out
}
