package engine

import "slices"

// Stack is the ordered set of active notification ids. Index 0 holds rank 1,
// the most recently shown notification. Ranks are always contiguous and ids
// are never repeated.
type Stack struct {
	ids []uint32
}

// Len returns the number of active entries (K).
func (s *Stack) Len() int {
	return len(s.ids)
}

// IDs returns a copy of the active ids in rank order.
func (s *Stack) IDs() []uint32 {
	return slices.Clone(s.ids)
}

// At returns the id at the 1-based rank.
func (s *Stack) At(rank int) (uint32, bool) {
	if rank < 1 || rank > len(s.ids) {
		return 0, false
	}
	return s.ids[rank-1], true
}

// Rank returns the 1-based rank of id.
func (s *Stack) Rank(id uint32) (int, bool) {
	i := slices.Index(s.ids, id)
	if i < 0 {
		return 0, false
	}
	return i + 1, true
}

// Insert places id at rank 1 and shifts every other entry down one rank.
// Entries pushed beyond capacity are dropped and returned, deepest last.
// With a capacity of zero or less nothing is kept and id itself is returned.
func (s *Stack) Insert(id uint32, capacity int) []uint32 {
	if capacity <= 0 {
		return []uint32{id}
	}

	s.Remove(id)

	s.ids = slices.Insert(s.ids, 0, id)
	if len(s.ids) <= capacity {
		return nil
	}
	evicted := slices.Clone(s.ids[capacity:])
	s.ids = s.ids[:capacity]
	return evicted
}

// Remove deletes id and closes the gap, keeping the relative order of the
// remaining entries. It returns the rank id had.
func (s *Stack) Remove(id uint32) (int, bool) {
	i := slices.Index(s.ids, id)
	if i < 0 {
		return 0, false
	}
	s.ids = slices.Delete(s.ids, i, i+1)
	return i + 1, true
}

// Truncate drops every entry beyond capacity and returns the dropped ids.
func (s *Stack) Truncate(capacity int) []uint32 {
	if capacity < 0 {
		capacity = 0
	}
	if len(s.ids) <= capacity {
		return nil
	}
	dropped := slices.Clone(s.ids[capacity:])
	s.ids = s.ids[:capacity]
	return dropped
}
