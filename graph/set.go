package graph

// VertexSet is the registered-terminals representation of a Solution
// (spec §3): the set of vertex IDs a latency assigner has chosen to
// register. It is a plain map so assigners and the evaluator can mutate it
// cheaply; Clone is provided for the places (sibling fixup, cycle repair)
// that need to branch without aliasing a caller's set.
type VertexSet map[int]struct{}

// NewVertexSet returns an empty VertexSet, optionally pre-populated with ids.
func NewVertexSet(ids ...int) VertexSet {
	s := make(VertexSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is in the set.
func (s VertexSet) Contains(id int) bool {
	_, ok := s[id]
	return ok
}

// Add inserts id into the set.
func (s VertexSet) Add(id int) { s[id] = struct{}{} }

// Remove deletes id from the set.
func (s VertexSet) Remove(id int) { delete(s, id) }

// Clone returns an independent copy of the set.
func (s VertexSet) Clone() VertexSet {
	out := make(VertexSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Slice returns the set's members as a slice, in unspecified order. Callers
// that need determinism (e.g. scorecard rendering) must sort the result
// themselves.
func (s VertexSet) Slice() []int {
	out := make([]int, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	return out
}

// EffectivelyRegistered reports whether v is effectively registered in the
// final solution: either it statically carries a register (IsRegistered)
// or the solver's registered set contains its ID (spec §3).
func EffectivelyRegistered(v *Vertex, registered VertexSet) bool {
	return v.IsRegistered || registered.Contains(v.ID)
}
