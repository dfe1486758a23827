// Package period implements the PeriodEstimator (spec component C3): the
// longest combinational delay between registers, including graph inputs
// and outputs as implicit register boundaries, plus combinational-cycle
// detection.
package period

import "github.com/ni/delaygraph/graph"

// visitState mirrors topology's tri-state marks: Queued/Visiting/Visited
// (spec §9), used here to detect cycles during the forward delay-sum walk.
type visitState uint8

const (
	queued visitState = iota
	visiting
	visited
)

// frame is one explicit-stack entry standing in for a recursive call that
// sums delay along v's out-edges (forward and feedback), stopping at (but
// still crediting) any downstream effectively-registered vertex.
type frame struct {
	v int
	// cursor is how many of v's out-edges have been examined so far.
	cursor int
}

// Estimate computes the longest combinational path in g, given the final
// effectively-registered set, and reports whether any combinational cycle
// was encountered (spec §4.3).
//
// Algorithm: for every vertex that is either effectively registered or has
// no in-edges (a graph input), run a walk over ALL out-edges (forward and
// feedback alike) summing edge delays, stopping at any downstream
// effectively-registered vertex (crediting the edge's own delay but not
// descending further). A feedback edge is still a physical combinational
// path until a register actually breaks it, so it must be walked here even
// though topology.TopologicalSort ignores it. Results are memoized in
// computedDelays. A second pass handles vertices unreached by the first
// (pure-cyclic subgraphs with no effectively-registered member and no
// zero-in-degree vertex).
func Estimate(g *graph.Graph, registered graph.VertexSet) (maxPeriod int, cycleFlag bool) {
	computedDelays := make(map[int]int)
	state := make(map[int]visitState)

	runFrom := func(start int) {
		d, cyc := delayFrom(g, registered, start, state, computedDelays)
		cycleFlag = cycleFlag || cyc
		if d > maxPeriod {
			maxPeriod = d
		}
	}

	verts := g.Vertices()

	// First pass: registration boundaries and graph inputs.
	for _, v := range verts {
		if graph.EffectivelyRegistered(v, registered) || len(g.InEdges(v.ID)) == 0 {
			if _, done := computedDelays[v.ID]; !done {
				runFrom(v.ID)
			}
		}
	}

	// Second pass: anything left over (pure-cyclic subgraphs the first pass
	// never reached because none of their members are a registration
	// boundary or a graph input).
	for _, v := range verts {
		if _, done := computedDelays[v.ID]; !done {
			runFrom(v.ID)
		}
	}

	return maxPeriod, cycleFlag
}

// delayFrom computes the longest combinational delay reachable starting at
// start, using an explicit stack so traversal depth is bounded by heap, not
// the native call stack. It returns the longest delay found starting at
// start and whether a cycle was observed anywhere in the walk.
func delayFrom(g *graph.Graph, registered graph.VertexSet, start int, state map[int]visitState, memo map[int]int) (int, bool) {
	if d, ok := memo[start]; ok {
		return d, false
	}

	cycleSeen := false
	// best[v] accumulates the maximum delay achievable starting at v,
	// filled in as the explicit-stack walk finishes each vertex.
	best := make(map[int]int)
	stack := []frame{{v: start}}
	state[start] = visiting

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		outs := g.OutEdges(top.v)

		advanced := false
		for top.cursor < len(outs) {
			e := outs[top.cursor]
			top.cursor++

			// Stop descending at an effectively-registered downstream
			// vertex, but still credit this edge's own delay.
			if target, ok := g.Vertex(e.To); ok && graph.EffectivelyRegistered(target, registered) {
				if e.Delay > best[top.v] {
					best[top.v] = e.Delay
				}
				continue
			}

			if d, ok := memo[e.To]; ok {
				if v := e.Delay + d; v > best[top.v] {
					best[top.v] = v
				}
				continue
			}

			if state[e.To] == visiting {
				// Back edge: a combinational cycle. Attribute 0 additional
				// delay past this edge to avoid infinite accumulation, but
				// still record the edge's own contribution.
				cycleSeen = true
				if e.Delay > best[top.v] {
					best[top.v] = e.Delay
				}
			} else {
				// state[e.To] is either unset (queued's zero value) or
				// visited; a visited vertex would already have a memo
				// entry and be handled by the check above, so this branch
				// only ever starts a fresh descent.
				state[e.To] = visiting
				stack = append(stack, frame{v: e.To})
				advanced = true
			}
			if advanced {
				break
			}
		}
		if advanced {
			continue
		}

		state[top.v] = visited
		memo[top.v] = best[top.v]
		stack = stack[:len(stack)-1]

		if len(stack) > 0 {
			parent := &stack[len(stack)-1]
			pe := g.OutEdges(parent.v)[parent.cursor-1]
			if v := pe.Delay + best[top.v]; v > best[parent.v] {
				best[parent.v] = v
			}
		}
	}

	return memo[start], cycleSeen
}
