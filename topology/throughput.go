package topology

import "github.com/ni/delaygraph/graph"

// wavefrontEntry is the per-vertex state the cyclic-throughput wavefront
// keeps while a vertex is "in flight": a map from cycle-origin vertex ID to
// the best (maximum) cost seen on any incoming forward path, plus a
// reference count of how many forward out-edges still need to consume this
// entry before it can be dropped (spec §9's "wavefront reference counting",
// bounding peak memory to O(frontier x V) instead of O(V^2)).
type wavefrontEntry struct {
	data     map[int]int
	refCount int
}

// MaxCyclicThroughput computes, over every cycle that closes through a
// feedback edge, the sum of ThroughputCostIfRegistered contributions of
// effectively-registered vertices on the cycle's combinational path, and
// returns the maximum such sum over all cycles (spec §4.2.3).
//
// order must be a forward-only topological order of g (TopologicalSort's
// result); registered is the final effectively-registered set.
func MaxCyclicThroughput(order []*graph.Vertex, g *graph.Graph, registered graph.VertexSet) int {
	table := make(map[int]*wavefrontEntry, len(order))
	maxCycleCost := 0

	for _, v := range order {
		entry := &wavefrontEntry{data: make(map[int]int)}

		// 1. Merge predecessors' dictionaries, taking the max per origin.
		for _, e := range g.ForwardInEdges(v.ID) {
			pred, ok := table[e.From]
			if !ok {
				continue
			}
			for origin, cost := range pred.data {
				if cur, exists := entry.data[origin]; !exists || cost > cur {
					entry.data[origin] = cost
				}
			}
			pred.refCount--
			if pred.refCount <= 0 {
				delete(table, e.From)
			}
		}

		// 2. If v is effectively registered, its throughput cost accrues to
		// every path currently passing through it.
		if graph.EffectivelyRegistered(v, registered) {
			c := v.ThroughputCostIfRegistered
			for origin := range entry.data {
				entry.data[origin] += c
			}
		}

		// 3. A vertex with feedback in-edges is a cycle origin: it always
		// has an entry for itself (its own cost, or 0 if unregistered).
		if len(g.FeedbackInEdges(v.ID)) > 0 {
			selfCost := 0
			if graph.EffectivelyRegistered(v, registered) {
				selfCost = v.ThroughputCostIfRegistered
			}
			entry.data[v.ID] = selfCost
		}

		// 4. Close any cycle through v's feedback out-edges.
		for _, e := range g.FeedbackOutEdges(v.ID) {
			if cost, ok := entry.data[e.To]; ok {
				if cost > maxCycleCost {
					maxCycleCost = cost
				}
			}
		}

		entry.refCount = len(g.ForwardOutEdges(v.ID))
		if entry.refCount > 0 {
			table[v.ID] = entry
		}
	}

	return maxCycleCost
}
