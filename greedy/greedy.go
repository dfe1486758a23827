// Package greedy implements the Greedy LatencyAssigner (spec component
// C6): start maximally registered, then iteratively de-register wherever it
// is safe to do so, tracking four derived structures so a removal's effect
// on its neighbors never requires a full re-scan of the graph.
package greedy

import (
	"log/slog"
	"sort"

	"github.com/ni/delaygraph/graph"
	"github.com/ni/delaygraph/period"
)

type edgeKey struct {
	from, to int
}

// state is the derived bookkeeping the de-registration loop maintains
// alongside the registered set (spec §4.6).
type state struct {
	g           *graph.Graph
	registered  graph.VertexSet
	inputDelay  map[int]int
	outputDelay map[int]int
	faninRegs   map[int]graph.VertexSet
	fanoutRegs  map[int]graph.VertexSet
	regRegDelay map[edgeKey]int
}

// Assign computes a registered set for g under targetPeriodPS using the
// Greedy heuristic: every vertex starts registered, then candidates are
// de-registered, highest-cost first, as long as doing so stays safe (spec
// §4.6, law 7: the registered set shrinks monotonically).
func Assign(g *graph.Graph, targetPeriodPS int, logger *slog.Logger) graph.VertexSet {
	if logger == nil {
		logger = slog.Default()
	}

	st := newState(g)

	for {
		candidates := st.candidates()
		if len(candidates) == 0 {
			break
		}
		sort.Slice(candidates, func(i, j int) bool {
			a, b := candidates[i], candidates[j]
			if a.ThroughputCostIfRegistered != b.ThroughputCostIfRegistered {
				return a.ThroughputCostIfRegistered > b.ThroughputCostIfRegistered
			}
			if a.LatencyCostIfRegistered != b.LatencyCostIfRegistered {
				return a.LatencyCostIfRegistered > b.LatencyCostIfRegistered
			}
			return a.RegisterCostIfRegistered > b.RegisterCostIfRegistered
		})

		changed := false
		for _, v := range candidates {
			if st.isSafeToDeRegister(v.ID, targetPeriodPS) {
				st.merge(v.ID)
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	if finalPeriod, cycle := period.Estimate(g, st.registered); cycle || targetPeriodPS-finalPeriod < 0 {
		logger.Warn("greedy assignment has residual timing or cycle issues",
			"cycle", cycle, "period_ps", finalPeriod, "target_period_ps", targetPeriodPS)
	}

	return st.nonStaticRegistered()
}

// nonStaticRegistered strips statically-registered vertices out of the
// returned set, matching asap.Assign's contract: a LatencyAssigner's result
// reports only the registers it chose to place, not the ones the graph
// already fixed in place.
func (st *state) nonStaticRegistered() graph.VertexSet {
	out := graph.NewVertexSet()
	for id := range st.registered {
		if vtx, ok := st.g.Vertex(id); ok && vtx.IsRegistered {
			continue
		}
		out.Add(id)
	}
	return out
}

func newState(g *graph.Graph) *state {
	st := &state{
		g:           g,
		registered:  graph.NewVertexSet(),
		inputDelay:  make(map[int]int),
		outputDelay: make(map[int]int),
		faninRegs:   make(map[int]graph.VertexSet),
		fanoutRegs:  make(map[int]graph.VertexSet),
		regRegDelay: make(map[edgeKey]int),
	}

	for _, v := range g.Vertices() {
		st.registered.Add(v.ID)

		in := 0
		fanin := graph.NewVertexSet()
		for _, e := range g.InEdges(v.ID) {
			if e.Delay > in {
				in = e.Delay
			}
			fanin.Add(e.From)
			st.regRegDelay[edgeKey{e.From, v.ID}] = e.Delay
		}
		st.inputDelay[v.ID] = in
		st.faninRegs[v.ID] = fanin

		out := 0
		fanout := graph.NewVertexSet()
		for _, e := range g.OutEdges(v.ID) {
			if e.Delay > out {
				out = e.Delay
			}
			fanout.Add(e.To)
		}
		st.outputDelay[v.ID] = out
		st.fanoutRegs[v.ID] = fanout
	}

	return st
}

// candidates returns every vertex still eligible for de-registration: not
// statically registered, and still a member of the working registered set.
func (st *state) candidates() []*graph.Vertex {
	var out []*graph.Vertex
	for _, v := range st.g.Vertices() {
		if v.IsRegistered || !st.registered.Contains(v.ID) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// isSafeToDeRegister implements spec §4.6's safety check.
func (st *state) isSafeToDeRegister(v int, targetPeriodPS int) bool {
	if vtx, ok := st.g.Vertex(v); ok && vtx.IsRegistered {
		return false
	}
	if !st.registered.Contains(v) {
		return false
	}
	if st.inputDelay[v]+st.outputDelay[v] > targetPeriodPS {
		return false
	}
	if st.faninRegs[v].Contains(v) || st.fanoutRegs[v].Contains(v) {
		return false
	}
	return true
}

// merge splices v out of the registered fabric, folding its delay and
// adjacency contributions into its registered neighbors (spec §4.6).
func (st *state) merge(v int) {
	fanin := st.faninRegs[v]
	fanout := st.fanoutRegs[v]

	for fi := range fanin {
		for fo := range fanout {
			candidate := st.regRegDelay[edgeKey{fi, v}] + st.regRegDelay[edgeKey{v, fo}]
			key := edgeKey{fi, fo}
			if candidate > st.regRegDelay[key] {
				st.regRegDelay[key] = candidate
			}
		}
	}

	for fi := range fanin {
		if d := st.regRegDelay[edgeKey{fi, v}] + st.outputDelay[v]; d > st.outputDelay[fi] {
			st.outputDelay[fi] = d
		}
	}
	for fo := range fanout {
		if d := st.inputDelay[v] + st.regRegDelay[edgeKey{v, fo}]; d > st.inputDelay[fo] {
			st.inputDelay[fo] = d
		}
	}

	for fi := range fanin {
		st.fanoutRegs[fi].Remove(v)
		for fo := range fanout {
			st.fanoutRegs[fi].Add(fo)
		}
	}
	for fo := range fanout {
		st.faninRegs[fo].Remove(v)
		for fi := range fanin {
			st.faninRegs[fo].Add(fi)
		}
	}

	delete(st.inputDelay, v)
	delete(st.outputDelay, v)
	delete(st.faninRegs, v)
	delete(st.fanoutRegs, v)
	st.registered.Remove(v)
}
