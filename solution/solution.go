package solution

import (
	"github.com/ni/delaygraph/graph"
	"github.com/ni/delaygraph/period"
	"github.com/ni/delaygraph/topology"
)

// Solution is the frozen result of evaluating a register assignment against
// a graph and a target period: the registered set after fixup (vertices with
// a static IsRegistered are not listed in it) plus the derived timing/score
// facts a caller compares with IsBetter.
type Solution struct {
	Name                    string
	Registered              graph.VertexSet
	TargetPeriodPS          int
	EstimatedPeriodPS       int
	FoundCombinationalCycle bool
	Slack                   int
	Score                   ScoreCard
}

// Evaluate freezes a Solution for name, g, and an initial registered set
// contributed by a latency assigner, against targetPeriodPS (spec §4.4).
//
// Construction runs, in order: sibling fixup (§4.2.5), combinational-cycle
// repair (only if PeriodEstimator's first pass reports a cycle), slack
// computation, and scoring. g is read but never mutated; the returned
// Registered set is a fresh copy safe for the caller to keep.
func Evaluate(name string, g *graph.Graph, initial graph.VertexSet, targetPeriodPS int) (*Solution, error) {
	registered := initial.Clone()

	applySiblingFixup(g, registered)

	period0, cycle0 := period.Estimate(g, registered)
	foundCycle := cycle0
	estimated := period0
	if cycle0 {
		repairCycles(g, registered)
		estimated, foundCycle = period.Estimate(g, registered)
	}

	order, err := topology.TopologicalSort(g)
	if err != nil {
		return nil, err
	}

	registers := 0
	for _, v := range g.Vertices() {
		if graph.EffectivelyRegistered(v, registered) {
			registers += v.RegisterCostIfRegistered
		}
	}

	return &Solution{
		Name:                    name,
		Registered:              registered,
		TargetPeriodPS:          targetPeriodPS,
		EstimatedPeriodPS:       estimated,
		FoundCombinationalCycle: foundCycle,
		Slack:                   targetPeriodPS - estimated,
		Score: ScoreCard{
			Throughput: topology.MaxCyclicThroughput(order, g, registered),
			Latency:    topology.MaxLatency(order, g, registered),
			Registers:  registers,
		},
	}, nil
}

// applySiblingFixup implements spec §4.4 step 1: for every sibling group, if
// any member is effectively registered, every other member joins it. Group
// membership already guarantees homogeneity, so DisallowRegister is not
// consulted here (spec §9).
func applySiblingFixup(g *graph.Graph, registered graph.VertexSet) {
	for _, group := range topology.SiblingGroups(g) {
		anyRegistered := false
		for _, v := range group {
			if graph.EffectivelyRegistered(v, registered) {
				anyRegistered = true
				break
			}
		}
		if !anyRegistered {
			continue
		}
		for _, v := range group {
			registered.Add(v.ID)
		}
	}
}

// repairCycles implements spec §4.4 step 2: a single pass over every
// terminal, unregistered, feedback-adjacent vertex, breaking at most one
// cycle per vertex by registering either the vertex itself or its
// unregistered, register-eligible forward-in sources.
//
// A FeedbackInputNode is the vertex a feedback edge lands on, not its
// source (graph.FeedbackInputNode's doc comment), so the edge that makes v
// a repair candidate is v's feedback-IN edge (prev -> v), not a feedback-out
// edge as the prose literally says; for v to actually sit on a live cycle,
// v's own forward path must reach back to prev, which is what closes the
// loop that prev's feedback edge re-enters at v. This reading is what makes
// scenario S3 resolve the way it's specified: v0 is the FeedbackInputNode,
// the feedback edge is v1->v0, and v0's forward edge to v1 is what confirms
// the cycle is live.
func repairCycles(g *graph.Graph, registered graph.VertexSet) {
	for _, v := range g.Vertices() {
		if !v.IsTerminal() || graph.EffectivelyRegistered(v, registered) {
			continue
		}
		if v.NodeType != graph.FeedbackInputNode &&
			!(v.NodeType == graph.RightShiftRegister && v.IsOutputTerminal) {
			continue
		}

		for _, e := range g.FeedbackInEdges(v.ID) {
			prev, ok := g.Vertex(e.From)
			if !ok || graph.EffectivelyRegistered(prev, registered) {
				continue
			}
			if !forwardUnregisteredPathExists(g, registered, v.ID, e.From) {
				continue
			}

			repaired := false
			if !v.DisallowRegister {
				registered.Add(v.ID)
				repaired = true
			} else if v.NodeType == graph.FeedbackInputNode {
				for _, in := range g.ForwardInEdges(v.ID) {
					src, ok := g.Vertex(in.From)
					if !ok || src.DisallowRegister || graph.EffectivelyRegistered(src, registered) {
						continue
					}
					registered.Add(src.ID)
					repaired = true
				}
			}
			if repaired {
				break
			}
		}
	}
}

// forwardUnregisteredPathExists reports whether a path from -> to exists
// using only forward edges through vertices that are not effectively
// registered (the target itself is exempt from that check: the caller has
// already verified it is unregistered). Explicit stack, no recursion.
func forwardUnregisteredPathExists(g *graph.Graph, registered graph.VertexSet, from, to int) bool {
	if from == to {
		return true
	}
	visited := make(map[int]bool)
	stack := []int{from}
	visited[from] = true

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, e := range g.ForwardOutEdges(cur) {
			if e.To == to {
				return true
			}
			if visited[e.To] {
				continue
			}
			next, ok := g.Vertex(e.To)
			if !ok || graph.EffectivelyRegistered(next, registered) {
				continue
			}
			visited[e.To] = true
			stack = append(stack, e.To)
		}
	}
	return false
}

// IsBetter implements the total order from spec §4.4: a cycle-free solution
// always beats one with a residual combinational cycle (law 9); otherwise
// ScoreCards are compared lexicographically (law 10). The dormant
// non-negative-slack preference described in spec §9 is not implemented.
func IsBetter(a, b *Solution) bool {
	if a.FoundCombinationalCycle != b.FoundCombinationalCycle {
		return !a.FoundCombinationalCycle
	}
	return a.Score.Less(b.Score)
}
