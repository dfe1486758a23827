// Package asap implements the ASAP LatencyAssigner (spec component C5): a
// two-pass forward sweep over the graph's insertion order that registers a
// vertex as soon as its incoming or downstream pressure demands it.
package asap

import "github.com/ni/delaygraph/graph"

// Assign computes a registered set for g under targetPeriodPS using the
// ASAP heuristic (spec §4.5). The pass runs twice: the first establishes
// delay_map for most of the graph, the second re-reads it so feedback paths
// that were undetermined on the first pass see a settled value.
func Assign(g *graph.Graph, targetPeriodPS int) graph.VertexSet {
	delayMap := make(map[int]int)
	registered := graph.NewVertexSet()

	for _, v := range g.Vertices() {
		if v.IsRegistered {
			delayMap[v.ID] = 0
		}
	}

	for pass := 0; pass < 2; pass++ {
		sweep(g, targetPeriodPS, delayMap, registered)
	}

	return registered
}

func sweep(g *graph.Graph, targetPeriodPS int, delayMap map[int]int, registered graph.VertexSet) {
	for _, v := range g.Vertices() {
		if v.IsRegistered {
			continue
		}

		maxDelayIn := 0
		for _, e := range g.InEdges(v.ID) {
			if d := e.Delay + delayMap[e.From]; d > maxDelayIn {
				maxDelayIn = d
			}
		}

		maxDelayOut := 0
		maxThroughputOut, maxLatencyOut, maxRegisterOut := 0, 0, 0
		for _, e := range g.OutEdges(v.ID) {
			if e.Delay > maxDelayOut {
				maxDelayOut = e.Delay
			}
			target, ok := g.Vertex(e.To)
			if !ok {
				continue
			}
			if target.ThroughputCostIfRegistered > maxThroughputOut {
				maxThroughputOut = target.ThroughputCostIfRegistered
			}
			if target.LatencyCostIfRegistered > maxLatencyOut {
				maxLatencyOut = target.LatencyCostIfRegistered
			}
			if target.RegisterCostIfRegistered > maxRegisterOut {
				maxRegisterOut = target.RegisterCostIfRegistered
			}
		}

		if shouldRegister(v, targetPeriodPS, maxDelayIn, maxDelayOut, maxThroughputOut, maxLatencyOut, maxRegisterOut) {
			delayMap[v.ID] = 0
			registered.Add(v.ID)
		} else {
			delayMap[v.ID] = maxDelayIn
			registered.Remove(v.ID)
		}
	}
}

// shouldRegister implements spec §4.5 step 5's register condition (and law
// 6): timing pressure alone, or incoming delay combined with a downstream
// cost strictly worse than v's own, compared lexicographically by
// throughput, then latency, then register cost.
func shouldRegister(v *graph.Vertex, targetPeriodPS, maxDelayIn, maxDelayOut, maxThroughputOut, maxLatencyOut, maxRegisterOut int) bool {
	if maxDelayIn+maxDelayOut > targetPeriodPS {
		return true
	}
	if maxDelayIn <= 0 {
		return false
	}
	if maxThroughputOut > v.ThroughputCostIfRegistered {
		return true
	}
	if maxThroughputOut != v.ThroughputCostIfRegistered {
		return false
	}
	if maxLatencyOut > v.LatencyCostIfRegistered {
		return true
	}
	if maxLatencyOut != v.LatencyCostIfRegistered {
		return false
	}
	return maxRegisterOut > v.RegisterCostIfRegistered
}
