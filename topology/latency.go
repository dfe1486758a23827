package topology

import "github.com/ni/delaygraph/graph"

// MaxLatency computes the maximum forward latency-cost accumulation along
// any path to a sink (spec §4.2.4): for each vertex v in topological order,
// cost(v) = max(cost(pred) for pred in forward in-neighbors) +
// LatencyCostIfRegistered(v) if v is effectively registered, else 0. The
// result is the maximum cost(v) over every sink (vertex with no forward
// out-edges).
func MaxLatency(order []*graph.Vertex, g *graph.Graph, registered graph.VertexSet) int {
	cost := make(map[int]int, len(order))
	maxLatency := 0

	for _, v := range order {
		best := 0
		for _, e := range g.ForwardInEdges(v.ID) {
			if c, ok := cost[e.From]; ok && c > best {
				best = c
			}
		}
		if graph.EffectivelyRegistered(v, registered) {
			best += v.LatencyCostIfRegistered
		}
		cost[v.ID] = best

		if len(g.ForwardOutEdges(v.ID)) == 0 && best > maxLatency {
			maxLatency = best
		}
	}

	return maxLatency
}
