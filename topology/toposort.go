// Package topology implements the graph algorithms the Register Assignment
// Problem solver runs on a graph.Graph (spec component C2): a
// feedback-aware topological sort, Tarjan strongly-connected-component
// detection, the cyclic-throughput wavefront pass, the max-forward-latency
// wavefront pass, and sibling-group discovery.
//
// Every traversal here is iterative with an explicit work stack. None of
// them recurse: inputs from real HLS designs run tens of thousands of
// vertices deep on a single path, past the point native recursion survives.
package topology

import (
	"errors"

	"github.com/ni/delaygraph/graph"
)

// ErrCyclicForwardGraph is returned by TopologicalSort when the forward
// (non-feedback) edge set itself contains a cycle. Well-formed inputs with
// correctly tagged feedback edges never trigger this; it signals the
// "unexpected bad topological seed" condition from spec §7.
var ErrCyclicForwardGraph = errors.New("topology: forward edge set is cyclic")

// visitState is the tri-state mark used by the iterative DFS conversions in
// this package (spec §9: Queued/Visiting/Visited).
type visitState uint8

const (
	queued visitState = iota
	visiting
	visited
)

// frame is one entry on the explicit work stack used by TopologicalSort. It
// stands in for a recursive call's activation record: cursor is how many of
// v's forward out-edges have already been pushed.
type frame struct {
	v      int
	cursor int
}

// TopologicalSort orders g's vertices along forward (non-feedback) edges
// only: for every forward edge u->v, u appears before v. The underlying DFS
// visits seeds, and each vertex's forward out-edges, in insertion order; the
// result is the reverse of that walk's post-order, so vertices with no
// ordering constraint between them are not necessarily returned in
// insertion order (for edges 0->1 and 0->2, 2 comes before 1).
//
// Seeds are every vertex with no forward in-edges, visited in insertion
// order. If the forward edge set is itself cyclic (feedback edges
// mis-tagged), ErrCyclicForwardGraph is returned.
func TopologicalSort(g *graph.Graph) ([]*graph.Vertex, error) {
	verts := g.Vertices()
	state := make(map[int]visitState, len(verts))
	postOrder := make([]*graph.Vertex, 0, len(verts))

	// Seeds: every vertex with no forward in-edges, in insertion order.
	for _, v := range verts {
		if len(g.ForwardInEdges(v.ID)) != 0 {
			continue
		}
		if state[v.ID] != queued {
			continue
		}
		if err := visitIterative(g, v.ID, state, &postOrder); err != nil {
			return nil, err
		}
	}

	// Sweep any vertex a seed-rooted walk did not reach. On a well-formed
	// forward-acyclic graph every vertex is reachable from a seed (isolated
	// vertices are seeds themselves), so this finds nothing left; on a
	// malformed input (forward cycle with no zero-indegree member) it is what
	// lets visitIterative observe the back edge and report
	// ErrCyclicForwardGraph.
	for _, v := range verts {
		if state[v.ID] != queued {
			continue
		}
		if err := visitIterative(g, v.ID, state, &postOrder); err != nil {
			return nil, err
		}
	}

	// A vertex is appended to postOrder only once all of its forward
	// descendants have finished, so reversing the full post-order sequence
	// yields a valid topological order across the whole forest.
	for i, j := 0, len(postOrder)-1; i < j; i, j = i+1, j-1 {
		postOrder[i], postOrder[j] = postOrder[j], postOrder[i]
	}

	return postOrder, nil
}

// visitIterative runs one explicit-stack DFS rooted at startID, appending
// each vertex to postOrder when all of its forward out-edges have been
// explored (post-order, descendants before ancestors).
func visitIterative(g *graph.Graph, startID int, state map[int]visitState, postOrder *[]*graph.Vertex) error {
	stack := []frame{{v: startID}}
	state[startID] = visiting

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		outs := g.ForwardOutEdges(top.v)

		if top.cursor < len(outs) {
			next := outs[top.cursor].To
			top.cursor++

			switch state[next] {
			case visiting:
				return ErrCyclicForwardGraph
			case visited:
				// already finished along another path
			default:
				state[next] = visiting
				stack = append(stack, frame{v: next})
			}
			continue
		}

		// All out-edges explored: finish this vertex.
		state[top.v] = visited
		if vx, ok := g.Vertex(top.v); ok {
			*postOrder = append(*postOrder, vx)
		}
		stack = stack[:len(stack)-1]
	}

	return nil
}
