package topology

import "github.com/ni/delaygraph/graph"

// tarjanMeta is the per-vertex bookkeeping Tarjan's algorithm needs: the
// discovery index, the current low-link, and whether the vertex is still on
// the component stack.
type tarjanMeta struct {
	index   int
	low     int
	onStack bool
}

// tarjanFrame is one explicit stack frame standing in for a recursive
// strongconnect(v) call (spec §9): v is the vertex, cursor is how many of
// its out-edges (forward and feedback — Tarjan runs over all edges) have
// been processed, and returningFrom/hasReturn carry the child's low-link
// back to the parent the way a return value would.
type tarjanFrame struct {
	v             int
	cursor        int
	returningFrom int
	hasReturn     bool
}

// TarjanSCC partitions g's vertices into strongly connected components
// using Tarjan's algorithm over ALL edges (forward and feedback), as a
// general-purpose cycle detector. Singleton components are included. SCCs
// are returned in the order they are popped (Tarjan's natural reverse
// topological order of components).
//
// The recursive textbook algorithm is converted to an explicit stack of
// tarjanFrame values so traversal depth is bounded only by heap, not by the
// native call stack.
func TarjanSCC(g *graph.Graph) [][]*graph.Vertex {
	verts := g.Vertices()
	meta := make(map[int]*tarjanMeta, len(verts))
	index := 0
	var componentStack []int
	var sccs [][]*graph.Vertex

	for _, root := range verts {
		if meta[root.ID] != nil {
			continue
		}

		stack := []tarjanFrame{{v: root.ID}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]

			m := meta[top.v]
			if m == nil {
				m = &tarjanMeta{index: index, low: index, onStack: true}
				meta[top.v] = m
				index++
				componentStack = append(componentStack, top.v)
			}

			if top.hasReturn {
				if cm := meta[top.returningFrom]; cm != nil && cm.low < m.low {
					m.low = cm.low
				}
				top.hasReturn = false
			}

			outs := g.OutEdges(top.v)
			advanced := false
			for top.cursor < len(outs) {
				w := outs[top.cursor].To
				top.cursor++

				wm := meta[w]
				if wm == nil {
					stack = append(stack, tarjanFrame{v: w})
					advanced = true
					break
				}
				if wm.onStack && wm.index < m.low {
					m.low = wm.index
				}
			}
			if advanced {
				continue
			}

			// All of top.v's out-edges explored: pop it, propagate low-link
			// to parent, and if it is a component root, emit the SCC.
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				parent := &stack[len(stack)-1]
				parent.returningFrom = top.v
				parent.hasReturn = true
			}

			if m.low == m.index {
				var scc []*graph.Vertex
				for {
					n := len(componentStack) - 1
					w := componentStack[n]
					componentStack = componentStack[:n]
					meta[w].onStack = false
					if vx, ok := g.Vertex(w); ok {
						scc = append(scc, vx)
					}
					if w == top.v {
						break
					}
				}
				sccs = append(sccs, scc)
			}
		}
	}

	return sccs
}

// HasCycle reports whether g (over all edges, forward and feedback)
// contains any cycle: equivalent to some SCC having more than one member,
// or a single-vertex SCC with a self-loop.
func HasCycle(g *graph.Graph) bool {
	for _, scc := range TarjanSCC(g) {
		if len(scc) > 1 {
			return true
		}
		v := scc[0]
		for _, e := range g.OutEdges(v.ID) {
			if e.To == v.ID {
				return true
			}
		}
	}
	return false
}
