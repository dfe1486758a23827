package graph

// Graph is the stable-ordered directed graph container (spec component C1,
// "DirectedGraph"). Vertices and edges are additions-only during the build
// phase: AddVertex/AddEdge append to insertion-order slices while also
// populating map[int]int index side tables, so lookups stay O(1) without
// sacrificing the deterministic iteration order several algorithms'
// tie-breaking depends on (see topology.TopologicalSort, topology.TarjanSCC).
//
// Graph carries no locks. Per the engine's single-threaded, synchronous
// design (the core never blocks on I/O and holds no process-global state),
// one owner builds a Graph and then treats it as read-only for the rest of
// a solve; running independent solves concurrently means constructing
// independent Graph values, not sharing one under a mutex.
type Graph struct {
	vertices    []*Vertex
	vertexIndex map[int]int // vertex ID -> index into vertices

	edges     []*Edge
	nextSeq   int
	outEdges  map[int][]*Edge // vertex ID -> out-edges, insertion order
	inEdges   map[int][]*Edge // vertex ID -> in-edges, insertion order
}

// New returns an empty Graph ready for AddVertex/AddEdge.
func New() *Graph {
	return &Graph{
		vertexIndex: make(map[int]int),
		outEdges:    make(map[int][]*Edge),
		inEdges:     make(map[int][]*Edge),
	}
}

// AddVertex appends v if its ID is new. First insertion wins: a second call
// with the same ID is a no-op that returns false (so builders can treat the
// return value as "was this new").
func (g *Graph) AddVertex(v *Vertex) bool {
	if _, exists := g.vertexIndex[v.ID]; exists {
		return false
	}

	g.vertexIndex[v.ID] = len(g.vertices)
	g.vertices = append(g.vertices, v)
	// Create v's adjacency map entries; they stay nil until an edge is added.
	if _, ok := g.outEdges[v.ID]; !ok {
		g.outEdges[v.ID] = nil
	}
	if _, ok := g.inEdges[v.ID]; !ok {
		g.inEdges[v.ID] = nil
	}

	return true
}

// AddEdge appends e to the edge list and to both endpoints' adjacency
// buckets. Fails without mutation if either endpoint is unknown.
func (g *Graph) AddEdge(e *Edge) bool {
	if _, ok := g.vertexIndex[e.From]; !ok {
		return false
	}
	if _, ok := g.vertexIndex[e.To]; !ok {
		return false
	}

	e.seq = g.nextSeq
	g.nextSeq++

	g.edges = append(g.edges, e)
	g.outEdges[e.From] = append(g.outEdges[e.From], e)
	g.inEdges[e.To] = append(g.inEdges[e.To], e)

	return true
}

// RemoveEdge detaches e from both adjacency lists and the edge list. It
// matches by the internal seq number AddEdge assigned, not by field values,
// since Edge values are mutable after insertion (builders may flip
// IsFeedback, etc.) and seq keeps this removal unambiguous even with
// duplicate (From, To, Delay) triples.
func (g *Graph) RemoveEdge(e *Edge) bool {
	removed := false
	if es, ok := g.outEdges[e.From]; ok {
		if idx := indexOfSeq(es, e.seq); idx >= 0 {
			g.outEdges[e.From] = append(es[:idx], es[idx+1:]...)
			removed = true
		}
	}
	if es, ok := g.inEdges[e.To]; ok {
		if idx := indexOfSeq(es, e.seq); idx >= 0 {
			g.inEdges[e.To] = append(es[:idx], es[idx+1:]...)
		}
	}
	if idx := indexOfSeq(g.edges, e.seq); idx >= 0 {
		g.edges = append(g.edges[:idx], g.edges[idx+1:]...)
	}

	return removed
}

func indexOfSeq(es []*Edge, seq int) int {
	for i, e := range es {
		if e.seq == seq {
			return i
		}
	}
	return -1
}

// Vertex returns the vertex with the given ID, if present.
func (g *Graph) Vertex(id int) (*Vertex, bool) {
	idx, ok := g.vertexIndex[id]
	if !ok {
		return nil, false
	}
	return g.vertices[idx], true
}

// Vertices returns all vertices in stable insertion order. The returned
// slice is a copy; mutating it does not affect the graph.
func (g *Graph) Vertices() []*Vertex {
	out := make([]*Vertex, len(g.vertices))
	copy(out, g.vertices)
	return out
}

// Edges returns all edges in stable insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int { return len(g.vertices) }

// InEdges returns v's incoming edges (forward and feedback) in insertion order.
func (g *Graph) InEdges(v int) []*Edge { return g.inEdges[v] }

// OutEdges returns v's outgoing edges (forward and feedback) in insertion order.
func (g *Graph) OutEdges(v int) []*Edge { return g.outEdges[v] }

// ForwardInEdges returns v's incoming edges excluding feedback edges.
func (g *Graph) ForwardInEdges(v int) []*Edge { return filterFeedback(g.inEdges[v], false) }

// ForwardOutEdges returns v's outgoing edges excluding feedback edges.
func (g *Graph) ForwardOutEdges(v int) []*Edge { return filterFeedback(g.outEdges[v], false) }

// FeedbackInEdges returns v's incoming feedback edges only.
func (g *Graph) FeedbackInEdges(v int) []*Edge { return filterFeedback(g.inEdges[v], true) }

// FeedbackOutEdges returns v's outgoing feedback edges only.
func (g *Graph) FeedbackOutEdges(v int) []*Edge { return filterFeedback(g.outEdges[v], true) }

func filterFeedback(es []*Edge, wantFeedback bool) []*Edge {
	var out []*Edge
	for _, e := range es {
		if e.IsFeedback == wantFeedback {
			out = append(out, e)
		}
	}
	return out
}

// PruneParallelEdges collapses duplicate (source, target) out-edges of every
// vertex, keeping the one with the largest Delay (spec invariant I1). It is
// idempotent and is meant to run exactly once, before solving.
//
// Returns whether any edge was removed.
func (g *Graph) PruneParallelEdges() bool {
	changed := false

	for _, v := range g.vertices {
		best := make(map[int]*Edge) // target -> edge with largest delay so far
		var order []int             // first-seen order of targets, for stable re-insertion
		for _, e := range g.outEdges[v.ID] {
			cur, seen := best[e.To]
			if !seen {
				order = append(order, e.To)
				best[e.To] = e
				continue
			}
			if e.Delay > cur.Delay {
				best[e.To] = e
			}
		}

		keep := make(map[int]bool, len(order))
		for _, to := range order {
			keep[best[to].seq] = true
		}

		kept := g.outEdges[v.ID][:0:0]
		for _, e := range g.outEdges[v.ID] {
			if keep[e.seq] {
				kept = append(kept, e)
				continue
			}
			changed = true
			// Detach the losing duplicate from its target's in-edge bucket too.
			if ins, ok := g.inEdges[e.To]; ok {
				if idx := indexOfSeq(ins, e.seq); idx >= 0 {
					g.inEdges[e.To] = append(ins[:idx], ins[idx+1:]...)
				}
			}
			if idx := indexOfSeq(g.edges, e.seq); idx >= 0 {
				g.edges = append(g.edges[:idx], g.edges[idx+1:]...)
			}
		}
		g.outEdges[v.ID] = kept
	}

	return changed
}
