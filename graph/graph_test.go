package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddVertexStableOrderAndIdempotence(t *testing.T) {
	g := New()
	require.True(t, g.AddVertex(&Vertex{ID: 2}))
	require.True(t, g.AddVertex(&Vertex{ID: 1}))
	require.False(t, g.AddVertex(&Vertex{ID: 1})) // duplicate: no-op

	ids := make([]int, 0)
	for _, v := range g.Vertices() {
		ids = append(ids, v.ID)
	}
	assert.Equal(t, []int{2, 1}, ids, "insertion order must be preserved")
}

func TestAddEdgeRejectsUnknownEndpoints(t *testing.T) {
	g := New()
	g.AddVertex(&Vertex{ID: 1})

	assert.False(t, g.AddEdge(&Edge{From: 1, To: 99, Delay: 10}))
	assert.False(t, g.AddEdge(&Edge{From: 99, To: 1, Delay: 10}))
	assert.Empty(t, g.Edges())
}

func TestForwardAndFeedbackSplits(t *testing.T) {
	g := New()
	g.AddVertex(&Vertex{ID: 0})
	g.AddVertex(&Vertex{ID: 1})
	g.AddEdge(&Edge{From: 0, To: 1, Delay: 50})
	g.AddEdge(&Edge{From: 1, To: 0, Delay: 50, IsFeedback: true})

	assert.Len(t, g.ForwardOutEdges(0), 1)
	assert.Len(t, g.FeedbackOutEdges(0), 0)
	assert.Len(t, g.ForwardInEdges(0), 0)
	assert.Len(t, g.FeedbackInEdges(0), 1)
}

func TestRemoveEdgeDetachesBothSides(t *testing.T) {
	g := New()
	g.AddVertex(&Vertex{ID: 0})
	g.AddVertex(&Vertex{ID: 1})
	e := &Edge{From: 0, To: 1, Delay: 10}
	g.AddEdge(e)

	assert.True(t, g.RemoveEdge(e))
	assert.Empty(t, g.OutEdges(0))
	assert.Empty(t, g.InEdges(1))
	assert.Empty(t, g.Edges())
}

// TestPruneParallelEdgesKeepsLargestDelay covers spec scenario S4 and law 3.
func TestPruneParallelEdgesKeepsLargestDelay(t *testing.T) {
	g := New()
	g.AddVertex(&Vertex{ID: 0})
	g.AddVertex(&Vertex{ID: 1})
	g.AddEdge(&Edge{From: 0, To: 1, Delay: 40})
	g.AddEdge(&Edge{From: 0, To: 1, Delay: 90})

	changed := g.PruneParallelEdges()
	require.True(t, changed)

	out := g.OutEdges(0)
	require.Len(t, out, 1)
	assert.Equal(t, 90, out[0].Delay)
	assert.Len(t, g.InEdges(1), 1)
}

// TestPruneParallelEdgesIdempotent covers spec law 2.
func TestPruneParallelEdgesIdempotent(t *testing.T) {
	g := New()
	g.AddVertex(&Vertex{ID: 0})
	g.AddVertex(&Vertex{ID: 1})
	g.AddEdge(&Edge{From: 0, To: 1, Delay: 40})
	g.AddEdge(&Edge{From: 0, To: 1, Delay: 90})

	g.PruneParallelEdges()
	again := g.PruneParallelEdges()

	assert.False(t, again)
	assert.Len(t, g.OutEdges(0), 1)
}

func TestPruneParallelEdgesNoDuplicates(t *testing.T) {
	g := New()
	g.AddVertex(&Vertex{ID: 0})
	g.AddVertex(&Vertex{ID: 1})
	g.AddVertex(&Vertex{ID: 2})
	g.AddEdge(&Edge{From: 0, To: 1, Delay: 10})
	g.AddEdge(&Edge{From: 0, To: 2, Delay: 20})

	assert.False(t, g.PruneParallelEdges())
	assert.Len(t, g.OutEdges(0), 2)
}

func TestVertexSetEffectivelyRegistered(t *testing.T) {
	v := &Vertex{ID: 1}
	s := NewVertexSet()

	assert.False(t, EffectivelyRegistered(v, s))
	s.Add(1)
	assert.True(t, EffectivelyRegistered(v, s))

	v2 := &Vertex{ID: 2, IsRegistered: true}
	assert.True(t, EffectivelyRegistered(v2, NewVertexSet()))
}
