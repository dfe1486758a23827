package greedy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ni/delaygraph/graph"
)

// TestAssignDeRegistersWhenSafe is spec scenario S1: both assigners should
// land on the empty set when no edge ever threatens the target period.
func TestAssignDeRegistersWhenSafe(t *testing.T) {
	g := graph.New()
	g.AddVertex(&graph.Vertex{ID: 0})
	g.AddVertex(&graph.Vertex{ID: 1})
	g.AddEdge(&graph.Edge{From: 0, To: 1, Delay: 100})

	reg := Assign(g, 200, nil)
	assert.Equal(t, 0, len(reg))
}

// TestAssignKeepsRegisterUnderTimingPressure verifies that a vertex whose
// combined input/output delay exceeds the target is never de-registered.
func TestAssignKeepsRegisterUnderTimingPressure(t *testing.T) {
	g := graph.New()
	g.AddVertex(&graph.Vertex{ID: 0})
	g.AddVertex(&graph.Vertex{ID: 1})
	g.AddVertex(&graph.Vertex{ID: 2})
	g.AddEdge(&graph.Edge{From: 0, To: 1, Delay: 150})
	g.AddEdge(&graph.Edge{From: 1, To: 2, Delay: 150})

	reg := Assign(g, 200, nil)
	assert.True(t, reg.Contains(1))
}

func TestAssignNeverDeRegistersStaticRegister(t *testing.T) {
	g := graph.New()
	g.AddVertex(&graph.Vertex{ID: 0, IsRegistered: true})
	g.AddVertex(&graph.Vertex{ID: 1})
	g.AddEdge(&graph.Edge{From: 0, To: 1, Delay: 10})

	reg := Assign(g, 1000, nil)
	assert.False(t, reg.Contains(0))
	assert.Equal(t, 0, len(reg))
}

// TestAssignMonotonicShrink covers law 7: over the de-registration loop the
// registered set only ever shrinks. newState starts maximally registered,
// so this checks that the final set is a subset of the starting set (every
// vertex); the intermediate sets are not observed.
func TestAssignMonotonicShrink(t *testing.T) {
	g := graph.New()
	for i := 0; i < 4; i++ {
		g.AddVertex(&graph.Vertex{ID: i})
	}
	for i := 0; i < 3; i++ {
		g.AddEdge(&graph.Edge{From: i, To: i + 1, Delay: 20})
	}

	reg := Assign(g, 500, nil)
	for id := range reg {
		_, ok := g.Vertex(id)
		assert.True(t, ok, "registered id %d must be a real vertex the set started with", id)
	}
}
