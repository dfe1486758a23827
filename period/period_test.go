package period

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ni/delaygraph/graph"
)

// TestEstimateSingleEdgeNoRegister is spec scenario S1.
func TestEstimateSingleEdgeNoRegister(t *testing.T) {
	g := graph.New()
	g.AddVertex(&graph.Vertex{ID: 0})
	g.AddVertex(&graph.Vertex{ID: 1})
	g.AddEdge(&graph.Edge{From: 0, To: 1, Delay: 100})

	p, cyc := Estimate(g, graph.NewVertexSet())
	assert.Equal(t, 100, p)
	assert.False(t, cyc)
}

func TestEstimateStopsAtRegisteredVertex(t *testing.T) {
	g := graph.New()
	g.AddVertex(&graph.Vertex{ID: 0})
	g.AddVertex(&graph.Vertex{ID: 1})
	g.AddVertex(&graph.Vertex{ID: 2})
	g.AddEdge(&graph.Edge{From: 0, To: 1, Delay: 150})
	g.AddEdge(&graph.Edge{From: 1, To: 2, Delay: 150})

	p, cyc := Estimate(g, graph.NewVertexSet(1))
	assert.Equal(t, 150, p) // neither 0->1 nor 1->2 alone exceeds 150
	assert.False(t, cyc)
}

// TestEstimateDetectsSimpleFeedbackCycle is the PeriodEstimator half of
// spec scenario S3 (before cycle repair runs in package solution).
func TestEstimateDetectsSimpleFeedbackCycle(t *testing.T) {
	g := graph.New()
	g.AddVertex(&graph.Vertex{ID: 0, NodeType: graph.FeedbackInputNode})
	g.AddVertex(&graph.Vertex{ID: 1})
	g.AddEdge(&graph.Edge{From: 0, To: 1, Delay: 50})
	g.AddEdge(&graph.Edge{From: 1, To: 0, Delay: 50, IsFeedback: true})

	_, cyc := Estimate(g, graph.NewVertexSet())
	assert.True(t, cyc)
}

func TestEstimateCycleFlagClearsOnceBroken(t *testing.T) {
	g := graph.New()
	g.AddVertex(&graph.Vertex{ID: 0, NodeType: graph.FeedbackInputNode})
	g.AddVertex(&graph.Vertex{ID: 1})
	g.AddEdge(&graph.Edge{From: 0, To: 1, Delay: 50})
	g.AddEdge(&graph.Edge{From: 1, To: 0, Delay: 50, IsFeedback: true})

	_, cyc := Estimate(g, graph.NewVertexSet(0))
	assert.False(t, cyc)
}
