package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ni/delaygraph/asap"
	"github.com/ni/delaygraph/graph"
)

func asapAssigner() Assigner {
	return AssignerFunc{AssignerName: "asap", Fn: asap.Assign}
}

// TestSolveDeterminism covers law 1: two runs of the same assigner on the
// same graph and target yield identical registered sets, scores, and cycle
// flags.
func TestSolveDeterminism(t *testing.T) {
	build := func() *graph.Graph {
		g := graph.New()
		g.AddVertex(&graph.Vertex{ID: 0})
		g.AddVertex(&graph.Vertex{ID: 1})
		g.AddVertex(&graph.Vertex{ID: 2})
		g.AddEdge(&graph.Edge{From: 0, To: 1, Delay: 150})
		g.AddEdge(&graph.Edge{From: 1, To: 2, Delay: 150})
		return g
	}

	reg1, score1, cyc1, slack1, err1 := Solve(context.Background(), build(), 200, asapAssigner(), nil)
	require.NoError(t, err1)
	reg2, score2, cyc2, slack2, err2 := Solve(context.Background(), build(), 200, asapAssigner(), nil)
	require.NoError(t, err2)

	assert.Equal(t, reg1, reg2)
	assert.Equal(t, score1, score2)
	assert.Equal(t, cyc1, cyc2)
	assert.Equal(t, slack1, slack2)
}

// TestSolveSingleEdgeNoRegister is spec scenario S1.
func TestSolveSingleEdgeNoRegister(t *testing.T) {
	g := graph.New()
	g.AddVertex(&graph.Vertex{ID: 0})
	g.AddVertex(&graph.Vertex{ID: 1})
	g.AddEdge(&graph.Edge{From: 0, To: 1, Delay: 100})

	reg, score, cyc, slack, err := Solve(context.Background(), g, 200, asapAssigner(), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, len(reg))
	assert.False(t, cyc)
	assert.Equal(t, 100, slack)
	assert.Equal(t, 0, score.Throughput)
	assert.Equal(t, 0, score.Latency)
	assert.Equal(t, 0, score.Registers)
}

// TestSolveRegisterRequired is spec scenario S2.
func TestSolveRegisterRequired(t *testing.T) {
	g := graph.New()
	g.AddVertex(&graph.Vertex{ID: 0})
	g.AddVertex(&graph.Vertex{ID: 1})
	g.AddEdge(&graph.Edge{From: 0, To: 1, Delay: 300})

	reg, _, cyc, _, err := Solve(context.Background(), g, 200, asapAssigner(), nil)
	require.NoError(t, err)

	assert.True(t, reg.Contains(1))
	assert.False(t, cyc)
}

// TestSolveBestPrefersLowerCost exercises the dual-assigner comparison.
func TestSolveBestPrefersLowerCost(t *testing.T) {
	g := graph.New()
	g.AddVertex(&graph.Vertex{ID: 0, RegisterCostIfRegistered: 1})
	g.AddVertex(&graph.Vertex{ID: 1, RegisterCostIfRegistered: 1})
	g.AddEdge(&graph.Edge{From: 0, To: 1, Delay: 100})

	best, err := SolveBest(context.Background(), g, 200, nil,
		AssignerFunc{AssignerName: "asap", Fn: asap.Assign},
		AssignerFunc{AssignerName: "greedy", Fn: func(g *graph.Graph, t int) graph.VertexSet {
			return graph.NewVertexSet(0, 1)
		}},
	)
	require.NoError(t, err)
	assert.Equal(t, "asap", best.Name)
}
