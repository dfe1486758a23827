package graphml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ni/delaygraph/graph"
)

const sampleGraph = `<?xml version="1.0" encoding="UTF-8"?>
<graphml xmlns="http://graphml.graphdrawing.org/xmlns">
  <graph edgedefault="directed">
    <node id="n0">
      <data key="VertexId">0</data>
      <data key="NodeType">0</data>
      <data key="NodeUniqueId">-1</data>
      <data key="IsInputTerminal">true</data>
    </node>
    <node id="n1">
      <data key="VertexId">1</data>
      <data key="NodeType">4</data>
      <data key="NodeUniqueId">-1</data>
      <data key="ThroughputCostIfRegistered">3</data>
    </node>
    <edge source="n0" target="n1">
      <data key="Delay">150</data>
      <data key="IsFeedback">false</data>
    </edge>
    <edge source="n0" target="n1">
      <data key="Delay">90</data>
      <data key="IsFeedback">false</data>
    </edge>
  </graph>
</graphml>`

func TestParseGraphBuildsVerticesAndEdges(t *testing.T) {
	g, err := ParseGraph(strings.NewReader(sampleGraph))
	require.NoError(t, err)

	v0, ok := g.Vertex(0)
	require.True(t, ok)
	assert.True(t, v0.IsInputTerminal)
	assert.Equal(t, graph.FeedbackInputNode, v0.NodeType)

	v1, ok := g.Vertex(1)
	require.True(t, ok)
	assert.Equal(t, graph.Other, v1.NodeType)
	assert.Equal(t, 3, v1.ThroughputCostIfRegistered)

	// Parallel edges (150, 90) collapse to the max delay (spec scenario S4).
	edges := g.Edges()
	require.Len(t, edges, 1)
	assert.Equal(t, 150, edges[0].Delay)
}

func TestParseGraphRejectsUnknownEndpoint(t *testing.T) {
	const malformed = `<graphml><graph>
    <node id="n0"><data key="VertexId">0</data></node>
    <edge source="n0" target="n9"><data key="Delay">10</data></edge>
  </graph></graphml>`

	_, err := ParseGraph(strings.NewReader(malformed))
	assert.Error(t, err)
}

func TestParseGraphRejectsUnparseableInteger(t *testing.T) {
	const malformed = `<graphml><graph>
    <node id="n0"><data key="VertexId">not-a-number</data></node>
  </graph></graphml>`

	_, err := ParseGraph(strings.NewReader(malformed))
	assert.Error(t, err)
}

func TestParseGoalReturnsTargetPeriod(t *testing.T) {
	const goalXML = `<Goal><TargetClockPeriodInPicoSeconds>200</TargetClockPeriodInPicoSeconds></Goal>`
	p, err := ParseGoal(strings.NewReader(goalXML))
	require.NoError(t, err)
	assert.Equal(t, 200, p)
}

func TestParseGoalRejectsNonPositive(t *testing.T) {
	const goalXML = `<Goal><TargetClockPeriodInPicoSeconds>0</TargetClockPeriodInPicoSeconds></Goal>`
	_, err := ParseGoal(strings.NewReader(goalXML))
	assert.Error(t, err)
}

func TestClampToEdgeFloorRaisesBelowMaxDelay(t *testing.T) {
	g := graph.New()
	g.AddVertex(&graph.Vertex{ID: 0})
	g.AddVertex(&graph.Vertex{ID: 1})
	g.AddEdge(&graph.Edge{From: 0, To: 1, Delay: 300})

	assert.Equal(t, 300, ClampToEdgeFloor(g, 200))
	assert.Equal(t, 500, ClampToEdgeFloor(g, 500))
}
