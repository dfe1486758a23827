package dotexport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ni/delaygraph/graph"
	"github.com/ni/delaygraph/solution"
)

func TestWriteRendersRegisteredShapeAndFeedbackStyle(t *testing.T) {
	g := graph.New()
	g.AddVertex(&graph.Vertex{ID: 0})
	g.AddVertex(&graph.Vertex{ID: 1})
	g.AddEdge(&graph.Edge{From: 0, To: 1, Delay: 50})
	g.AddEdge(&graph.Edge{From: 1, To: 0, Delay: 50, IsFeedback: true})

	sol := &solution.Solution{Name: "sample", Registered: graph.NewVertexSet(1)}

	var buf strings.Builder
	err := Write(&buf, g, sol)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `digraph "sample"`)
	assert.Contains(t, out, "doubleoctagon")
	assert.Contains(t, out, "style=dashed, color=red")
}
