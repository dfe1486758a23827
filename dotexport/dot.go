// Package dotexport renders a solved graph as Graphviz DOT source, for
// per-solution visualization only (spec.md §6: "not core"). No Graphviz/DOT
// library appears anywhere in the retrieved corpus, so this is built on
// text/template and fmt (stdlib).
package dotexport

import (
	"fmt"
	"io"
	"text/template"

	"github.com/ni/delaygraph/graph"
	"github.com/ni/delaygraph/solution"
)

const dotTemplate = `digraph {{.Name | printf "%q"}} {
  rankdir=LR;
{{- range .Vertices}}
  {{.ID}} [label={{.Label | printf "%q"}}, shape={{.Shape}}];
{{- end}}
{{- range .Edges}}
  {{.From}} -> {{.To}} [label="{{.Delay}}ps"{{if .Dashed}}, style=dashed, color=red{{end}}];
{{- end}}
}
`

var parsed = template.Must(template.New("dot").Parse(dotTemplate))

type vertexView struct {
	ID    int
	Label string
	Shape string
}

type edgeView struct {
	From, To int
	Delay    int
	Dashed   bool
}

type docView struct {
	Name     string
	Vertices []vertexView
	Edges    []edgeView
}

// Write renders g and sol as a single DOT digraph to w. Effectively
// registered vertices render as double octagons; feedback edges render
// dashed and red.
func Write(w io.Writer, g *graph.Graph, sol *solution.Solution) error {
	doc := docView{Name: sol.Name}

	for _, v := range g.Vertices() {
		shape := "ellipse"
		if graph.EffectivelyRegistered(v, sol.Registered) {
			shape = "doubleoctagon"
		}
		doc.Vertices = append(doc.Vertices, vertexView{
			ID:    v.ID,
			Label: fmt.Sprintf("v%d (%s)", v.ID, v.NodeType),
			Shape: shape,
		})
	}

	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, edgeView{
			From:   e.From,
			To:     e.To,
			Delay:  e.Delay,
			Dashed: e.IsFeedback,
		})
	}

	return parsed.Execute(w, doc)
}
