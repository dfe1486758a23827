// Package graphml ingests the GraphML-variant dataflow graphs and goal files
// described in spec.md §6: encoding/xml is the only grounded choice here —
// no XML library appears anywhere in the retrieved corpus, including the
// ambient-stack donor's extensive dependency list (see DESIGN.md).
package graphml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ni/delaygraph/graph"
)

type xmlDoc struct {
	Graph xmlGraph `xml:"graph"`
}

type xmlGraph struct {
	Nodes []xmlNode `xml:"node"`
	Edges []xmlEdge `xml:"edge"`
}

type xmlNode struct {
	ID   string    `xml:"id,attr"`
	Data []xmlData `xml:"data"`
}

type xmlEdge struct {
	Source string    `xml:"source,attr"`
	Target string    `xml:"target,attr"`
	Data   []xmlData `xml:"data"`
}

type xmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

func (n xmlNode) lookup(key string) (string, bool) {
	for _, d := range n.Data {
		if d.Key == key {
			return strings.TrimSpace(d.Value), true
		}
	}
	return "", false
}

func (e xmlEdge) lookup(key string) (string, bool) {
	for _, d := range e.Data {
		if d.Key == key {
			return strings.TrimSpace(d.Value), true
		}
	}
	return "", false
}

func parseBool(s string) bool {
	return strings.EqualFold(s, "true") || s == "1"
}

// ParseGraph decodes a GraphML document from r into a graph.Graph, applying
// PruneParallelEdges once before returning (spec.md §4.1's "applied once
// before solving"). Malformed XML or unparseable integers fail here and
// never reach the core.
func ParseGraph(r io.Reader) (*graph.Graph, error) {
	var doc xmlDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("graphml: decode: %w", err)
	}

	g := graph.New()
	xmlIDToVertex := make(map[string]int, len(doc.Graph.Nodes))

	for _, n := range doc.Graph.Nodes {
		v, err := vertexFromNode(n)
		if err != nil {
			return nil, fmt.Errorf("graphml: node %q: %w", n.ID, err)
		}
		if !g.AddVertex(v) {
			return nil, fmt.Errorf("graphml: node %q: duplicate vertex id %d", n.ID, v.ID)
		}
		xmlIDToVertex[n.ID] = v.ID
	}

	for _, e := range doc.Graph.Edges {
		edge, err := edgeFromXML(e, xmlIDToVertex)
		if err != nil {
			return nil, err
		}
		if !g.AddEdge(edge) {
			return nil, fmt.Errorf("graphml: edge %s->%s: %w", e.Source, e.Target, graph.ErrUnknownEndpoint)
		}
	}

	g.PruneParallelEdges()
	return g, nil
}

func vertexFromNode(n xmlNode) (*graph.Vertex, error) {
	v := &graph.Vertex{}

	id, ok := n.lookup("VertexId")
	if !ok {
		return nil, fmt.Errorf("missing VertexId")
	}
	parsedID, err := strconv.Atoi(id)
	if err != nil {
		return nil, fmt.Errorf("VertexId: %w", err)
	}
	v.ID = parsedID

	if s, ok := n.lookup("NodeType"); ok {
		iv, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("NodeType: %w", err)
		}
		v.NodeType = graph.NodeType(iv)
	}
	if s, ok := n.lookup("NodeUniqueId"); ok {
		iv, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("NodeUniqueId: %w", err)
		}
		v.NodeUniqueID = iv
	}
	if s, ok := n.lookup("ThroughputCostIfRegistered"); ok {
		iv, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("ThroughputCostIfRegistered: %w", err)
		}
		v.ThroughputCostIfRegistered = iv
	}
	if s, ok := n.lookup("LatencyCostIfRegistered"); ok {
		iv, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("LatencyCostIfRegistered: %w", err)
		}
		v.LatencyCostIfRegistered = iv
	}
	if s, ok := n.lookup("RegisterCostIfRegistered"); ok {
		iv, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("RegisterCostIfRegistered: %w", err)
		}
		v.RegisterCostIfRegistered = iv
	}
	if s, ok := n.lookup("IsRegistered"); ok {
		v.IsRegistered = parseBool(s)
	}
	if s, ok := n.lookup("IsInputTerminal"); ok {
		v.IsInputTerminal = parseBool(s)
	}
	if s, ok := n.lookup("IsOutputTerminal"); ok {
		v.IsOutputTerminal = parseBool(s)
	}
	if s, ok := n.lookup("DisallowRegister"); ok {
		v.DisallowRegister = parseBool(s)
	}

	return v, nil
}

func edgeFromXML(e xmlEdge, xmlIDToVertex map[string]int) (*graph.Edge, error) {
	from, ok := xmlIDToVertex[e.Source]
	if !ok {
		return nil, fmt.Errorf("graphml: edge source %q: %w", e.Source, graph.ErrUnknownEndpoint)
	}
	to, ok := xmlIDToVertex[e.Target]
	if !ok {
		return nil, fmt.Errorf("graphml: edge target %q: %w", e.Target, graph.ErrUnknownEndpoint)
	}

	edge := &graph.Edge{From: from, To: to}
	if s, ok := e.lookup("Delay"); ok {
		iv, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("graphml: edge %s->%s: Delay: %w", e.Source, e.Target, err)
		}
		edge.Delay = iv
	}
	if s, ok := e.lookup("IsFeedback"); ok {
		edge.IsFeedback = parseBool(s)
	}
	return edge, nil
}

type xmlGoal struct {
	TargetPeriodPS int `xml:"TargetClockPeriodInPicoSeconds"`
}

// ParseGoal decodes a goal file's positive-integer target period, in
// picoseconds (spec.md §6).
func ParseGoal(r io.Reader) (int, error) {
	var doc xmlGoal
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return 0, fmt.Errorf("graphml: decode goal: %w", err)
	}
	if doc.TargetPeriodPS <= 0 {
		return 0, fmt.Errorf("graphml: goal target period must be positive, got %d", doc.TargetPeriodPS)
	}
	return doc.TargetPeriodPS, nil
}

// ClampToEdgeFloor implements spec.md §6's hard floor: a goal value smaller
// than the graph's largest single-edge delay is raised to that delay.
func ClampToEdgeFloor(g *graph.Graph, targetPeriodPS int) int {
	maxEdgeDelay := 0
	for _, e := range g.Edges() {
		if e.Delay > maxEdgeDelay {
			maxEdgeDelay = e.Delay
		}
	}
	if targetPeriodPS < maxEdgeDelay {
		return maxEdgeDelay
	}
	return targetPeriodPS
}
