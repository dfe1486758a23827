package topology

import "github.com/ni/delaygraph/graph"

// siblingKey identifies a sibling group: vertices that share the upstream
// synthesis node they originated from, split by terminal direction.
type siblingKey struct {
	nodeUniqueID int
	isInput      bool
}

// SiblingGroups partitions every non-initially-registered vertex by
// (NodeUniqueID, IsInputTerminal) and returns groups of size >= 2, in the
// order their key was first seen (stable on insertion order). Negative
// NodeUniqueID values ("no sibling group") are dropped, per spec §4.2.5.
func SiblingGroups(g *graph.Graph) [][]*graph.Vertex {
	groups := make(map[siblingKey][]*graph.Vertex)
	var order []siblingKey

	for _, v := range g.Vertices() {
		if v.IsRegistered || v.NodeUniqueID < 0 {
			continue
		}
		key := siblingKey{nodeUniqueID: v.NodeUniqueID, isInput: v.IsInputTerminal}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], v)
	}

	var out [][]*graph.Vertex
	for _, key := range order {
		if len(groups[key]) >= 2 {
			out = append(out, groups[key])
		}
	}

	return out
}
