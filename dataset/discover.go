// Package dataset walks a directory tree pairing each graph file with its
// goal file, for batch scoring across a dataset root (spec.md §6's CLI
// signature implies this: `register-placer <dataset-root> <scorecard-dir>`).
package dataset

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// Entry is one graph/goal pair discovered under a dataset root. MissingGoal
// is set, never silently dropped, when a *.graphml file has no matching
// *.goal.xml sibling.
type Entry struct {
	Name        string
	GraphPath   string
	GoalPath    string
	MissingGoal bool
}

// Discover walks root, pairing every *.graphml file with a sibling
// *.goal.xml of the same base name (path/filepath.WalkDir, stdlib; grounded
// on the corpus's reporting-not-dropping discipline for missing data, not
// any specific walker implementation — see DESIGN.md).
func Discover(root string) ([]Entry, error) {
	bases := make(map[string]string) // path without ".graphml" -> graph path
	goals := make(map[string]string) // path without ".goal.xml" -> goal path

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("dataset: walk %q: %w", path, err)
		}
		if d.IsDir() {
			return nil
		}
		switch {
		case strings.HasSuffix(path, ".graphml"):
			bases[strings.TrimSuffix(path, ".graphml")] = path
		case strings.HasSuffix(path, ".goal.xml"):
			goals[strings.TrimSuffix(path, ".goal.xml")] = path
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(bases))
	for key, graphPath := range bases {
		goalPath, ok := goals[key]
		entries = append(entries, Entry{
			Name:        filepath.Base(key),
			GraphPath:   graphPath,
			GoalPath:    goalPath,
			MissingGoal: !ok,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].GraphPath < entries[j].GraphPath
	})

	return entries, nil
}
