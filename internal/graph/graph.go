// Package graph builds the project-wide file dependency graph and scores
// its health: circular dependencies, coupling, and unused files.
package graph

import (
	"path/filepath"
	"sort"
	"strings"
)

// EdgeSource supplies raw file-to-file reference lists. Import resolution
// lives with the caller; the builder only consumes a ready edge list.
type EdgeSource func(file string) []string

// entryBasenames are files exempt from unused-dependency flagging: nothing
// is expected to depend on a program entry point.
var entryBasenames = map[string]bool{
	"main":  true,
	"index": true,
	"app":   true,
	"setup": true,
}

// Graph maps each file to the ordered list of files it depends on. Reverse
// dependents are derived from the same keys.
type Graph struct {
	files []string
	edges map[string][]string
}

// Build constructs the graph for files using the supplied edge source.
// Edges pointing outside the file inventory are ignored as external.
// Self-loops present in the source data are kept, not assumed away.
func Build(files []string, source EdgeSource) *Graph {
	inventory := make(map[string]bool, len(files))
	for _, f := range files {
		inventory[f] = true
	}

	g := &Graph{
		files: append([]string(nil), files...),
		edges: make(map[string][]string, len(files)),
	}
	for _, f := range files {
		var deps []string
		for _, dep := range source(f) {
			if inventory[dep] {
				deps = append(deps, dep)
			}
		}
		g.edges[f] = deps
	}
	return g
}

// BuildFromEdges constructs the graph from a precomputed edge map.
func BuildFromEdges(files []string, edges map[string][]string) *Graph {
	return Build(files, func(file string) []string { return edges[file] })
}

// Dependencies returns the files that file depends on.
func (g *Graph) Dependencies(file string) []string {
	return g.edges[file]
}

// Dependents returns the files that depend on file.
func (g *Graph) Dependents(file string) []string {
	var result []string
	for _, f := range g.files {
		for _, dep := range g.edges[f] {
			if dep == file {
				result = append(result, f)
				break
			}
		}
	}
	return result
}

// Files returns the file inventory in build order.
func (g *Graph) Files() []string {
	return g.files
}

// Cycles finds all distinct circular dependency chains via depth-first
// traversal with an explicit recursion stack. When a node already on the
// stack is revisited, the cycle is the stack slice from that node's first
// occurrence through the current node, inclusive. A file may appear in more
// than one reported cycle.
func (g *Graph) Cycles() [][]string {
	var cycles [][]string

	visited := make(map[string]bool, len(g.files))
	onStack := make(map[string]bool)
	var stack []string

	var visit func(node string)
	visit = func(node string) {
		visited[node] = true
		onStack[node] = true
		stack = append(stack, node)

		for _, dep := range g.edges[node] {
			if onStack[dep] {
				if cycle := extractCycle(stack, dep); cycle != nil {
					cycles = append(cycles, cycle)
				}
				continue
			}
			if !visited[dep] {
				visit(dep)
			}
		}

		stack = stack[:len(stack)-1]
		delete(onStack, node)
	}

	// Sorted start order keeps reported cycles deterministic.
	ordered := append([]string(nil), g.files...)
	sort.Strings(ordered)
	for _, f := range ordered {
		if !visited[f] {
			visit(f)
		}
	}
	return cycles
}

// extractCycle slices the recursion stack from the revisited node through
// the current top, closing the chain with the revisited node.
func extractCycle(stack []string, revisited string) []string {
	start := -1
	for i, node := range stack {
		if node == revisited {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}
	cycle := make([]string, len(stack)-start+1)
	copy(cycle, stack[start:])
	cycle[len(cycle)-1] = revisited
	return cycle
}

// CycleScore is 100 minus 20 per cycle, floored at 0.
func (g *Graph) CycleScore() int {
	score := 100 - 20*len(g.Cycles())
	if score < 0 {
		score = 0
	}
	return score
}

// AverageCoupling is the mean out-degree across files with at least one
// recorded edge.
func (g *Graph) AverageCoupling() float64 {
	total := 0
	withEdges := 0
	for _, f := range g.files {
		if n := len(g.edges[f]); n > 0 {
			total += n
			withEdges++
		}
	}
	if withEdges == 0 {
		return 0
	}
	return float64(total) / float64(withEdges)
}

// CouplingScore bands average out-degree: tighter coupling scores lower.
func (g *Graph) CouplingScore() int {
	avg := g.AverageCoupling()
	switch {
	case avg > 5:
		return 40
	case avg > 3:
		return 60
	case avg > 2:
		return 80
	default:
		return 100
	}
}

// Unused returns files with no dependents that are not recognized entry
// points, in build order.
func (g *Graph) Unused() []string {
	inDegree := make(map[string]int, len(g.files))
	for _, f := range g.files {
		for _, dep := range g.edges[f] {
			inDegree[dep]++
		}
	}

	var unused []string
	for _, f := range g.files {
		if inDegree[f] == 0 && !isEntryFile(f) {
			unused = append(unused, f)
		}
	}
	return unused
}

// UnusedScore is 100 minus 10 per unused file, floored at 0.
func (g *Graph) UnusedScore() int {
	score := 100 - 10*len(g.Unused())
	if score < 0 {
		score = 0
	}
	return score
}

// isEntryFile reports whether a file is on the entry allow-list: a known
// entry basename, or anything under a cmd/ segment.
func isEntryFile(path string) bool {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if entryBasenames[strings.ToLower(name)] {
		return true
	}
	normalized := filepath.ToSlash(path)
	return strings.HasPrefix(normalized, "cmd/") || strings.Contains(normalized, "/cmd/")
}

// FormatCycle renders a cycle as a readable chain of basenames.
func FormatCycle(cycle []string) string {
	if len(cycle) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, node := range cycle {
		sb.WriteString(filepath.Base(node))
		if i < len(cycle)-1 {
			sb.WriteString(" -> ")
		}
	}
	return sb.String()
}
