// Package graph models the statically-derivable bean reference graph:
// nodes are bean names, edges point from a bean to the beans its
// parameters would bind to. The engine uses it for pre-flight
// validation and debug output; resolution itself detects cycles
// dynamically on the build stack.
package graph

import "sync"

type Graph struct {
	mu    sync.RWMutex
	edges map[string][]string
}

func New() *Graph {
	return &Graph{
		edges: make(map[string][]string),
	}
}

func (g *Graph) Add(name string, references []string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.edges[name] = references
}

func (g *Graph) Has(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, exists := g.edges[name]
	return exists
}

func (g *Graph) References(name string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	refs := g.edges[name]
	out := make([]string, len(refs))
	copy(out, refs)
	return out
}

// Referrers returns the beans whose parameters reference name.
func (g *Graph) Referrers(name string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var referrers []string
	for node, refs := range g.edges {
		for _, r := range refs {
			if r == name {
				referrers = append(referrers, node)
				break
			}
		}
	}
	return referrers
}

func (g *Graph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	nodes := make([]string, 0, len(g.edges))
	for name := range g.edges {
		nodes = append(nodes, name)
	}
	return nodes
}

func (g *Graph) Size() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.edges)
}

// Missing lists referenced names with no node of their own.
func (g *Graph) Missing() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var missing []string
	seen := make(map[string]bool)
	for _, refs := range g.edges {
		for _, r := range refs {
			if _, exists := g.edges[r]; !exists && !seen[r] {
				missing = append(missing, r)
				seen[r] = true
			}
		}
	}
	return missing
}

func (g *Graph) HasCycle() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	visited := make(map[string]bool, len(g.edges))
	onPath := make(map[string]bool, len(g.edges))

	var dfs func(name string) bool
	dfs = func(name string) bool {
		visited[name] = true
		onPath[name] = true

		for _, r := range g.edges[name] {
			if _, exists := g.edges[r]; !exists {
				continue
			}
			if onPath[r] {
				return true
			}
			if !visited[r] && dfs(r) {
				return true
			}
		}

		onPath[name] = false
		return false
	}

	for name := range g.edges {
		if !visited[name] && dfs(name) {
			return true
		}
	}
	return false
}

// CyclePath walks from start and returns the first cycle it meets,
// first node repeated at the end, or nil.
func (g *Graph) CyclePath(start string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	visited := make(map[string]bool)
	onPath := make(map[string]bool)
	var path []string

	var dfs func(name string) []string
	dfs = func(name string) []string {
		if onPath[name] {
			var cycle []string
			found := false
			for _, p := range path {
				if p == name {
					found = true
				}
				if found {
					cycle = append(cycle, p)
				}
			}
			return append(cycle, name)
		}
		if visited[name] {
			return nil
		}

		visited[name] = true
		onPath[name] = true
		path = append(path, name)

		for _, r := range g.edges[name] {
			if _, exists := g.edges[r]; !exists {
				continue
			}
			if cycle := dfs(r); cycle != nil {
				return cycle
			}
		}

		path = path[:len(path)-1]
		onPath[name] = false
		return nil
	}

	return dfs(start)
}

// CyclePaths returns one representative path per detected cycle.
func (g *Graph) CyclePaths() [][]string {
	nodes := g.Nodes()

	var paths [][]string
	covered := make(map[string]bool)
	for _, name := range nodes {
		if covered[name] {
			continue
		}
		path := g.CyclePath(name)
		if path == nil {
			continue
		}
		for _, p := range path {
			covered[p] = true
		}
		paths = append(paths, path)
	}
	return paths
}
