// Package graph provides dependency graphs over resource keys, used to
// check the evaluation order of a rule set.
package graph

import "slices"

// Graph is a dependency graph of keys with forward edges.
type Graph struct {
	nodes []string // insertion order
	seen  map[string]struct{}
	edges map[string][]string
}

// New returns a graph with no nodes or edges.
func New() *Graph {
	return &Graph{
		seen:  make(map[string]struct{}),
		edges: make(map[string][]string),
	}
}

// AddNode registers a key. Duplicate calls are no-ops.
func (g *Graph) AddNode(key string) {
	if _, ok := g.seen[key]; ok {
		return
	}
	g.seen[key] = struct{}{}
	g.nodes = append(g.nodes, key)
}

// AddEdge records that "from" is computed from "to", meaning "to" must be
// derived before "from". Missing nodes are created implicitly.
// Duplicate edges are ignored.
func (g *Graph) AddEdge(from, to string) {
	g.AddNode(from)
	g.AddNode(to)

	if slices.Contains(g.edges[from], to) {
		return
	}
	g.edges[from] = append(g.edges[from], to)
}

// Dependencies returns the keys that key depends on (forward edges).
func (g *Graph) Dependencies(key string) []string {
	return g.edges[key]
}

// HasNode reports whether the key exists in the graph.
func (g *Graph) HasNode(key string) bool {
	_, ok := g.seen[key]
	return ok
}

// Nodes returns the keys in insertion order.
func (g *Graph) Nodes() []string {
	return slices.Clone(g.nodes)
}
