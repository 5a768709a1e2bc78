package graph

import "slices"

// Order returns keys ordered so that dependencies come before dependents,
// using Tarjan's algorithm. Strongly connected components with more than
// one node, or a single node with a self-loop, are reported as cycles and
// excluded from the order. Roots are visited in insertion order, so the
// result is deterministic.
func (g *Graph) Order() (order []string, cycles [][]string) {
	var (
		index    int
		stack    []string
		onStack  = make(map[string]bool)
		indices  = make(map[string]int)
		lowlinks = make(map[string]int)
	)

	var strongConnect func(key string)
	strongConnect = func(key string) {
		indices[key] = index
		lowlinks[key] = index
		index++
		stack = append(stack, key)
		onStack[key] = true

		for _, dep := range g.edges[key] {
			if _, visited := indices[dep]; !visited {
				strongConnect(dep)
				lowlinks[key] = min(lowlinks[key], lowlinks[dep])
			} else if onStack[dep] {
				lowlinks[key] = min(lowlinks[key], indices[dep])
			}
		}

		if lowlinks[key] == indices[key] {
			var scc []string
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[w] = false
				scc = append(scc, w)
				if w == key {
					break
				}
			}
			switch {
			case len(scc) > 1:
				slices.Reverse(scc)
				cycles = append(cycles, scc)
			case slices.Contains(g.edges[key], key):
				cycles = append(cycles, scc)
			default:
				order = append(order, key)
			}
		}
	}

	for _, key := range g.nodes {
		if _, visited := indices[key]; !visited {
			strongConnect(key)
		}
	}
	return order, cycles
}

// HasCycles reports whether the graph contains any cycles.
func (g *Graph) HasCycles() bool {
	_, cycles := g.Order()
	return len(cycles) > 0
}
