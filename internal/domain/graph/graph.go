// Package graph holds the stack resource graph: logical-ID keyed nodes plus
// explicit dependency edges, with duplicate and cycle detection.
package graph

import (
	"fmt"
	"sort"

	"github.com/stackmesh/aossindex/internal/domain"
	"github.com/stackmesh/aossindex/internal/domain/resource"
)

// Graph is a directed dependency graph of CloudFormation resources.
// An edge from A to B means A depends on B (B is created first).
type Graph struct {
	nodes map[string]resource.Resource
	edges map[string]map[string]struct{}
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]resource.Resource),
		edges: make(map[string]map[string]struct{}),
	}
}

// Add inserts a resource node. Duplicate logical IDs are rejected.
func (g *Graph) Add(r resource.Resource) error {
	id := r.LogicalID()
	if _, ok := g.nodes[id]; ok {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateLogicalID, id)
	}
	g.nodes[id] = r
	return nil
}

// AddEdge declares that from depends on to. Both nodes must exist.
func (g *Graph) AddEdge(from, to string) error {
	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownResource, from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownResource, to)
	}
	if g.edges[from] == nil {
		g.edges[from] = make(map[string]struct{})
	}
	g.edges[from][to] = struct{}{}
	return nil
}

// Node returns the resource with the given logical ID.
func (g *Graph) Node(id string) (resource.Resource, bool) {
	r, ok := g.nodes[id]
	return r, ok
}

// Has reports whether a node with the given logical ID exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.nodes) }

// DependsOn returns the sorted direct dependencies of a node.
func (g *Graph) DependsOn(id string) []string {
	deps := g.edges[id]
	if len(deps) == 0 {
		return nil
	}
	out := make([]string, 0, len(deps))
	for d := range deps {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// TopoOrder returns logical IDs in creation order: dependencies before
// dependents, lexicographic among ready nodes so output is deterministic.
// Returns ErrDependencyCycle if the graph has a cycle.
func (g *Graph) TopoOrder() ([]string, error) {
	indegree := make(map[string]int, len(g.nodes))
	dependents := make(map[string][]string, len(g.nodes))
	for id := range g.nodes {
		indegree[id] = len(g.edges[id])
	}
	for from, tos := range g.edges {
		for to := range tos {
			dependents[to] = append(dependents[to], from)
		}
	}

	ready := make([]string, 0, len(g.nodes))
	for id, deg := range indegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		released := false
		for _, dep := range dependents[id] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
				released = true
			}
		}
		if released {
			sort.Strings(ready)
		}
	}

	if len(order) != len(g.nodes) {
		remaining := make([]string, 0)
		for id, deg := range indegree {
			if deg > 0 {
				remaining = append(remaining, id)
			}
		}
		sort.Strings(remaining)
		return nil, fmt.Errorf("%w: involves %v", domain.ErrDependencyCycle, remaining)
	}
	return order, nil
}
