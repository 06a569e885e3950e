// Package rcsp provides primitives for the resource-constrained shortest
// path problem: a directed weighted graph with per-edge resource
// consumption, permutation chromosomes over its intermediate nodes, and a
// priority-guided decoder that turns a chromosome into a feasible path.
package rcsp

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph construction.
var (
	// ErrInvalidGraph is returned when the graph cannot host a
	// source-to-sink search (fewer than two nodes).
	ErrInvalidGraph = errors.New("invalid graph")

	// ErrInvalidEdge is returned when an edge is malformed: endpoint out
	// of range, resource vector of the wrong length, or negative values.
	ErrInvalidEdge = errors.New("invalid edge")
)

// Edge represents a directed edge with a traversal cost and the amount of
// each resource consumed by traversing it.
type Edge struct {
	From      int
	To        int
	Cost      float64
	Resources []float64
}

// Graph represents a directed graph with resource-consuming edges. Node 0
// is the source and node NumNodes()-1 is the sink. Nexts[u] lists the
// indices of the edges leaving u in insertion order. A Graph is immutable
// after construction and safe to share across concurrent decodes.
type Graph struct {
	Nexts [][]int
	Edges []Edge

	nResources int
}

// NewGraph creates a new graph with the specified edges, number of nodes,
// and resource dimensionality. Every edge must carry exactly nResources
// non-negative resource values and connect nodes within [0, nNodes).
func NewGraph(nNodes int, nResources int, edges []Edge) (*Graph, error) {
	if nNodes < 2 {
		return nil, fmt.Errorf("%w: need at least 2 nodes, got %d", ErrInvalidGraph, nNodes)
	}

	g := &Graph{
		Nexts:      make([][]int, nNodes),
		Edges:      make([]Edge, len(edges)),
		nResources: nResources,
	}
	for i, e := range edges {
		if e.From < 0 || nNodes <= e.From || e.To < 0 || nNodes <= e.To {
			return nil, fmt.Errorf("%w: edge %d->%d is not in [0, %d)", ErrInvalidEdge, e.From, e.To, nNodes)
		}
		if len(e.Resources) != nResources {
			return nil, fmt.Errorf("%w: edge %d->%d has %d resource values, want %d", ErrInvalidEdge, e.From, e.To, len(e.Resources), nResources)
		}
		if e.Cost < 0 {
			return nil, fmt.Errorf("%w: edge %d->%d has negative cost %f", ErrInvalidEdge, e.From, e.To, e.Cost)
		}
		for _, r := range e.Resources {
			if r < 0 {
				return nil, fmt.Errorf("%w: edge %d->%d has negative resource value %f", ErrInvalidEdge, e.From, e.To, r)
			}
		}
		g.Edges[i] = e
		g.Nexts[e.From] = append(g.Nexts[e.From], i)
	}
	return g, nil
}

// NumNodes returns the number of nodes in the graph.
func (g *Graph) NumNodes() int {
	return len(g.Nexts)
}

// NumResources returns the number of resource dimensions declared for the
// graph's edges.
func (g *Graph) NumResources() int {
	return g.nResources
}

// Source returns the fixed source node.
func (g *Graph) Source() int {
	return 0
}

// Sink returns the fixed sink node.
func (g *Graph) Sink() int {
	return len(g.Nexts) - 1
}
