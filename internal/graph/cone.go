package graph

import (
	"silica/internal/errors"
)

// Dependency-cone analysis: bounded-depth traversal along SignalFlow edges.
// Backward cones answer "what does this node depend on", forward cones "what
// depends on this node".

// ConeNode is one node of a dependency cone together with the depth at which
// the traversal first discovered it. Depth counts SignalFlow hops from the
// root; the root itself is never part of a cone.
//
// A node reachable over several paths keeps the depth of its first discovery
// under edge-enumeration order, which is not necessarily the shortest path.
// That tie-breaking is defined behavior: graphs enumerate edges in insertion
// order, so identical snapshots produce identical cones.
type ConeNode struct {
	Node  NodeID
	Depth int
}

// DependencySummary reports the sizes of a node's two cones.
type DependencySummary struct {
	BackwardSize int
	ForwardSize  int
}

// ComputeBackwardCone collects every node the root transitively depends on,
// following SignalFlow edges in reverse. maxDepth is an exclusive bound:
// result depths satisfy 1 <= depth < maxDepth.
func ComputeBackwardCone(g *Graph, root NodeID, maxDepth int) ([]ConeNode, error) {
	return computeCone(g, root, maxDepth, true)
}

// ComputeForwardCone is the mirror of ComputeBackwardCone, following
// SignalFlow edges in their stored direction.
func ComputeForwardCone(g *Graph, root NodeID, maxDepth int) ([]ConeNode, error) {
	return computeCone(g, root, maxDepth, false)
}

// ComputeDependencySummary returns the backward and forward cone sizes for a
// root under the same depth bound.
func ComputeDependencySummary(g *Graph, root NodeID, maxDepth int) (DependencySummary, error) {
	back, err := ComputeBackwardCone(g, root, maxDepth)
	if err != nil {
		return DependencySummary{}, err
	}
	fwd, err := ComputeForwardCone(g, root, maxDepth)
	if err != nil {
		return DependencySummary{}, err
	}
	return DependencySummary{BackwardSize: len(back), ForwardSize: len(fwd)}, nil
}

func computeCone(g *Graph, root NodeID, maxDepth int, backward bool) ([]ConeNode, error) {
	rootIdx, ok := g.Index(root)
	if !ok {
		return nil, errors.NotFoundf(errors.CodeNodeNotFound,
			"cone root %s %q is not in the graph", root.Kind, root.ID)
	}

	visited := map[NodeID]bool{root: true}
	cone := []ConeNode{}

	var walk func(idx, depth int)
	walk = func(idx, depth int) {
		next := depth + 1
		if next >= maxDepth {
			// Depth bound reached: silent truncation, not an error.
			return
		}
		edges := g.Adjacency[idx]
		if backward {
			edges = g.Reverse[idx]
		}
		for _, e := range edges {
			if e.Kind != SignalFlow {
				continue
			}
			neighbor := e.To
			if backward {
				neighbor = e.From
			}
			if visited[neighbor] {
				continue
			}
			visited[neighbor] = true
			cone = append(cone, ConeNode{Node: neighbor, Depth: next})
			if nIdx, ok := g.Index(neighbor); ok {
				walk(nIdx, next)
			}
		}
	}
	walk(rootIdx, 0)

	return cone, nil
}
