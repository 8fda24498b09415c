package graph

import "errors"

// ErrNodeNotFound is returned when a cascade query names a node that is not
// in the graph's node registry.
var ErrNodeNotFound = errors.New("node not found in graph")

// Impact describes the downstream consequence of a slip at one node.
type Impact struct {
	// Affected holds every node reachable from the source, sorted.
	Affected []NodeID `json:"affectedItems"`
	// TotalDelay is the maximum, over all affected nodes, of the
	// maximum-weight path from the source to that node. It is a single
	// worst-case chain, not a sum, and never negative.
	TotalDelay float64 `json:"totalDelay"`
}

// CascadeImpact computes the set of descendants of source and the worst-case
// delay propagated to any of them. It expects a resolved graph; descendants
// sitting on a residual cycle still appear in the affected set but do not
// contribute a delay (they never enter the topological order).
func (g *Graph) CascadeImpact(source NodeID) (Impact, error) {
	if !g.HasNode(source) {
		return Impact{}, ErrNodeNotFound
	}

	// Reachability pass.
	reachable := map[NodeID]struct{}{source: {}}
	queue := []NodeID{source}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, succ := range g.Successors(n) {
			if _, seen := reachable[succ]; seen {
				continue
			}
			reachable[succ] = struct{}{}
			queue = append(queue, succ)
		}
	}

	affected := make([]NodeID, 0, len(reachable)-1)
	for _, n := range g.Nodes() {
		if n == source {
			continue
		}
		if _, ok := reachable[n]; ok {
			affected = append(affected, n)
		}
	}

	// Longest-path pass from the fixed source over the topological order.
	dist := map[NodeID]float64{source: 0}
	for _, u := range g.topoOrder() {
		du, ok := dist[u]
		if !ok {
			continue
		}
		for _, v := range g.Successors(u) {
			e, found := g.EdgeBetween(u, v)
			if !found {
				continue
			}
			if dv, seen := dist[v]; !seen || du+e.Weight > dv {
				dist[v] = du + e.Weight
			}
		}
	}

	impact := Impact{Affected: affected}
	for _, n := range affected {
		if d, ok := dist[n]; ok && d > impact.TotalDelay {
			impact.TotalDelay = d
		}
	}
	return impact, nil
}
