package graph

import "sort"

// CriticalPath returns the maximum-weight path across all ordered pairs of
// distinct nodes. It assumes cycle resolution already ran: the computation is
// a single longest-path dynamic program over a topological order, linear in
// nodes plus edges. Nodes still on a residual cycle never enter the order and
// are skipped rather than looped over.
//
// When several paths tie for the maximum weight, the lexicographically
// smallest node sequence wins, so repeated runs on the same graph produce
// identical results. A graph with no edges (or a single node) yields an empty
// path with weight zero.
func (g *Graph) CriticalPath() Path {
	if len(g.edges) == 0 || len(g.nodes) < 2 {
		return Path{Nodes: []NodeID{}}
	}

	order := g.topoOrder()

	// best tracks, per node, the maximum-weight path with at least one edge
	// ending there. Paths may start at any node; a prefix is only kept when
	// it helps (non-negative total), so augmented negative weights are safe.
	type candidate struct {
		weight float64
		nodes  []NodeID
	}
	best := make(map[NodeID]candidate, len(order))

	for _, u := range order {
		startWeight := 0.0
		startNodes := []NodeID{u}
		if b, ok := best[u]; ok {
			if b.weight > 0 || (b.weight == 0 && lexLess(b.nodes, startNodes)) {
				startWeight = b.weight
				startNodes = b.nodes
			}
		}

		for _, v := range g.Successors(u) {
			e, ok := g.EdgeBetween(u, v)
			if !ok {
				continue
			}
			candNodes := make([]NodeID, 0, len(startNodes)+1)
			candNodes = append(candNodes, startNodes...)
			candNodes = append(candNodes, v)
			cand := candidate{weight: startWeight + e.Weight, nodes: candNodes}

			cur, exists := best[v]
			if !exists || cand.weight > cur.weight ||
				(cand.weight == cur.weight && lexLess(cand.nodes, cur.nodes)) {
				best[v] = cand
			}
		}
	}

	var found bool
	var top candidate
	for _, n := range order {
		b, ok := best[n]
		if !ok {
			continue
		}
		if !found || b.weight > top.weight ||
			(b.weight == top.weight && lexLess(b.nodes, top.nodes)) {
			top = b
			found = true
		}
	}
	if !found {
		return Path{Nodes: []NodeID{}}
	}
	return Path{Nodes: top.nodes, TotalWeight: top.weight}
}

// topoOrder returns a deterministic topological order (Kahn's algorithm,
// lexicographic tie-break). Nodes on residual cycles keep a positive
// in-degree and are omitted.
func (g *Graph) topoOrder() []NodeID {
	inDegree := make(map[NodeID]int, len(g.nodes))
	for n := range g.nodes {
		inDegree[n] = 0
	}
	for k := range g.edges {
		inDegree[k.to]++
	}

	var ready []NodeID
	for _, n := range g.Nodes() {
		if inDegree[n] == 0 {
			ready = append(ready, n)
		}
	}

	order := make([]NodeID, 0, len(g.nodes))
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		order = append(order, n)

		for _, succ := range g.Successors(n) {
			inDegree[succ]--
			if inDegree[succ] == 0 {
				// Keep the ready queue sorted so ties resolve by node ID.
				i := sort.Search(len(ready), func(i int) bool { return ready[i] >= succ })
				ready = append(ready, "")
				copy(ready[i+1:], ready[i:])
				ready[i] = succ
			}
		}
	}
	return order
}

// lexLess reports whether a sorts before b element-wise, with a shorter
// prefix ordering first.
func lexLess(a, b []NodeID) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
