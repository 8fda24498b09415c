package graph

// Resolution describes the outcome of cycle repair.
type Resolution struct {
	// Removed lists the edges deleted to break cycles, in removal order.
	Removed []Edge
	// Residual is true when detection reported a cycle but no removable edge
	// was found inside it. The graph may still contain cycles; downstream
	// stages must treat this as degraded output, not a fatal condition.
	Residual bool
}

// Resolve repairs the graph into a DAG by repeatedly detecting one cycle and
// removing the minimum-weight edge inside it. Ties break by first occurrence
// in the cycle's edge ordering. This is a local greedy elimination, not a
// minimum feedback arc set: it may remove more edges than strictly necessary
// when cycles overlap, but it always terminates. An already-acyclic graph is
// returned unchanged.
func (g *Graph) Resolve() Resolution {
	var res Resolution

	// Each pass removes one edge, so the edge count bounds the loop. The
	// explicit bound guards against a detector bug looping forever.
	maxPasses := len(g.edges) + 1
	for pass := 0; pass < maxPasses; pass++ {
		cycle := g.findCycle()
		if cycle == nil {
			return res
		}

		minEdge, ok := minWeightEdge(g, cycle)
		if !ok {
			res.Residual = true
			return res
		}

		g.RemoveEdge(minEdge.Source, minEdge.Target)
		res.Removed = append(res.Removed, minEdge)
	}

	// Out of passes with cycles still reported.
	res.Residual = true
	return res
}

// findCycle returns the node sequence of one cycle, or nil if the graph is
// acyclic. Nodes and successors are visited in lexicographic order so the
// detected cycle is reproducible across runs.
func (g *Graph) findCycle() []NodeID {
	const (
		white = 0 // unvisited
		gray  = 1 // on the current DFS stack
		black = 2 // fully explored
	)

	color := make(map[NodeID]int, len(g.nodes))
	var stack []NodeID
	var cycle []NodeID

	var visit func(n NodeID) bool
	visit = func(n NodeID) bool {
		color[n] = gray
		stack = append(stack, n)

		for _, succ := range g.Successors(n) {
			switch color[succ] {
			case white:
				if visit(succ) {
					return true
				}
			case gray:
				// Back edge: the cycle is the stack suffix starting at succ.
				for i, s := range stack {
					if s == succ {
						cycle = append(cycle, stack[i:]...)
						return true
					}
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[n] = black
		return false
	}

	for _, n := range g.Nodes() {
		if color[n] == white {
			if visit(n) {
				return cycle
			}
		}
	}
	return nil
}

// minWeightEdge scans the cycle's edges in order and returns the one with the
// minimum weight. First occurrence wins on ties.
func minWeightEdge(g *Graph, cycle []NodeID) (Edge, bool) {
	var best Edge
	found := false
	for i := range cycle {
		from := cycle[i]
		to := cycle[(i+1)%len(cycle)]
		e, ok := g.EdgeBetween(from, to)
		if !ok {
			continue
		}
		if !found || e.Weight < best.Weight {
			best = e
			found = true
		}
	}
	return best, found
}
