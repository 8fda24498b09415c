package graph

import "sort"

// NodeID identifies a work item within a single request's graph.
type NodeID string

// Edge represents a directed dependency: a delay on Source propagates to
// Target. Weight is the expected delay contribution. RiskScore (0-100) is
// optional and only consumed by weight augmentors.
type Edge struct {
	Source    NodeID   `json:"source"`
	Target    NodeID   `json:"target"`
	Weight    float64  `json:"weight"`
	RiskScore *float64 `json:"riskScore,omitempty"`
}

// Path is an ordered sequence of nodes with the summed weight of its edges.
type Path struct {
	Nodes       []NodeID `json:"path"`
	TotalWeight float64  `json:"totalWeight"`
}

type pairKey struct {
	from NodeID
	to   NodeID
}

// Graph holds a node registry and a single edge per ordered node pair.
// It is built fresh for every request and discarded afterwards; only the
// cycle resolver mutates it (edge removal).
type Graph struct {
	nodes map[NodeID]struct{}
	edges map[pairKey]Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[NodeID]struct{}),
		edges: make(map[pairKey]Edge),
	}
}

// Build constructs a graph from a node list and an edge list. Edge endpoints
// missing from the node list are added implicitly, so the node registry is
// always the union of both inputs. Inserting a second edge for the same
// ordered pair overwrites the first; there are no multi-edges.
func Build(nodes []NodeID, edges []Edge) *Graph {
	g := New()
	for _, n := range nodes {
		g.AddNode(n)
	}
	for _, e := range edges {
		g.AddEdge(e)
	}
	return g
}

// AddNode registers a node. Adding an existing node is a no-op.
func (g *Graph) AddNode(id NodeID) {
	g.nodes[id] = struct{}{}
}

// AddEdge inserts an edge, registering both endpoints. An existing edge for
// the same ordered pair is overwritten.
func (g *Graph) AddEdge(e Edge) {
	g.nodes[e.Source] = struct{}{}
	g.nodes[e.Target] = struct{}{}
	g.edges[pairKey{e.Source, e.Target}] = e
}

// RemoveEdge deletes the edge between the ordered pair, if present.
func (g *Graph) RemoveEdge(from, to NodeID) {
	delete(g.edges, pairKey{from, to})
}

// HasNode reports whether the node is registered.
func (g *Graph) HasNode(id NodeID) bool {
	_, ok := g.nodes[id]
	return ok
}

// EdgeBetween returns the edge for the ordered pair, if any.
func (g *Graph) EdgeBetween(from, to NodeID) (Edge, bool) {
	e, ok := g.edges[pairKey{from, to}]
	return e, ok
}

// NodeCount returns the number of registered nodes.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// Nodes returns all node IDs in lexicographic order. Traversals iterate this
// order so results are reproducible across runs and platforms.
func (g *Graph) Nodes() []NodeID {
	out := make([]NodeID, 0, len(g.nodes))
	for n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Edges returns all edges ordered by (source, target).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].Target < out[j].Target
	})
	return out
}

// Successors returns the direct targets of a node in lexicographic order.
func (g *Graph) Successors(id NodeID) []NodeID {
	var out []NodeID
	for k := range g.edges {
		if k.from == id {
			out = append(out, k.to)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
