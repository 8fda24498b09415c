package graph

// WeightAugmentor maps an edge to a replacement weight. Providers may use the
// edge's risk score or anything else; the engine treats the function as
// arbitrary and never assumes the adjusted weight is larger than the original.
type WeightAugmentor func(Edge) float64

// ApplyAugmentor rewrites every edge weight through adjust. A nil augmentor
// leaves the graph untouched. This runs before cycle resolution so the
// resolver's min-weight elimination sees adjusted weights.
func (g *Graph) ApplyAugmentor(adjust WeightAugmentor) {
	if adjust == nil {
		return
	}
	for k, e := range g.edges {
		e.Weight = adjust(e)
		g.edges[k] = e
	}
}
