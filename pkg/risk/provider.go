package risk

import "github.com/slipcast-io/slipcast/pkg/graph"

// Provider bundles the weight augmentor and delay enhancement behind the
// interface the engine injects. Swapping in a learned model means swapping
// this type, nothing in the graph engine changes.
type Provider struct {
	model *Model
}

// NewProvider returns the default provider backed by the linear model.
func NewProvider() *Provider {
	return &Provider{model: NewModel()}
}

// Model exposes the underlying risk model.
func (p *Provider) Model() *Model {
	return p.model
}

// Augmentor returns the riskScore/50 weight adjustment.
func (p *Provider) Augmentor() graph.WeightAugmentor {
	return Augmentor()
}

// EnhanceDelay applies depth compounding and reports the factors used.
func (p *Provider) EnhanceDelay(totalDelay float64, descendants int) (float64, map[string]float64) {
	factor := CompoundingFactor(descendants)
	return totalDelay * factor, map[string]float64{
		"descendantCount":   float64(descendants),
		"compoundingFactor": factor,
	}
}
