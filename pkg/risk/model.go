package risk

import (
	"github.com/slipcast-io/slipcast/pkg/graph"
)

// Factors are the 0-100 scaled inputs to risk prediction.
type Factors struct {
	TeamVelocity         float64 `json:"teamVelocity"`
	DependencyComplexity float64 `json:"dependencyComplexity"`
	ResourceAllocation   float64 `json:"resourceAllocation"`
}

// DefaultFactor is assumed for any factor the caller omits.
const DefaultFactor = 50.0

// DefaultFactors returns a neutral factor set.
func DefaultFactors() Factors {
	return Factors{
		TeamVelocity:         DefaultFactor,
		DependencyComplexity: DefaultFactor,
		ResourceAllocation:   DefaultFactor,
	}
}

// Model scores project risk on a 0-100 scale. This is the deterministic
// weighted-sum provider; learned models satisfy the same contract but live
// outside this repository.
type Model struct {
	velocityWeight   float64
	complexityWeight float64
	resourceWeight   float64
}

// NewModel returns the default linear model.
func NewModel() *Model {
	return &Model{
		velocityWeight:   0.4,
		complexityWeight: 0.4,
		resourceWeight:   0.2,
	}
}

// Predict returns a risk score clamped to [0, 100].
func (m *Model) Predict(f Factors) float64 {
	score := m.velocityWeight*f.TeamVelocity +
		m.complexityWeight*f.DependencyComplexity +
		m.resourceWeight*f.ResourceAllocation
	return clamp(score, 0, 100)
}

// Augmentor returns the reference weight-adjustment policy: edges carrying a
// risk score have their weight scaled by riskScore/50, so a score of 50 is
// neutral, 100 doubles the weight, and 0 zeroes it. Edges without a score
// pass through unchanged.
func Augmentor() graph.WeightAugmentor {
	return func(e graph.Edge) float64 {
		if e.RiskScore == nil {
			return e.Weight
		}
		return e.Weight * (*e.RiskScore / 50)
	}
}

// CompoundingFactor models how delay compounds with the breadth of the
// cascade: each affected descendant adds 10%.
func CompoundingFactor(descendants int) float64 {
	if descendants < 0 {
		descendants = 0
	}
	return 1 + 0.1*float64(descendants)
}

// EnhancedDelay applies the compounding factor to a raw worst-chain delay.
func EnhancedDelay(totalDelay float64, descendants int) float64 {
	return totalDelay * CompoundingFactor(descendants)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
