package risk

// PartialFactors is the wire shape for risk prediction inputs; omitted fields
// assume the neutral DefaultFactor.
type PartialFactors struct {
	TeamVelocity         *float64 `json:"teamVelocity"`
	DependencyComplexity *float64 `json:"dependencyComplexity"`
	ResourceAllocation   *float64 `json:"resourceAllocation"`
}

// Factors fills in defaults for omitted fields.
func (p PartialFactors) Factors() Factors {
	f := DefaultFactors()
	if p.TeamVelocity != nil {
		f.TeamVelocity = *p.TeamVelocity
	}
	if p.DependencyComplexity != nil {
		f.DependencyComplexity = *p.DependencyComplexity
	}
	if p.ResourceAllocation != nil {
		f.ResourceAllocation = *p.ResourceAllocation
	}
	return f
}
