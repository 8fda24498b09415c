package engine

import "github.com/slipcast-io/slipcast/pkg/graph"

// Options control optional per-request behavior.
type Options struct {
	// UsePhysicsAugmentation pre-adjusts edge weights through the injected
	// physics provider before cycle resolution. When no provider is wired the
	// engine proceeds with raw weights and marks the result degraded.
	UsePhysicsAugmentation bool `json:"usePhysicsAugmentation"`
}

// GraphRequest is the common input shape: a node list, an edge list, and
// options. The engine builds a fresh graph for every request; nothing is
// shared or cached between requests.
type GraphRequest struct {
	Nodes   []graph.NodeID `json:"nodes"`
	Edges   []graph.Edge   `json:"edges"`
	Options Options        `json:"options"`
}

// CriticalPathResult is the answer to a critical path query. On internal
// failure Path is empty, TotalWeight is zero and Error carries the message.
type CriticalPathResult struct {
	Path        []graph.NodeID `json:"path"`
	TotalWeight float64        `json:"totalWeight"`
	Degraded    bool           `json:"degraded,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// CascadeImpactResult is the answer to a cascade impact query.
// PhysicsEnhancedDelay is only present when enhancement ran; TotalDelay is
// always the raw value, never silently substituted.
type CascadeImpactResult struct {
	AffectedItems        []graph.NodeID     `json:"affectedItems"`
	TotalDelay           float64            `json:"totalDelay"`
	PhysicsEnhancedDelay *float64           `json:"physicsEnhancedDelay,omitempty"`
	DelayFactors         map[string]float64 `json:"delayFactors,omitempty"`
	Degraded             bool               `json:"degraded,omitempty"`
	Error                string             `json:"error,omitempty"`
}
