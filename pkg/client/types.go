package client

import "time"

// Wire types mirror the daemon's API shapes so the SDK stays standalone.

// Edge is one directed dependency with an estimated delay weight.
type Edge struct {
	Source    string   `json:"source"`
	Target    string   `json:"target"`
	Weight    float64  `json:"weight"`
	RiskScore *float64 `json:"riskScore,omitempty"`
}

// Options control optional per-request behavior.
type Options struct {
	UsePhysicsAugmentation bool `json:"usePhysicsAugmentation"`
}

// GraphRequest is the input to critical path analysis.
type GraphRequest struct {
	Nodes   []string `json:"nodes"`
	Edges   []Edge   `json:"edges"`
	Options Options  `json:"options"`
}

// CascadeImpactRequest names the slipping work item plus its graph.
type CascadeImpactRequest struct {
	WorkItemID string   `json:"workItemId"`
	Nodes      []string `json:"nodes"`
	Edges      []Edge   `json:"edges"`
	Options    Options  `json:"options"`
}

// CriticalPathResult is the daemon's critical path answer. A non-empty Error
// means the analysis failed logically; the HTTP call itself succeeded.
type CriticalPathResult struct {
	Path        []string `json:"path"`
	TotalWeight float64  `json:"totalWeight"`
	Degraded    bool     `json:"degraded,omitempty"`
	Error       string   `json:"error,omitempty"`
}

// CascadeImpactResult is the daemon's cascade impact answer.
type CascadeImpactResult struct {
	AffectedItems        []string           `json:"affectedItems"`
	TotalDelay           float64            `json:"totalDelay"`
	PhysicsEnhancedDelay *float64           `json:"physicsEnhancedDelay,omitempty"`
	DelayFactors         map[string]float64 `json:"delayFactors,omitempty"`
	Degraded             bool               `json:"degraded,omitempty"`
	Error                string             `json:"error,omitempty"`
}

// RiskFactors are the prediction inputs; nil fields let the daemon assume its
// neutral default.
type RiskFactors struct {
	TeamVelocity         *float64 `json:"teamVelocity,omitempty"`
	DependencyComplexity *float64 `json:"dependencyComplexity,omitempty"`
	ResourceAllocation   *float64 `json:"resourceAllocation,omitempty"`
}

// RiskResult carries the score and the effective factors used.
type RiskResult struct {
	Risk    float64 `json:"risk"`
	Factors struct {
		TeamVelocity         float64 `json:"teamVelocity"`
		DependencyComplexity float64 `json:"dependencyComplexity"`
		ResourceAllocation   float64 `json:"resourceAllocation"`
	} `json:"factors"`
}

// Mention is one dependency marker hit in scanned text.
type Mention struct {
	Marker   string `json:"marker"`
	Sentence string `json:"sentence"`
}

// TextAnalysis is the result of a dependency language scan.
type TextAnalysis struct {
	Dependencies         []Mention `json:"dependencies"`
	HasDependencyMarkers bool      `json:"has_dependency_markers"`
}

// AnalysisRecord is one audit entry from the daemon's recent-analyses feed.
type AnalysisRecord struct {
	AnalysisID string    `json:"analysis_id"`
	Kind       string    `json:"kind"`
	TsStarted  time.Time `json:"ts_started"`
	NodeCount  int       `json:"node_count"`
	EdgeCount  int       `json:"edge_count"`
	Outcome    string    `json:"outcome"`
	DurationMs int64     `json:"duration_ms"`
}

// Status is the daemon health response.
type Status struct {
	Status string `json:"status"`
}
