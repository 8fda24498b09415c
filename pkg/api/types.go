package api

import (
	"github.com/slipcast-io/slipcast/pkg/engine"
	"github.com/slipcast-io/slipcast/pkg/graph"
	"github.com/slipcast-io/slipcast/pkg/privacy"
	"github.com/slipcast-io/slipcast/pkg/risk"
)

// API Request/Response Structs

// CascadeImpactRequest names the slipping work item plus the graph it sits in.
type CascadeImpactRequest struct {
	WorkItemID string         `json:"workItemId"`
	Nodes      []graph.NodeID `json:"nodes"`
	Edges      []graph.Edge   `json:"edges"`
	Options    engine.Options `json:"options"`
}

// RiskResponse echoes the effective factors so callers can see which defaults
// were assumed.
type RiskResponse struct {
	Risk    float64      `json:"risk"`
	Factors risk.Factors `json:"factors"`
}

// AnalyzeTextRequest carries free-form work item text to scan for dependency
// markers.
type AnalyzeTextRequest struct {
	Text string `json:"text"`
}

// PrivacyProcessRequest carries a work item dataset through anonymization and
// opt-out filtering before it leaves the boundary.
type PrivacyProcessRequest struct {
	WorkItems    []privacy.WorkItem   `json:"workItems"`
	Dependencies []privacy.Dependency `json:"dependencies"`
	Fields       []string             `json:"fields,omitempty"`
	Salt         string               `json:"salt,omitempty"`
	OptOuts      []string             `json:"optOuts,omitempty"`
}

// PrivacyProcessResponse is the filtered, anonymized dataset.
type PrivacyProcessResponse struct {
	WorkItems    []privacy.WorkItem   `json:"workItems"`
	Dependencies []privacy.Dependency `json:"dependencies"`
}

// PruneRequest sets the retention window for the audit log.
type PruneRequest struct {
	Retention string `json:"retention"` // e.g., "720h"
}

// PruneResponse reports what a prune removed.
type PruneResponse struct {
	Status        string `json:"status"`
	PrunedCount   int64  `json:"pruned_count"`
	RetentionUsed string `json:"retention_used"`
}
