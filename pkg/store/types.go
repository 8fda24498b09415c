package store

import (
	"context"
	"encoding/json"
	"time"
)

// AnalysisKind labels what kind of query a record captures.
type AnalysisKind string

const (
	KindCriticalPath   AnalysisKind = "critical_path"
	KindCascadeImpact  AnalysisKind = "cascade_impact"
	KindRiskPrediction AnalysisKind = "risk_prediction"
	KindDependencyScan AnalysisKind = "dependency_scan"
	KindSimulation     AnalysisKind = "simulation"
)

// AnalysisRecord is one append-only audit entry per engine request. Graphs
// themselves are never persisted; only the request shape and outcome are.
type AnalysisRecord struct {
	AnalysisID string          `json:"analysis_id"`
	Kind       AnalysisKind    `json:"kind"`
	TsStarted  time.Time       `json:"ts_started"`
	NodeCount  int             `json:"node_count"`
	EdgeCount  int             `json:"edge_count"`
	Outcome    string          `json:"outcome"` // ok, degraded, error
	DurationMs int64           `json:"duration_ms"`
	Summary    json.RawMessage `json:"summary"`
}

// AnalysisStore is the audit log interface the API server depends on; the
// SQLite store implements it, tests mock it.
type AnalysisStore interface {
	AppendAnalysis(ctx context.Context, rec *AnalysisRecord) error
	RecentAnalyses(ctx context.Context, limit int) ([]*AnalysisRecord, error)
	PruneAnalyses(ctx context.Context, retention time.Duration) (int64, error)
}
