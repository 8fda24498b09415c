// Package engine orchestrates per-request graph analyses: build, optional
// weight augmentation, cycle resolution, then the query. Every request gets a
// fresh graph and shares nothing with other requests, so the engine is safe
// for concurrent use without locking.
package engine

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/slipcast-io/slipcast/pkg/graph"
)

// Physics is the pluggable provider for learned or heuristic weight
// adjustment. The engine works correctly and deterministically with a nil
// provider; it only marks results degraded when augmentation was requested
// but unavailable.
type Physics interface {
	// Augmentor returns the edge weight adjustment function.
	Augmentor() graph.WeightAugmentor
	// EnhanceDelay compounds a raw cascade delay by descendant count and
	// reports the factors applied.
	EnhanceDelay(totalDelay float64, descendants int) (float64, map[string]float64)
}

// Engine answers critical path and cascade impact queries.
type Engine struct {
	physics Physics
}

// New creates an engine. physics may be nil.
func New(physics Physics) *Engine {
	return &Engine{physics: physics}
}

// FindCriticalPath returns the maximum-weight dependency chain across the
// whole graph. Failures never escape: panics and context errors become
// structured error results.
func (e *Engine) FindCriticalPath(ctx context.Context, req GraphRequest) (result CriticalPathResult) {
	timer := prometheus.NewTimer(SlipcastAnalysisDuration.WithLabelValues("critical_path"))
	defer timer.ObserveDuration()
	defer func() {
		if r := recover(); r != nil {
			result = CriticalPathResult{Path: []graph.NodeID{}, Error: fmt.Sprintf("internal error: %v", r)}
			SlipcastAnalysesTotal.WithLabelValues("critical_path", "error").Inc()
		}
	}()

	g, degraded, err := e.prepare(ctx, req, "critical_path")
	if err != nil {
		SlipcastAnalysesTotal.WithLabelValues("critical_path", "error").Inc()
		return CriticalPathResult{Path: []graph.NodeID{}, Error: err.Error()}
	}

	path := g.CriticalPath()
	result = CriticalPathResult{
		Path:        path.Nodes,
		TotalWeight: path.TotalWeight,
		Degraded:    degraded,
	}
	SlipcastAnalysesTotal.WithLabelValues("critical_path", outcome(degraded)).Inc()
	return result
}

// CalculateCascadeImpact returns the descendants of source and the worst-case
// propagated delay. A source missing from the node set yields a structured
// error result, not a crash.
func (e *Engine) CalculateCascadeImpact(ctx context.Context, source graph.NodeID, req GraphRequest) (result CascadeImpactResult) {
	timer := prometheus.NewTimer(SlipcastAnalysisDuration.WithLabelValues("cascade_impact"))
	defer timer.ObserveDuration()
	defer func() {
		if r := recover(); r != nil {
			result = CascadeImpactResult{AffectedItems: []graph.NodeID{}, Error: fmt.Sprintf("internal error: %v", r)}
			SlipcastAnalysesTotal.WithLabelValues("cascade_impact", "error").Inc()
		}
	}()

	g, degraded, err := e.prepare(ctx, req, "cascade_impact")
	if err != nil {
		SlipcastAnalysesTotal.WithLabelValues("cascade_impact", "error").Inc()
		return CascadeImpactResult{AffectedItems: []graph.NodeID{}, Error: err.Error()}
	}

	impact, err := g.CascadeImpact(source)
	if err != nil {
		SlipcastAnalysesTotal.WithLabelValues("cascade_impact", "error").Inc()
		return CascadeImpactResult{AffectedItems: []graph.NodeID{}, Error: err.Error()}
	}

	result = CascadeImpactResult{
		AffectedItems: impact.Affected,
		TotalDelay:    impact.TotalDelay,
		Degraded:      degraded,
	}

	// Enhancement only runs when requested and a provider exists. The raw
	// delay is always reported alongside.
	if req.Options.UsePhysicsAugmentation && e.physics != nil {
		enhanced, factors := e.physics.EnhanceDelay(impact.TotalDelay, len(impact.Affected))
		result.PhysicsEnhancedDelay = &enhanced
		result.DelayFactors = factors
	}

	SlipcastAnalysesTotal.WithLabelValues("cascade_impact", outcome(degraded)).Inc()
	return result
}

// prepare builds the request graph, applies augmentation when requested, and
// resolves cycles. The returned degraded flag is set when augmentation was
// requested without a provider, or when cycle repair left residual cycles.
func (e *Engine) prepare(ctx context.Context, req GraphRequest, kind string) (*graph.Graph, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, fmt.Errorf("request aborted: %w", err)
	}

	g := graph.Build(req.Nodes, req.Edges)
	SlipcastGraphNodes.WithLabelValues(kind).Set(float64(g.NodeCount()))

	degraded := false
	if req.Options.UsePhysicsAugmentation {
		if e.physics != nil {
			g.ApplyAugmentor(e.physics.Augmentor())
		} else {
			degraded = true
		}
	}

	res := g.Resolve()
	SlipcastCycleEdgesRemovedTotal.Add(float64(len(res.Removed)))
	if res.Residual {
		degraded = true
	}

	if err := ctx.Err(); err != nil {
		return nil, degraded, fmt.Errorf("request aborted: %w", err)
	}
	return g, degraded, nil
}

func outcome(degraded bool) string {
	if degraded {
		return "degraded"
	}
	return "ok"
}
