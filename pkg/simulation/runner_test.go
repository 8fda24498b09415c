package simulation

import (
	"context"
	"testing"

	"github.com/slipcast-io/slipcast/pkg/engine"
	"github.com/slipcast-io/slipcast/pkg/graph"
)

func chainRequest() engine.GraphRequest {
	return engine.GraphRequest{
		Nodes: []graph.NodeID{"A", "B", "C"},
		Edges: []graph.Edge{
			{Source: "A", Target: "B", Weight: 2},
			{Source: "B", Target: "C", Weight: 3},
		},
	}
}

func TestRunScenario_ZeroSpreadIsExact(t *testing.T) {
	e := engine.New(nil)

	result := RunScenario(context.Background(), e, Scenario{
		Name:    "exact",
		Request: chainRequest(),
		Source:  "A",
		Trials:  10,
		Spread:  0,
		Seed:    42,
	})

	if result.Errors != 0 {
		t.Fatalf("Expected no errors, got %d", result.Errors)
	}
	if result.MinDelay != 5 || result.MaxDelay != 5 || result.MeanDelay != 5 {
		t.Errorf("Expected all delays exactly 5, got min=%v max=%v mean=%v",
			result.MinDelay, result.MaxDelay, result.MeanDelay)
	}
}

func TestRunScenario_SpreadBoundsDelays(t *testing.T) {
	e := engine.New(nil)

	result := RunScenario(context.Background(), e, Scenario{
		Name:    "spread",
		Request: chainRequest(),
		Source:  "A",
		Trials:  200,
		Spread:  0.5,
		Seed:    7,
	})

	if result.Errors != 0 {
		t.Fatalf("Expected no errors, got %d", result.Errors)
	}
	// Each edge weight varies by at most 50%, so the chain stays in [2.5, 7.5].
	if result.MinDelay < 2.5 || result.MaxDelay > 7.5 {
		t.Errorf("Delays outside expected bounds: min=%v max=%v", result.MinDelay, result.MaxDelay)
	}
	if result.MinDelay == result.MaxDelay {
		t.Error("Expected perturbation to produce varying delays")
	}
	if result.P50Delay < result.MinDelay || result.P90Delay > result.MaxDelay {
		t.Errorf("Percentiles outside range: p50=%v p90=%v", result.P50Delay, result.P90Delay)
	}
}

func TestRunScenario_DeterministicWithSeed(t *testing.T) {
	e := engine.New(nil)
	scenario := Scenario{
		Name:    "seeded",
		Request: chainRequest(),
		Source:  "A",
		Trials:  50,
		Spread:  0.3,
		Seed:    99,
	}

	first := RunScenario(context.Background(), e, scenario)
	second := RunScenario(context.Background(), e, scenario)

	if first != second {
		t.Errorf("Expected identical results for same seed, got %+v and %+v", first, second)
	}
}

func TestRunScenario_MissingSourceCountsErrors(t *testing.T) {
	e := engine.New(nil)

	result := RunScenario(context.Background(), e, Scenario{
		Name:    "missing",
		Request: chainRequest(),
		Source:  "Z",
		Trials:  5,
		Seed:    1,
	})

	if result.Errors != 5 {
		t.Errorf("Expected all 5 trials to error, got %d", result.Errors)
	}
}
