package simulation

import "github.com/slipcast-io/slipcast/pkg/engine"

// Scenario describes one Monte Carlo slip simulation. Each trial perturbs
// every edge weight by a uniform factor in [1-Spread, 1+Spread] and re-runs
// the cascade impact analysis from Source.
type Scenario struct {
	Name    string              `json:"name"`
	Request engine.GraphRequest `json:"request"`
	Source  string              `json:"source"`
	Trials  int                 `json:"trials"`
	Spread  float64             `json:"spread"` // 0.0 to 1.0
	Seed    int64               `json:"seed"`   // Deterministic seed; 0 picks a random one
	Workers int                 `json:"workers"`
}

// Result aggregates the delay distribution across trials.
type Result struct {
	ScenarioName string  `json:"scenario_name"`
	Trials       int     `json:"trials"`
	Seed         int64   `json:"seed"`
	MinDelay     float64 `json:"min_delay"`
	MaxDelay     float64 `json:"max_delay"`
	MeanDelay    float64 `json:"mean_delay"`
	P50Delay     float64 `json:"p50_delay"`
	P90Delay     float64 `json:"p90_delay"`
	Errors       int     `json:"errors"`
}
