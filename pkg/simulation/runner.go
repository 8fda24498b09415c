package simulation

import (
	"context"
	"log"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/slipcast-io/slipcast/pkg/engine"
	"github.com/slipcast-io/slipcast/pkg/graph"
)

const (
	defaultTrials  = 100
	defaultWorkers = 4
	maxTrials      = 10000
)

// RunScenario executes the Monte Carlo simulation. Trials are independent:
// each one builds its own perturbed request, so workers share nothing but the
// result slice. Per-trial seeds derive from the scenario seed, making runs
// reproducible.
func RunScenario(ctx context.Context, e *engine.Engine, s Scenario) Result {
	if s.Trials <= 0 {
		s.Trials = defaultTrials
	}
	if s.Trials > maxTrials {
		s.Trials = maxTrials
	}
	if s.Workers <= 0 {
		s.Workers = defaultWorkers
	}
	if s.Seed == 0 {
		s.Seed = time.Now().UnixNano()
	}

	log.Printf("Running scenario %s (%d trials, seed %d)", s.Name, s.Trials, s.Seed)

	delays := make([]float64, s.Trials)
	errCounts := make([]int, s.Workers)

	var wg sync.WaitGroup
	trialCh := make(chan int)

	for w := 0; w < s.Workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for trial := range trialCh {
				rng := rand.New(rand.NewSource(s.Seed + int64(trial)))
				req := perturb(s.Request, s.Spread, rng)
				res := e.CalculateCascadeImpact(ctx, graph.NodeID(s.Source), req)
				if res.Error != "" {
					errCounts[worker]++
					continue
				}
				delays[trial] = res.TotalDelay
			}
		}(w)
	}

	for trial := 0; trial < s.Trials; trial++ {
		select {
		case <-ctx.Done():
			trial = s.Trials // stop feeding
		case trialCh <- trial:
		}
	}
	close(trialCh)
	wg.Wait()

	result := Result{
		ScenarioName: s.Name,
		Trials:       s.Trials,
		Seed:         s.Seed,
	}
	for _, c := range errCounts {
		result.Errors += c
	}

	sort.Float64s(delays)
	result.MinDelay = delays[0]
	result.MaxDelay = delays[len(delays)-1]

	var sum float64
	for _, d := range delays {
		sum += d
	}
	result.MeanDelay = sum / float64(len(delays))
	result.P50Delay = percentile(delays, 0.50)
	result.P90Delay = percentile(delays, 0.90)

	return result
}

// perturb copies the request with every edge weight scaled by a uniform
// factor in [1-spread, 1+spread].
func perturb(req engine.GraphRequest, spread float64, rng *rand.Rand) engine.GraphRequest {
	if spread < 0 {
		spread = 0
	}
	out := engine.GraphRequest{
		Nodes:   req.Nodes,
		Options: req.Options,
		Edges:   make([]graph.Edge, len(req.Edges)),
	}
	for i, e := range req.Edges {
		factor := 1 + spread*(rng.Float64()*2-1)
		e.Weight *= factor
		out.Edges[i] = e
	}
	return out
}

// percentile reads from a sorted slice using nearest-rank.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(p * float64(len(sorted)))
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
