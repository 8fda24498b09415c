// Command slipcast is the process-boundary CLI: one command name plus
// positional JSON arguments in, exactly one JSON result object out on stdout.
// Logical failures are structured error results with exit code 0; only the
// stdout encoder failing is fatal. Diagnostics go to stderr.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/slipcast-io/slipcast/pkg/engine"
	"github.com/slipcast-io/slipcast/pkg/graph"
	"github.com/slipcast-io/slipcast/pkg/risk"
	"github.com/slipcast-io/slipcast/pkg/textdep"
)

var (
	Version   = "v1.0.0"
	Commit    = "unknown"
	BuildTime = "unknown"
)

type handler func(eng *engine.Engine, args []string) interface{}

var commands = map[string]handler{
	"predict_risk":             runPredictRisk,
	"analyze_dependency":       runAnalyzeDependency,
	"find_critical_path":       runFindCriticalPath,
	"calculate_cascade_impact": runCascadeImpact,
}

func main() {
	out := json.NewEncoder(os.Stdout)

	if len(os.Args) < 2 {
		out.Encode(map[string]string{"error": "No command specified"})
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	h, ok := commands[command]
	if !ok {
		out.Encode(map[string]string{"error": fmt.Sprintf("Unknown command: %s", command)})
		return
	}

	eng := engine.New(risk.NewProvider())
	result := h(eng, args)

	if err := out.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
		os.Exit(1)
	}
}

// runPredictRisk expects one JSON object of factors; omitted factors default
// to the neutral 50.
func runPredictRisk(_ *engine.Engine, args []string) interface{} {
	var partial risk.PartialFactors
	if len(args) > 0 {
		if err := json.Unmarshal([]byte(args[0]), &partial); err != nil {
			return map[string]string{"error": fmt.Sprintf("malformed factors: %v", err)}
		}
	}

	model := risk.NewModel()
	return map[string]float64{"risk": model.Predict(partial.Factors())}
}

// runAnalyzeDependency expects one JSON-encoded string of work item text.
func runAnalyzeDependency(_ *engine.Engine, args []string) interface{} {
	if len(args) < 1 {
		return map[string]string{"error": "analyze_dependency requires a text argument"}
	}
	return textdep.Analyze(decodeString(args[0]))
}

// runFindCriticalPath expects a JSON node array and a JSON edge array, with an
// optional options object.
func runFindCriticalPath(eng *engine.Engine, args []string) interface{} {
	if len(args) < 2 {
		return engine.CriticalPathResult{Path: []graph.NodeID{}, Error: "find_critical_path requires nodes and edges arguments"}
	}

	var req engine.GraphRequest
	if err := json.Unmarshal([]byte(args[0]), &req.Nodes); err != nil {
		return engine.CriticalPathResult{Path: []graph.NodeID{}, Error: fmt.Sprintf("malformed nodes: %v", err)}
	}
	if err := json.Unmarshal([]byte(args[1]), &req.Edges); err != nil {
		return engine.CriticalPathResult{Path: []graph.NodeID{}, Error: fmt.Sprintf("malformed edges: %v", err)}
	}
	if len(args) > 2 {
		if err := json.Unmarshal([]byte(args[2]), &req.Options); err != nil {
			return engine.CriticalPathResult{Path: []graph.NodeID{}, Error: fmt.Sprintf("malformed options: %v", err)}
		}
	}

	return eng.FindCriticalPath(context.Background(), req)
}

// runCascadeImpact expects a work item id, a JSON node array and a JSON edge
// array, with an optional options object.
func runCascadeImpact(eng *engine.Engine, args []string) interface{} {
	if len(args) < 3 {
		return engine.CascadeImpactResult{AffectedItems: []graph.NodeID{}, Error: "calculate_cascade_impact requires workItemId, nodes and edges arguments"}
	}

	workItemID := decodeString(args[0])

	var req engine.GraphRequest
	if err := json.Unmarshal([]byte(args[1]), &req.Nodes); err != nil {
		return engine.CascadeImpactResult{AffectedItems: []graph.NodeID{}, Error: fmt.Sprintf("malformed nodes: %v", err)}
	}
	if err := json.Unmarshal([]byte(args[2]), &req.Edges); err != nil {
		return engine.CascadeImpactResult{AffectedItems: []graph.NodeID{}, Error: fmt.Sprintf("malformed edges: %v", err)}
	}
	if len(args) > 3 {
		if err := json.Unmarshal([]byte(args[3]), &req.Options); err != nil {
			return engine.CascadeImpactResult{AffectedItems: []graph.NodeID{}, Error: fmt.Sprintf("malformed options: %v", err)}
		}
	}

	return eng.CalculateCascadeImpact(context.Background(), graph.NodeID(workItemID), req)
}

// decodeString accepts either a JSON-encoded string or a bare one.
func decodeString(arg string) string {
	var s string
	if err := json.Unmarshal([]byte(arg), &s); err == nil {
		return s
	}
	return arg
}
