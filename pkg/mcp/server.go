// Package mcp adapts slipcast-d to the Model Context Protocol so agents can
// run dependency analyses as tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/slipcast-io/slipcast/pkg/client"
)

// Server adapts slipcast-d to the Model Context Protocol.
type Server struct {
	mcpServer *server.MCPServer
	apiClient *client.Client
}

// NewServer creates a new MCP server instance.
func NewServer(apiURL string) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"slipcast",
			"1.0.0",
		),
		apiClient: client.NewClient(apiURL),
	}
	s.registerResources()
	s.registerTools()
	s.registerPrompts()
	return s
}

// Serve starts the MCP server on stdio.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcpServer)
}

// --- Resources ---

func (s *Server) registerResources() {
	// slipcast://analyses
	s.mcpServer.AddResource(mcp.NewResource(
		"slipcast://analyses",
		"Recent Dependency Analyses",
		mcp.WithResourceDescription("Audit log of recent critical path, cascade impact and risk analyses"),
		mcp.WithMIMEType("application/json"),
	), s.handleReadAnalyses)
}

// --- Tools ---

func (s *Server) registerTools() {
	// The graph parameter is a JSON object string because MCP tool schemas
	// carry scalars; the daemon validates the shape.
	graphDesc := `Dependency graph as JSON: {"nodes":["A","B"],"edges":[{"source":"A","target":"B","weight":2}]}`

	s.mcpServer.AddTool(mcp.NewTool(
		"find_critical_path",
		mcp.WithDescription("Find the maximum-weight dependency chain in a project graph. Cycles are repaired automatically."),
		mcp.WithString("graph", mcp.Required(), mcp.Description(graphDesc)),
		mcp.WithBoolean("use_physics", mcp.Description("Pre-adjust edge weights by per-edge risk scores")),
	), s.handleFindCriticalPath)

	s.mcpServer.AddTool(mcp.NewTool(
		"calculate_cascade_impact",
		mcp.WithDescription("Given a slipping work item, list every downstream item affected and the worst-case propagated delay."),
		mcp.WithString("work_item_id", mcp.Required(), mcp.Description("The work item that is slipping")),
		mcp.WithString("graph", mcp.Required(), mcp.Description(graphDesc)),
		mcp.WithBoolean("use_physics", mcp.Description("Compound the delay by cascade breadth")),
	), s.handleCascadeImpact)

	s.mcpServer.AddTool(mcp.NewTool(
		"predict_risk",
		mcp.WithDescription("Predict a 0-100 project risk score from team factors. Omitted factors default to 50."),
		mcp.WithNumber("team_velocity", mcp.Description("Team velocity factor, 0-100")),
		mcp.WithNumber("dependency_complexity", mcp.Description("Dependency complexity factor, 0-100")),
		mcp.WithNumber("resource_allocation", mcp.Description("Resource allocation factor, 0-100")),
	), s.handlePredictRisk)

	s.mcpServer.AddTool(mcp.NewTool(
		"analyze_dependency_text",
		mcp.WithDescription("Scan free-form work item text for dependency language ('blocked by', 'depends on', ...)."),
		mcp.WithString("text", mcp.Required(), mcp.Description("The work item title or description to scan")),
	), s.handleAnalyzeText)
}

// --- Prompts ---

func (s *Server) registerPrompts() {
	s.mcpServer.AddPrompt(mcp.NewPrompt(
		"slipcast-aware",
		mcp.WithPromptDescription("Provides context about slipcast concepts (work items, dependency edges, cascades)"),
	), s.handleGetPrompt)
}

// --- Handlers ---

func (s *Server) handleReadAnalyses(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	records, err := s.apiClient.GetAnalyses(ctx, 50)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch analyses: %w", err)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal analyses: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleFindCriticalPath(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	graphJSON := mcp.ParseString(request, "graph", "")
	usePhysics := mcp.ParseBoolean(request, "use_physics", false)

	var req client.GraphRequest
	if err := json.Unmarshal([]byte(graphJSON), &req); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid graph JSON: %v", err)), nil
	}
	req.Options.UsePhysicsAugmentation = usePhysics

	result, err := s.apiClient.FindCriticalPath(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("API error: %v", err)), nil
	}

	return toolResultJSON(result)
}

func (s *Server) handleCascadeImpact(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	workItemID := mcp.ParseString(request, "work_item_id", "")
	graphJSON := mcp.ParseString(request, "graph", "")
	usePhysics := mcp.ParseBoolean(request, "use_physics", false)

	var req client.CascadeImpactRequest
	if err := json.Unmarshal([]byte(graphJSON), &req); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid graph JSON: %v", err)), nil
	}
	req.WorkItemID = workItemID
	req.Options.UsePhysicsAugmentation = usePhysics

	result, err := s.apiClient.CalculateCascadeImpact(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("API error: %v", err)), nil
	}

	return toolResultJSON(result)
}

func (s *Server) handlePredictRisk(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var factors client.RiskFactors
	if v := mcp.ParseFloat64(request, "team_velocity", -1); v >= 0 {
		factors.TeamVelocity = &v
	}
	if v := mcp.ParseFloat64(request, "dependency_complexity", -1); v >= 0 {
		factors.DependencyComplexity = &v
	}
	if v := mcp.ParseFloat64(request, "resource_allocation", -1); v >= 0 {
		factors.ResourceAllocation = &v
	}

	result, err := s.apiClient.PredictRisk(ctx, factors)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("API error: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Risk score: %.1f / 100", result.Risk)), nil
}

func (s *Server) handleAnalyzeText(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := mcp.ParseString(request, "text", "")

	result, err := s.apiClient.AnalyzeText(ctx, text)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("API error: %v", err)), nil
	}

	return toolResultJSON(result)
}

func (s *Server) handleGetPrompt(ctx context.Context, request mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := request.Params.Name
	if name != "slipcast-aware" {
		return nil, fmt.Errorf("prompt not found: %s", name)
	}

	promptText := `You are interacting with slipcast, a dependency impact analysis engine for project graphs.

Concepts:
- Work item: A node in the project graph (task, story, epic), identified by a string ID.
- Dependency edge: "A -> B with weight W" means B depends on A and a slip in A delays B by up to W days.
- Critical path: The maximum-weight chain of dependencies; the sequence most likely to delay the project.
- Cascade impact: Given one slipping item, every downstream item it can affect and the worst-case propagated delay.
- Risk score: A 0-100 estimate from team velocity, dependency complexity and resource allocation.

When the user asks which tasks are most at risk, use 'find_critical_path'.
When the user asks what happens if a specific task slips, use 'calculate_cascade_impact'.
Cyclic graphs are repaired automatically; a 'degraded' result means the answer is best-effort.
`

	return mcp.NewGetPromptResult(
		"slipcast-aware",
		[]mcp.PromptMessage{
			mcp.NewPromptMessage(mcp.RoleUser, mcp.NewTextContent(promptText)),
		},
	), nil
}

func toolResultJSON(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
