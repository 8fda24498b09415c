// Command slipcast-mcp serves the slipcast analysis tools over the Model
// Context Protocol on stdio, proxying to a running slipcast-d.
package main

import (
	"fmt"
	"os"

	"github.com/slipcast-io/slipcast/pkg/mcp"
)

func main() {
	apiURL := os.Getenv("SLIPCAST_URL")

	s := mcp.NewServer(apiURL)
	if err := s.Serve(); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server failed: %v\n", err)
		os.Exit(1)
	}
}
