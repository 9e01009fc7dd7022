// Package mcptools exposes the energy analyzer over the Model Context
// Protocol so editors and assistants can request analyses and refactor
// prompts directly.
package mcptools

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// version is set by the linker at build time.
var version = "dev"

// NewEnergyMCPServer creates an MCP server with all 4 energy analysis tools registered.
func NewEnergyMCPServer(svc *EnergyService) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "greenlint-energy",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_source",
		Description: "Analyze inline Python source for energy inefficiencies. Returns a full report with score, grade, issues, block metrics, and hotspot.",
	}, svc.AnalyzeSource)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "analyze_file",
		Description: "Analyze a Python file, or every Python file under a directory, and record the reports in the project energy map.",
	}, svc.AnalyzeFile)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "refactor_prompt",
		Description: "Analyze Python source and build a refactoring prompt targeting its energy hotspot, suitable for feeding to a code assistant.",
	}, svc.RefactorPrompt)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "energy_map",
		Description: "Query the project energy map: worst-scoring files, top hotspots by energy density, and aggregate statistics.",
	}, svc.EnergyMap)

	return server
}

// RunMCPServer starts an HTTP server exposing the energy MCP tools.
func RunMCPServer(ctx context.Context, svc *EnergyService, addr string) error {
	server := NewEnergyMCPServer(svc)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background())
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
