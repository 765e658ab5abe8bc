package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/monitor"
)

// RegisterMonitor binds the monitoring database service.
func RegisterMonitor(s *Server, svc *monitor.Service) error {
	if err := addTool(s, "list_sites", "List monitored sites, optionally by region or status.",
		func(ctx context.Context, input monitor.ListSitesInput) *mcp.CallToolResult {
			return resultToMCP(svc.ListSites(ctx, input))
		}); err != nil {
		return err
	}
	if err := addTool(s, "list_cameras", "List the cameras installed at a site.",
		func(ctx context.Context, input monitor.ListCamerasInput) *mcp.CallToolResult {
			return resultToMCP(svc.ListCameras(ctx, input))
		}); err != nil {
		return err
	}
	if err := addTool(s, "list_events", "List recent detection events, newest first.",
		func(ctx context.Context, input monitor.ListEventsInput) *mcp.CallToolResult {
			return resultToMCP(svc.ListEvents(ctx, input))
		}); err != nil {
		return err
	}
	if err := addTool(s, "dashboard", "Summarize sites, camera health, and event severity.",
		func(ctx context.Context, _ struct{}) *mcp.CallToolResult {
			return resultToMCP(svc.Dashboard(ctx))
		}); err != nil {
		return err
	}
	if err := addTool(s, "run_query", "Run a read-only SELECT statement against the monitoring database.",
		func(ctx context.Context, input monitor.RunQueryInput) *mcp.CallToolResult {
			return resultToMCP(svc.RunQuery(ctx, input))
		}); err != nil {
		return err
	}

	s.mcp.AddResource(&mcp.Resource{
		URI:         "db://status",
		Name:        "database-status",
		Description: "Connection mode and dataset availability.",
		MIMEType:    "text/plain",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return textResource(req.Params.URI, svc.Status(ctx)), nil
	})

	s.mcp.AddResource(&mcp.Resource{
		URI:         "db://schema",
		Name:        "database-schema",
		Description: "Tables and columns available to run_query.",
		MIMEType:    "text/plain",
	}, func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return textResource(req.Params.URI, svc.Schema()), nil
	})

	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        "analyze_site",
		Description: "Build a site health analysis request.",
		Arguments: []*mcp.PromptArgument{
			{Name: "site_name", Description: "name of the site to analyze", Required: true},
		},
	}, func(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return promptResult("site analysis request",
			svc.AnalyzeSite(req.Params.Arguments["site_name"])), nil
	})

	return nil
}
