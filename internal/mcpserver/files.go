package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/files"
)

// RegisterFiles binds the workspace file manager.
func RegisterFiles(s *Server, m *files.Manager) error {
	if err := addTool(s, "list_files", "List workspace files matching a glob pattern.",
		func(_ context.Context, input files.ListFilesInput) *mcp.CallToolResult {
			return resultToMCP(m.ListFiles(input))
		}); err != nil {
		return err
	}
	if err := addTool(s, "read_file", "Read a text file from the workspace.",
		func(_ context.Context, input files.ReadFileInput) *mcp.CallToolResult {
			return resultToMCP(m.ReadFile(input))
		}); err != nil {
		return err
	}
	if err := addTool(s, "write_file", "Create or overwrite a text file in the workspace.",
		func(_ context.Context, input files.WriteFileInput) *mcp.CallToolResult {
			return resultToMCP(m.WriteFile(input))
		}); err != nil {
		return err
	}
	if err := addTool(s, "search_files", "Search workspace file contents for a keyword.",
		func(_ context.Context, input files.SearchFilesInput) *mcp.CallToolResult {
			return resultToMCP(m.SearchFiles(input))
		}); err != nil {
		return err
	}
	if err := addTool(s, "get_file_info", "Show metadata for a workspace file or directory.",
		func(_ context.Context, input files.FileInfoInput) *mcp.CallToolResult {
			return resultToMCP(m.GetFileInfo(input))
		}); err != nil {
		return err
	}
	if err := addTool(s, "create_directory", "Create a directory in the workspace.",
		func(_ context.Context, input files.CreateDirectoryInput) *mcp.CallToolResult {
			return resultToMCP(m.CreateDirectory(input))
		}); err != nil {
		return err
	}

	s.mcp.AddResource(&mcp.Resource{
		URI:         "files://workspace",
		Name:        "workspace-info",
		Description: "Workspace location and usage summary.",
		MIMEType:    "text/plain",
	}, func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return textResource(req.Params.URI, m.WorkspaceInfo()), nil
	})

	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        "analyze_project",
		Description: "Build a project structure analysis request.",
		Arguments: []*mcp.PromptArgument{
			{Name: "project_name", Description: "the project to analyze", Required: true},
		},
	}, func(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return promptResult("project analysis request",
			m.AnalyzeProject(req.Params.Arguments["project_name"])), nil
	})

	return nil
}
