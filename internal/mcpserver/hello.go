package mcpserver

import (
	"context"
	"errors"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/hello"
)

// RegisterHello binds the hello-world toolset.
func RegisterHello(s *Server, ts *hello.Toolset, version string) error {
	if err := addTool(s, "add", "Add two integers.",
		func(_ context.Context, input hello.AddInput) *mcp.CallToolResult {
			return resultToMCP(ts.Add(input))
		}); err != nil {
		return err
	}
	if err := addTool(s, "multiply", "Multiply two numbers.",
		func(_ context.Context, input hello.MultiplyInput) *mcp.CallToolResult {
			return resultToMCP(ts.Multiply(input))
		}); err != nil {
		return err
	}
	if err := addTool(s, "greet", "Greet someone by name in Korean, English, or Japanese.",
		func(_ context.Context, input hello.GreetInput) *mcp.CallToolResult {
			return resultToMCP(ts.Greet(input))
		}); err != nil {
		return err
	}
	if err := addTool(s, "reverse_string", "Reverse the characters of a text.",
		func(_ context.Context, input hello.ReverseInput) *mcp.CallToolResult {
			return resultToMCP(ts.Reverse(input))
		}); err != nil {
		return err
	}

	s.mcp.AddResource(&mcp.Resource{
		URI:         "hello://info",
		Name:        "server-info",
		Description: "Server name, version, and capabilities.",
		MIMEType:    "text/plain",
	}, func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return textResource(req.Params.URI, ts.ServerInfo(version)), nil
	})

	s.mcp.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: "hello://help/{topic}",
		Name:        "help",
		Description: "Help text for a topic: tools, resources, or prompts.",
		MIMEType:    "text/plain",
	}, func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		topic, ok := strings.CutPrefix(req.Params.URI, "hello://help/")
		if !ok {
			return nil, errors.New("unsupported help URI")
		}
		return textResource(req.Params.URI, ts.Help(topic)), nil
	})

	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        "explain_code",
		Description: "Ask for a structured explanation of a code snippet.",
		Arguments: []*mcp.PromptArgument{
			{Name: "code", Description: "the code to explain", Required: true},
			{Name: "language", Description: "programming language, defaults to go"},
		},
	}, func(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		args := req.Params.Arguments
		return promptResult("code explanation request",
			ts.ExplainCode(args["code"], args["language"])), nil
	})

	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        "debug_error",
		Description: "Ask for help diagnosing an error message.",
		Arguments: []*mcp.PromptArgument{
			{Name: "error_message", Description: "the error output to diagnose", Required: true},
		},
	}, func(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return promptResult("debugging request",
			ts.DebugError(req.Params.Arguments["error_message"])), nil
	})

	return nil
}
