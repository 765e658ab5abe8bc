package mcpserver

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/tools"
)

// resultToMCP converts a tool result to the wire shape. Domain failures
// become IsError text results; the process never terminates on them.
func resultToMCP(result tools.Result) *mcp.CallToolResult {
	if result.Status == tools.StatusError {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{&mcp.TextContent{
				Text: fmt.Sprintf("[%s] %s", result.Error.Code, result.Error.Message),
			}},
		}
	}

	text := result.Message
	if text == "" && result.Data != nil {
		encoded, err := json.MarshalIndent(result.Data, "", "  ")
		if err != nil {
			return &mcp.CallToolResult{
				IsError: true,
				Content: []mcp.Content{&mcp.TextContent{
					Text: fmt.Sprintf("[%s] encoding result: %v", tools.ErrCodeIO, err),
				}},
			}
		}
		text = string(encoded)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// textResult wraps plain text as a successful tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// textResource answers a resource read with plain text.
func textResource(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     text,
		}},
	}
}

// promptResult wraps rendered prompt text as a single user message.
func promptResult(description, text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Description: description,
		Messages: []*mcp.PromptMessage{{
			Role:    "user",
			Content: &mcp.TextContent{Text: text},
		}},
	}
}
