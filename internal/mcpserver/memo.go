package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/memo"
)

// RegisterMemo binds the memo application.
func RegisterMemo(s *Server, svc *memo.Service) error {
	if err := addTool(s, "create_memo", "Create a memo with optional category and tags.",
		func(ctx context.Context, input memo.CreateMemoInput) *mcp.CallToolResult {
			return resultToMCP(svc.Create(ctx, input))
		}); err != nil {
		return err
	}
	if err := addTool(s, "get_memo", "Show one memo by id.",
		func(ctx context.Context, input memo.GetMemoInput) *mcp.CallToolResult {
			return resultToMCP(svc.Get(ctx, input))
		}); err != nil {
		return err
	}
	if err := addTool(s, "list_memos", "List memos, pinned first, with optional filters.",
		func(ctx context.Context, input memo.ListMemosInput) *mcp.CallToolResult {
			return resultToMCP(svc.List(ctx, input))
		}); err != nil {
		return err
	}
	if err := addTool(s, "update_memo", "Update fields of a memo; omitted fields are kept.",
		func(ctx context.Context, input memo.UpdateMemoInput) *mcp.CallToolResult {
			return resultToMCP(svc.Update(ctx, input))
		}); err != nil {
		return err
	}
	if err := addTool(s, "delete_memo", "Delete a memo by id.",
		func(ctx context.Context, input memo.DeleteMemoInput) *mcp.CallToolResult {
			return resultToMCP(svc.Delete(ctx, input))
		}); err != nil {
		return err
	}
	if err := addTool(s, "search_memos", "Search memo titles and content for a keyword.",
		func(ctx context.Context, input memo.SearchMemosInput) *mcp.CallToolResult {
			return resultToMCP(svc.Search(ctx, input))
		}); err != nil {
		return err
	}
	if err := addTool(s, "list_categories", "List categories in use with memo counts.",
		func(ctx context.Context, _ struct{}) *mcp.CallToolResult {
			return resultToMCP(svc.ListCategories(ctx))
		}); err != nil {
		return err
	}
	if err := addTool(s, "list_tags", "List tags with the number of memos carrying each.",
		func(ctx context.Context, _ struct{}) *mcp.CallToolResult {
			return resultToMCP(svc.ListTags(ctx))
		}); err != nil {
		return err
	}
	if err := addTool(s, "memo_stats", "Summarize memo counts by category and tag.",
		func(ctx context.Context, _ struct{}) *mcp.CallToolResult {
			return resultToMCP(svc.GetStats(ctx))
		}); err != nil {
		return err
	}

	s.mcp.AddResource(&mcp.Resource{
		URI:         "memo://categories",
		Name:        "memo-categories",
		Description: "Categories currently in use with memo counts.",
		MIMEType:    "text/plain",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return textResource(req.Params.URI, svc.CategoriesResource(ctx)), nil
	})

	s.mcp.AddResource(&mcp.Resource{
		URI:         "memo://recent",
		Name:        "recent-memos",
		Description: "The five most recently updated memos.",
		MIMEType:    "text/plain",
	}, func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return textResource(req.Params.URI, svc.RecentResource(ctx)), nil
	})

	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        "weekly_review",
		Description: "Build a weekly memo review request.",
	}, func(_ context.Context, _ *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		return promptResult("weekly review request", svc.WeeklyReview()), nil
	})

	return nil
}
