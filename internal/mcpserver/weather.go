package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/weather"
)

// RegisterWeather binds the weather service.
func RegisterWeather(s *Server, svc *weather.Service) error {
	if err := addTool(s, "get_weather", "Get the current weather for a city.",
		func(ctx context.Context, input weather.GetWeatherInput) *mcp.CallToolResult {
			return resultToMCP(svc.GetWeather(ctx, input))
		}); err != nil {
		return err
	}
	if err := addTool(s, "compare_weather", "Compare the current weather across several cities.",
		func(ctx context.Context, input weather.CompareWeatherInput) *mcp.CallToolResult {
			return resultToMCP(svc.CompareWeather(ctx, input))
		}); err != nil {
		return err
	}
	if err := addTool(s, "recommend_outfit", "Suggest an outfit for a temperature.",
		func(_ context.Context, input weather.RecommendOutfitInput) *mcp.CallToolResult {
			return resultToMCP(svc.RecommendOutfit(input))
		}); err != nil {
		return err
	}

	s.mcp.AddResource(&mcp.Resource{
		URI:         "weather://cities",
		Name:        "supported-cities",
		Description: "Cities the server can answer for in the current mode.",
		MIMEType:    "text/plain",
	}, func(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		return textResource(req.Params.URI, svc.SupportedCities()), nil
	})

	s.mcp.AddPrompt(&mcp.Prompt{
		Name:        "travel_preparation",
		Description: "Build a weather-aware trip preparation request.",
		Arguments: []*mcp.PromptArgument{
			{Name: "destination", Description: "where the trip goes", Required: true},
			{Name: "days", Description: "trip length in days, defaults to 3"},
		},
	}, func(_ context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		args := req.Params.Arguments
		return promptResult("travel preparation request",
			svc.TravelPreparation(args["destination"], args["days"])), nil
	})

	return nil
}
