package cmd

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/mcpserver"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/weather"
)

var weatherCmd = &cobra.Command{
	Use:   "weather",
	Short: "Run the weather tutorial server",
	Long: `Run the weather tutorial server on stdio.

Without OPENWEATHER_API_KEY the server answers from a fixed demo dataset.
With a key it queries OpenWeatherMap for any city.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		var source weather.Source
		if cfg.WeatherLive() {
			source, err = weather.NewClient(cfg.WeatherAPIKey, cfg.WeatherBaseURL)
			if err != nil {
				return err
			}
			logger.Info("weather source", "mode", "live")
		} else {
			source = weather.NewDemoSource()
			logger.Info("weather source", "mode", "demo")
		}

		svc, err := weather.NewService(source, logger)
		if err != nil {
			return err
		}

		server, err := mcpserver.New(mcpserver.Config{
			Name:    "weather",
			Version: Version,
			Logger:  logger,
		})
		if err != nil {
			return err
		}
		if err := mcpserver.RegisterWeather(server, svc); err != nil {
			return err
		}

		ctx, cancel := serverContext()
		defer cancel()
		return server.Run(ctx, &mcp.StdioTransport{})
	},
}

func init() {
	rootCmd.AddCommand(weatherCmd)
}
