package cmd

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/mcpserver"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/monitor"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Run the monitoring database tutorial server",
	Long: `Run the monitoring database tutorial server on stdio.

Without POSTGRES_PASSWORD the server answers from a fixed in-memory
dataset. With credentials it connects to PostgreSQL and additionally
accepts raw read-only queries via run_query.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		ctx, cancel := serverContext()
		defer cancel()

		var store monitor.Querier
		if cfg.DatabaseLive() {
			pg, err := monitor.NewPgStore(ctx, cfg.PostgresURL())
			if err != nil {
				return err
			}
			defer pg.Close()
			store = pg
			logger.Info("database source", "mode", "live", "host", cfg.PostgresHost)
		} else {
			store = monitor.NewDemoStore()
			logger.Info("database source", "mode", "demo")
		}

		svc, err := monitor.NewService(store, logger)
		if err != nil {
			return err
		}

		server, err := mcpserver.New(mcpserver.Config{
			Name:    "monitoring-db",
			Version: Version,
			Logger:  logger,
		})
		if err != nil {
			return err
		}
		if err := mcpserver.RegisterMonitor(server, svc); err != nil {
			return err
		}

		return server.Run(ctx, &mcp.StdioTransport{})
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
}
