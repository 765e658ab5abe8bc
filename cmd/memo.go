package cmd

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/database"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/mcpserver"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/memo"
)

var memoCmd = &cobra.Command{
	Use:   "memo",
	Short: "Run the memo tutorial server",
	Long: `Run the memo tutorial server on stdio.

Memos are stored in SQLite (MEMO_DB_PATH, default ~/.mcptut/memos.db).
The schema is created on first start.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		db, err := database.Open(cfg.MemoDBPath)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			return err
		}
		logger.Info("database ready", "path", cfg.MemoDBPath)

		store, err := memo.NewStore(db)
		if err != nil {
			return err
		}
		svc, err := memo.NewService(store, logger)
		if err != nil {
			return err
		}

		server, err := mcpserver.New(mcpserver.Config{
			Name:    "memo",
			Version: Version,
			Logger:  logger,
		})
		if err != nil {
			return err
		}
		if err := mcpserver.RegisterMemo(server, svc); err != nil {
			return err
		}

		ctx, cancel := serverContext()
		defer cancel()
		return server.Run(ctx, &mcp.StdioTransport{})
	},
}

func init() {
	rootCmd.AddCommand(memoCmd)
}
