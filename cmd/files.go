package cmd

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/files"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/mcpserver"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/security"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Run the file manager tutorial server",
	Long: `Run the file manager tutorial server on stdio.

Every operation is confined to the workspace directory
(FILE_WORKSPACE, default ~/mcp_workspace). The directory is created
on startup if it does not exist.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}

		workspace, err := security.NewWorkspace(cfg.Workspace)
		if err != nil {
			return err
		}
		logger.Info("workspace ready", "root", workspace.Root())

		manager, err := files.NewManager(workspace, logger)
		if err != nil {
			return err
		}

		server, err := mcpserver.New(mcpserver.Config{
			Name:    "file-manager",
			Version: Version,
			Logger:  logger,
		})
		if err != nil {
			return err
		}
		if err := mcpserver.RegisterFiles(server, manager); err != nil {
			return err
		}

		ctx, cancel := serverContext()
		defer cancel()
		return server.Run(ctx, &mcp.StdioTransport{})
	},
}

func init() {
	rootCmd.AddCommand(filesCmd)
}
