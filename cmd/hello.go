package cmd

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/mcplab-kr/mcp-go-tutorials/internal/hello"
	"github.com/mcplab-kr/mcp-go-tutorials/internal/mcpserver"
)

var helloCmd = &cobra.Command{
	Use:   "hello",
	Short: "Run the hello-world tutorial server",
	Long: `Run the first tutorial server on stdio.

Tools: add, multiply, greet, reverse_string.
Resources: hello://info, hello://help/{topic}.
Prompts: explain_code, debug_error.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, logger, err := setup()
		if err != nil {
			return err
		}

		toolset, err := hello.New(logger)
		if err != nil {
			return err
		}

		server, err := mcpserver.New(mcpserver.Config{
			Name:    "hello-world",
			Version: Version,
			Logger:  logger,
		})
		if err != nil {
			return err
		}
		if err := mcpserver.RegisterHello(server, toolset, Version); err != nil {
			return err
		}

		ctx, cancel := serverContext()
		defer cancel()
		return server.Run(ctx, &mcp.StdioTransport{})
	},
}

func init() {
	rootCmd.AddCommand(helloCmd)
}
