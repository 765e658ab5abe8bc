package main

import (
	"fmt"
	"os"

	"github.com/mcplab-kr/mcp-go-tutorials/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
