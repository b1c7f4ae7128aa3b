// Command signal-mcp serves the classifier and stored signals to MCP clients
// over stdio.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"interview-engine/internal/app"
)

func main() {
	env, err := app.Open(context.Background(), app.DataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "signal-mcp: %v\n", err)
		os.Exit(1)
	}
	defer env.Close()

	s := server.NewMCPServer("interview-signals", "1.0.0")
	registerTools(s, toolset{env: env})

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		env.Close()
		os.Exit(1)
	}
}
