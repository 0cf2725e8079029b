package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/verdanta/greenflow/internal/logging"
	mcpAdapter "github.com/verdanta/greenflow/pkg/adapters/mcp"
	"github.com/verdanta/greenflow/pkg/adapters/memory"
	"github.com/verdanta/greenflow/pkg/session"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the questionnaire engine as an MCP server so agents can run
assessments as tools.

Supported transports:
- stdio (default): Standard Input/Output, for local process integration.
- sse: Server-Sent Events over HTTP, for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		logger := logging.New(slog.LevelInfo)
		slog.SetDefault(logger)

		engine, err := newEngine(cmd)
		if err != nil {
			log.Fatalf("Error initializing greenflow: %v", err)
		}

		sessions := session.NewManager(memory.NewStore(), session.WithLogger(logger))
		srv := mcpAdapter.NewServer(engine, sessions)

		switch transport {
		case "stdio":
			// Logs must not corrupt JSON-RPC on Stdout.
			log.SetOutput(os.Stderr)
			slog.Info("Starting Greenflow MCP server (stdio)")
			if err := srv.ServeStdio(); err != nil {
				slog.Error("MCP server execution failed", "error", err)
				os.Exit(1)
			}
		case "sse":
			slog.Info("Starting Greenflow MCP server (SSE)", "port", port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil {
				if err != http.ErrServerClosed {
					slog.Error("MCP server execution failed", "error", err)
					os.Exit(1)
				}
			}
			slog.Info("MCP server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8090, "Port to listen on (only for SSE)")
}
