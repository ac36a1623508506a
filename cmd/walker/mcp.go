package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/walker/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [world]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the engine as MCP tools so AI agents can drive the walker.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port := env.Config.Server.Port
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		eng, err := env.NewEngine()
		if err != nil {
			return err
		}
		if len(args) == 1 {
			if err := env.OpenWorld(cmd.Context(), eng, args[0]); err != nil {
				return err
			}
		}
		reg, err := env.Programs()
		if err != nil {
			return err
		}
		srv := mcp.NewServer(eng, reg)

		switch transport {
		case "stdio":
			// Stdout carries JSON-RPC.
			log.SetOutput(os.Stderr)
			env.Logger.Info("starting walker MCP server", "transport", "stdio")
			return srv.ServeStdio()
		case "sse":
			env.Logger.Info("starting walker MCP server", "transport", "sse", "port", port)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			env.Logger.Info("MCP server stopped gracefully")
			return nil
		}
		return fmt.Errorf("unknown transport %q, supported: stdio, sse", transport)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 0, "Port to listen on, only for SSE (default from config)")
}
