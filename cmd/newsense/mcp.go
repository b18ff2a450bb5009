// ABOUTME: MCP server command for newsense CLI
// ABOUTME: Starts stdio-based MCP server for AI agent integration

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/newsense/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp [scope]",
	Short: "Start MCP server for AI agents",
	Long: `Start the Model Context Protocol (MCP) server on stdio.

This allows AI agents like Claude to browse the feed view, page through older
items, sync, and rate or mark items through structured tools.

The server communicates via JSON-RPC on stdin/stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unread, _ := cmd.Flags().GetBool("unread")

		engine := newEngine(client, scopeArg(args), unread)
		server := mcp.NewServer(engine,
			mcp.WithFeedDirectory(client),
			mcp.WithSettingsHook(saveSettings),
			mcp.WithLogger(logger),
		)

		if err := server.ServeStdio(); err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().BoolP("unread", "u", false, "start with an unread-only view")
}
