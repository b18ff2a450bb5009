// ABOUTME: TUI command for the interactive terminal reader
// ABOUTME: Runs the bubbletea reader with periodic sync and persisted settings

package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/harper/newsense/internal/config"
	"github.com/harper/newsense/internal/feedview"
	"github.com/harper/newsense/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [scope]",
	Short: "Open the terminal reader",
	Long: `Open the interactive reader on a feed (or "all").

Scrolling to the bottom loads older items, new items are synced in at the top
without moving what is on screen, and settings changed in the reader are saved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unread, _ := cmd.Flags().GetBool("unread")
		interval, _ := cmd.Flags().GetDuration("sync-every")
		logFile, _ := cmd.Flags().GetString("log-file")

		// The alternate screen owns the terminal; logs go to a file or nowhere.
		tuiLogger := slog.New(slog.DiscardHandler)
		if logFile != "" {
			f, err := tea.LogToFile(logFile, "newsense")
			if err != nil {
				return fmt.Errorf("failed to open log file: %w", err)
			}
			defer f.Close()
			if tuiLogger, err = newLogger(f, logLevel); err != nil {
				return err
			}
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engine := newEngine(client, scopeArg(args), unread, feedview.WithLogger(tuiLogger))
		return tui.Run(ctx, engine, tui.Options{
			Names:        feedNames(ctx, client),
			SyncInterval: interval,
			OnSettings:   saveSettings,
			Logger:       tuiLogger,
		})
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)

	tuiCmd.Flags().BoolP("unread", "u", false, "show only unread items")
	tuiCmd.Flags().Duration("sync-every", config.DefaultSyncEvery, "sync interval, 0 to disable")
	tuiCmd.Flags().String("log-file", "", "write logs to this file while the reader runs")
}
