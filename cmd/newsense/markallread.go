// ABOUTME: Mark-all-read command for bulk marking a scope as read
// ABOUTME: Accepts periods, dates or timestamps for the lower bound and reloads afterwards

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/newsense/internal/models"
	"github.com/harper/newsense/internal/timeutil"
)

var markAllReadCmd = &cobra.Command{
	Use:   "mark-all-read [scope]",
	Short: "Mark everything in a scope as read",
	Long: `Mark every item in a feed (or "all") published after --since as read.

--since accepts today, yesterday, week, month, YYYY-MM-DD or an RFC 3339
timestamp. Without --since everything is marked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sinceArg, _ := cmd.Flags().GetString("since")
		clusters, _ := cmd.Flags().GetBool("clusters")
		ctx := cmd.Context()

		since, err := timeutil.ParseSince(sinceArg)
		if err != nil {
			return err
		}

		scope := scopeArg(args)
		engine := newEngine(client, scope, true)
		if cmd.Flags().Changed("clusters") {
			settings := cfg.Settings
			settings.UseClusters = clusters
			engine.SetSettings(settings)
		}

		res, err := engine.MarkAllRead(ctx, since)
		if err != nil {
			return err
		}
		if scope == models.AllScope {
			fmt.Println("Marked all subscriptions as read")
		} else {
			fmt.Printf("Marked %s as read\n", scope)
		}
		if res.Fetched > 0 {
			fmt.Printf("%d unread items remain\n", engine.Snapshot().UnreadCount())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(markAllReadCmd)

	markAllReadCmd.Flags().String("since", "", "only mark items published after: today, yesterday, week, month, YYYY-MM-DD")
	markAllReadCmd.Flags().BoolP("clusters", "c", false, "mark through the cluster endpoint")
}
