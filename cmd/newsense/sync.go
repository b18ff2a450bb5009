// ABOUTME: Sync command for polling a scope for new items
// ABOUTME: Loads the view once, then prepends only unseen items on each sync

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/newsense/internal/feedview"
	"github.com/harper/newsense/internal/models"
)

var syncCmd = &cobra.Command{
	Use:   "sync [scope]",
	Short: "Check a scope for new items",
	Long: `Load the newest page of a scope, then sync it against the source and print
only items that were not already held. With --watch, keep syncing on an interval
until interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		watch, _ := cmd.Flags().GetDuration("watch")
		unread, _ := cmd.Flags().GetBool("unread")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		engine := newEngine(client, scopeArg(args), unread)
		if _, err := engine.ColdLoad(ctx); err != nil {
			return err
		}
		names := feedNames(ctx, client)
		faint := color.New(color.Faint).SprintFunc()

		if watch <= 0 {
			n, err := syncOnce(ctx, engine, names)
			if err != nil {
				return err
			}
			if n == 0 {
				fmt.Println("No new items")
			}
			return nil
		}

		fmt.Println(faint(fmt.Sprintf("watching every %s, ctrl+c to stop", watch)))
		ticker := time.NewTicker(watch)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if _, err := syncOnce(ctx, engine, names); err != nil {
					if ctx.Err() != nil {
						return nil
					}
					fmt.Fprintln(os.Stderr, errorText(err))
				}
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)

	syncCmd.Flags().DurationP("watch", "w", 0, "keep syncing on this interval (e.g. 1m)")
	syncCmd.Flags().BoolP("unread", "u", false, "consider only unread items")
}

// syncOnce runs one sync and prints the entries it made visible.
func syncOnce(ctx context.Context, engine *feedview.Engine, names models.FeedNames) (int, error) {
	before := visibleIDs(engine.Snapshot())
	res, err := engine.Sync(ctx)
	if err != nil {
		return 0, err
	}
	if res.Added == 0 {
		return 0, nil
	}
	fresh := newEntries(engine.Snapshot(), before)
	printSnapshot(fresh, names)
	return fresh.Len(), nil
}

func visibleIDs(snap feedview.Snapshot) map[string]bool {
	ids := make(map[string]bool, snap.Len())
	for _, item := range snap.Items {
		ids[item.ID] = true
	}
	for _, c := range snap.Clusters {
		ids[c.ID] = true
	}
	return ids
}

// newEntries narrows snap to the entries whose ids are not in seen.
func newEntries(snap feedview.Snapshot, seen map[string]bool) feedview.Snapshot {
	out := snap
	out.Items, out.Clusters = nil, nil
	for _, item := range snap.Items {
		if !seen[item.ID] {
			out.Items = append(out.Items, item)
		}
	}
	for _, c := range snap.Clusters {
		if !seen[c.ID] {
			out.Clusters = append(out.Clusters, c)
		}
	}
	return out
}
