// ABOUTME: List command for viewing a feed view page by page
// ABOUTME: Cold loads a scope, follows older pages on request and prints items or clusters

package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/newsense/internal/config"
	"github.com/harper/newsense/internal/feedview"
	"github.com/harper/newsense/internal/models"
)

var listCmd = &cobra.Command{
	Use:     "list [scope]",
	Aliases: []string{"ls", "l"},
	Short:   "List items in a scope",
	Long:    "List the newest items of a feed (or \"all\"), optionally following older pages and grouping near-duplicates into clusters",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pages, _ := cmd.Flags().GetInt("pages")
		unread, _ := cmd.Flags().GetBool("unread")
		ctx := cmd.Context()

		settings := cfg.Settings
		if cmd.Flags().Changed("clusters") {
			settings.UseClusters, _ = cmd.Flags().GetBool("clusters")
		}
		if cmd.Flags().Changed("threshold") {
			settings.FilterPrediction = true
			settings.FilterPredictionThreshold, _ = cmd.Flags().GetFloat64("threshold")
		}

		engine := newEngine(client, scopeArg(args), unread, feedview.WithSettings(settings))
		if _, err := engine.ColdLoad(ctx); err != nil {
			return err
		}
		for i := 0; i < pages && engine.CanLoadMore(); i++ {
			if _, err := engine.LoadMore(ctx); err != nil {
				return err
			}
		}

		snap := engine.Snapshot()
		if snap.Len() == 0 {
			fmt.Println("No entries found")
			return nil
		}

		names := feedNames(ctx, client)
		printSnapshot(snap, names)
		if snap.HasMore {
			faint := color.New(color.Faint).SprintFunc()
			fmt.Println(faint(fmt.Sprintf("more available: --pages %d", pages+1)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().IntP("pages", "p", 0, "number of older pages to load after the first")
	listCmd.Flags().BoolP("unread", "u", false, "show only unread items")
	listCmd.Flags().BoolP("clusters", "c", false, "group near-duplicate items into clusters")
	listCmd.Flags().Float64P("threshold", "t", 0, "hide items whose prediction is below this value (-1 to 1)")
}

// printSnapshot writes every visible entry to stdout.
func printSnapshot(snap feedview.Snapshot, names models.FeedNames) {
	if snap.Clustered {
		for _, c := range snap.Clusters {
			for _, line := range clusterLines(c, names) {
				fmt.Println(line)
			}
		}
		return
	}
	for _, item := range snap.Items {
		fmt.Println(itemLine(item, names))
	}
}

// itemLine formats one item as: id, read mark, like mark, title, source, date.
func itemLine(item *models.Item, names models.FeedNames) string {
	faint := color.New(color.Faint).SprintFunc()

	var b strings.Builder
	b.WriteString(faint(shortID(item.ID)))
	b.WriteString(" ")
	b.WriteString(statusMarks(item.IsRead, item.Liked))
	b.WriteString(" ")
	b.WriteString(titleOf(item))
	b.WriteString(" ")
	b.WriteString(faint(names.DisplayName(item)))
	if !item.PublishedAt.IsZero() {
		b.WriteString(" ")
		b.WriteString(faint(item.PublishedAt.Local().Format(config.DateFormatShort)))
	}
	return b.String()
}

// clusterLines formats a cluster header followed by one indented line per member.
func clusterLines(c *models.Cluster, names models.FeedNames) []string {
	faint := color.New(color.Faint).SprintFunc()
	summary := feedview.Summarize(c, names)

	like := models.Neutral
	switch {
	case summary.Liked:
		like = models.Liked
	case summary.Disliked:
		like = models.Disliked
	}

	if summary.Single {
		return []string{itemLine(c.Items[0], names)}
	}

	header := fmt.Sprintf("%s %s %s", faint(shortID(c.ID)), statusMarks(summary.Read, like),
		color.New(color.Bold).Sprintf("%d sources", len(c.Items)))
	lines := []string{header}
	for _, item := range c.Items {
		lines = append(lines, "  "+itemLine(item, names))
	}
	return lines
}

func statusMarks(read bool, like models.Like) string {
	mark := " "
	if read {
		mark = "✓"
	}
	switch like {
	case models.Liked:
		return mark + color.GreenString("+")
	case models.Disliked:
		return mark + color.RedString("-")
	default:
		return mark + " "
	}
}

func titleOf(item *models.Item) string {
	if strings.TrimSpace(item.Title) == "" {
		return "Untitled"
	}
	return item.Title
}

func shortID(id string) string {
	if len(id) > config.DisplayIDLength {
		return id[:config.DisplayIDLength]
	}
	return id
}
