// ABOUTME: Read command for viewing article content
// ABOUTME: Displays full item details with markdown rendering and marks the item read

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/newsense/internal/config"
	"github.com/harper/newsense/internal/content"
	"github.com/harper/newsense/internal/models"
)

var readCmd = &cobra.Command{
	Use:   "read <item-id>",
	Short: "Read an article",
	Long:  "Display the full content of an item and mark it as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		noMark, _ := cmd.Flags().GetBool("no-mark")
		scope, _ := cmd.Flags().GetString("scope")
		pages, _ := cmd.Flags().GetInt("pages")
		ctx := cmd.Context()

		engine := newEngine(client, scope, false)
		item, err := locateItem(ctx, engine, args[0], pages)
		if err != nil {
			return err
		}
		names := feedNames(ctx, client)

		bold := color.New(color.Bold).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Println(strings.Repeat("─", 60))
		fmt.Printf("%s\n\n", bold(titleOf(item)))
		fmt.Printf("%s %s\n", faint("Feed:"), names.DisplayName(item))
		if item.Author != "" {
			fmt.Printf("%s %s\n", faint("Author:"), item.Author)
		}
		if !item.PublishedAt.IsZero() {
			fmt.Printf("%s %s\n", faint("Published:"), item.PublishedAt.Local().Format(config.DateFormatLong))
		}
		if item.Prediction != nil {
			fmt.Printf("%s %.2f\n", faint("Prediction:"), *item.Prediction)
		}
		if item.Link != "" {
			fmt.Printf("%s %s\n", faint("Link:"), cyan(item.Link))
		}
		fmt.Println(strings.Repeat("─", 60))

		if item.Content != "" {
			markdown := content.ToMarkdown(item.Content)
			rendered, err := glamour.Render(markdown, "dark")
			if err != nil {
				fmt.Printf("%s\n", faint("(markdown rendering unavailable, showing plain text)"))
				fmt.Printf("\n%s\n", markdown)
			} else {
				fmt.Print(rendered)
			}
		} else {
			fmt.Println("\n(No content available)")
		}
		fmt.Println()

		if !noMark && !item.IsRead {
			if _, err := engine.UpdateItemStatus(ctx, item.ID, models.ReadPatch(true)); err != nil {
				return fmt.Errorf("failed to mark item as read: %w", err)
			}
			fmt.Printf("%s\n", faint("Marked as read"))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(readCmd)

	readCmd.Flags().Bool("no-mark", false, "don't mark the item as read")
	addLocateFlags(readCmd)
}

// addLocateFlags registers the flags used to find an item by id.
func addLocateFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("scope", "s", models.AllScope, "feed id to search, or \"all\"")
	cmd.Flags().IntP("pages", "p", 5, "older pages to search before giving up")
}
