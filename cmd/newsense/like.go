// ABOUTME: Like and dislike commands for rating a single item
// ABOUTME: Pressing the same rating twice clears it; rating an item also marks it read

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/newsense/internal/models"
)

var likeCmd = &cobra.Command{
	Use:   "like <item-id>",
	Short: "Like an item",
	Long:  "Toggle the like on an item. Liking an already liked item clears the rating.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleLike(cmd, args[0], models.Liked)
	},
}

var dislikeCmd = &cobra.Command{
	Use:   "dislike <item-id>",
	Short: "Dislike an item",
	Long:  "Toggle the dislike on an item. Disliking an already disliked item clears the rating.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return toggleLike(cmd, args[0], models.Disliked)
	},
}

func init() {
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(dislikeCmd)

	addLocateFlags(likeCmd)
	addLocateFlags(dislikeCmd)
}

func toggleLike(cmd *cobra.Command, ref string, requested models.Like) error {
	scope, _ := cmd.Flags().GetString("scope")
	pages, _ := cmd.Flags().GetInt("pages")
	ctx := cmd.Context()

	engine := newEngine(client, scope, false)
	item, err := locateItem(ctx, engine, ref, pages)
	if err != nil {
		return err
	}
	next := models.NextLike(item.Liked, requested)
	if _, err := engine.ToggleLike(ctx, item.ID, requested); err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", likeVerb(next), titleOf(item))
	return nil
}

func likeVerb(l models.Like) string {
	switch l {
	case models.Liked:
		return "Liked"
	case models.Disliked:
		return "Disliked"
	default:
		return "Cleared rating"
	}
}
