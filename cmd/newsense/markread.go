// ABOUTME: Mark-read command for marking a single item as read
// ABOUTME: Finds the item in the loaded view and sends a partial read patch

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harper/newsense/internal/models"
)

var markReadCmd = &cobra.Command{
	Use:   "mark-read <item-id>",
	Short: "Mark an item as read",
	Long:  "Mark a single item as read by id or unique id prefix. Use mark-all-read for bulk marking.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setRead(cmd, args[0], true)
	},
}

func init() {
	rootCmd.AddCommand(markReadCmd)

	addLocateFlags(markReadCmd)
}

// setRead locates an item and patches its read state.
func setRead(cmd *cobra.Command, ref string, read bool) error {
	scope, _ := cmd.Flags().GetString("scope")
	pages, _ := cmd.Flags().GetInt("pages")
	ctx := cmd.Context()

	engine := newEngine(client, scope, false)
	item, err := locateItem(ctx, engine, ref, pages)
	if err != nil {
		return err
	}

	state := "read"
	if !read {
		state = "unread"
	}
	if item.IsRead == read {
		fmt.Printf("Item is already marked as %s\n", state)
		return nil
	}
	if _, err := engine.UpdateItemStatus(ctx, item.ID, models.ReadPatch(read)); err != nil {
		return err
	}
	fmt.Printf("Marked as %s: %s\n", state, titleOf(item))
	return nil
}
