// ABOUTME: Mark-unread command for marking a single item as unread
// ABOUTME: Shares lookup and patching with mark-read

package main

import (
	"github.com/spf13/cobra"
)

var markUnreadCmd = &cobra.Command{
	Use:   "mark-unread <item-id>",
	Short: "Mark an item as unread",
	Long:  "Mark a single item as unread by id or unique id prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setRead(cmd, args[0], false)
	},
}

func init() {
	rootCmd.AddCommand(markUnreadCmd)

	addLocateFlags(markUnreadCmd)
}
