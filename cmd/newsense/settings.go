// ABOUTME: Settings commands for showing and changing reader preferences
// ABOUTME: Prediction filter toggle and threshold, and clustering mode

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/newsense/internal/config"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show reader settings",
	Long:  "Show the reader settings and service endpoints in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		printSettings(cfg)
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change reader settings",
	Long:  "Change the prediction filter and clustering settings. Only flags that are given change.",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, changed := applySettingFlags(cmd, cfg.Settings)
		if !changed {
			return fmt.Errorf("nothing to change: use --filter, --threshold or --clusters")
		}
		saveSettings(settings)
		printSettings(cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsSetCmd)

	settingsSetCmd.Flags().Bool("filter", false, "hide items below the prediction threshold")
	settingsSetCmd.Flags().Float64("threshold", 0, "prediction threshold between -1 and 1")
	settingsSetCmd.Flags().Bool("clusters", false, "group near-duplicate items into clusters")
}

// applySettingFlags returns s with every explicitly given flag applied.
func applySettingFlags(cmd *cobra.Command, s config.Settings) (config.Settings, bool) {
	changed := false
	if cmd.Flags().Changed("filter") {
		s.FilterPrediction, _ = cmd.Flags().GetBool("filter")
		changed = true
	}
	if cmd.Flags().Changed("threshold") {
		s.FilterPredictionThreshold, _ = cmd.Flags().GetFloat64("threshold")
		changed = true
	}
	if cmd.Flags().Changed("clusters") {
		s.UseClusters, _ = cmd.Flags().GetBool("clusters")
		changed = true
	}
	return s.Normalized(), changed
}

func printSettings(c *config.Config) {
	faint := color.New(color.Faint).SprintFunc()
	onOff := func(b bool) string {
		if b {
			return color.GreenString("on")
		}
		return faint("off")
	}

	fmt.Printf("%s %s\n", faint("Items service:"), c.GetItemsURL())
	fmt.Printf("%s %s\n", faint("Feeds service:"), c.GetFeedsURL())
	fmt.Printf("%s %d\n", faint("Page size:"), c.GetPageSize())
	fmt.Printf("%s %s\n", faint("Prediction filter:"), onOff(c.Settings.FilterPrediction))
	fmt.Printf("%s %.2f\n", faint("Prediction threshold:"), c.Settings.FilterPredictionThreshold)
	fmt.Printf("%s %s\n", faint("Clusters:"), onOff(c.Settings.UseClusters))
}
