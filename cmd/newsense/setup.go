// ABOUTME: Cobra command for interactive newsense service configuration.
// ABOUTME: Launches a bubbletea TUI wizard to set the items and feeds service URLs.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/harper/newsense/internal/config"
	"github.com/harper/newsense/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure newsense service endpoints",
	Long:  "Interactive wizard to configure the items and feeds service URLs.",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	model := tui.NewSetupModel(cfg.GetItemsURL(), cfg.GetFeedsURL())

	p := tea.NewProgram(model)
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Println("Setup canceled.")
		return nil
	}

	cfg.ItemsURL, cfg.FeedsURL = final.Result()

	path := configPath
	if path == "" {
		path = config.GetConfigPath()
	}
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Config saved to %s\n", path)
	return nil
}
