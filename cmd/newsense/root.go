// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config and .env, builds the logger, HTTP source and feed view engines

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/harper/newsense/internal/config"
	"github.com/harper/newsense/internal/feedview"
	"github.com/harper/newsense/internal/models"
	"github.com/harper/newsense/internal/source"
)

var (
	configPath string
	envFile    string
	logLevel   string
	cfg        *config.Config
	logger     *slog.Logger
	client     *source.HTTPClient
)

var rootCmd = &cobra.Command{
	Use:   "newsense",
	Short: "Feed reader client with MCP integration",
	Long: `
███╗   ██╗███████╗██╗    ██╗███████╗███████╗███╗   ██╗███████╗███████╗
████╗  ██║██╔════╝██║    ██║██╔════╝██╔════╝████╗  ██║██╔════╝██╔════╝
██╔██╗ ██║█████╗  ██║ █╗ ██║███████╗█████╗  ██╔██╗ ██║███████╗█████╗
██║╚██╗██║██╔══╝  ██║███╗██║╚════██║██╔══╝  ██║╚██╗██║╚════██║██╔══╝
██║ ╚████║███████╗╚███╔███╔╝███████║███████╗██║ ╚████║███████║███████╗
╚═╝  ╚═══╝╚══════╝ ╚══╝╚══╝ ╚══════╝╚══════╝╚═╝  ╚═══╝╚══════╝╚══════╝

Feed reader for humans and AI agents.

Browse, sync and triage items from the newsense services, in the terminal
or through MCP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envFile); err != nil {
			return err
		}

		var err error
		logger, err = newLogger(os.Stderr, logLevel)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)

		if configPath != "" {
			cfg, err = config.LoadFrom(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg.ApplyEnv()

		client = source.NewHTTPClient(cfg.GetItemsURL(), cfg.GetFeedsURL(), cfg.Token, nil)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default: ~/.config/newsense/config.json)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "dotenv file to load (default: ./.env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn, error")
}

// newLogger returns a slog logger backed by a charmbracelet/log handler.
func newLogger(w *os.File, level string) (*slog.Logger, error) {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	handler := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportTimestamp: true,
		Prefix:          "newsense",
	})
	return slog.New(handler), nil
}

// saveSettings persists reader settings changed from the TUI or MCP.
func saveSettings(s config.Settings) {
	cfg.Settings = s
	var err error
	if configPath != "" {
		err = cfg.SaveTo(configPath)
	} else {
		err = cfg.Save()
	}
	if err != nil {
		logger.Warn("failed to save settings", "err", err)
	}
}

// newEngine builds a feed view over the configured source.
func newEngine(src source.Source, scope string, unreadOnly bool, options ...feedview.Option) *feedview.Engine {
	base := []feedview.Option{
		feedview.WithLogger(logger),
		feedview.WithSettings(cfg.Settings),
		feedview.WithScope(scope, unreadOnly),
		feedview.WithPageSize(cfg.GetPageSize()),
	}
	return feedview.New(src, append(base, options...)...)
}

// scopeArg returns the scope named by the first argument, or "all".
func scopeArg(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return models.AllScope
}

// feedNames fetches display names, logging and continuing on failure.
func feedNames(ctx context.Context, dir source.FeedDirectory) models.FeedNames {
	feeds, err := dir.ListSubscribedFeeds(ctx)
	if err != nil {
		logger.Warn("failed to load feed names", "err", err)
		return models.FeedNames{}
	}
	return models.NamesFromFeeds(feeds)
}

// locateItem loads the view and pages until an item whose id equals or
// starts with ref is held, returning its full id.
func locateItem(ctx context.Context, engine *feedview.Engine, ref string, maxPages int) (*models.Item, error) {
	if _, err := engine.ColdLoad(ctx); err != nil {
		return nil, err
	}
	for page := 0; ; page++ {
		item, err := matchItem(engine.Snapshot(), ref)
		if err == nil || !errors.Is(err, feedview.ErrNotFound) {
			return item, err
		}
		if page >= maxPages || !engine.CanLoadMore() {
			return nil, fmt.Errorf("entry not found: %s", ref)
		}
		if _, err := engine.LoadMore(ctx); err != nil {
			return nil, err
		}
	}
}

// matchItem finds a held item by exact id or unique prefix.
func matchItem(snap feedview.Snapshot, ref string) (*models.Item, error) {
	var matches []*models.Item
	seen := map[string]bool{}
	consider := func(item *models.Item) bool {
		if item.ID == ref {
			matches = []*models.Item{item}
			return true
		}
		if strings.HasPrefix(item.ID, ref) && !seen[item.ID] {
			seen[item.ID] = true
			matches = append(matches, item)
		}
		return false
	}
	for _, item := range snap.Items {
		if consider(item) {
			return item, nil
		}
	}
	for _, c := range snap.Clusters {
		for _, item := range c.Items {
			if consider(item) {
				return item, nil
			}
		}
	}
	switch len(matches) {
	case 0:
		return nil, feedview.ErrNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("ambiguous id prefix %q matches %d entries", ref, len(matches))
	}
}

// errorText renders an error for the terminal, preferring the user-facing
// message of a failed view operation.
func errorText(err error) string {
	var opErr *feedview.OperationError
	if errors.As(err, &opErr) {
		if opErr.Op == feedview.OpLoadMore {
			return opErr.Message()
		}
		return fmt.Sprintf("%s (%v)", opErr.Message(), opErr.Err)
	}
	return err.Error()
}
