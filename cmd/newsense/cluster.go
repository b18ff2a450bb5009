// ABOUTME: Cluster command for acting on a group of near-duplicate items
// ABOUTME: Broadcasts read or rating changes to every member, or rates one member by index

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/newsense/internal/feedview"
	"github.com/harper/newsense/internal/models"
)

var clusterCmd = &cobra.Command{
	Use:   "cluster <cluster-id>",
	Short: "Show or update a cluster",
	Long: `Show a cluster and its members, or update them.

--read and --unread apply to every member. --like and --dislike toggle the
cluster rating: when every member already holds the rating it is cleared.
With --member N the rating applies only to the N-th member (0-based).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		read, _ := cmd.Flags().GetBool("read")
		unread, _ := cmd.Flags().GetBool("unread")
		like, _ := cmd.Flags().GetBool("like")
		dislike, _ := cmd.Flags().GetBool("dislike")
		member, _ := cmd.Flags().GetInt("member")
		scope, _ := cmd.Flags().GetString("scope")
		pages, _ := cmd.Flags().GetInt("pages")
		ctx := cmd.Context()

		settings := cfg.Settings
		settings.UseClusters = true
		engine := newEngine(client, scope, false, feedview.WithSettings(settings))

		c, err := locateCluster(ctx, engine, args[0], pages)
		if err != nil {
			return err
		}
		names := feedNames(ctx, client)

		switch {
		case read || unread:
			if _, err := engine.UpdateClusterStatus(ctx, c.ID, models.ReadPatch(read)); err != nil {
				return err
			}
		case (like || dislike) && member >= 0:
			requested := models.Liked
			if dislike {
				requested = models.Disliked
			}
			if _, err := engine.ToggleClusterMemberLike(ctx, c.ID, member, requested); err != nil {
				return err
			}
		case like || dislike:
			requested := models.Liked
			if dislike {
				requested = models.Disliked
			}
			if _, err := engine.ToggleClusterLike(ctx, c.ID, requested); err != nil {
				return err
			}
		}

		updated, err := matchCluster(engine.Snapshot(), c.ID)
		if err != nil {
			return err
		}
		for _, line := range clusterLines(updated, names) {
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clusterCmd)

	clusterCmd.Flags().Bool("read", false, "mark every member read")
	clusterCmd.Flags().Bool("unread", false, "mark every member unread")
	clusterCmd.Flags().Bool("like", false, "toggle like")
	clusterCmd.Flags().Bool("dislike", false, "toggle dislike")
	clusterCmd.Flags().IntP("member", "m", -1, "apply the rating to this member index only")
	addLocateFlags(clusterCmd)

	clusterCmd.MarkFlagsMutuallyExclusive("read", "unread", "like", "dislike")
}

// locateCluster loads the clustered view and pages until the cluster is held.
func locateCluster(ctx context.Context, engine *feedview.Engine, ref string, maxPages int) (*models.Cluster, error) {
	if _, err := engine.ColdLoad(ctx); err != nil {
		return nil, err
	}
	for page := 0; ; page++ {
		c, err := matchCluster(engine.Snapshot(), ref)
		if err == nil {
			return c, nil
		}
		if page >= maxPages || !engine.CanLoadMore() {
			return nil, err
		}
		if _, err := engine.LoadMore(ctx); err != nil {
			return nil, err
		}
	}
}

// matchCluster finds a visible cluster by exact id or unique prefix.
func matchCluster(snap feedview.Snapshot, ref string) (*models.Cluster, error) {
	var match *models.Cluster
	for _, c := range snap.Clusters {
		if c.ID == ref {
			return c, nil
		}
		if strings.HasPrefix(c.ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous cluster id prefix %q", ref)
			}
			match = c
		}
	}
	if match == nil {
		return nil, fmt.Errorf("cluster not found: %s", ref)
	}
	return match, nil
}
