// ABOUTME: Content service contract consumed by the feed view engine
// ABOUTME: Paginated item/cluster queries, status mutation and bulk mark-read

package source

import (
	"context"
	"time"

	"github.com/harper/newsense/internal/models"
)

// DefaultPageSize is the page size every list call uses unless overridden.
const DefaultPageSize = 20

// ListParams are the query parameters shared by item and cluster listing.
type ListParams struct {
	// Limit is the page size; zero means DefaultPageSize.
	Limit int
	// Before is an exclusive upper bound on the cursor key. Zero means first page.
	Before time.Time
	// UnreadOnly restricts the page to unread entries.
	UnreadOnly bool
}

// PageSize returns the effective limit.
func (p ListParams) PageSize() int {
	if p.Limit <= 0 {
		return DefaultPageSize
	}
	return p.Limit
}

// Source is the remote content service.
type Source interface {
	// ListItems returns items for scope, newest published_at first.
	ListItems(ctx context.Context, scope string, params ListParams) ([]*models.Item, error)

	// ListClusters returns clusters for scope, newest sort_date first.
	ListClusters(ctx context.Context, scope string, params ListParams) ([]*models.Cluster, error)

	// UpdateItemStatus applies a partial status patch to one item.
	UpdateItemStatus(ctx context.Context, itemID string, patch models.StatusPatch) error

	// UpdateClusterStatus applies a partial status patch to every member of a cluster.
	UpdateClusterStatus(ctx context.Context, clusterID string, patch models.StatusPatch) error

	// MarkRead marks everything in scope published after since as read.
	MarkRead(ctx context.Context, scope string, clustered bool, since time.Time) error
}

// FeedDirectory lists the caller's subscriptions, used only to build feed names.
type FeedDirectory interface {
	ListSubscribedFeeds(ctx context.Context) ([]*models.Feed, error)
}
