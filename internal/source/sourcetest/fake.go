// ABOUTME: In-memory content source for tests, paging by strict cursor like the real service
// ABOUTME: Records calls, injects failures and can hold list calls in flight through a hook

package sourcetest

import (
	"context"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/harper/newsense/internal/models"
	"github.com/harper/newsense/internal/source"
)

// Call records one invocation of the fake.
type Call struct {
	Method string
	Scope  string
	ID     string
	Params source.ListParams
	Patch  models.StatusPatch
	Since  time.Time
}

// Fake implements source.Source and source.FeedDirectory over fixed data.
// Items and clusters must be stored newest first.
type Fake struct {
	mu       sync.Mutex
	items    []*models.Item
	clusters []*models.Cluster
	feeds    []*models.Feed
	calls    []Call

	// ListErr, UpdateErr and MarkErr are returned by the matching calls when set.
	ListErr   error
	UpdateErr error
	MarkErr   error

	// OnList runs before a list call reads data, outside the lock. Tests use
	// it to hold a request in flight.
	OnList func(ctx context.Context, call Call)
}

var (
	_ source.Source        = (*Fake)(nil)
	_ source.FeedDirectory = (*Fake)(nil)
)

// New returns an empty fake.
func New() *Fake {
	return &Fake{}
}

// SetItems replaces the item data.
func (f *Fake) SetItems(items ...*models.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = items
}

// PrependItems adds newer items at the head, as new content arriving would.
func (f *Fake) PrependItems(items ...*models.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(slices.Clone(items), f.items...)
}

// SetClusters replaces the cluster data.
func (f *Fake) SetClusters(clusters ...*models.Cluster) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clusters = clusters
}

// SetFeeds replaces the subscription list.
func (f *Fake) SetFeeds(feeds ...*models.Feed) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.feeds = feeds
}

// Calls returns a copy of the recorded calls.
func (f *Fake) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// CallCount returns how many calls of method were recorded.
func (f *Fake) CallCount(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// Item returns the stored copy of an item, for asserting server-side state.
func (f *Fake) Item(id string) *models.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if item.ID == id {
			return item.Clone()
		}
	}
	return nil
}

func (f *Fake) record(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

// ListItems pages stored items by strict published_at cursor.
func (f *Fake) ListItems(ctx context.Context, scope string, params source.ListParams) ([]*models.Item, error) {
	call := Call{Method: "ListItems", Scope: scope, Params: params}
	f.record(call)
	if f.OnList != nil {
		f.OnList(ctx, call)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	var page []*models.Item
	for _, item := range f.items {
		if len(page) == params.PageSize() {
			break
		}
		if !inScope(item, scope) || !beforeCursor(item.PublishedAt, params.Before) {
			continue
		}
		if params.UnreadOnly && item.IsRead {
			continue
		}
		page = append(page, item.Clone())
	}
	return page, nil
}

// ListClusters pages stored clusters by strict sort_date cursor.
func (f *Fake) ListClusters(ctx context.Context, scope string, params source.ListParams) ([]*models.Cluster, error) {
	call := Call{Method: "ListClusters", Scope: scope, Params: params}
	f.record(call)
	if f.OnList != nil {
		f.OnList(ctx, call)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	var page []*models.Cluster
	for _, c := range f.clusters {
		if len(page) == params.PageSize() {
			break
		}
		if !beforeCursor(c.SortDate, params.Before) {
			continue
		}
		if !slices.ContainsFunc(c.Items, func(i *models.Item) bool { return inScope(i, scope) }) {
			continue
		}
		if params.UnreadOnly && c.Read() {
			continue
		}
		page = append(page, c.Clone())
	}
	return page, nil
}

// UpdateItemStatus patches the stored item and every cluster member with its id.
func (f *Fake) UpdateItemStatus(_ context.Context, itemID string, patch models.StatusPatch) error {
	f.record(Call{Method: "UpdateItemStatus", ID: itemID, Patch: patch})
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	for _, item := range f.items {
		if item.ID == itemID {
			item.Apply(patch)
		}
	}
	for _, c := range f.clusters {
		if item := c.FindItem(itemID); item != nil {
			item.Apply(patch)
		}
	}
	return nil
}

// UpdateClusterStatus patches every member of the stored cluster.
func (f *Fake) UpdateClusterStatus(_ context.Context, clusterID string, patch models.StatusPatch) error {
	f.record(Call{Method: "UpdateClusterStatus", ID: clusterID, Patch: patch})
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	for _, c := range f.clusters {
		if c.ID == clusterID {
			c.Broadcast(patch)
		}
	}
	return nil
}

// MarkRead marks items in scope published after since as read.
func (f *Fake) MarkRead(_ context.Context, scope string, clustered bool, since time.Time) error {
	f.record(Call{Method: "MarkRead", Scope: scope, Since: since})
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.MarkErr != nil {
		return f.MarkErr
	}
	mark := func(item *models.Item) {
		if inScope(item, scope) && !item.PublishedAt.Before(since) {
			item.IsRead = true
		}
	}
	for _, item := range f.items {
		mark(item)
	}
	for _, c := range f.clusters {
		for _, item := range c.Items {
			mark(item)
		}
	}
	return nil
}

// ListSubscribedFeeds returns the stored feeds.
func (f *Fake) ListSubscribedFeeds(_ context.Context) ([]*models.Feed, error) {
	f.record(Call{Method: "ListSubscribedFeeds"})
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return slices.Clone(f.feeds), nil
}

func inScope(item *models.Item, scope string) bool {
	return scope == models.AllScope || slices.Contains(item.OwningFeeds(), scope)
}

func beforeCursor(key, before time.Time) bool {
	return before.IsZero() || key.Before(before)
}

// MakeItems builds n items owned by feedID, newest first, one minute apart
// starting at newest. Ids are prefix-0, prefix-1, ...
func MakeItems(prefix, feedID string, n int, newest time.Time) []*models.Item {
	items := make([]*models.Item, n)
	for i := range items {
		items[i] = &models.Item{
			ID:          prefix + "-" + strconv.Itoa(i),
			FeedID:      feedID,
			FeedIDs:     []string{feedID},
			Title:       "Item " + strconv.Itoa(i),
			PublishedAt: newest.Add(-time.Duration(i) * time.Minute),
		}
	}
	return items
}
