// ABOUTME: Confirmed status mutations for items, clusters and cluster members
// ABOUTME: Local state changes only after the source accepts the patch

package feedview

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/newsense/internal/models"
)

// Mutation describes the local effect of a confirmed status change.
type Mutation struct {
	// Patched is the number of held items the patch was applied to.
	Patched int
	// Stale is set when the view changed while the call was in flight.
	Stale bool
}

// UpdateItemStatus sends patch for one item and applies it locally on success.
func (e *Engine) UpdateItemStatus(ctx context.Context, itemID string, patch models.StatusPatch) (Mutation, error) {
	if patch.Empty() {
		return Mutation{}, nil
	}
	key := "item:" + itemID
	epoch, err := e.acquire(key)
	if err != nil {
		return Mutation{}, err
	}

	err = e.source.UpdateItemStatus(ctx, itemID, patch)

	e.mu.Lock()
	if epoch != e.epoch {
		e.mu.Unlock()
		return Mutation{Stale: true}, nil
	}
	delete(e.mutating, key)
	if err != nil {
		e.mu.Unlock()
		return Mutation{}, e.fail(OpUpdateItem, fmt.Errorf("update item %s: %w", itemID, err))
	}
	patched := 0
	for _, item := range e.findItemsLocked(itemID) {
		item.Apply(patch)
		patched++
	}
	e.mu.Unlock()

	e.logger.Debug("item status updated", "id", itemID, "patched", patched)
	if patch.TouchesRead() {
		e.notifier.ReadStateChanged()
	}
	return Mutation{Patched: patched}, nil
}

// ToggleLike presses the like (1) or dislike (-1) button of an item.
func (e *Engine) ToggleLike(ctx context.Context, itemID string, requested models.Like) (Mutation, error) {
	if requested != models.Liked && requested != models.Disliked {
		return Mutation{}, fmt.Errorf("toggle like: invalid value %d", requested)
	}
	e.mu.Lock()
	items := e.findItemsLocked(itemID)
	if len(items) == 0 {
		e.mu.Unlock()
		return Mutation{}, fmt.Errorf("toggle like %s: %w", itemID, ErrNotFound)
	}
	current := items[0].Liked
	e.mu.Unlock()
	return e.UpdateItemStatus(ctx, itemID, models.ToggleLikePatch(current, requested))
}

// ToggleRead flips the read state of an item.
func (e *Engine) ToggleRead(ctx context.Context, itemID string) (Mutation, error) {
	e.mu.Lock()
	items := e.findItemsLocked(itemID)
	if len(items) == 0 {
		e.mu.Unlock()
		return Mutation{}, fmt.Errorf("toggle read %s: %w", itemID, ErrNotFound)
	}
	read := items[0].IsRead
	e.mu.Unlock()
	return e.UpdateItemStatus(ctx, itemID, models.ReadPatch(!read))
}

// UpdateClusterStatus sends patch for a whole cluster and, on success,
// broadcasts it to every held member.
func (e *Engine) UpdateClusterStatus(ctx context.Context, clusterID string, patch models.StatusPatch) (Mutation, error) {
	if patch.Empty() {
		return Mutation{}, nil
	}
	key := "cluster:" + clusterID
	epoch, err := e.acquire(key)
	if err != nil {
		return Mutation{}, err
	}

	err = e.source.UpdateClusterStatus(ctx, clusterID, patch)

	e.mu.Lock()
	if epoch != e.epoch {
		e.mu.Unlock()
		return Mutation{Stale: true}, nil
	}
	delete(e.mutating, key)
	if err != nil {
		e.mu.Unlock()
		return Mutation{}, e.fail(OpUpdateCluster, fmt.Errorf("update cluster %s: %w", clusterID, err))
	}
	patched := 0
	if c := e.findClusterLocked(clusterID); c != nil {
		c.Broadcast(patch)
		patched = len(c.Items)
	}
	e.mu.Unlock()

	e.logger.Debug("cluster status updated", "id", clusterID, "patched", patched)
	if patch.TouchesRead() {
		e.notifier.ReadStateChanged()
	}
	return Mutation{Patched: patched}, nil
}

// ToggleClusterLike presses a cluster-level like (1) or dislike (-1) button.
// It sends neutral when every member already holds the requested value.
func (e *Engine) ToggleClusterLike(ctx context.Context, clusterID string, requested models.Like) (Mutation, error) {
	if requested != models.Liked && requested != models.Disliked {
		return Mutation{}, fmt.Errorf("toggle cluster like: invalid value %d", requested)
	}
	e.mu.Lock()
	c := e.findClusterLocked(clusterID)
	if c == nil {
		e.mu.Unlock()
		return Mutation{}, fmt.Errorf("toggle cluster like %s: %w", clusterID, ErrNotFound)
	}
	next := c.NextLike(requested)
	e.mu.Unlock()

	patch := models.LikePatch(next)
	if next != models.Neutral {
		read := true
		patch.IsRead = &read
	}
	return e.UpdateClusterStatus(ctx, clusterID, patch)
}

// ToggleClusterRead marks a cluster read unless every member already is.
func (e *Engine) ToggleClusterRead(ctx context.Context, clusterID string) (Mutation, error) {
	e.mu.Lock()
	c := e.findClusterLocked(clusterID)
	if c == nil {
		e.mu.Unlock()
		return Mutation{}, fmt.Errorf("toggle cluster read %s: %w", clusterID, ErrNotFound)
	}
	read := c.Read()
	e.mu.Unlock()
	return e.UpdateClusterStatus(ctx, clusterID, models.ReadPatch(!read))
}

// UpdateClusterMemberStatus patches the member at activeIndex, the position
// currently focused in the host's member tabs.
func (e *Engine) UpdateClusterMemberStatus(ctx context.Context, clusterID string, activeIndex int, patch models.StatusPatch) (Mutation, error) {
	itemID, err := e.memberID(clusterID, activeIndex)
	if err != nil {
		return Mutation{}, err
	}
	return e.UpdateItemStatus(ctx, itemID, patch)
}

// ToggleClusterMemberLike presses like or dislike on the focused member.
func (e *Engine) ToggleClusterMemberLike(ctx context.Context, clusterID string, activeIndex int, requested models.Like) (Mutation, error) {
	itemID, err := e.memberID(clusterID, activeIndex)
	if err != nil {
		return Mutation{}, err
	}
	return e.ToggleLike(ctx, itemID, requested)
}

// MarkAllRead marks everything in the current scope published after since
// as read, then reloads the view cold. A zero since means the Unix epoch.
func (e *Engine) MarkAllRead(ctx context.Context, since time.Time) (Result, error) {
	if since.IsZero() {
		since = time.Unix(0, 0).UTC()
	}
	e.mu.Lock()
	if e.flags.markingRead {
		e.mu.Unlock()
		return Result{}, ErrBusy
	}
	e.flags.markingRead = true
	epoch, scope, clustered := e.epoch, e.scope, e.settings.UseClusters
	e.mu.Unlock()

	e.logger.Info("marking all read", "scope", scope, "since", since)
	err := e.source.MarkRead(ctx, scope, clustered, since)

	e.mu.Lock()
	if epoch != e.epoch {
		e.mu.Unlock()
		return Result{Stale: true}, nil
	}
	e.flags.markingRead = false
	e.mu.Unlock()
	if err != nil {
		return Result{}, e.fail(OpMarkAllRead, fmt.Errorf("mark read %s: %w", scope, err))
	}

	e.notifier.ReadStateChanged()
	return e.ColdLoad(ctx)
}

// acquire takes the in-flight guard for key and returns the current epoch.
func (e *Engine) acquire(key string) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, busy := e.mutating[key]; busy {
		return 0, fmt.Errorf("%s: %w", key, ErrBusy)
	}
	e.mutating[key] = struct{}{}
	return e.epoch, nil
}

func (e *Engine) memberID(clusterID string, activeIndex int) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	// Tab indexes refer to the members the host renders.
	var c *models.Cluster
	for _, v := range e.clusters.visible {
		if v.ID == clusterID {
			c = v
			break
		}
	}
	if c == nil {
		return "", fmt.Errorf("cluster %s: %w", clusterID, ErrNotFound)
	}
	member := c.Member(activeIndex)
	if member == nil {
		return "", fmt.Errorf("cluster %s member %d: %w", clusterID, activeIndex, ErrNotFound)
	}
	return member.ID, nil
}

// findItemsLocked returns every held item with id, searching cluster members
// when clustering is active and the flat list otherwise.
func (e *Engine) findItemsLocked(id string) []*models.Item {
	var found []*models.Item
	if e.settings.UseClusters {
		for _, c := range e.clusters.raw {
			if item := c.FindItem(id); item != nil {
				found = append(found, item)
			}
		}
		return found
	}
	for _, item := range e.items.raw {
		if item.ID == id {
			found = append(found, item)
		}
	}
	return found
}

func (e *Engine) findClusterLocked(id string) *models.Cluster {
	for _, c := range e.clusters.raw {
		if c.ID == id {
			return c
		}
	}
	return nil
}
