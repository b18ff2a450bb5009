// ABOUTME: Tests for confirmed status mutations on items, clusters and members
// ABOUTME: Verifies patches sent, local application only on success and guards

package feedview

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/newsense/internal/config"
	"github.com/harper/newsense/internal/models"
	"github.com/harper/newsense/internal/source/sourcetest"
)

func loadedItemEngine(t *testing.T, n int) (*Engine, *sourcetest.Fake, *recorder) {
	t.Helper()
	src := sourcetest.New()
	src.SetItems(sourcetest.MakeItems("i", "feed-1", n, baseTime)...)
	engine, rec := newTestEngine(t, src, config.Settings{})
	_, err := engine.ColdLoad(context.Background())
	require.NoError(t, err)
	return engine, src, rec
}

func loadedClusterEngine(t *testing.T) (*Engine, *sourcetest.Fake, *recorder) {
	t.Helper()
	src := sourcetest.New()
	src.SetClusters(
		&models.Cluster{ID: "c1", SortDate: baseTime, Items: []*models.Item{
			item("m1", baseTime), item("m2", baseTime), item("m3", baseTime),
		}},
		&models.Cluster{ID: "solo", SortDate: baseTime.Add(-time.Minute), Items: []*models.Item{
			item("s1", baseTime.Add(-time.Minute)),
		}},
	)
	engine, rec := newTestEngine(t, src, config.Settings{UseClusters: true})
	_, err := engine.ColdLoad(context.Background())
	require.NoError(t, err)
	return engine, src, rec
}

func lastPatch(t *testing.T, src *sourcetest.Fake) sourcetest.Call {
	t.Helper()
	calls := src.Calls()
	require.NotEmpty(t, calls)
	return calls[len(calls)-1]
}

func TestToggleLike_LikeThenUnlike(t *testing.T) {
	ctx := context.Background()
	engine, src, rec := loadedItemEngine(t, 3)

	m, err := engine.ToggleLike(ctx, "i-1", models.Liked)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Patched)

	call := lastPatch(t, src)
	assert.Equal(t, "UpdateItemStatus", call.Method)
	require.NotNil(t, call.Patch.Liked)
	require.NotNil(t, call.Patch.IsRead)
	assert.Equal(t, models.Liked, *call.Patch.Liked)
	assert.True(t, *call.Patch.IsRead)

	got := engine.Snapshot().Items[1]
	assert.Equal(t, models.Liked, got.Liked)
	assert.True(t, got.IsRead)
	assert.Equal(t, 1, rec.ReadChanges())

	_, err = engine.ToggleLike(ctx, "i-1", models.Liked)
	require.NoError(t, err)
	call = lastPatch(t, src)
	require.NotNil(t, call.Patch.Liked)
	assert.Equal(t, models.Neutral, *call.Patch.Liked)
	assert.Nil(t, call.Patch.IsRead, "returning to neutral leaves read state alone")

	got = engine.Snapshot().Items[1]
	assert.Equal(t, models.Neutral, got.Liked)
	assert.True(t, got.IsRead)
}

func TestToggleLike_DislikeReplacesLike(t *testing.T) {
	ctx := context.Background()
	engine, src, _ := loadedItemEngine(t, 1)

	_, err := engine.ToggleLike(ctx, "i-0", models.Liked)
	require.NoError(t, err)
	_, err = engine.ToggleLike(ctx, "i-0", models.Disliked)
	require.NoError(t, err)

	assert.Equal(t, models.Disliked, engine.Snapshot().Items[0].Liked)
	assert.Equal(t, models.Disliked, src.Item("i-0").Liked)
}

func TestToggleLike_RejectsNeutralAndUnknown(t *testing.T) {
	engine, _, _ := loadedItemEngine(t, 1)

	_, err := engine.ToggleLike(context.Background(), "i-0", models.Neutral)
	assert.Error(t, err)

	_, err = engine.ToggleLike(context.Background(), "nope", models.Liked)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateItemStatus_FailureLeavesItemUntouched(t *testing.T) {
	engine, src, rec := loadedItemEngine(t, 2)
	src.UpdateErr = errors.New("503")

	_, err := engine.UpdateItemStatus(context.Background(), "i-0", models.ReadPatch(true))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRemoteOperation)

	assert.False(t, engine.Snapshot().Items[0].IsRead)
	notices := rec.Notices()
	require.Len(t, notices, 1)
	assert.Equal(t, "Failed to update status", notices[0].Message)
	assert.Equal(t, 0, rec.ReadChanges())

	src.UpdateErr = nil
	_, err = engine.UpdateItemStatus(context.Background(), "i-0", models.ReadPatch(true))
	require.NoError(t, err, "guard is released after a failure")
}

func TestUpdateItemStatus_BusyWhileInFlight(t *testing.T) {
	engine, src, _ := loadedItemEngine(t, 1)
	engine.mu.Lock()
	engine.mutating["item:i-0"] = struct{}{}
	engine.mu.Unlock()

	_, err := engine.UpdateItemStatus(context.Background(), "i-0", models.ReadPatch(true))
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, 0, src.CallCount("UpdateItemStatus"))
}

func TestUpdateItemStatus_EmptyPatchIsNoop(t *testing.T) {
	engine, src, _ := loadedItemEngine(t, 1)

	_, err := engine.UpdateItemStatus(context.Background(), "i-0", models.StatusPatch{})
	require.NoError(t, err)
	assert.Equal(t, 0, src.CallCount("UpdateItemStatus"))
}

func TestToggleRead(t *testing.T) {
	ctx := context.Background()
	engine, _, _ := loadedItemEngine(t, 1)

	_, err := engine.ToggleRead(ctx, "i-0")
	require.NoError(t, err)
	assert.True(t, engine.Snapshot().Items[0].IsRead)

	_, err = engine.ToggleRead(ctx, "i-0")
	require.NoError(t, err)
	assert.False(t, engine.Snapshot().Items[0].IsRead)
}

func TestUpdateClusterStatus_BroadcastsToMembers(t *testing.T) {
	engine, src, rec := loadedClusterEngine(t)

	m, err := engine.UpdateClusterStatus(context.Background(), "c1", models.ReadPatch(true))
	require.NoError(t, err)
	assert.Equal(t, 3, m.Patched)
	assert.Equal(t, 1, src.CallCount("UpdateClusterStatus"))
	assert.Equal(t, 0, src.CallCount("UpdateItemStatus"))

	c := engine.Snapshot().Clusters[0]
	assert.True(t, c.Read())
	assert.Equal(t, 1, rec.ReadChanges())
}

func TestToggleClusterLike(t *testing.T) {
	ctx := context.Background()
	engine, src, _ := loadedClusterEngine(t)

	_, err := engine.ToggleClusterLike(ctx, "c1", models.Liked)
	require.NoError(t, err)
	call := lastPatch(t, src)
	assert.Equal(t, models.Liked, *call.Patch.Liked)
	assert.True(t, engine.Snapshot().Clusters[0].AllLiked())

	_, err = engine.ToggleClusterLike(ctx, "c1", models.Liked)
	require.NoError(t, err)
	call = lastPatch(t, src)
	assert.Equal(t, models.Neutral, *call.Patch.Liked)
	assert.Nil(t, call.Patch.IsRead)
	assert.False(t, engine.Snapshot().Clusters[0].AllLiked())
}

func TestToggleClusterLike_PartialLikeLikesAll(t *testing.T) {
	ctx := context.Background()
	engine, src, _ := loadedClusterEngine(t)

	_, err := engine.UpdateClusterMemberStatus(ctx, "c1", 0, models.LikePatch(models.Liked))
	require.NoError(t, err)
	assert.False(t, engine.Snapshot().Clusters[0].AllLiked())

	_, err = engine.ToggleClusterLike(ctx, "c1", models.Liked)
	require.NoError(t, err)
	assert.Equal(t, models.Liked, *lastPatch(t, src).Patch.Liked)
	assert.True(t, engine.Snapshot().Clusters[0].AllLiked())
}

func TestToggleClusterRead(t *testing.T) {
	ctx := context.Background()
	engine, _, _ := loadedClusterEngine(t)

	_, err := engine.ToggleClusterRead(ctx, "solo")
	require.NoError(t, err)
	assert.True(t, engine.Snapshot().Clusters[1].Read())

	_, err = engine.ToggleClusterRead(ctx, "solo")
	require.NoError(t, err)
	assert.False(t, engine.Snapshot().Clusters[1].Read())
}

func TestUpdateClusterMemberStatus_UsesActiveIndex(t *testing.T) {
	engine, src, _ := loadedClusterEngine(t)

	_, err := engine.UpdateClusterMemberStatus(context.Background(), "c1", 2, models.ReadPatch(true))
	require.NoError(t, err)

	call := lastPatch(t, src)
	assert.Equal(t, "UpdateItemStatus", call.Method)
	assert.Equal(t, "m3", call.ID)

	members := engine.Snapshot().Clusters[0].Items
	assert.False(t, members[0].IsRead)
	assert.True(t, members[2].IsRead)

	_, err = engine.UpdateClusterMemberStatus(context.Background(), "c1", 3, models.ReadPatch(true))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestToggleClusterMemberLike(t *testing.T) {
	engine, src, _ := loadedClusterEngine(t)

	_, err := engine.ToggleClusterMemberLike(context.Background(), "c1", 1, models.Disliked)
	require.NoError(t, err)

	call := lastPatch(t, src)
	assert.Equal(t, "m2", call.ID)
	assert.Equal(t, models.Disliked, *call.Patch.Liked)
	assert.Equal(t, models.Disliked, engine.Snapshot().Clusters[0].Items[1].Liked)
}

func TestMutationAfterScopeChangeLeavesNewViewAlone(t *testing.T) {
	engine, src, _ := loadedItemEngine(t, 2)
	engine.mu.Lock()
	epoch := engine.epoch
	engine.mu.Unlock()
	engine.SetScope("feed-2", false)

	engine.mu.Lock()
	assert.NotEqual(t, epoch, engine.epoch)
	assert.Empty(t, engine.mutating)
	engine.mu.Unlock()

	_, err := engine.UpdateItemStatus(context.Background(), "i-0", models.ReadPatch(true))
	require.NoError(t, err)
	assert.True(t, src.Item("i-0").IsRead, "remote call still happens")
	assert.Empty(t, engine.Snapshot().Items)
}

func TestMarkAllRead_DefaultsSinceAndReloads(t *testing.T) {
	ctx := context.Background()
	src := sourcetest.New()
	src.SetItems(sourcetest.MakeItems("i", "feed-1", 5, baseTime)...)
	engine, rec := newTestEngine(t, src, config.Settings{})
	engine.SetScope(models.AllScope, true)
	_, err := engine.ColdLoad(ctx)
	require.NoError(t, err)
	require.Len(t, engine.Snapshot().Items, 5)

	res, err := engine.MarkAllRead(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Added)

	var mark sourcetest.Call
	for _, c := range src.Calls() {
		if c.Method == "MarkRead" {
			mark = c
		}
	}
	assert.Equal(t, models.AllScope, mark.Scope)
	assert.True(t, mark.Since.Equal(time.Unix(0, 0)))
	assert.Equal(t, 2, src.CallCount("ListItems"), "view reloads after marking")
	assert.Empty(t, engine.Snapshot().Items)
	assert.Equal(t, 1, rec.ReadChanges())
}

func TestMarkAllRead_FailureKeepsView(t *testing.T) {
	engine, src, rec := loadedItemEngine(t, 3)
	src.MarkErr = errors.New("nope")

	_, err := engine.MarkAllRead(context.Background(), baseTime)
	require.Error(t, err)
	assert.Len(t, engine.Snapshot().Items, 3)
	require.Len(t, rec.Notices(), 1)
	assert.Equal(t, "Action failed.", rec.Notices()[0].Message)
}

func TestSummarize(t *testing.T) {
	c := &models.Cluster{ID: "c", Items: []*models.Item{
		{ID: "a", FeedIDs: []string{"f1"}, Liked: models.Liked, IsRead: true},
		{ID: "b", FeedIDs: []string{"f9", "f2"}, Liked: models.Neutral},
	}}

	s := Summarize(c, models.FeedNames{"f1": "One", "f2": "Two"})
	assert.False(t, s.Read)
	assert.False(t, s.Liked)
	assert.False(t, s.Disliked)
	assert.False(t, s.Single)
	assert.Equal(t, "Like All", s.Labels.Like)
	assert.Equal(t, []string{"One", "Two"}, s.Sources)
}
