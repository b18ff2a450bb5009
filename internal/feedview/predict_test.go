// ABOUTME: Tests for the prediction filter over items and clusters
// ABOUTME: Covers identity when disabled, missing scores and empty cluster removal

package feedview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/newsense/internal/config"
	"github.com/harper/newsense/internal/models"
)

func scoredItems() []*models.Item {
	items := []*models.Item{item("high", baseTime), item("low", baseTime), item("none", baseTime), item("edge", baseTime)}
	items[0].Prediction = score(0.9)
	items[1].Prediction = score(-0.4)
	items[3].Prediction = score(0.2)
	return items
}

func TestFilterItems_DisabledIsIdentity(t *testing.T) {
	items := scoredItems()

	got := FilterItems(items, config.Settings{FilterPrediction: false, FilterPredictionThreshold: 0.5})
	require.Len(t, got, len(items))
	assert.Same(t, &items[0], &got[0])
}

func TestFilterItems_KeepsAtOrAboveThreshold(t *testing.T) {
	got := FilterItems(scoredItems(), config.Settings{FilterPrediction: true, FilterPredictionThreshold: 0.2})
	assert.Equal(t, []string{"high", "none", "edge"}, ids(got))
}

func TestFilterItems_NothingDroppedIsIdentity(t *testing.T) {
	items := scoredItems()

	got := FilterItems(items, config.Settings{FilterPrediction: true, FilterPredictionThreshold: -1})
	require.Len(t, got, len(items))
	assert.Same(t, &items[0], &got[0])
}

func TestFilterItems_ThresholdIsClamped(t *testing.T) {
	got := FilterItems(scoredItems(), config.Settings{FilterPrediction: true, FilterPredictionThreshold: 7})
	assert.Equal(t, []string{"none"}, ids(got))
}

func TestFilterClusters_FiltersMembersAndDropsEmpty(t *testing.T) {
	items := scoredItems()
	clusters := []*models.Cluster{
		{ID: "mixed", Items: []*models.Item{items[0], items[1]}},
		{ID: "gone", Items: []*models.Item{items[1]}},
		{ID: "kept", Items: []*models.Item{items[2]}},
	}

	got := FilterClusters(clusters, config.Settings{FilterPrediction: true, FilterPredictionThreshold: 0})
	require.Equal(t, []string{"mixed", "kept"}, ids(got))
	assert.Equal(t, []string{"high"}, ids(got[0].Items))
	assert.Same(t, items[0], got[0].Items[0], "members are shared, not copied")
	assert.Same(t, clusters[2], got[1], "untouched clusters are reused")
	assert.Len(t, clusters[0].Items, 2, "input cluster is not modified")
}

func TestFilterClusters_DisabledStillDropsEmpty(t *testing.T) {
	clusters := []*models.Cluster{
		{ID: "a", Items: []*models.Item{item("x", baseTime)}},
		{ID: "empty"},
	}

	got := FilterClusters(clusters, config.Settings{})
	assert.Equal(t, []string{"a"}, ids(got))

	full := clusters[:1]
	same := FilterClusters(full, config.Settings{})
	assert.Same(t, &full[0], &same[0])
}
