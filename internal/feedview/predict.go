// ABOUTME: Post-fetch relevance filter driven by the prediction settings
// ABOUTME: Identity when disabled; clusters are filtered member-first and dropped when emptied

package feedview

import (
	"github.com/harper/newsense/internal/config"
	"github.com/harper/newsense/internal/models"
)

// Relevant reports whether an item passes the threshold. A missing score is
// treated as maximally relevant.
func Relevant(item *models.Item, threshold float64) bool {
	if item.Prediction == nil {
		return true
	}
	return *item.Prediction >= threshold
}

// FilterItems applies the prediction filter. The input slice is returned
// as-is when filtering is disabled or drops nothing.
func FilterItems(items []*models.Item, s config.Settings) []*models.Item {
	if !s.FilterPrediction {
		return items
	}
	threshold := config.ClampThreshold(s.FilterPredictionThreshold)
	var out []*models.Item
	for i, item := range items {
		keep := Relevant(item, threshold)
		if !keep && out == nil {
			out = make([]*models.Item, i, len(items))
			copy(out, items[:i])
		}
		if keep && out != nil {
			out = append(out, item)
		}
	}
	if out == nil {
		return items
	}
	return out
}

// FilterClusters filters cluster members and drops clusters left empty.
// Partially filtered clusters are new values sharing the member pointers.
func FilterClusters(clusters []*models.Cluster, s config.Settings) []*models.Cluster {
	if !s.FilterPrediction {
		return dropEmpty(clusters)
	}
	var out []*models.Cluster
	changed := false
	for _, c := range clusters {
		members := FilterItems(c.Items, s)
		switch {
		case len(members) == 0:
			changed = true
			continue
		case len(members) != len(c.Items):
			changed = true
			out = append(out, &models.Cluster{ID: c.ID, SortDate: c.SortDate, Items: members})
		default:
			out = append(out, c)
		}
	}
	if !changed {
		return clusters
	}
	return out
}

// dropEmpty removes clusters without members, returning the input when none are empty.
func dropEmpty(clusters []*models.Cluster) []*models.Cluster {
	for i, c := range clusters {
		if len(c.Items) > 0 {
			continue
		}
		out := make([]*models.Cluster, i, len(clusters))
		copy(out, clusters[:i])
		for _, rest := range clusters[i+1:] {
			if len(rest.Items) > 0 {
				out = append(out, rest)
			}
		}
		return out
	}
	return clusters
}
