// ABOUTME: Cluster summaries for hosts: aggregate state, labels and member attribution
// ABOUTME: Everything is derived from member items at call time

package feedview

import "github.com/harper/newsense/internal/models"

// ClusterSummary is the derived view of one cluster.
type ClusterSummary struct {
	ID       string
	Read     bool
	Liked    bool
	Disliked bool
	Single   bool
	Labels   models.ActionLabels
	Sources  []string
}

// Summarize computes the aggregates of c and the display name of each member.
func Summarize(c *models.Cluster, names models.FeedNames) ClusterSummary {
	sources := make([]string, len(c.Items))
	for i, item := range c.Items {
		sources[i] = names.DisplayName(item)
	}
	return ClusterSummary{
		ID:       c.ID,
		Read:     c.Read(),
		Liked:    c.AllLiked(),
		Disliked: c.AllDisliked(),
		Single:   c.IsSingle(),
		Labels:   c.Labels(),
		Sources:  sources,
	}
}

// UnreadCount returns how many visible items are unread, counting cluster
// members individually.
func (s Snapshot) UnreadCount() int {
	n := 0
	for _, item := range s.Items {
		if !item.IsRead {
			n++
		}
	}
	for _, c := range s.Clusters {
		for _, item := range c.Items {
			if !item.IsRead {
				n++
			}
		}
	}
	return n
}
