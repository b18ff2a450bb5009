// ABOUTME: Test suite for cluster aggregate state and broadcast mutation
// ABOUTME: Checks clusterRead/clusterLiked/clusterDisliked derivation and action labels

package models

import "testing"

func clusterWith(likes ...Like) *Cluster {
	c := &Cluster{ID: "c1"}
	for i, l := range likes {
		c.Items = append(c.Items, &Item{ID: string(rune('a' + i)), Liked: l})
	}
	return c
}

func TestCluster_Aggregates(t *testing.T) {
	c := clusterWith(Liked, Liked)
	if !c.AllLiked() {
		t.Error("expected [1, 1] to be clusterLiked")
	}
	if c.AllDisliked() {
		t.Error("expected [1, 1] not to be clusterDisliked")
	}

	c = clusterWith(Liked, Neutral)
	if c.AllLiked() || c.AllDisliked() {
		t.Error("expected [1, 0] to be neither liked nor disliked")
	}

	c = clusterWith(Disliked, Disliked, Disliked)
	if !c.AllDisliked() {
		t.Error("expected [-1, -1, -1] to be clusterDisliked")
	}
}

func TestCluster_ReadRequiresEveryMember(t *testing.T) {
	c := clusterWith(Neutral, Neutral)
	c.Items[0].IsRead = true
	if c.Read() {
		t.Error("expected partially read cluster to be unread")
	}
	c.Items[1].IsRead = true
	if !c.Read() {
		t.Error("expected fully read cluster to be read")
	}
}

func TestCluster_BroadcastIgnoresPriorState(t *testing.T) {
	c := clusterWith(Liked, Disliked, Neutral)
	c.Items[0].IsRead = true
	c.Broadcast(ReadPatch(true))
	for _, item := range c.Items {
		if !item.IsRead {
			t.Errorf("expected item %s to be read", item.ID)
		}
	}
	if c.Items[1].Liked != Disliked {
		t.Error("expected broadcast of is_read to leave liked untouched")
	}
}

func TestCluster_NextLike(t *testing.T) {
	if got := clusterWith(Liked, Liked).NextLike(Liked); got != Neutral {
		t.Errorf("expected liking a liked cluster to clear, got %d", got)
	}
	if got := clusterWith(Liked, Neutral).NextLike(Liked); got != Liked {
		t.Errorf("expected liking a partly liked cluster to like all, got %d", got)
	}
	if got := clusterWith(Disliked).NextLike(Liked); got != Liked {
		t.Errorf("expected like to replace dislike, got %d", got)
	}
}

func TestCluster_Labels(t *testing.T) {
	single := clusterWith(Neutral)
	if got := single.Labels().Like; got != "Like" {
		t.Errorf("expected single-item label %q, got %q", "Like", got)
	}
	multi := clusterWith(Neutral, Neutral)
	if got := multi.Labels().Read; got != "Mark All Read" {
		t.Errorf("expected multi-item label %q, got %q", "Mark All Read", got)
	}

	item := &Item{Liked: Liked, IsRead: true}
	labels := MemberLabels(item)
	if labels.Like != "Unlike Current" || labels.Read != "Mark Current Unread" {
		t.Errorf("unexpected member labels: %+v", labels)
	}
}

func TestCluster_MemberOutOfRange(t *testing.T) {
	c := clusterWith(Neutral)
	if c.Member(1) != nil || c.Member(-1) != nil {
		t.Error("expected out-of-range member lookups to return nil")
	}
	if c.Member(0) == nil {
		t.Error("expected member 0 to exist")
	}
}
