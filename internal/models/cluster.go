// ABOUTME: Cluster model grouping near-duplicate items from different feeds
// ABOUTME: Aggregate read/like state is derived from members on every call, never stored

package models

import "time"

// Cluster owns an ordered sequence of items, in the order the source returned them.
type Cluster struct {
	ID       string    `json:"id"`
	SortDate time.Time `json:"sort_date"`
	Items    []*Item   `json:"items"`
}

// EntryID returns the cluster id.
func (c *Cluster) EntryID() string {
	return c.ID
}

// CursorKey returns the sort_date used for backward pagination.
func (c *Cluster) CursorKey() time.Time {
	return c.SortDate
}

// IsSingle reports whether the cluster holds exactly one item.
func (c *Cluster) IsSingle() bool {
	return len(c.Items) == 1
}

// Read reports whether every member has been read.
func (c *Cluster) Read() bool {
	return c.all(func(i *Item) bool { return i.IsRead })
}

// AllLiked reports whether every member is liked.
func (c *Cluster) AllLiked() bool {
	return c.all(func(i *Item) bool { return i.Liked == Liked })
}

// AllDisliked reports whether every member is disliked.
func (c *Cluster) AllDisliked() bool {
	return c.all(func(i *Item) bool { return i.Liked == Disliked })
}

func (c *Cluster) all(pred func(*Item) bool) bool {
	if len(c.Items) == 0 {
		return false
	}
	for _, item := range c.Items {
		if !pred(item) {
			return false
		}
	}
	return true
}

// Member returns the item at index, or nil when index is out of range.
func (c *Cluster) Member(index int) *Item {
	if index < 0 || index >= len(c.Items) {
		return nil
	}
	return c.Items[index]
}

// FindItem returns the member with the given id.
func (c *Cluster) FindItem(id string) *Item {
	for _, item := range c.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// Broadcast applies patch to every member regardless of its prior state.
func (c *Cluster) Broadcast(patch StatusPatch) {
	for _, item := range c.Items {
		item.Apply(patch)
	}
}

// NextLike returns the value a cluster-level like/dislike press sends:
// neutral when the whole cluster already holds the requested state.
func (c *Cluster) NextLike(requested Like) Like {
	if (requested == Liked && c.AllLiked()) || (requested == Disliked && c.AllDisliked()) {
		return Neutral
	}
	return requested
}

// Clone returns a deep copy of the cluster and its members.
func (c *Cluster) Clone() *Cluster {
	if c == nil {
		return nil
	}
	out := &Cluster{ID: c.ID, SortDate: c.SortDate, Items: make([]*Item, len(c.Items))}
	for i, item := range c.Items {
		out.Items[i] = item.Clone()
	}
	return out
}

// ActionLabels are the titles shown on cluster-level action buttons.
type ActionLabels struct {
	Like    string
	Dislike string
	Read    string
}

// Labels returns item-oriented labels for single-item clusters and
// broadcast labels otherwise. The underlying call is the same in both cases.
func (c *Cluster) Labels() ActionLabels {
	if c.IsSingle() {
		return ActionLabels{Like: "Like", Dislike: "Dislike", Read: "Mark Read"}
	}
	return ActionLabels{Like: "Like All", Dislike: "Dislike All", Read: "Mark All Read"}
}

// MemberLabels returns the labels of the per-item menu for the focused member.
func MemberLabels(item *Item) ActionLabels {
	labels := ActionLabels{Like: "Like Current", Dislike: "Dislike Current", Read: "Mark Current Read"}
	if item.Liked == Liked {
		labels.Like = "Unlike Current"
	}
	if item.Liked == Disliked {
		labels.Dislike = "Undislike Current"
	}
	if item.IsRead {
		labels.Read = "Mark Current Unread"
	}
	return labels
}
