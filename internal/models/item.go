// ABOUTME: Item model representing one article delivered by the content service
// ABOUTME: Carries read state, tri-state like, owning feeds and the published_at cursor key

package models

import (
	"time"
)

// Like is the tri-state like value of an item: dislike, neutral or like.
type Like int

const (
	Disliked Like = -1
	Neutral  Like = 0
	Liked    Like = 1
)

// Valid reports whether l is one of -1, 0 or 1.
func (l Like) Valid() bool {
	return l >= Disliked && l <= Liked
}

// Item represents a single article in a feed view.
// An item can be attributed to several feeds when the content service
// deduplicates it across subscriptions.
type Item struct {
	ID          string    `json:"id"`
	FeedID      string    `json:"feed_id,omitempty"`
	FeedIDs     []string  `json:"feed_ids,omitempty"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Content     string    `json:"content,omitempty"`
	Author      string    `json:"author,omitempty"`
	PublishedAt time.Time `json:"published_at"`
	IsRead      bool      `json:"is_read"`
	Liked       Like      `json:"liked"`
	// ClusterID is informational only; the owning Cluster holds the item.
	ClusterID  string   `json:"cluster_id,omitempty"`
	Prediction *float64 `json:"prediction,omitempty"`
}

// EntryID returns the item id.
func (i *Item) EntryID() string {
	return i.ID
}

// CursorKey returns the published_at timestamp used for backward pagination.
func (i *Item) CursorKey() time.Time {
	return i.PublishedAt
}

// OwningFeeds returns the feed ids the item is attributed to, folding the
// legacy single feed_id field in when feed_ids is absent.
func (i *Item) OwningFeeds() []string {
	if len(i.FeedIDs) > 0 {
		return i.FeedIDs
	}
	if i.FeedID != "" {
		return []string{i.FeedID}
	}
	return nil
}

// Apply writes the set fields of patch onto the item.
func (i *Item) Apply(patch StatusPatch) {
	if patch.IsRead != nil {
		i.IsRead = *patch.IsRead
	}
	if patch.Liked != nil {
		i.Liked = *patch.Liked
	}
}

// Clone returns a deep copy of the item.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	if i.FeedIDs != nil {
		c.FeedIDs = append([]string(nil), i.FeedIDs...)
	}
	if i.Prediction != nil {
		p := *i.Prediction
		c.Prediction = &p
	}
	return &c
}

// StatusPatch is a partial status update; nil fields are left untouched.
type StatusPatch struct {
	IsRead *bool `json:"is_read,omitempty"`
	Liked  *Like `json:"liked,omitempty"`
}

// ReadPatch returns a patch that only sets is_read.
func ReadPatch(read bool) StatusPatch {
	return StatusPatch{IsRead: &read}
}

// LikePatch returns a patch that only sets liked.
func LikePatch(l Like) StatusPatch {
	return StatusPatch{Liked: &l}
}

// Empty reports whether the patch sets nothing.
func (p StatusPatch) Empty() bool {
	return p.IsRead == nil && p.Liked == nil
}

// TouchesRead reports whether the patch changes read state.
func (p StatusPatch) TouchesRead() bool {
	return p.IsRead != nil
}

// NextLike returns the like value produced by pressing the requested button:
// pressing the active state again returns to neutral, anything else jumps
// straight to the requested value.
func NextLike(current, requested Like) Like {
	if current == requested {
		return Neutral
	}
	return requested
}

// ToggleLikePatch builds the patch sent for a like/dislike press. A non-zero
// resulting value also marks the item read in the same patch.
func ToggleLikePatch(current, requested Like) StatusPatch {
	next := NextLike(current, requested)
	patch := LikePatch(next)
	if next != Neutral {
		read := true
		patch.IsRead = &read
	}
	return patch
}
