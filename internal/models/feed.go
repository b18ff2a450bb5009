// ABOUTME: Feed model and display-name resolution for items shown outside their feed
// ABOUTME: Feed names come from the caller; this package never mutates the mapping

package models

// AllScope is the synthetic scope id meaning "all subscriptions".
const AllScope = "all"

const (
	// PlaceholderFeedName is shown when no owning feed has a known name.
	PlaceholderFeedName = "Subscription"
	// UnknownFeedName is shown when an item has no owning feeds at all.
	UnknownFeedName = "Unknown"
)

// Feed is a subscription as reported by the feed directory.
type Feed struct {
	ID          string  `json:"id"`
	URL         string  `json:"url"`
	Title       *string `json:"title,omitempty"`
	UnreadCount *int    `json:"unread_count,omitempty"`
}

// DisplayTitle returns the feed title, falling back to its URL.
func (f *Feed) DisplayTitle() string {
	if f.Title != nil && *f.Title != "" {
		return *f.Title
	}
	return f.URL
}

// FeedNames maps feed ids to display names.
type FeedNames map[string]string

// NamesFromFeeds builds a FeedNames map from a feed list.
func NamesFromFeeds(feeds []*Feed) FeedNames {
	names := make(FeedNames, len(feeds))
	for _, f := range feeds {
		names[f.ID] = f.DisplayTitle()
	}
	return names
}

// DisplayName resolves the label for an item: the first owning feed present
// in the map, else the first owning feed, else a placeholder.
func (n FeedNames) DisplayName(item *Item) string {
	owners := item.OwningFeeds()
	if len(owners) == 0 {
		return UnknownFeedName
	}
	primary := owners[0]
	for _, id := range owners {
		if _, ok := n[id]; ok {
			primary = id
			break
		}
	}
	if name := n[primary]; name != "" {
		return name
	}
	return PlaceholderFeedName
}
