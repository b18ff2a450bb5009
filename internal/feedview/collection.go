// ABOUTME: Raw and visible entry sequences held by the engine for one view mode
// ABOUTME: Raw drives cursor, dedup and hasMore; visible is the filtered projection

package feedview

import "github.com/harper/newsense/internal/config"

type filterFunc[T Entry] func([]T, config.Settings) []T

type collection[T Entry] struct {
	raw     []T
	visible []T
	ids     map[string]struct{}
	filter  filterFunc[T]
}

func newCollection[T Entry](filter filterFunc[T]) collection[T] {
	return collection[T]{ids: map[string]struct{}{}, filter: filter}
}

func (c *collection[T]) reset() {
	c.raw = nil
	c.visible = nil
	c.ids = map[string]struct{}{}
}

func (c *collection[T]) size() int {
	return len(c.raw)
}

// last returns the final raw entry, which carries the backward cursor.
func (c *collection[T]) last() (T, bool) {
	var zero T
	if len(c.raw) == 0 {
		return zero, false
	}
	return c.raw[len(c.raw)-1], true
}

// replace discards everything and installs a fresh first page.
func (c *collection[T]) replace(page []T, s config.Settings) (added, dropped int) {
	c.reset()
	unique, dropped := dedupeInto(c.ids, page)
	c.raw = unique
	c.refilter(s)
	return len(unique), dropped
}

// append merges an older page at the tail.
func (c *collection[T]) append(page []T, s config.Settings) (added, dropped int) {
	unique, dropped := dedupeInto(c.ids, page)
	if len(unique) == 0 {
		return 0, dropped
	}
	raw := make([]T, 0, len(c.raw)+len(unique))
	raw = append(raw, c.raw...)
	c.raw = append(raw, unique...)
	c.refilter(s)
	return len(unique), dropped
}

// prepend merges the unique remainder of a newer page at the head. The
// collection is left untouched when nothing is new.
func (c *collection[T]) prepend(page []T, s config.Settings) (added, dropped int) {
	unique, dropped := dedupeInto(c.ids, page)
	if len(unique) == 0 {
		return 0, dropped
	}
	raw := make([]T, 0, len(c.raw)+len(unique))
	raw = append(raw, unique...)
	c.raw = append(raw, c.raw...)
	c.refilter(s)
	return len(unique), dropped
}

func (c *collection[T]) refilter(s config.Settings) {
	c.visible = c.filter(c.raw, s)
}
