// ABOUTME: Id-based deduplication of incoming batches against a held collection
// ABOUTME: Preserves batch order and returns the batch itself when nothing is dropped

package feedview

import "time"

// Entry is anything the view can hold: an item or a cluster.
type Entry interface {
	EntryID() string
	CursorKey() time.Time
}

// Dedupe returns the entries of incoming whose id is neither in existing nor
// repeated earlier in incoming. Relative order is preserved.
func Dedupe[T Entry](existing, incoming []T) []T {
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, e := range existing {
		seen[e.EntryID()] = struct{}{}
	}
	out, _ := dedupeInto(seen, incoming)
	return out
}

// dedupeInto filters incoming against seen, adding kept ids to seen.
// It returns incoming unchanged (same slice) when nothing was dropped.
func dedupeInto[T Entry](seen map[string]struct{}, incoming []T) ([]T, int) {
	var out []T
	dropped := 0
	for i, e := range incoming {
		id := e.EntryID()
		if _, dup := seen[id]; dup {
			if out == nil {
				out = make([]T, i, len(incoming))
				copy(out, incoming[:i])
			}
			dropped++
			continue
		}
		seen[id] = struct{}{}
		if out != nil {
			out = append(out, e)
		}
	}
	if out == nil {
		return incoming, 0
	}
	return out, dropped
}
