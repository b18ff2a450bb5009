// ABOUTME: Package test entry point guarding against leaked goroutines
// ABOUTME: Shared fixtures for engine and mutation tests

package feedview

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/harper/newsense/internal/config"
	"github.com/harper/newsense/internal/models"
	"github.com/harper/newsense/internal/source/sourcetest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var baseTime = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type recorder struct {
	mu          sync.Mutex
	notices     []Notice
	readChanges int
}

func (r *recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recorder) ReadStateChanged() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.readChanges++
}

func (r *recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

func (r *recorder) ReadChanges() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readChanges
}

func newTestEngine(t *testing.T, src *sourcetest.Fake, settings config.Settings) (*Engine, *recorder) {
	t.Helper()
	rec := &recorder{}
	return New(src, WithNotifier(rec), WithSettings(settings)), rec
}

func score(v float64) *float64 {
	return &v
}

func ids[T Entry](entries []T) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.EntryID()
	}
	return out
}

func item(id string, published time.Time) *models.Item {
	return &models.Item{ID: id, FeedIDs: []string{"feed-1"}, PublishedAt: published}
}
