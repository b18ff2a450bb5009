// ABOUTME: Sync engine owning the paginated, deduplicated view of items or clusters
// ABOUTME: Cold load, backward pagination and forward sync, gated by a view epoch

package feedview

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/harper/newsense/internal/config"
	"github.com/harper/newsense/internal/models"
	"github.com/harper/newsense/internal/source"
)

// Phase is the coarse state of a view.
type Phase string

const (
	PhaseEmpty     Phase = "empty"
	PhaseLoading   Phase = "loading"
	PhasePopulated Phase = "populated"
	PhaseExhausted Phase = "exhausted"
)

// Result describes what a load operation did.
type Result struct {
	// Fetched is the number of entries the source returned.
	Fetched int
	// Added is the number of entries merged into the view after dedup.
	Added int
	// HasMore is the pagination state after the operation.
	HasMore bool
	// Stale is set when the view changed while the call was in flight and
	// the response was discarded.
	Stale bool
	// Skipped is set when a guard refused to start the operation.
	Skipped bool
}

// Snapshot is a deep copy of the visible state.
type Snapshot struct {
	Scope       string
	UnreadOnly  bool
	Clustered   bool
	Epoch       uint64
	Phase       Phase
	Items       []*models.Item
	Clusters    []*models.Cluster
	Held        int
	HasMore     bool
	Loading     bool
	LoadingMore bool
	Syncing     bool
}

// Len returns the number of visible entries in the active mode.
func (s Snapshot) Len() int {
	if s.Clustered {
		return len(s.Clusters)
	}
	return len(s.Items)
}

type flags struct {
	loaded      bool
	hasMore     bool
	loading     bool
	loadingMore bool
	syncing     bool
	markingRead bool
}

// Engine keeps one view of a content source consistent across concurrent
// loads, syncs and status mutations. All methods are safe for concurrent use.
type Engine struct {
	source   source.Source
	logger   *slog.Logger
	notifier Notifier
	pageSize int

	mu         sync.Mutex
	settings   config.Settings
	scope      string
	unreadOnly bool
	epoch      uint64
	flags      flags
	items      collection[*models.Item]
	clusters   collection[*models.Cluster]
	mutating   map[string]struct{}
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithNotifier sets the receiver of failure notices and read-state changes.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) {
		if n != nil {
			e.notifier = n
		}
	}
}

// WithSettings sets the initial reader settings.
func WithSettings(s config.Settings) Option {
	return func(e *Engine) {
		e.settings = s.Normalized()
	}
}

// WithScope sets the initial scope and unread-only flag.
func WithScope(scope string, unreadOnly bool) Option {
	return func(e *Engine) {
		if scope != "" {
			e.scope = scope
		}
		e.unreadOnly = unreadOnly
	}
}

// WithPageSize overrides the page size.
func WithPageSize(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.pageSize = n
		}
	}
}

// New creates an engine over src with an empty view of the "all" scope.
func New(src source.Source, options ...Option) *Engine {
	e := &Engine{
		source:   src,
		logger:   slog.Default(),
		notifier: discardNotifier{},
		pageSize: source.DefaultPageSize,
		settings: config.DefaultSettings(),
		scope:    models.AllScope,
		items:    newCollection(FilterItems),
		clusters: newCollection(FilterClusters),
		mutating: map[string]struct{}{},
	}
	for _, option := range options {
		option(e)
	}
	e.logger = e.logger.With("component", "feedview")
	return e
}

// pager binds the generic load paths to one view mode.
type pager[T Entry] struct {
	clustered bool
	coll      *collection[T]
	list      func(ctx context.Context, scope string, params source.ListParams) ([]T, error)
}

func (e *Engine) itemPager() pager[*models.Item] {
	return pager[*models.Item]{clustered: false, coll: &e.items, list: e.source.ListItems}
}

func (e *Engine) clusterPager() pager[*models.Cluster] {
	return pager[*models.Cluster]{clustered: true, coll: &e.clusters, list: e.source.ListClusters}
}

func (e *Engine) clustered() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings.UseClusters
}

// ColdLoad fetches the first page and replaces the view with it.
func (e *Engine) ColdLoad(ctx context.Context) (Result, error) {
	if e.clustered() {
		return coldLoad(ctx, e, e.clusterPager())
	}
	return coldLoad(ctx, e, e.itemPager())
}

// LoadMore fetches the page strictly older than the last held entry and
// appends it. It does nothing when exhausted, empty, or another load runs.
func (e *Engine) LoadMore(ctx context.Context) (Result, error) {
	if e.clustered() {
		return loadMore(ctx, e, e.clusterPager())
	}
	return loadMore(ctx, e, e.itemPager())
}

// Sync refetches the first page and prepends only entries not already held.
func (e *Engine) Sync(ctx context.Context) (Result, error) {
	if e.clustered() {
		return syncHead(ctx, e, e.clusterPager())
	}
	return syncHead(ctx, e, e.itemPager())
}

func coldLoad[T Entry](ctx context.Context, e *Engine, p pager[T]) (Result, error) {
	e.mu.Lock()
	if e.settings.UseClusters != p.clustered {
		e.mu.Unlock()
		return Result{Stale: true}, nil
	}
	e.resetLocked()
	e.flags.loading = true
	epoch, scope, params := e.epoch, e.scope, e.paramsLocked(time.Time{})
	e.mu.Unlock()

	e.logger.Debug("cold load", "scope", scope, "clustered", p.clustered, "unread_only", params.UnreadOnly)
	page, err := p.list(ctx, scope, params)

	e.mu.Lock()
	if epoch != e.epoch {
		e.mu.Unlock()
		e.logger.Debug("discarding stale cold load", "scope", scope)
		return Result{Stale: true}, nil
	}
	e.flags.loading = false
	if err != nil {
		e.mu.Unlock()
		return Result{}, e.fail(OpColdLoad, err)
	}
	added, dropped := p.coll.replace(page, e.settings)
	e.flags.loaded = true
	e.flags.hasMore = len(page) >= e.pageSize
	res := Result{Fetched: len(page), Added: added, HasMore: e.flags.hasMore}
	e.mu.Unlock()

	e.logDuplicates(OpColdLoad, dropped)
	return res, nil
}

func loadMore[T Entry](ctx context.Context, e *Engine, p pager[T]) (Result, error) {
	e.mu.Lock()
	if e.settings.UseClusters != p.clustered || !e.canLoadMoreLocked() {
		hasMore := e.flags.hasMore
		e.mu.Unlock()
		return Result{Skipped: true, HasMore: hasMore}, nil
	}
	last, _ := p.coll.last()
	cursor := last.CursorKey()
	if cursor.IsZero() {
		// No key to page from; treat the view as exhausted.
		e.flags.hasMore = false
		e.mu.Unlock()
		e.logger.Warn("last entry has no cursor key", "id", last.EntryID())
		return Result{Skipped: true}, nil
	}
	e.flags.loadingMore = true
	epoch, scope, params := e.epoch, e.scope, e.paramsLocked(cursor)
	e.mu.Unlock()

	e.logger.Debug("load more", "scope", scope, "before", cursor)
	page, err := p.list(ctx, scope, params)

	e.mu.Lock()
	if epoch != e.epoch {
		e.mu.Unlock()
		e.logger.Debug("discarding stale page", "scope", scope)
		return Result{Stale: true}, nil
	}
	e.flags.loadingMore = false
	if err != nil {
		e.mu.Unlock()
		return Result{}, e.fail(OpLoadMore, err)
	}
	fetched := len(page)
	page = olderThan(page, cursor)
	added, dropped := p.coll.append(page, e.settings)
	e.flags.hasMore = fetched >= e.pageSize
	res := Result{Fetched: fetched, Added: added, HasMore: e.flags.hasMore}
	e.mu.Unlock()

	if fetched != len(page) {
		e.logger.Warn("source returned entries at or after cursor", "count", fetched-len(page), "before", cursor)
	}
	e.logDuplicates(OpLoadMore, dropped)
	return res, nil
}

func syncHead[T Entry](ctx context.Context, e *Engine, p pager[T]) (Result, error) {
	e.mu.Lock()
	if e.settings.UseClusters != p.clustered || !e.flags.loaded ||
		e.flags.loading || e.flags.loadingMore || e.flags.syncing {
		e.mu.Unlock()
		return Result{Skipped: true}, nil
	}
	e.flags.syncing = true
	epoch, scope, params := e.epoch, e.scope, e.paramsLocked(time.Time{})
	e.mu.Unlock()

	e.logger.Debug("sync", "scope", scope)
	page, err := p.list(ctx, scope, params)

	e.mu.Lock()
	if epoch != e.epoch {
		e.mu.Unlock()
		e.logger.Debug("discarding stale sync", "scope", scope)
		return Result{Stale: true}, nil
	}
	e.flags.syncing = false
	if err != nil {
		e.mu.Unlock()
		return Result{}, e.fail(OpSync, err)
	}
	added, dropped := p.coll.prepend(page, e.settings)
	if p.coll.size() == added {
		// Sync into an empty view establishes pagination like a cold load.
		e.flags.hasMore = len(page) >= e.pageSize
	}
	res := Result{Fetched: len(page), Added: added, HasMore: e.flags.hasMore}
	e.mu.Unlock()

	e.logDuplicates(OpSync, dropped)
	if added > 0 {
		e.logger.Info("sync prepended entries", "count", added, "scope", scope)
	}
	return res, nil
}

// olderThan keeps entries whose key is strictly before cursor. Entries without
// a key are kept; they sort last.
func olderThan[T Entry](page []T, cursor time.Time) []T {
	for i, entry := range page {
		if entry.CursorKey().Before(cursor) {
			continue
		}
		out := make([]T, i, len(page))
		copy(out, page[:i])
		for _, rest := range page[i+1:] {
			if rest.CursorKey().Before(cursor) {
				out = append(out, rest)
			}
		}
		return out
	}
	return page
}

// SetScope switches the view to scope and resets it when anything changed.
// It reports whether a reset happened; the caller then cold loads.
func (e *Engine) SetScope(scope string, unreadOnly bool) bool {
	if scope == "" {
		scope = models.AllScope
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if scope == e.scope && unreadOnly == e.unreadOnly {
		return false
	}
	e.scope, e.unreadOnly = scope, unreadOnly
	e.resetLocked()
	e.logger.Debug("scope changed", "scope", scope, "unread_only", unreadOnly, "epoch", e.epoch)
	return true
}

// SetSettings replaces the reader settings. Switching clustering resets the
// view and reports true; a filter-only change reprojects held entries.
func (e *Engine) SetSettings(s config.Settings) bool {
	s = s.Normalized()
	e.mu.Lock()
	defer e.mu.Unlock()
	old := e.settings
	e.settings = s
	if old.UseClusters != s.UseClusters {
		e.resetLocked()
		e.logger.Debug("view mode changed", "clustered", s.UseClusters, "epoch", e.epoch)
		return true
	}
	if old != s {
		e.items.refilter(s)
		e.clusters.refilter(s)
	}
	return false
}

// Settings returns the current settings.
func (e *Engine) Settings() config.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// Reset empties the view and invalidates every in-flight continuation.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.resetLocked()
}

// CanLoadMore reports whether LoadMore would start a fetch.
func (e *Engine) CanLoadMore() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canLoadMoreLocked()
}

// Snapshot returns a deep copy of the visible state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := Snapshot{
		Scope:       e.scope,
		UnreadOnly:  e.unreadOnly,
		Clustered:   e.settings.UseClusters,
		Epoch:       e.epoch,
		Phase:       e.phaseLocked(),
		HasMore:     e.flags.hasMore,
		Loading:     e.flags.loading,
		LoadingMore: e.flags.loadingMore,
		Syncing:     e.flags.syncing,
	}
	if snap.Clustered {
		snap.Held = e.clusters.size()
		snap.Clusters = make([]*models.Cluster, len(e.clusters.visible))
		for i, c := range e.clusters.visible {
			snap.Clusters[i] = c.Clone()
		}
		return snap
	}
	snap.Held = e.items.size()
	snap.Items = make([]*models.Item, len(e.items.visible))
	for i, item := range e.items.visible {
		snap.Items[i] = item.Clone()
	}
	return snap
}

func (e *Engine) resetLocked() {
	e.epoch++
	e.flags = flags{}
	e.items.reset()
	e.clusters.reset()
	e.mutating = map[string]struct{}{}
}

func (e *Engine) canLoadMoreLocked() bool {
	held := e.items.size()
	if e.settings.UseClusters {
		held = e.clusters.size()
	}
	return e.flags.hasMore && held > 0 &&
		!e.flags.loading && !e.flags.loadingMore && !e.flags.syncing
}

func (e *Engine) phaseLocked() Phase {
	switch {
	case e.flags.loading:
		return PhaseLoading
	case !e.flags.loaded:
		return PhaseEmpty
	case e.flags.hasMore:
		return PhasePopulated
	default:
		return PhaseExhausted
	}
}

func (e *Engine) paramsLocked(before time.Time) source.ListParams {
	return source.ListParams{Limit: e.pageSize, Before: before, UnreadOnly: e.unreadOnly}
}

// fail wraps err, logs it and delivers a notice. Must be called without the lock.
func (e *Engine) fail(op Op, err error) error {
	var opErr *OperationError
	if !errors.As(err, &opErr) {
		opErr = &OperationError{Op: op, Err: err}
	}
	e.logger.Error("remote operation failed", "op", op, "error", err)
	e.notifier.Notify(noticeFor(opErr))
	return opErr
}

func (e *Engine) logDuplicates(op Op, dropped int) {
	if dropped > 0 {
		e.logger.Debug("dropped duplicate entries", "op", op, "count", dropped)
	}
}
