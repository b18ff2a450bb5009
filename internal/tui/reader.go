// ABOUTME: Interactive terminal reader hosting the feed view engine in a scrolling viewport.
// ABOUTME: Anchors scroll across sync prepends and pages older entries from a bottom sentinel.
package tui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/harper/newsense/internal/config"
	"github.com/harper/newsense/internal/feedview"
	"github.com/harper/newsense/internal/models"
)

const (
	// chromeHeight is the header plus the footer line.
	chromeHeight = 2
	// sentinelMargin is how many lines before the end the sentinel counts as visible.
	sentinelMargin = 2
	noticeTimeout  = 5 * time.Second
)

// Options configure the reader.
type Options struct {
	// Names maps feed ids to display names.
	Names models.FeedNames
	// SyncInterval enables periodic sync when positive.
	SyncInterval time.Duration
	// OnSettings is called after the user changes settings, e.g. to persist them.
	OnSettings func(config.Settings)
	Logger     *slog.Logger
}

// Reader is the bubbletea model of the terminal reader.
type Reader struct {
	ctx    context.Context
	engine *feedview.Engine
	opts   Options
	logger *slog.Logger

	viewport viewport.Model
	ready    bool
	anchor   feedview.ScrollAnchor
	sentinel feedview.Sentinel

	snap       feedview.Snapshot
	spans      []span
	selectedID string
	members    map[string]int
	notice     string
	width      int
	height     int
}

// span is the [start, end) line range an entry occupies in the viewport.
type span struct {
	id         string
	start, end int
}

type loadedMsg struct {
	op  feedview.Op
	res feedview.Result
	err error
}

type mutatedMsg struct {
	err error
}

type syncTickMsg struct{}

type clearNoticeMsg struct{}

// NewReader creates a reader over engine. The engine's current scope and
// settings are used as-is.
func NewReader(ctx context.Context, engine *feedview.Engine, opts Options) Reader {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Names == nil {
		opts.Names = models.FeedNames{}
	}
	return Reader{
		ctx:     ctx,
		engine:  engine,
		opts:    opts,
		logger:  logger.With("component", "tui"),
		snap:    engine.Snapshot(),
		members: map[string]int{},
	}
}

// Run starts the reader full screen and blocks until it exits.
func Run(ctx context.Context, engine *feedview.Engine, opts Options) error {
	p := tea.NewProgram(NewReader(ctx, engine, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m Reader) Init() tea.Cmd {
	return tea.Batch(m.coldLoadCmd(), m.tickCmd())
}

// Update implements tea.Model.
func (m Reader) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		h := max(msg.Height-chromeHeight, 1)
		if !m.ready {
			m.viewport = viewport.New(msg.Width, h)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = h
		}
		m.render()
		return m, m.observeSentinel()

	case loadedMsg:
		return m.handleLoaded(msg)

	case mutatedMsg:
		m.refresh()
		if msg.err != nil && !errors.Is(msg.err, feedview.ErrBusy) {
			return m, m.showNotice(msg.err)
		}
		return m, nil

	case syncTickMsg:
		return m, tea.Batch(m.syncCmd(), m.tickCmd())

	case clearNoticeMsg:
		m.notice = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Reader) handleLoaded(msg loadedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.refresh()
		return m, m.showNotice(msg.err)
	}
	if msg.res.Stale || msg.res.Skipped {
		m.refresh()
		return m, nil
	}
	m.refresh()
	return m, m.observeSentinel()
}

func (m Reader) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.notice != "" && msg.String() == "esc" {
		m.notice = ""
		return m, nil
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "j", "down":
		m.moveSelection(1)
		return m, m.observeSentinel()
	case "k", "up":
		m.moveSelection(-1)
		return m, nil
	case "g", "home":
		m.selectIndex(0)
		m.viewport.GotoTop()
		return m, nil
	case "G", "end":
		m.selectIndex(len(m.spans) - 1)
		m.viewport.GotoBottom()
		return m, m.observeSentinel()
	case "s":
		return m, m.syncCmd()
	case "r":
		return m, m.toggleRead()
	case "l":
		return m, m.toggleLike(models.Liked)
	case "d":
		return m, m.toggleLike(models.Disliked)
	case "R":
		return m, m.toggleMemberRead()
	case "L":
		return m, m.toggleMemberLike(models.Liked)
	case "D":
		return m, m.toggleMemberLike(models.Disliked)
	case "tab":
		m.cycleMember(1)
		return m, nil
	case "shift+tab":
		m.cycleMember(-1)
		return m, nil
	case "c":
		s := m.engine.Settings()
		s.UseClusters = !s.UseClusters
		return m, m.applySettings(s)
	case "f":
		s := m.engine.Settings()
		s.FilterPrediction = !s.FilterPrediction
		return m, m.applySettings(s)
	case "u":
		if m.engine.SetScope(m.snap.Scope, !m.snap.UnreadOnly) {
			m.resetView()
			return m, m.coldLoadCmd()
		}
		return m, nil
	case "A":
		return m, m.markAllReadCmd()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, tea.Batch(cmd, m.observeSentinel())
}

func (m *Reader) applySettings(s config.Settings) tea.Cmd {
	reset := m.engine.SetSettings(s)
	if m.opts.OnSettings != nil {
		m.opts.OnSettings(m.engine.Settings())
	}
	if reset {
		m.resetView()
		return m.coldLoadCmd()
	}
	m.refresh()
	return m.observeSentinel()
}

// resetView clears everything tied to the previous view.
func (m *Reader) resetView() {
	m.anchor.Cancel()
	m.sentinel.Reset()
	m.selectedID = ""
	m.members = map[string]int{}
	m.viewport.GotoTop()
	m.refresh()
}

// refresh pulls a fresh snapshot and rerenders. Whichever message first
// observes a prepend anchors it, so rows added above never move the viewport.
func (m *Reader) refresh() {
	snap := m.engine.Snapshot()
	if !m.ready || !prepended(m.snap, snap) {
		m.snap = snap
		m.render()
		return
	}
	target := scrollTarget{&m.viewport}
	m.anchor.Capture(target)
	m.snap = snap
	m.render()
	delta := m.anchor.Restore(target)
	m.logger.Debug("anchored prepend", "head", headID(snap), "delta", delta)
}

// prepended reports whether next gained entries above the head of prev while
// still holding that head.
func prepended(prev, next feedview.Snapshot) bool {
	if prev.Clustered != next.Clustered || prev.Len() == 0 || next.Len() == 0 {
		return false
	}
	head := headID(prev)
	if headID(next) == head {
		return false
	}
	if next.Clustered {
		for _, c := range next.Clusters {
			if c.ID == head {
				return true
			}
		}
		return false
	}
	for _, item := range next.Items {
		if item.ID == head {
			return true
		}
	}
	return false
}

func headID(snap feedview.Snapshot) string {
	switch {
	case snap.Clustered && len(snap.Clusters) > 0:
		return snap.Clusters[0].ID
	case !snap.Clustered && len(snap.Items) > 0:
		return snap.Items[0].ID
	}
	return ""
}

// observeSentinel asks the sentinel whether the bottom of the list just came
// into view while more can be loaded.
func (m *Reader) observeSentinel() tea.Cmd {
	if !m.ready {
		return nil
	}
	visible := m.viewport.YOffset+m.viewport.Height >= m.viewport.TotalLineCount()-sentinelMargin
	if m.sentinel.Observe(visible, m.engine.CanLoadMore(), m.snap.Held) {
		return m.loadMoreCmd()
	}
	return nil
}

func (m *Reader) showNotice(err error) tea.Cmd {
	var opErr *feedview.OperationError
	if errors.As(err, &opErr) {
		m.notice = opErr.Message()
	} else {
		m.notice = err.Error()
	}
	return tea.Tick(noticeTimeout, func(time.Time) tea.Msg {
		return clearNoticeMsg{}
	})
}

func (m *Reader) selectedIndex() int {
	for i, s := range m.spans {
		if s.id == m.selectedID {
			return i
		}
	}
	return -1
}

func (m *Reader) moveSelection(delta int) {
	idx := m.selectedIndex()
	if idx < 0 {
		idx = 0
	} else {
		idx += delta
	}
	m.selectIndex(idx)
}

func (m *Reader) selectIndex(idx int) {
	if len(m.spans) == 0 {
		return
	}
	idx = min(max(idx, 0), len(m.spans)-1)
	m.selectedID = m.spans[idx].id
	m.render()
	m.ensureVisible(m.spans[idx])
}

func (m *Reader) ensureVisible(s span) {
	switch {
	case s.start < m.viewport.YOffset:
		m.viewport.SetYOffset(s.start)
	case s.end > m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(s.end - m.viewport.Height)
	}
}

func (m *Reader) selectedItem() *models.Item {
	for _, item := range m.snap.Items {
		if item.ID == m.selectedID {
			return item
		}
	}
	return nil
}

func (m *Reader) selectedCluster() *models.Cluster {
	for _, c := range m.snap.Clusters {
		if c.ID == m.selectedID {
			return c
		}
	}
	return nil
}

func (m *Reader) cycleMember(delta int) {
	c := m.selectedCluster()
	if c == nil || len(c.Items) < 2 {
		return
	}
	n := len(c.Items)
	m.members[c.ID] = ((m.members[c.ID]+delta)%n + n) % n
	m.render()
}

func (m *Reader) activeMember(c *models.Cluster) int {
	idx := m.members[c.ID]
	if idx >= len(c.Items) {
		return 0
	}
	return idx
}

// scrollTarget exposes the viewport to the scroll anchor.
type scrollTarget struct {
	vp *viewport.Model
}

func (s scrollTarget) ScrollExtent() int {
	return s.vp.TotalLineCount()
}

func (s scrollTarget) ScrollOffset() int {
	return s.vp.YOffset
}

func (s scrollTarget) SetScrollOffset(offset int) {
	s.vp.SetYOffset(offset)
}
