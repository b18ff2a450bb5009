// ABOUTME: bubbletea commands that run engine operations off the update loop.
// ABOUTME: Each command reports back through a loaded or mutated message.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harper/newsense/internal/feedview"
	"github.com/harper/newsense/internal/models"
)

func (m Reader) coldLoadCmd() tea.Cmd {
	engine, ctx := m.engine, m.ctx
	return func() tea.Msg {
		res, err := engine.ColdLoad(ctx)
		return loadedMsg{op: feedview.OpColdLoad, res: res, err: err}
	}
}

func (m Reader) loadMoreCmd() tea.Cmd {
	engine, ctx := m.engine, m.ctx
	return func() tea.Msg {
		res, err := engine.LoadMore(ctx)
		return loadedMsg{op: feedview.OpLoadMore, res: res, err: err}
	}
}

func (m Reader) syncCmd() tea.Cmd {
	engine, ctx := m.engine, m.ctx
	return func() tea.Msg {
		res, err := engine.Sync(ctx)
		return loadedMsg{op: feedview.OpSync, res: res, err: err}
	}
}

func (m Reader) markAllReadCmd() tea.Cmd {
	engine, ctx := m.engine, m.ctx
	return func() tea.Msg {
		res, err := engine.MarkAllRead(ctx, time.Time{})
		return loadedMsg{op: feedview.OpColdLoad, res: res, err: err}
	}
}

func (m Reader) tickCmd() tea.Cmd {
	if m.opts.SyncInterval <= 0 {
		return nil
	}
	return tea.Tick(m.opts.SyncInterval, func(time.Time) tea.Msg {
		return syncTickMsg{}
	})
}

func mutate(run func() (feedview.Mutation, error)) tea.Cmd {
	return func() tea.Msg {
		_, err := run()
		return mutatedMsg{err: err}
	}
}

func (m Reader) toggleRead() tea.Cmd {
	engine, ctx := m.engine, m.ctx
	if c := m.selectedCluster(); c != nil {
		id := c.ID
		return mutate(func() (feedview.Mutation, error) { return engine.ToggleClusterRead(ctx, id) })
	}
	if item := m.selectedItem(); item != nil {
		id := item.ID
		return mutate(func() (feedview.Mutation, error) { return engine.ToggleRead(ctx, id) })
	}
	return nil
}

func (m Reader) toggleLike(requested models.Like) tea.Cmd {
	engine, ctx := m.engine, m.ctx
	if c := m.selectedCluster(); c != nil {
		id := c.ID
		return mutate(func() (feedview.Mutation, error) { return engine.ToggleClusterLike(ctx, id, requested) })
	}
	if item := m.selectedItem(); item != nil {
		id := item.ID
		return mutate(func() (feedview.Mutation, error) { return engine.ToggleLike(ctx, id, requested) })
	}
	return nil
}

func (m Reader) toggleMemberRead() tea.Cmd {
	c := m.selectedCluster()
	if c == nil {
		return nil
	}
	engine, ctx, id, idx := m.engine, m.ctx, c.ID, m.activeMember(c)
	patch := models.ReadPatch(!c.Items[idx].IsRead)
	return mutate(func() (feedview.Mutation, error) { return engine.UpdateClusterMemberStatus(ctx, id, idx, patch) })
}

func (m Reader) toggleMemberLike(requested models.Like) tea.Cmd {
	c := m.selectedCluster()
	if c == nil {
		return nil
	}
	engine, ctx, id, idx := m.engine, m.ctx, c.ID, m.activeMember(c)
	return mutate(func() (feedview.Mutation, error) { return engine.ToggleClusterMemberLike(ctx, id, idx, requested) })
}
