// ABOUTME: Rendering of the reader header, entry list and footer.
// ABOUTME: Records the line span of every entry for selection and scrolling.
package tui

import (
	"fmt"
	"strings"

	"github.com/harper/newsense/internal/config"
	"github.com/harper/newsense/internal/content"
	"github.com/harper/newsense/internal/feedview"
	"github.com/harper/newsense/internal/models"
)

const helpText = "j/k move · r read · l/d like/dislike · tab member · R/L/D member · s sync · c clusters · f filter · u unread · A mark all read · q quit"

// View implements tea.Model.
func (m Reader) View() string {
	if !m.ready {
		return "Loading…"
	}
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
	} else {
		b.WriteString(metaStyle.Render(truncate(helpText, m.width)))
	}
	return b.String()
}

func (m Reader) header() string {
	parts := []string{"newsense", m.snap.Scope}
	if m.snap.Clustered {
		parts = append(parts, "clusters")
	} else {
		parts = append(parts, "items")
	}
	if m.snap.UnreadOnly {
		parts = append(parts, "unread only")
	}
	if s := m.engine.Settings(); s.FilterPrediction {
		parts = append(parts, fmt.Sprintf("relevance ≥ %.2f", s.FilterPredictionThreshold))
	}
	parts = append(parts, fmt.Sprintf("%d unread", m.snap.UnreadCount()))
	switch {
	case m.snap.Loading:
		parts = append(parts, "loading…")
	case m.snap.Syncing:
		parts = append(parts, "syncing…")
	}
	return headerStyle.Render(truncate(strings.Join(parts, " · "), m.width))
}

// render rebuilds the viewport content from the current snapshot.
func (m *Reader) render() {
	if !m.ready {
		return
	}
	var lines []string
	m.spans = m.spans[:0]
	add := func(id string, block []string) {
		m.spans = append(m.spans, span{id: id, start: len(lines), end: len(lines) + len(block)})
		lines = append(lines, block...)
	}

	if m.snap.Clustered {
		for _, c := range m.snap.Clusters {
			add(c.ID, m.clusterBlock(c))
		}
	} else {
		for _, item := range m.snap.Items {
			add(item.ID, m.itemBlock(item))
		}
	}
	if m.selectedID == "" && len(m.spans) > 0 {
		m.selectedID = m.spans[0].id
		m.render()
		return
	}
	lines = append(lines, m.statusLine())
	m.viewport.SetContent(strings.Join(lines, "\n"))
}

func (m *Reader) statusLine() string {
	switch {
	case m.snap.Phase == feedview.PhaseLoading:
		return metaStyle.Render("Loading articles…")
	case m.snap.LoadingMore:
		return metaStyle.Render("Loading more…")
	case m.snap.Phase == feedview.PhaseEmpty:
		return ""
	case m.snap.Len() == 0 && !m.snap.HasMore:
		return metaStyle.Render("No articles.")
	case m.snap.HasMore:
		return ""
	default:
		return metaStyle.Render("· end ·")
	}
}

func (m *Reader) marker(id string) string {
	if id == m.selectedID {
		return selectedStyle.Render("▌ ")
	}
	return "  "
}

func (m *Reader) itemBlock(item *models.Item) []string {
	block := []string{
		m.marker(item.ID) + titleFor(item, m.width-2),
		"  " + metaFor(item, m.opts.Names),
	}
	if snippet := snippetFor(item, m.width-2); snippet != "" {
		block = append(block, "  "+snippetStyle.Render(snippet))
	}
	return append(block, "")
}

func (m *Reader) clusterBlock(c *models.Cluster) []string {
	active := m.activeMember(c)
	item := c.Items[active]
	summary := feedview.Summarize(c, m.opts.Names)

	prefix := ""
	if !summary.Single {
		prefix = fmt.Sprintf("[%d sources] ", len(c.Items))
	}
	block := []string{m.marker(c.ID) + prefix + titleFor(item, m.width-2-len(prefix))}
	if !summary.Single {
		tabs := make([]string, len(summary.Sources))
		for i, name := range summary.Sources {
			if i == active {
				tabs[i] = activeTab.Render(name)
			} else {
				tabs[i] = tabStyle.Render(name)
			}
		}
		block = append(block, "  "+strings.Join(tabs, " | "))
	}
	block = append(block, "  "+metaFor(item, m.opts.Names))
	if snippet := snippetFor(item, m.width-2); snippet != "" {
		block = append(block, "  "+snippetStyle.Render(snippet))
	}

	actions := fmt.Sprintf("%s / %s / %s", summary.Labels.Like, summary.Labels.Dislike, summary.Labels.Read)
	if summary.Read {
		actions += " · all read"
	}
	if !summary.Single {
		member := models.MemberLabels(item)
		actions += fmt.Sprintf(" · %s / %s / %s", member.Like, member.Dislike, member.Read)
	}
	block = append(block, "  "+metaStyle.Render(truncate(actions, m.width-2)))
	return append(block, "")
}

func titleFor(item *models.Item, width int) string {
	title := truncate(item.Title, width)
	if title == "" {
		title = "(untitled)"
	}
	if item.IsRead {
		return readStyle.Render(title)
	}
	return unreadStyle.Render(title)
}

func metaFor(item *models.Item, names models.FeedNames) string {
	parts := []string{names.DisplayName(item)}
	if !item.PublishedAt.IsZero() {
		parts = append(parts, item.PublishedAt.Local().Format(config.DateFormatShort))
	}
	if item.Author != "" {
		parts = append(parts, item.Author)
	}
	meta := metaStyle.Render(strings.Join(parts, " · "))
	switch item.Liked {
	case models.Liked:
		meta += " " + likedStyle.Render("▲ liked")
	case models.Disliked:
		meta += " " + dislikedStyle.Render("▼ disliked")
	}
	return meta
}

func snippetFor(item *models.Item, width int) string {
	text := content.StripHTML(item.Content)
	if text == "" {
		return ""
	}
	return content.Snippet(text, min(config.SnippetLength, max(width-3, 1)))
}

// truncate cuts s to at most width runes.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width])
}
