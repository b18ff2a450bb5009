// ABOUTME: MCP tool definitions and handlers for the feed view
// ABOUTME: Provides tools for loading, paging, syncing and updating read/like status

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/newsense/internal/config"
	"github.com/harper/newsense/internal/content"
	"github.com/harper/newsense/internal/feedview"
	"github.com/harper/newsense/internal/models"
	"github.com/harper/newsense/internal/timeutil"
)

// Type definitions for input/output structures

type ListEntriesInput struct {
	Scope      *string `json:"scope,omitempty"`
	UnreadOnly *bool   `json:"unread_only,omitempty"`
	Clusters   *bool   `json:"clusters,omitempty"`
}

type ItemOutput struct {
	ID          string     `json:"id"`
	Feed        string     `json:"feed"`
	Title       string     `json:"title"`
	Link        string     `json:"link,omitempty"`
	Author      string     `json:"author,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	Read        bool       `json:"read"`
	Liked       int        `json:"liked"`
	Prediction  *float64   `json:"prediction,omitempty"`
	Snippet     string     `json:"snippet,omitempty"`
}

type ClusterOutput struct {
	ID       string       `json:"id"`
	SortDate time.Time    `json:"sort_date"`
	Read     bool         `json:"read"`
	Liked    bool         `json:"liked"`
	Disliked bool         `json:"disliked"`
	Items    []ItemOutput `json:"items"`
}

type ViewOutput struct {
	Scope      string          `json:"scope"`
	UnreadOnly bool            `json:"unread_only"`
	Clustered  bool            `json:"clustered"`
	Phase      string          `json:"phase"`
	HasMore    bool            `json:"has_more"`
	Count      int             `json:"count"`
	Added      int             `json:"added"`
	Items      []ItemOutput    `json:"items,omitempty"`
	Clusters   []ClusterOutput `json:"clusters,omitempty"`
}

type GetEntryInput struct {
	EntryID string `json:"entry_id"`
}

type GetEntryOutput struct {
	ItemOutput
	ClusterID string `json:"cluster_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

type UpdateStatusInput struct {
	ID     string `json:"id"`
	IsRead *bool  `json:"is_read,omitempty"`
	Liked  *int   `json:"liked,omitempty"`
}

type ToggleLikeInput struct {
	ID    string `json:"id"`
	Value string `json:"value"`
}

type StatusOutput struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Patched int    `json:"patched"`
	Message string `json:"message"`
}

type MarkAllReadInput struct {
	Since *string `json:"since,omitempty"`
}

type SettingsInput struct {
	FilterPrediction          *bool    `json:"filter_prediction,omitempty"`
	FilterPredictionThreshold *float64 `json:"filter_prediction_threshold,omitempty"`
	UseClusters               *bool    `json:"use_clusters,omitempty"`
}

// Tool registration

func (s *Server) registerTools() {
	s.registerListEntriesTool()
	s.registerLoadMoreTool()
	s.registerSyncTool()
	s.registerGetEntryTool()
	s.registerUpdateItemStatusTool()
	s.registerToggleLikeTool()
	s.registerUpdateClusterStatusTool()
	s.registerToggleClusterLikeTool()
	s.registerMarkAllReadTool()
	s.registerSettingsTool()
}

func (s *Server) registerListEntriesTool() {
	tool := mcp.Tool{
		Name:        "list_entries",
		Description: "Load the first page of the feed view. Optionally switch scope (a feed id, or 'all'), the unread-only flag, or clustering of near-duplicate items first. Replaces the current view and returns it. Use load_more to page older entries.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"scope": map[string]interface{}{
					"type":        "string",
					"description": "Feed id to show, or 'all' for every subscription. Omit to keep the current scope. Example: 'all'",
				},
				"unread_only": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, only unread entries are listed. Omit to keep the current flag.",
				},
				"clusters": map[string]interface{}{
					"type":        "boolean",
					"description": "If true, near-duplicate items from different feeds are grouped into clusters.",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleListEntries)
}

func (s *Server) registerLoadMoreTool() {
	tool := mcp.Tool{
		Name:        "load_more",
		Description: "Append the next page of older entries to the current view. Does nothing when the view is exhausted (has_more=false). Returns the whole view and how many entries were added.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
	s.mcpServer.AddTool(tool, s.handleLoadMore)
}

func (s *Server) registerSyncTool() {
	tool := mcp.Tool{
		Name:        "sync",
		Description: "Check for entries newer than the current view and prepend only the ones not already shown. Returns the number added and the whole view.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
	s.mcpServer.AddTool(tool, s.handleSync)
}

func (s *Server) registerGetEntryTool() {
	tool := mcp.Tool{
		Name:        "get_entry",
		Description: "Get the full details of a loaded item including its content converted from HTML to Markdown. Supports full ids and unique id prefixes.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"entry_id": map[string]interface{}{
					"type":        "string",
					"description": "The item id or id prefix. Example: 'abc12345'",
				},
			},
			Required: []string{"entry_id"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleGetEntry)
}

func statusProperties(idDescription string) map[string]interface{} {
	return map[string]interface{}{
		"id": map[string]interface{}{
			"type":        "string",
			"description": idDescription,
		},
		"is_read": map[string]interface{}{
			"type":        "boolean",
			"description": "New read state. Omit to leave unchanged.",
		},
		"liked": map[string]interface{}{
			"type":        "integer",
			"description": "New like state: 1 liked, 0 neutral, -1 disliked. Omit to leave unchanged.",
		},
	}
}

func likeProperties(idDescription string) map[string]interface{} {
	return map[string]interface{}{
		"id": map[string]interface{}{
			"type":        "string",
			"description": idDescription,
		},
		"value": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"like", "dislike"},
			"description": "Which button to press. Pressing the active state again returns to neutral.",
		},
	}
}

func (s *Server) registerUpdateItemStatusTool() {
	tool := mcp.Tool{
		Name:        "update_item_status",
		Description: "Set the read and/or like state of one item. The local view changes only after the service confirms.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: statusProperties("The item id."),
			Required:   []string{"id"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleUpdateItemStatus)
}

func (s *Server) registerToggleLikeTool() {
	tool := mcp.Tool{
		Name:        "toggle_like",
		Description: "Press like or dislike on an item. Liking or disliking also marks it read; pressing the active state again returns to neutral.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: likeProperties("The item id."),
			Required:   []string{"id", "value"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleToggleLike)
}

func (s *Server) registerUpdateClusterStatusTool() {
	tool := mcp.Tool{
		Name:        "update_cluster_status",
		Description: "Set the read and/or like state of every item in a cluster with one call. Only available when the view is clustered.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: statusProperties("The cluster id."),
			Required:   []string{"id"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleUpdateClusterStatus)
}

func (s *Server) registerToggleClusterLikeTool() {
	tool := mcp.Tool{
		Name:        "toggle_cluster_like",
		Description: "Press like or dislike on a whole cluster. Returns every member to neutral when all of them already hold that state.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: likeProperties("The cluster id."),
			Required:   []string{"id", "value"},
		},
	}
	s.mcpServer.AddTool(tool, s.handleToggleClusterLike)
}

func (s *Server) registerMarkAllReadTool() {
	tool := mcp.Tool{
		Name:        "mark_all_read",
		Description: "Mark everything in the current scope as read, then reload the view. Use since to limit to entries published after a point in time.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"since": map[string]interface{}{
					"type":        "string",
					"description": "Accepts 'all' (default), 'today', 'yesterday', 'week', 'month', YYYY-MM-DD or RFC3339.",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleMarkAllRead)
}

func (s *Server) registerSettingsTool() {
	tool := mcp.Tool{
		Name:        "settings",
		Description: "Show or change reader settings. With no arguments returns the current settings. Changing use_clusters resets the view; changing the relevance filter only re-filters what is loaded.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"filter_prediction": map[string]interface{}{
					"type":        "boolean",
					"description": "Hide items whose relevance score is below the threshold.",
				},
				"filter_prediction_threshold": map[string]interface{}{
					"type":        "number",
					"description": "Relevance threshold between -1 and 1.",
				},
				"use_clusters": map[string]interface{}{
					"type":        "boolean",
					"description": "Group near-duplicate items into clusters.",
				},
			},
		},
	}
	s.mcpServer.AddTool(tool, s.handleSettings)
}

// Tool handlers

func (s *Server) handleListEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ListEntriesInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}

	snap := s.engine.Snapshot()
	scope, unreadOnly := snap.Scope, snap.UnreadOnly
	if input.Scope != nil {
		scope = strings.TrimSpace(*input.Scope)
	}
	if input.UnreadOnly != nil {
		unreadOnly = *input.UnreadOnly
	}
	s.engine.SetScope(scope, unreadOnly)
	if input.Clusters != nil {
		settings := s.engine.Settings()
		settings.UseClusters = *input.Clusters
		s.applySettings(settings)
	}

	res, err := s.engine.ColdLoad(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	return s.viewResult(ctx, res)
}

func (s *Server) handleLoadMore(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := s.engine.LoadMore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load more entries: %w", err)
	}
	return s.viewResult(ctx, res)
}

func (s *Server) handleSync(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.engine.Snapshot().Phase == feedview.PhaseEmpty {
		if _, err := s.engine.ColdLoad(ctx); err != nil {
			return nil, fmt.Errorf("failed to load entries: %w", err)
		}
	}
	res, err := s.engine.Sync(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sync: %w", err)
	}
	return s.viewResult(ctx, res)
}

func (s *Server) handleGetEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input GetEntryInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if input.EntryID == "" {
		return nil, fmt.Errorf("entry_id is required")
	}

	item, clusterID, err := findEntry(s.engine.Snapshot(), input.EntryID)
	if err != nil {
		return nil, err
	}

	output := GetEntryOutput{
		ItemOutput: itemOutput(item, s.feedNames(ctx)),
		ClusterID:  clusterID,
	}
	if item.Content != "" {
		output.Content = content.ToMarkdown(item.Content)
	}
	return jsonResult(output)
}

func (s *Server) handleUpdateItemStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input UpdateStatusInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	patch, err := input.patch()
	if err != nil {
		return nil, err
	}
	m, err := s.engine.UpdateItemStatus(ctx, input.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	return jsonResult(StatusOutput{Success: true, ID: input.ID, Patched: m.Patched, Message: "Item status updated"})
}

func (s *Server) handleToggleLike(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ToggleLikeInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	value, err := parseLikeValue(input.Value)
	if err != nil {
		return nil, err
	}
	m, err := s.engine.ToggleLike(ctx, input.ID, value)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle like: %w", err)
	}
	return jsonResult(StatusOutput{Success: true, ID: input.ID, Patched: m.Patched, Message: fmt.Sprintf("Pressed %s", input.Value)})
}

func (s *Server) handleUpdateClusterStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input UpdateStatusInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	patch, err := input.patch()
	if err != nil {
		return nil, err
	}
	m, err := s.engine.UpdateClusterStatus(ctx, input.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update cluster: %w", err)
	}
	return jsonResult(StatusOutput{Success: true, ID: input.ID, Patched: m.Patched, Message: "Cluster status updated"})
}

func (s *Server) handleToggleClusterLike(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input ToggleLikeInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	value, err := parseLikeValue(input.Value)
	if err != nil {
		return nil, err
	}
	m, err := s.engine.ToggleClusterLike(ctx, input.ID, value)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle cluster like: %w", err)
	}
	return jsonResult(StatusOutput{Success: true, ID: input.ID, Patched: m.Patched, Message: fmt.Sprintf("Pressed %s on cluster", input.Value)})
}

func (s *Server) handleMarkAllRead(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input MarkAllReadInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	var since time.Time
	if input.Since != nil {
		t, err := timeutil.ParseSince(*input.Since)
		if err != nil {
			return nil, fmt.Errorf("invalid since value: %w", err)
		}
		since = t
	}
	res, err := s.engine.MarkAllRead(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("failed to mark all read: %w", err)
	}
	return s.viewResult(ctx, res)
}

func (s *Server) handleSettings(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var input SettingsInput
	if err := req.BindArguments(&input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	settings := s.engine.Settings()
	changed := false
	if input.FilterPrediction != nil {
		settings.FilterPrediction = *input.FilterPrediction
		changed = true
	}
	if input.FilterPredictionThreshold != nil {
		settings.FilterPredictionThreshold = *input.FilterPredictionThreshold
		changed = true
	}
	if input.UseClusters != nil {
		settings.UseClusters = *input.UseClusters
		changed = true
	}
	if changed {
		s.applySettings(settings)
	}
	return jsonResult(s.engine.Settings())
}

// Helpers

func (s *Server) applySettings(settings config.Settings) {
	s.engine.SetSettings(settings)
	if s.onSettings != nil {
		s.onSettings(s.engine.Settings())
	}
}

func (s *Server) viewResult(ctx context.Context, res feedview.Result) (*mcp.CallToolResult, error) {
	output := buildView(s.engine.Snapshot(), s.feedNames(ctx))
	output.Added = res.Added
	return jsonResult(output)
}

func buildView(snap feedview.Snapshot, names models.FeedNames) ViewOutput {
	output := ViewOutput{
		Scope:      snap.Scope,
		UnreadOnly: snap.UnreadOnly,
		Clustered:  snap.Clustered,
		Phase:      string(snap.Phase),
		HasMore:    snap.HasMore,
		Count:      snap.Len(),
	}
	for _, item := range snap.Items {
		output.Items = append(output.Items, itemOutput(item, names))
	}
	for _, c := range snap.Clusters {
		summary := feedview.Summarize(c, names)
		co := ClusterOutput{
			ID:       c.ID,
			SortDate: c.SortDate,
			Read:     summary.Read,
			Liked:    summary.Liked,
			Disliked: summary.Disliked,
		}
		for _, item := range c.Items {
			co.Items = append(co.Items, itemOutput(item, names))
		}
		output.Clusters = append(output.Clusters, co)
	}
	return output
}

func itemOutput(item *models.Item, names models.FeedNames) ItemOutput {
	out := ItemOutput{
		ID:         item.ID,
		Feed:       names.DisplayName(item),
		Title:      item.Title,
		Link:       item.Link,
		Author:     item.Author,
		Read:       item.IsRead,
		Liked:      int(item.Liked),
		Prediction: item.Prediction,
	}
	if !item.PublishedAt.IsZero() {
		published := item.PublishedAt
		out.PublishedAt = &published
	}
	if text := content.StripHTML(item.Content); text != "" {
		out.Snippet = content.Snippet(text, config.SnippetLength)
	}
	return out
}

// findEntry resolves an id or unique prefix among loaded items and cluster members.
func findEntry(snap feedview.Snapshot, id string) (*models.Item, string, error) {
	type match struct {
		item      *models.Item
		clusterID string
	}
	var matches []match
	consider := func(item *models.Item, clusterID string) bool {
		if item.ID == id {
			matches = []match{{item, clusterID}}
			return true
		}
		if strings.HasPrefix(item.ID, id) {
			matches = append(matches, match{item, clusterID})
		}
		return false
	}
	for _, item := range snap.Items {
		if consider(item, "") {
			return item, "", nil
		}
	}
	for _, c := range snap.Clusters {
		for _, item := range c.Items {
			if consider(item, c.ID) {
				return item, c.ID, nil
			}
		}
	}
	switch len(matches) {
	case 0:
		return nil, "", fmt.Errorf("entry not found in the loaded view: %s", id)
	case 1:
		return matches[0].item, matches[0].clusterID, nil
	default:
		return nil, "", fmt.Errorf("ambiguous entry id prefix %q matches %d entries", id, len(matches))
	}
}

func (in UpdateStatusInput) patch() (models.StatusPatch, error) {
	if in.ID == "" {
		return models.StatusPatch{}, fmt.Errorf("id is required")
	}
	var patch models.StatusPatch
	patch.IsRead = in.IsRead
	if in.Liked != nil {
		l := models.Like(*in.Liked)
		if !l.Valid() {
			return models.StatusPatch{}, fmt.Errorf("liked must be -1, 0 or 1, got %d", *in.Liked)
		}
		patch.Liked = &l
	}
	if patch.Empty() {
		return models.StatusPatch{}, fmt.Errorf("set is_read and/or liked")
	}
	return patch, nil
}

func parseLikeValue(v string) (models.Like, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "like":
		return models.Liked, nil
	case "dislike":
		return models.Disliked, nil
	default:
		return models.Neutral, fmt.Errorf("value must be 'like' or 'dislike', got %q", v)
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal output: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}
