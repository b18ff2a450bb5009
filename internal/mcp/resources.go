// ABOUTME: MCP resource providers for newsense
// ABOUTME: Exposes read-only views of subscribed feeds and the loaded feed view

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// ResourceData is the standard response format for all resources.
type ResourceData struct {
	Metadata ResourceMetadata  `json:"metadata"`
	Data     interface{}       `json:"data"`
	Links    map[string]string `json:"links"`
}

// ResourceMetadata contains metadata about the resource response.
type ResourceMetadata struct {
	Timestamp   time.Time      `json:"timestamp"`
	Count       int            `json:"count"`
	ResourceURI string         `json:"resource_uri"`
	Filters     map[string]any `json:"filters,omitempty"`
}

func (s *Server) registerResources() {
	s.registerFeedsResource()
	s.registerViewResource()
}

func (s *Server) registerFeedsResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         "newsense://feeds",
			Name:        "Subscribed Feeds",
			Description: "List subscribed feeds with id, title, URL and unread count. Feed ids are valid scopes for list_entries.",
			MIMEType:    "application/json",
		},
		s.handleFeedsResource,
	)
}

func (s *Server) handleFeedsResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if s.directory == nil {
		return nil, fmt.Errorf("feed directory not configured")
	}
	feeds, err := s.directory.ListSubscribedFeeds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list feeds: %w", err)
	}

	feedOutputs := make([]map[string]interface{}, 0, len(feeds))
	for _, feed := range feeds {
		output := map[string]interface{}{
			"id":    feed.ID,
			"url":   feed.URL,
			"title": feed.DisplayTitle(),
		}
		if feed.UnreadCount != nil {
			output["unread_count"] = *feed.UnreadCount
		}
		feedOutputs = append(feedOutputs, output)
	}

	return resourceJSON(request.Params.URI, ResourceData{
		Metadata: ResourceMetadata{
			Timestamp:   time.Now(),
			Count:       len(feedOutputs),
			ResourceURI: request.Params.URI,
		},
		Data: feedOutputs,
		Links: map[string]string{
			"view": "newsense://view",
		},
	})
}

func (s *Server) registerViewResource() {
	s.mcpServer.AddResource(
		mcp.Resource{
			URI:         "newsense://view",
			Name:        "Current View",
			Description: "The entries currently loaded, with scope, clustering and pagination state. Does not fetch; use list_entries, load_more or sync to change it.",
			MIMEType:    "application/json",
		},
		s.handleViewResource,
	)
}

func (s *Server) handleViewResource(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	snap := s.engine.Snapshot()
	view := buildView(snap, s.feedNames(ctx))

	return resourceJSON(request.Params.URI, ResourceData{
		Metadata: ResourceMetadata{
			Timestamp:   time.Now(),
			Count:       view.Count,
			ResourceURI: request.Params.URI,
			Filters: map[string]any{
				"scope":       snap.Scope,
				"unread_only": snap.UnreadOnly,
				"clustered":   snap.Clustered,
			},
		},
		Data: view,
		Links: map[string]string{
			"feeds": "newsense://feeds",
		},
	})
}

func resourceJSON(uri string, data ResourceData) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal resource: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
