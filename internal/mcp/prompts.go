// ABOUTME: MCP prompt templates for newsense
// ABOUTME: Guides agents through triaging the feed view with the available tools

package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.registerTriagePrompt()
}

func (s *Server) registerTriagePrompt() {
	s.mcpServer.AddPrompt(
		mcp.Prompt{
			Name:        "triage",
			Description: "Work through unread entries: summarize, like what matters, dislike noise, and mark the rest read",
			Arguments: []mcp.PromptArgument{
				{
					Name:        "scope",
					Description: "Feed id to triage, or 'all' (default: all)",
					Required:    false,
				},
			},
		},
		s.handleTriage,
	)
}

func (s *Server) handleTriage(_ context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	scope := "all"
	if req.Params.Arguments != nil {
		if v, ok := req.Params.Arguments["scope"]; ok && v != "" {
			scope = v
		}
	}

	template := fmt.Sprintf(`# Triage unread entries

## Steps
1. Call list_entries with scope=%q and unread_only=true. Set clusters=true to see near-duplicate stories once.
2. Skim titles, feeds and snippets. Call get_entry for anything that needs the full text.
3. Call toggle_like with value "like" for entries worth keeping and "dislike" for noise. Both mark the entry read.
   For clusters use toggle_cluster_like, which applies to every source of the story.
4. While has_more is true and you want to keep going, call load_more.
5. When done, call mark_all_read to clear what is left, or update_item_status to mark single entries read.

## Output
Summarize the important stories in a few bullets, each with its feed name and link.
`, scope)

	return &mcp.GetPromptResult{
		Description: "Triage workflow for unread entries",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: template,
				},
			},
		},
	}, nil
}
