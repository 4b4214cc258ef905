package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/blockdex/internal/block"
	"github.com/ziadkadry99/blockdex/internal/indexer"
	"github.com/ziadkadry99/blockdex/internal/search"
	"github.com/ziadkadry99/blockdex/internal/store"
)

// resolveProject returns the named project, or the current one when the
// request does not name any.
func (s *Server) resolveProject(request mcp.CallToolRequest) (*block.Project, error) {
	if name := request.GetString("project", ""); name != "" {
		return s.projects.Resolve(name)
	}
	return s.projects.Current()
}

// handleSearchBlocks runs a block search for an agent query.
func (s *Server) handleSearchBlocks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	p, err := s.resolveProject(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	resp, err := s.engine.SearchProject(p, query)
	if err != nil {
		if errors.Is(err, search.ErrProjectNotIndexed) {
			return mcp.NewToolResultText("The project is not indexed yet. Call index_project first."), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(resp.Results) == 0 {
		return mcp.NewToolResultText("No results found."), nil
	}

	return mcp.NewToolResultText(formatResults(resp)), nil
}

// handleIndexProject runs a full indexing pass.
func (s *Server) handleIndexProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := s.resolveProject(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.indexer.IndexProject(ctx, p.ID, indexer.Options{})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("indexing failed: %v", err)), nil
	}

	msg := fmt.Sprintf("Indexed %q: %d files, %d blocks in %s.",
		p.Name, res.FilesIndexed, res.BlocksIndexed, res.Duration.Round(1e6))
	if len(res.Errors) > 0 {
		msg += fmt.Sprintf(" %d file(s) failed.", len(res.Errors))
	}
	return mcp.NewToolResultText(msg), nil
}

// handleListProjects lists registered projects and their index status.
func (s *Server) handleListProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	projects, err := s.projects.List()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing projects: %v", err)), nil
	}
	if len(projects) == 0 {
		return mcp.NewToolResultText("No projects registered. Run `blockdex init` in a project directory."), nil
	}

	var sb strings.Builder
	for _, p := range projects {
		status := "not indexed"
		if p.Indexed {
			status = "indexed"
			if p.HasSummaries {
				status += ", with summaries"
			}
		}
		fmt.Fprintf(&sb, "- %s (%s) — %s [%s]\n", p.Name, p.ID, p.Path, status)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// handleProjectSummary returns the aggregated project summary.
func (s *Server) handleProjectSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := s.resolveProject(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var summary string
	if err := s.store.Get(store.OverallSummaryKey(p.ID), &summary); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return mcp.NewToolResultText(fmt.Sprintf(
				"No summary for %q. Re-index with summaries enabled to generate one.", p.Name)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("loading summary: %v", err)), nil
	}
	return mcp.NewToolResultText(summary), nil
}

// formatResults converts a search response into plain text optimized
// for AI agent consumption.
func formatResults(resp *search.Response) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s for %q: %d document(s)\n", resp.Label, resp.Query, len(resp.Results))

	for i, r := range resp.Results {
		fmt.Fprintf(&sb, "\n--- Document %d: %s (score %.1f) ---\n", i+1, r.Document, r.Score)
		for _, b := range r.Blocks {
			fmt.Fprintf(&sb, "\n[%s] lines %d-%d", b.Type, b.StartLine, b.EndLine)
			if b.Title != "" {
				fmt.Fprintf(&sb, " — %s", b.Title)
			}
			sb.WriteString("\n")
			if b.Summary != "" {
				fmt.Fprintf(&sb, "Summary: %s\n", b.Summary)
			}
			content := b.Content
			if len(content) > 1000 {
				content = content[:1000] + "…"
			}
			if content != "" {
				sb.WriteString(content)
				sb.WriteString("\n")
			}
		}
	}
	return sb.String()
}
