package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ziadkadry99/agentic/internal/store"
)

// handleSearchCodebase performs semantic search over the chunk store.
func (s *Server) handleSearchCodebase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: query"), nil
	}

	limit := request.GetInt("limit", 0)
	repository := request.GetString("repository", "")

	results, err := s.retriever.Retrieve(ctx, query, limit, repository)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No results found. The codebase may not be indexed yet. Run `agentic ingest` to index it."), nil
	}

	return mcp.NewToolResultText(formatSearchResults(results)), nil
}

// handleIndexStats reports the current state of the index.
func (s *Server) handleIndexStats(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("stats failed: %v", err)), nil
	}

	return mcp.NewToolResultText(formatStats(stats)), nil
}

// formatSearchResults converts search results into a text format optimized
// for AI agent consumption.
func formatSearchResults(results []store.Result) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d result(s):\n", len(results)))

	for i, r := range results {
		sb.WriteString(fmt.Sprintf("\n--- Result %d ---\n", i+1))
		sb.WriteString(fmt.Sprintf("File: %s\n", r.FilePath))
		sb.WriteString(fmt.Sprintf("Distance: %.4f\n", r.Distance))
		sb.WriteString("\n")
		sb.WriteString(r.Text)
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatStats renders index statistics as readable text.
func formatStats(stats *store.Stats) string {
	var sb strings.Builder
	sb.WriteString("Code index statistics:\n")
	sb.WriteString(fmt.Sprintf("  Total chunks: %d\n", stats.TotalChunks))
	sb.WriteString(fmt.Sprintf("  Repositories: %d\n", stats.Repositories))
	sb.WriteString(fmt.Sprintf("  Files: %d\n", stats.Files))
	if stats.TotalChunks > 0 {
		sb.WriteString(fmt.Sprintf("  Chunk length (min/avg/max): %d / %.0f / %d\n",
			stats.MinChunkLen, stats.AvgChunkLen, stats.MaxChunkLen))
	}
	if len(stats.PerRepository) > 0 {
		sb.WriteString("  Per repository:\n")
		for _, r := range stats.PerRepository {
			sb.WriteString(fmt.Sprintf("    %s: %d chunks\n", r.Repository, r.Chunks))
		}
	}
	return sb.String()
}
