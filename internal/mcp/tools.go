package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchCodebaseTool defines the search_codebase MCP tool.
var searchCodebaseTool = mcp.NewTool("search_codebase",
	mcp.WithDescription("Search the indexed codebase semantically. Returns the most relevant source chunks with their file paths."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Natural language search query"),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of results to return (default 5)"),
	),
	mcp.WithString("repository",
		mcp.Description("Restrict the search to one indexed repository"),
	),
)

// indexStatsTool defines the index_stats MCP tool.
var indexStatsTool = mcp.NewTool("index_stats",
	mcp.WithDescription("Get statistics about the code index: chunk counts, indexed repositories, and chunk sizes."),
)
