package mcp

import "github.com/mark3labs/mcp-go/mcp"

// searchBlocksTool defines the search_blocks MCP tool.
var searchBlocksTool = mcp.NewTool("search_blocks",
	mcp.WithDescription("Search the indexed blocks of a project. Returns matched blocks with their surrounding structure (parent headings, child sections)."),
	mcp.WithString("query",
		mcp.Required(),
		mcp.Description("Free-text search query"),
	),
	mcp.WithString("project",
		mcp.Description("Project name or id; defaults to the current project"),
	),
)

// indexProjectTool defines the index_project MCP tool.
var indexProjectTool = mcp.NewTool("index_project",
	mcp.WithDescription("Index or re-index a project's files into searchable blocks. Replaces any existing index for the project."),
	mcp.WithString("project",
		mcp.Description("Project name or id; defaults to the current project"),
	),
)

// listProjectsTool defines the list_projects MCP tool.
var listProjectsTool = mcp.NewTool("list_projects",
	mcp.WithDescription("List registered projects with their paths and index status."),
)

// projectSummaryTool defines the get_project_summary MCP tool.
var projectSummaryTool = mcp.NewTool("get_project_summary",
	mcp.WithDescription("Get the aggregated AI-generated summary of a project, if one was produced during indexing."),
	mcp.WithString("project",
		mcp.Description("Project name or id; defaults to the current project"),
	),
)
