package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"picqer/internal/application/commands"
	"picqer/internal/domain"
)

// RegisterReadTools adds all read-only tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, t *Tools) {
	s.AddTool(getPatternTool(), t.getPatternHandler)
	s.AddTool(listTokensTool(), t.listTokensHandler)
	s.AddTool(listCountersTool(), t.listCountersHandler)
	s.AddTool(listRecordsTool(), t.listRecordsHandler)
	s.AddTool(searchRecordsTool(), t.searchRecordsHandler)
}

// --- get_pattern ---

func getPatternTool() mcp.Tool {
	return mcp.NewTool("get_pattern",
		mcp.WithDescription("Show the current naming pattern, its template and the filename the next save would get. Does not advance counters."),
	)
}

func (t *Tools) getPatternHandler(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.deps.Session
	res := &commands.PatternResult{
		Elements: s.Elements(),
		Template: s.Template(),
		Preview:  s.PreviewFilename(),
		Message:  fmt.Sprintf("directory: %s", s.Directory()),
	}
	return mcp.NewToolResultText(formatPattern(res)), nil
}

// --- list_tokens ---

func listTokensTool() mcp.Tool {
	return mcp.NewTool("list_tokens",
		mcp.WithDescription("List the built-in time tokens that can be added to the pattern."),
	)
}

func (t *Tools) listTokensHandler(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return formatEntities(domain.BuiltinTokens, formatToken)
}

// --- list_counters ---

func listCountersTool() mcp.Tool {
	return mcp.NewTool("list_counters",
		mcp.WithDescription("List counters with their current value, increment and reset value."),
	)
}

func (t *Tools) listCountersHandler(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return formatEntities(t.deps.Session.Counters(), formatCounter)
}

// --- list_records ---

func listRecordsTool() mcp.Tool {
	return mcp.NewTool("list_records",
		mcp.WithDescription("List images saved in the current directory, newest first."),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of records. 0 lists all."),
		),
	)
}

func (t *Tools) listRecordsHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cmd := commands.NewListRecordsCommand(t.deps.Session, req.GetInt("limit", 0))
	cmd.NewestFirst = true
	result, err := cmd.Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return formatEntities(result.Records, formatRecord)
}

// --- search_records ---

func searchRecordsTool() mcp.Tool {
	return mcp.NewTool("search_records",
		mcp.WithDescription("Fuzzy search saved images by filename or directory across every directory saved to."),
		mcp.WithString("query",
			mcp.Description("Search query"),
			mcp.Required(),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results"),
		),
	)
}

func (t *Tools) searchRecordsHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cmd := commands.NewSearchRecordsCommand(t.deps.Session, t.deps.Catalog, req.GetString("query", ""), req.GetInt("limit", 0))
	results, err := cmd.Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return formatEntities(results, formatSearchResult)
}
