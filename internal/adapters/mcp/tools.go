package mcp

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"picqer/internal/application"
	"picqer/internal/application/commands"
	"picqer/internal/domain"
	"picqer/internal/ports"
)

// Deps are the collaborators the tools operate on. Catalog may be nil.
type Deps struct {
	Session     *application.Session
	Files       ports.ImageFiles
	Clipboard   ports.Clipboard
	Screen      ports.ScreenGrabber
	Catalog     ports.RecordCatalog
	ScreenDelay time.Duration
}

// Tools serializes tool calls on the shared session; the server may run
// handlers concurrently.
type Tools struct {
	mu   sync.Mutex
	deps Deps
}

// NewTools creates the tool set over deps
func NewTools(deps Deps) *Tools {
	return &Tools{deps: deps}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatRecord(r domain.Record) string {
	return fmt.Sprintf("%s  %s  %s  %s", r.Created.Local().Format("2006-01-02 15:04:05"), formatSize(r.Size), r.Filename, r.Filepath)
}

func formatSearchResult(r commands.SearchResult) string {
	return formatRecord(r.Record)
}

func formatCounter(c domain.Counter) string {
	return fmt.Sprintf("%s  value=%d  increment=%d  start=%d", c.Name, c.Value, c.Increment, c.ResetValue())
}

func formatToken(t domain.TokenSpec) string {
	return fmt.Sprintf("{%s}  %s  e.g. %s", t.Name, t.Label, t.Example)
}

func formatPattern(res *commands.PatternResult) string {
	var sb strings.Builder
	if res.Message != "" {
		fmt.Fprintf(&sb, "%s\n", res.Message)
	}
	fmt.Fprintf(&sb, "template: %s\n", res.Template)
	fmt.Fprintf(&sb, "preview:  %s\n", res.Preview)
	parts := make([]string, len(res.Elements))
	for i, e := range res.Elements {
		parts[i] = e.String()
	}
	fmt.Fprintf(&sb, "elements: %s\n", strings.Join(parts, " "))
	return sb.String()
}

func formatSize(size int64) string {
	return fmt.Sprintf("%.2f MB", float64(size)/1024/1024)
}
