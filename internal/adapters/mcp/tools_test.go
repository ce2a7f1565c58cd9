package mcp

import (
	"context"
	"image"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"picqer/internal/adapters/filesystem"
	"picqer/internal/application"
)

type stubClipboard struct {
	img image.Image
}

func (s *stubClipboard) Image(ctx context.Context) (image.Image, error) { return s.img, nil }
func (s *stubClipboard) Text() (string, error)                          { return "", nil }

type stubScreen struct{}

func (stubScreen) Grab(ctx context.Context) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func newTestTools(t *testing.T) (*Tools, string) {
	t.Helper()
	dir := t.TempDir()
	files := filesystem.NewImageFiles()
	s := application.NewSession(filesystem.NewIndexStore(), files, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.SetClock(func() time.Time { return time.Date(2024, 1, 15, 14, 30, 25, 0, time.UTC) })
	if err := s.LoadForDirectory(dir); err != nil {
		t.Fatalf("LoadForDirectory failed: %v", err)
	}
	return NewTools(Deps{
		Session:   s,
		Files:     files,
		Clipboard: &stubClipboard{img: image.NewRGBA(image.Rect(0, 0, 2, 2))},
		Screen:    stubScreen{},
	}), dir
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

func TestGetPattern(t *testing.T) {
	tools, _ := newTestTools(t)

	res, err := tools.getPatternHandler(context.Background(), call(nil))
	if err != nil {
		t.Fatalf("handler failed: %v", err)
	}
	text := resultText(t, res)
	if !strings.Contains(text, "2024-01-1514-30-251.png") {
		t.Errorf("preview missing from %q", text)
	}
}

func TestWriteTools_PersistAndSave(t *testing.T) {
	tools, dir := newTestTools(t)
	ctx := context.Background()

	res, err := tools.setTemplateHandler(ctx, call(map[string]any{"template": "shot_{counter}"}))
	if err != nil || res.IsError {
		t.Fatalf("set_template failed: %v %s", err, resultText(t, res))
	}

	res, err = tools.pasteHandler(ctx, call(nil))
	if err != nil || res.IsError {
		t.Fatalf("paste failed: %v %s", err, resultText(t, res))
	}
	if text := resultText(t, res); !strings.Contains(text, "Saved: shot_1.png") {
		t.Errorf("unexpected paste result %q", text)
	}

	res, err = tools.screenshotHandler(ctx, call(map[string]any{"delay_ms": 0}))
	if err != nil || res.IsError {
		t.Fatalf("screenshot failed: %v %s", err, resultText(t, res))
	}
	if text := resultText(t, res); !strings.Contains(text, filepath.Join(dir, "shot_2.png")) {
		t.Errorf("unexpected screenshot result %q", text)
	}

	store := filesystem.NewIndexStore()
	doc, err := store.Load(dir)
	if err != nil || doc == nil {
		t.Fatalf("index not written: %v", err)
	}
	if doc.NamingPattern != "shot_{counter}" {
		t.Errorf("unexpected persisted pattern %q", doc.NamingPattern)
	}
	if len(doc.Screenshots) != 2 {
		t.Errorf("expected 2 records, got %d", len(doc.Screenshots))
	}
}

func TestWriteTools_Errors(t *testing.T) {
	tools, _ := newTestTools(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		args    map[string]any
		wantMsg string
	}{
		{
			name:    "delete default counter",
			handler: tools.deleteCounterHandler,
			args:    map[string]any{"name": "counter"},
			wantMsg: "cannot be deleted",
		},
		{
			name:    "unknown counter element",
			handler: tools.addElementHandler,
			args:    map[string]any{"kind": "counter", "value": "page"},
			wantMsg: "unknown counter",
		},
		{
			name:    "malformed template",
			handler: tools.setTemplateHandler,
			args:    map[string]any{"template": "{date"},
			wantMsg: "malformed",
		},
		{
			name:    "missing file",
			handler: tools.saveFileHandler,
			args:    map[string]any{"path": "/definitely/not/here.png"},
			wantMsg: "not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := tt.handler(ctx, call(tt.args))
			if err != nil {
				t.Fatalf("tool errors must be results, got %v", err)
			}
			if !res.IsError {
				t.Fatal("expected error result")
			}
			if text := resultText(t, res); !strings.Contains(text, tt.wantMsg) {
				t.Errorf("expected %q in %q", tt.wantMsg, text)
			}
		})
	}
}

func TestCounterTools(t *testing.T) {
	tools, _ := newTestTools(t)
	ctx := context.Background()

	res, err := tools.createCounterHandler(ctx, call(map[string]any{"name": "page", "start": 10, "increment": 5}))
	if err != nil || res.IsError {
		t.Fatalf("create_counter failed: %v %s", err, resultText(t, res))
	}

	res, err = tools.listCountersHandler(ctx, call(nil))
	if err != nil {
		t.Fatalf("list_counters failed: %v", err)
	}
	if text := resultText(t, res); !strings.Contains(text, "page  value=10  increment=5") {
		t.Errorf("unexpected counters %q", text)
	}
}
