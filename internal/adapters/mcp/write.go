package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"picqer/internal/application/commands"
)

// RegisterWriteTools adds all tools that change state or save images.
// Pattern and counter edits are persisted immediately.
func RegisterWriteTools(s *server.MCPServer, t *Tools) {
	s.AddTool(setDirectoryTool(), t.setDirectoryHandler)
	s.AddTool(addElementTool(), t.addElementHandler)
	s.AddTool(undoElementTool(), t.undoElementHandler)
	s.AddTool(clearPatternTool(), t.clearPatternHandler)
	s.AddTool(resetPatternTool(), t.resetPatternHandler)
	s.AddTool(setTemplateTool(), t.setTemplateHandler)
	s.AddTool(createCounterTool(), t.createCounterHandler)
	s.AddTool(resetCounterTool(), t.resetCounterHandler)
	s.AddTool(deleteCounterTool(), t.deleteCounterHandler)
	s.AddTool(pasteTool(), t.pasteHandler)
	s.AddTool(screenshotTool(), t.screenshotHandler)
	s.AddTool(saveFileTool(), t.saveFileHandler)
}

// --- set_directory ---

func setDirectoryTool() mcp.Tool {
	return mcp.NewTool("set_directory",
		mcp.WithDescription("Switch the save directory. Loads that directory's pattern, counters and records."),
		mcp.WithString("path",
			mcp.Description("Directory to save images into"),
			mcp.Required(),
		),
	)
}

func (t *Tools) setDirectoryHandler(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.deps.Session
	if err := s.LoadForDirectory(req.GetString("path", "")); err != nil {
		return toolError(err)
	}
	msg := fmt.Sprintf("Using %s (%d records)", s.Directory(), len(s.Records()))
	if warn := s.LoadWarning(); warn != nil {
		msg += fmt.Sprintf("\nwarning: %v; starting from defaults", warn)
	}
	return mcp.NewToolResultText(msg), nil
}

// --- add_element ---

func addElementTool() mcp.Tool {
	return mcp.NewTool("add_element",
		mcp.WithDescription("Append an element to the naming pattern."),
		mcp.WithString("kind",
			mcp.Description("Element kind"),
			mcp.Enum("token", "counter", "literal", "space"),
			mcp.Required(),
		),
		mcp.WithString("value",
			mcp.Description("Token or counter name, or the literal text. Ignored for space."),
		),
	)
}

func (t *Tools) addElementHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cmd := commands.NewAddElementCommand(t.deps.Session, req.GetString("kind", ""), req.GetString("value", ""))
	cmd.Persist = true
	return patternResult(cmd.Execute(ctx))
}

// --- undo_element ---

func undoElementTool() mcp.Tool {
	return mcp.NewTool("undo_element",
		mcp.WithDescription("Remove the last element of the naming pattern."),
	)
}

func (t *Tools) undoElementHandler(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cmd := commands.NewUndoElementCommand(t.deps.Session)
	cmd.Persist = true
	return patternResult(cmd.Execute(ctx))
}

// --- clear_pattern ---

func clearPatternTool() mcp.Tool {
	return mcp.NewTool("clear_pattern",
		mcp.WithDescription("Remove every element of the naming pattern."),
	)
}

func (t *Tools) clearPatternHandler(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cmd := commands.NewClearPatternCommand(t.deps.Session)
	cmd.Persist = true
	return patternResult(cmd.Execute(ctx))
}

// --- reset_pattern ---

func resetPatternTool() mcp.Tool {
	return mcp.NewTool("reset_pattern",
		mcp.WithDescription("Restore the default pattern {date}{time}{counter}."),
	)
}

func (t *Tools) resetPatternHandler(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cmd := commands.NewResetPatternCommand(t.deps.Session)
	cmd.Persist = true
	return patternResult(cmd.Execute(ctx))
}

// --- set_template ---

func setTemplateTool() mcp.Tool {
	return mcp.NewTool("set_template",
		mcp.WithDescription("Replace the naming pattern with a template such as shot_{date}_{counter}. Use {{ and }} for literal braces."),
		mcp.WithString("template",
			mcp.Description("Template text"),
			mcp.Required(),
		),
	)
}

func (t *Tools) setTemplateHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cmd := commands.NewSetTemplateCommand(t.deps.Session, req.GetString("template", ""))
	cmd.Persist = true
	return patternResult(cmd.Execute(ctx))
}

// --- create_counter ---

func createCounterTool() mcp.Tool {
	return mcp.NewTool("create_counter",
		mcp.WithDescription("Create a named counter usable as {name} in the pattern."),
		mcp.WithString("name",
			mcp.Description("Counter name"),
			mcp.Required(),
		),
		mcp.WithNumber("start",
			mcp.Description("First value (default 1)"),
		),
		mcp.WithNumber("increment",
			mcp.Description("Step added after each save (default 1)"),
		),
		mcp.WithBoolean("overwrite",
			mcp.Description("Replace an existing counter of the same name"),
		),
	)
}

func (t *Tools) createCounterHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cmd := commands.NewCreateCounterCommand(t.deps.Session,
		req.GetString("name", ""),
		req.GetInt("start", 1),
		req.GetInt("increment", 1),
	)
	cmd.Overwrite = req.GetBool("overwrite", false)
	cmd.Persist = true

	result, err := cmd.Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(result.Message), nil
}

// --- reset_counter ---

func resetCounterTool() mcp.Tool {
	return mcp.NewTool("reset_counter",
		mcp.WithDescription("Reset a counter to the value it was created with."),
		mcp.WithString("name",
			mcp.Description("Counter name"),
			mcp.Required(),
		),
	)
}

func (t *Tools) resetCounterHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cmd := commands.NewResetCounterCommand(t.deps.Session, req.GetString("name", ""))
	cmd.Persist = true
	result, err := cmd.Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(result.Message), nil
}

// --- delete_counter ---

func deleteCounterTool() mcp.Tool {
	return mcp.NewTool("delete_counter",
		mcp.WithDescription("Delete a counter. The default counter cannot be deleted."),
		mcp.WithString("name",
			mcp.Description("Counter name"),
			mcp.Required(),
		),
	)
}

func (t *Tools) deleteCounterHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cmd := commands.NewDeleteCounterCommand(t.deps.Session, req.GetString("name", ""))
	cmd.Persist = true
	result, err := cmd.Execute(ctx)
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(result.Message), nil
}

// --- paste ---

func pasteTool() mcp.Tool {
	return mcp.NewTool("paste",
		mcp.WithDescription("Save the clipboard image, or the image file whose path is on the clipboard, under the naming pattern."),
	)
}

func (t *Tools) pasteHandler(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cmd := commands.NewPasteCommand(t.deps.Session, t.deps.Clipboard, t.deps.Files)
	return saveResult(cmd.Execute(ctx))
}

// --- screenshot ---

func screenshotTool() mcp.Tool {
	return mcp.NewTool("screenshot",
		mcp.WithDescription("Capture the whole screen and save it under the naming pattern."),
		mcp.WithNumber("delay_ms",
			mcp.Description("Wait this long before capturing. Defaults to the configured delay."),
		),
	)
}

func (t *Tools) screenshotHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delay := t.deps.ScreenDelay
	if ms := req.GetInt("delay_ms", -1); ms >= 0 {
		delay = time.Duration(ms) * time.Millisecond
	}
	cmd := commands.NewScreenshotCommand(t.deps.Session, t.deps.Screen, delay)
	return saveResult(cmd.Execute(ctx))
}

// --- save_file ---

func saveFileTool() mcp.Tool {
	return mcp.NewTool("save_file",
		mcp.WithDescription("Save an existing image file (png, jpeg, gif, bmp, webp) as PNG under the naming pattern."),
		mcp.WithString("path",
			mcp.Description("Path of the image to import"),
			mcp.Required(),
		),
	)
}

func (t *Tools) saveFileHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	cmd := commands.NewSaveFileCommand(t.deps.Session, t.deps.Files, req.GetString("path", ""))
	return saveResult(cmd.Execute(ctx))
}

// --- results ---

func patternResult(res *commands.PatternResult, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(formatPattern(res)), nil
}

func saveResult(res *commands.SaveResult, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return toolError(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s\n%s (%s, from %s)", res.Message, res.Record.Filepath, formatSize(res.Record.Size), res.Source)), nil
}
