package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"log/slog"
	"os/exec"

	"github.com/atotto/clipboard"
)

// Clipboard implements ports.Clipboard. Text goes through atotto/clipboard;
// images through an external tool since there is no portable Go API for
// clipboard image data.
type Clipboard struct {
	imageCommand string
	runner       Runner
	lookPath     func(string) (string, error)
	readText     func() (string, error)
	logger       *slog.Logger
}

// NewClipboard creates a clipboard adapter. An empty imageCommand selects a
// platform default.
func NewClipboard(imageCommand string, logger *slog.Logger) *Clipboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Clipboard{
		imageCommand: imageCommand,
		runner:       ExecRunner,
		lookPath:     exec.LookPath,
		readText:     clipboard.ReadAll,
		logger:       logger,
	}
}

// Image returns the clipboard image. No installed tool, a failing tool and
// empty output all mean the clipboard holds no image.
func (c *Clipboard) Image(ctx context.Context) (image.Image, error) {
	args, err := findCommand(c.imageCommand, defaultClipboardCommands(), c.lookPath)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		c.logger.Warn("no clipboard image tool found", "tried", defaultClipboardCommands())
		return nil, nil
	}

	out, err := run(ctx, c.runner, args)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		c.logger.Debug("clipboard holds no image", "command", args[0], "error", err)
		return nil, nil
	}
	if len(out) == 0 {
		return nil, nil
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("failed to decode clipboard image: %w", err)
	}
	return img, nil
}

// Text returns the clipboard text
func (c *Clipboard) Text() (string, error) {
	text, err := c.readText()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard text: %w", err)
	}
	return text, nil
}

// CopyText places text on the clipboard
func (c *Clipboard) CopyText(text string) error {
	return clipboard.WriteAll(text)
}
