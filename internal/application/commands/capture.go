package commands

import (
	"context"
	"errors"
	"fmt"
	"image"
	"net/url"
	"strings"
	"time"

	"picqer/internal/application"
	"picqer/internal/domain"
	"picqer/internal/ports"
)

// Capture sources reported in SaveResult
const (
	SourceClipboardImage = "clipboard image"
	SourceClipboardPath  = "clipboard path"
	SourceScreen         = "screen"
	SourceFile           = "file"
)

// SaveResult contains the result of saving an image
type SaveResult struct {
	Record  *domain.Record
	Source  string
	Message string
}

// Captured is an image acquired from a capture source but not yet saved
type Captured struct {
	Image  image.Image
	Source string
}

// SaveCaptured commits a captured image under the naming pattern
func SaveCaptured(ctx context.Context, s *application.Session, c *Captured) (*SaveResult, error) {
	record, err := s.CommitSave(ctx, c.Image)
	if err != nil {
		return nil, err
	}
	return &SaveResult{
		Record:  record,
		Source:  c.Source,
		Message: fmt.Sprintf("Saved: %s", record.Filename),
	}, nil
}

// PasteCommand saves the clipboard image. When the clipboard holds no image
// but its text names an image file, that file is saved instead.
type PasteCommand struct {
	session   *application.Session
	clipboard ports.Clipboard
	files     ports.ImageFiles
}

// NewPasteCommand creates a new PasteCommand
func NewPasteCommand(session *application.Session, clipboard ports.Clipboard, files ports.ImageFiles) *PasteCommand {
	return &PasteCommand{
		session:   session,
		clipboard: clipboard,
		files:     files,
	}
}

// Execute runs the paste command
func (c *PasteCommand) Execute(ctx context.Context) (*SaveResult, error) {
	captured, err := ReadClipboard(ctx, c.clipboard, c.files)
	if err != nil {
		return nil, err
	}
	return SaveCaptured(ctx, c.session, captured)
}

// ReadClipboard acquires the image a paste would save without saving it.
// The TUI runs it off the update loop and commits the result on it.
func ReadClipboard(ctx context.Context, clipboard ports.Clipboard, files ports.ImageFiles) (*Captured, error) {
	img, err := clipboard.Image(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read clipboard image: %w", err)
	}
	if img != nil {
		return &Captured{Image: img, Source: SourceClipboardImage}, nil
	}

	text, err := clipboard.Text()
	if err != nil {
		return nil, &application.CaptureUnavailableError{
			Source: "clipboard",
			Reason: fmt.Sprintf("no image and clipboard text unreadable: %v", err),
		}
	}
	path := ClipboardPath(text)
	if path == "" {
		return nil, &application.CaptureUnavailableError{Source: "clipboard", Reason: "no image or file path"}
	}
	if !files.Exists(path) {
		return nil, &application.CaptureUnavailableError{
			Source: "clipboard",
			Reason: fmt.Sprintf("%s is not an existing file", path),
		}
	}

	img, err = files.Open(path)
	if err != nil {
		return nil, &application.CaptureUnavailableError{
			Source: "clipboard",
			Reason: fmt.Sprintf("%s is not a readable image: %v", path, err),
		}
	}
	return &Captured{Image: img, Source: SourceClipboardPath}, nil
}

// ClipboardPath extracts a single file path from clipboard text. File
// managers often copy paths quoted or as file:// URLs. Multi-line text is
// not treated as a path.
func ClipboardPath(text string) string {
	text = strings.TrimSpace(text)
	if text == "" || strings.ContainsAny(text, "\r\n") {
		return ""
	}
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'') && text[len(text)-1] == text[0] {
		text = text[1 : len(text)-1]
	}
	if strings.HasPrefix(text, "file://") {
		u, err := url.Parse(text)
		if err != nil {
			return ""
		}
		return u.Path
	}
	return text
}

// DefaultScreenDelay gives the terminal time to get out of the way before the grab
const DefaultScreenDelay = 500 * time.Millisecond

// ScreenshotCommand waits for the settle delay, grabs the screen and saves it
type ScreenshotCommand struct {
	session *application.Session
	grabber ports.ScreenGrabber
	Delay   time.Duration
}

// NewScreenshotCommand creates a new ScreenshotCommand
func NewScreenshotCommand(session *application.Session, grabber ports.ScreenGrabber, delay time.Duration) *ScreenshotCommand {
	return &ScreenshotCommand{
		session: session,
		grabber: grabber,
		Delay:   delay,
	}
}

// Validate checks if the screenshot operation is valid
func (c *ScreenshotCommand) Validate() error {
	if c.Delay < 0 {
		return &application.ValidationError{
			Field:   "delay",
			Message: fmt.Sprintf("delay must not be negative, got: %s", c.Delay),
		}
	}
	return nil
}

// Execute runs the screenshot command. Cancelling ctx during the delay aborts
// without grabbing.
func (c *ScreenshotCommand) Execute(ctx context.Context) (*SaveResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	if c.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.Delay):
		}
	}

	captured, err := GrabScreen(ctx, c.grabber)
	if err != nil {
		return nil, err
	}
	return SaveCaptured(ctx, c.session, captured)
}

// GrabScreen captures the screen without saving it. The TUI calls it after
// running its own settle timer.
func GrabScreen(ctx context.Context, grabber ports.ScreenGrabber) (*Captured, error) {
	img, err := grabber.Grab(ctx)
	if err != nil {
		var unavailable *application.CaptureUnavailableError
		if errors.As(err, &unavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to grab screen: %w", err)
	}
	if img == nil {
		return nil, &application.CaptureUnavailableError{Source: "screen", Reason: "grabber returned no image"}
	}
	return &Captured{Image: img, Source: SourceScreen}, nil
}

// SaveFileCommand saves an existing image file under the naming pattern
type SaveFileCommand struct {
	session *application.Session
	files   ports.ImageFiles
	Path    string
}

// NewSaveFileCommand creates a new SaveFileCommand
func NewSaveFileCommand(session *application.Session, files ports.ImageFiles, path string) *SaveFileCommand {
	return &SaveFileCommand{
		session: session,
		files:   files,
		Path:    path,
	}
}

// Validate checks if the save operation is valid
func (c *SaveFileCommand) Validate() error {
	if err := application.ValidateRequired("imagePath", c.Path); err != nil {
		return err
	}
	if !c.files.Exists(c.Path) {
		return fmt.Errorf("%w: %s", application.ErrNotFound, c.Path)
	}
	return nil
}

// Execute runs the save file command
func (c *SaveFileCommand) Execute(ctx context.Context) (*SaveResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	img, err := c.files.Open(c.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", c.Path, err)
	}
	return SaveCaptured(ctx, c.session, &Captured{Image: img, Source: SourceFile})
}
