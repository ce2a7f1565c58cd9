package capture

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"os/exec"

	"picqer/internal/application"
)

// Screen implements ports.ScreenGrabber with an external capture tool
type Screen struct {
	command  string
	runner   Runner
	lookPath func(string) (string, error)
	logger   *slog.Logger
}

// NewScreen creates a screen grabber. An empty command selects a platform default.
func NewScreen(command string, logger *slog.Logger) *Screen {
	if logger == nil {
		logger = slog.Default()
	}
	return &Screen{
		command:  command,
		runner:   ExecRunner,
		lookPath: exec.LookPath,
		logger:   logger,
	}
}

// Grab captures the whole screen
func (s *Screen) Grab(ctx context.Context) (image.Image, error) {
	args, err := findCommand(s.command, defaultScreenCommands(), s.lookPath)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, &application.CaptureUnavailableError{
			Source: "screen",
			Reason: "no screen capture tool found; set capture.screen_command",
		}
	}

	s.logger.Debug("grabbing screen", "command", args[0])
	out, err := run(ctx, s.runner, args)
	if err != nil {
		return nil, fmt.Errorf("screen capture failed: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("failed to decode screen capture: %w", err)
	}
	return img, nil
}
