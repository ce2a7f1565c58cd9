package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/kballard/go-shellquote"
)

// FilePlaceholder in a capture command is replaced by a temp file path for
// tools that cannot write to stdout. The image is read from that file.
const FilePlaceholder = "{file}"

// Runner executes a command and returns its stdout
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs the command with os/exec. Stderr is attached to the
// returned error.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return out, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return out, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// ParseCommand splits a shell-style command line
func ParseCommand(command string) ([]string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, nil
	}
	args, err := shellquote.Split(command)
	if err != nil {
		return nil, fmt.Errorf("invalid capture command %q: %w", command, err)
	}
	return args, nil
}

// findCommand returns the configured command, or the first default whose
// executable is installed
func findCommand(configured string, defaults []string, lookPath func(string) (string, error)) ([]string, error) {
	if strings.TrimSpace(configured) != "" {
		return ParseCommand(configured)
	}
	for _, candidate := range defaults {
		args, err := ParseCommand(candidate)
		if err != nil || len(args) == 0 {
			continue
		}
		if _, err := lookPath(args[0]); err == nil {
			return args, nil
		}
	}
	return nil, nil
}

// run executes args, substituting FilePlaceholder if present
func run(ctx context.Context, runner Runner, args []string) ([]byte, error) {
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}

	placeholder := -1
	for i, a := range args {
		if a == FilePlaceholder {
			placeholder = i
			break
		}
	}
	if placeholder < 0 {
		return runner(ctx, args[0], args[1:]...)
	}

	dir, err := os.MkdirTemp("", "picqer-capture-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "capture.png")
	withFile := append([]string(nil), args...)
	withFile[placeholder] = path
	if _, err := runner(ctx, withFile[0], withFile[1:]...); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read capture output: %w", err)
	}
	return data, nil
}

func isWayland() bool {
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

// defaultClipboardCommands lists clipboard image readers per platform
func defaultClipboardCommands() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"pngpaste -"}
	case "linux", "freebsd", "openbsd":
		wl := "wl-paste --no-newline --type image/png"
		x := "xclip -selection clipboard -target image/png -out"
		if isWayland() {
			return []string{wl, x}
		}
		return []string{x, wl}
	default:
		return nil
	}
}

// defaultScreenCommands lists full-screen grabbers per platform
func defaultScreenCommands() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"screencapture -x -t png " + FilePlaceholder}
	case "linux", "freebsd", "openbsd":
		grim := "grim -"
		imagemagick := "import -window root png:-"
		if isWayland() {
			return []string{grim, "gnome-screenshot -f " + FilePlaceholder, imagemagick}
		}
		return []string{imagemagick, "scrot -o " + FilePlaceholder, grim}
	default:
		return nil
	}
}
