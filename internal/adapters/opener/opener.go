package opener

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Opener implements ports.FolderOpener with the platform file manager
type Opener struct {
	goos string
}

// NewOpener creates a new folder opener for the running platform
func NewOpener() *Opener {
	return &Opener{goos: runtime.GOOS}
}

// OpenFolder shows dir in the file manager. The command is started and
// not waited for.
func (o *Opener) OpenFolder(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("cannot open folder: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("cannot open folder: %s is not a directory", dir)
	}

	cmd, err := o.Command(dir)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start file manager: %w", err)
	}
	go cmd.Wait()
	return nil
}

// Command returns the exec.Cmd that opens dir
func (o *Opener) Command(dir string) (*exec.Cmd, error) {
	switch o.goos {
	case "darwin":
		return exec.Command("open", dir), nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return exec.Command("xdg-open", dir), nil
	case "windows":
		return exec.Command("explorer", dir), nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", o.goos)
	}
}
