package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"picqer/internal/adapters/tui"
	"picqer/internal/bootstrap"
	"picqer/internal/logging"
)

func main() {
	dirFlag := flag.String("dir", "", "save directory (default from config or PICQER_DIR)")
	configFlag := flag.String("config", "", "config file")
	flag.Parse()

	app, err := bootstrap.New(bootstrap.Options{
		Mode:       logging.ModeTUI,
		Dir:        *dirFlag,
		ConfigPath: *configFlag,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	model := tui.NewApp(tui.Deps{
		Session:     app.Session,
		Files:       app.Files,
		Clipboard:   app.Clipboard,
		Copier:      app.Clipboard,
		Screen:      app.Screen,
		Opener:      app.Opener,
		Catalog:     app.Catalog,
		ScreenDelay: app.ScreenDelay(),
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	_, runErr := p.Run()
	if err := app.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", runErr)
		os.Exit(1)
	}
}
