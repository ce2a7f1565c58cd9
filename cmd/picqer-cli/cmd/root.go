package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"picqer/internal/application"
	"picqer/internal/bootstrap"
	"picqer/internal/logging"
)

var (
	saveDir    string
	configPath string
	app        *bootstrap.App
)

var rootCmd = &cobra.Command{
	Use:   "picqer-cli",
	Short: "Save clipboard images and screenshots under a naming pattern",
	Long: `picqer-cli saves clipboard images, screenshots and image files into a
directory, naming each file from a pattern of date and time tokens,
counters and literal text.

Every directory keeps its own pattern, counters and saved-file history in
screenshot_index.json. Changes made here are written immediately.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		app, err = bootstrap.New(bootstrap.Options{
			Mode:       logging.ModeCLI,
			Dir:        saveDir,
			ConfigPath: configPath,
		})
		if err != nil {
			return err
		}
		if warn := app.Session.LoadWarning(); warn != nil {
			fmt.Fprintf(os.Stderr, "warning: %v; starting from defaults\n", warn)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app == nil {
			return nil
		}
		return app.Close()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&saveDir, "dir", "d", "", "save directory (default from config or PICQER_DIR)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $XDG_CONFIG_HOME/picqer/config.yaml)")
}

// GetSession returns the initialized session
func GetSession() *application.Session {
	return app.Session
}
