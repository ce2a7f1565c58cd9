package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"picqer/internal/application/commands"
)

var (
	copyPath    bool
	screenDelay time.Duration
)

var pasteCmd = &cobra.Command{
	Use:   "paste",
	Short: "Save the clipboard image",
	Long: `Save the clipboard image under the naming pattern. When the clipboard
holds text naming an image file instead, that file is saved.

Examples:
  picqer-cli paste
  picqer-cli paste --copy-path`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		pasteCmd := commands.NewPasteCommand(GetSession(), app.Clipboard, app.Files)
		return reportSave(pasteCmd.Execute(context.Background()))
	},
}

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Capture the screen",
	Long: `Capture the whole screen and save it under the naming pattern.

Examples:
  picqer-cli screenshot
  picqer-cli screenshot --delay 3s`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		delay := app.ScreenDelay()
		if cmd.Flags().Changed("delay") {
			delay = screenDelay
		}
		shotCmd := commands.NewScreenshotCommand(GetSession(), app.Screen, delay)
		return reportSave(shotCmd.Execute(cmd.Context()))
	},
}

var saveCmd = &cobra.Command{
	Use:   "save <image>",
	Short: "Save an image file under the naming pattern",
	Long: `Convert an image file (png, jpeg, gif, bmp or webp) to PNG and save it
into the save directory under the naming pattern.

Examples:
  picqer-cli save ~/Downloads/receipt.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		saveCmd := commands.NewSaveFileCommand(GetSession(), app.Files, args[0])
		return reportSave(saveCmd.Execute(context.Background()))
	},
}

func reportSave(result *commands.SaveResult, err error) error {
	if err != nil {
		return err
	}
	fmt.Println(result.Message)
	fmt.Println(result.Record.Filepath)
	if copyPath {
		if err := app.Clipboard.CopyText(result.Record.Filepath); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not copy path: %v\n", err)
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(pasteCmd)
	rootCmd.AddCommand(screenshotCmd)
	rootCmd.AddCommand(saveCmd)

	for _, c := range []*cobra.Command{pasteCmd, screenshotCmd, saveCmd} {
		c.Flags().BoolVarP(&copyPath, "copy-path", "c", false, "copy the saved file path to the clipboard")
	}
	screenshotCmd.Flags().DurationVar(&screenDelay, "delay", 0, "wait before capturing (default from config)")
}
