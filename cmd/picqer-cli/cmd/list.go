package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"picqer/internal/application/commands"
	"picqer/internal/domain"
)

var (
	listLimit   int
	searchLimit int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved images, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listCmd := commands.NewListRecordsCommand(GetSession(), listLimit)
		listCmd.NewestFirst = true
		result, err := listCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		if result.Total == 0 {
			fmt.Println("No images saved yet")
			return nil
		}
		for _, r := range result.Records {
			printRecord(r)
		}
		fmt.Println(result.Message)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search saved images",
	Long: `Search saved images by filename and directory.

Results come from every directory picqer has saved to when the record
catalog is enabled, and from the current directory otherwise. Results are
ranked by relevance using fuzzy matching.

Examples:
  picqer-cli search invoice
  picqer-cli search 0115`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		searchCmd := commands.NewSearchRecordsCommand(GetSession(), app.Catalog, args[0], searchLimit)
		results, err := searchCmd.Execute(context.Background())
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No results found")
			return nil
		}

		for _, r := range results {
			printRecord(r.Record)
		}
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the save directory and its index file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := GetSession()
		fmt.Printf("Directory: %s\n", s.Directory())
		fmt.Printf("Index:     %s\n", s.IndexPath())
		fmt.Printf("Records:   %d\n", len(s.Records()))
		fmt.Printf("Template:  %s\n", s.Template())
		fmt.Printf("Next:      %s\n", s.PreviewFilename())
		if app.Catalog != nil {
			fmt.Printf("Catalog:   %s\n", app.CatalogPath)
		}
		return nil
	},
}

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the save directory in the file manager",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := GetSession().Directory()
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
		return app.Opener.OpenFolder(dir)
	},
}

func printRecord(r domain.Record) {
	fmt.Printf("%s  %8s  %s\n", r.Created.Local().Format("2006-01-02 15:04"), humanSize(r.Size), r.Filepath)
}

func humanSize(size int64) string {
	switch {
	case size >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(size)/(1<<20))
	case size >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(size)/(1<<10))
	default:
		return fmt.Sprintf("%d B", size)
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(openCmd)

	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "maximum number of images (0 for all)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", commands.DefaultSearchLimit, "maximum number of results")
}
