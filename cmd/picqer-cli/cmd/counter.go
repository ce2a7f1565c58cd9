package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"picqer/internal/application/commands"
)

var (
	counterStart     int
	counterIncrement int
	counterOverwrite bool
)

var counterCmd = &cobra.Command{
	Use:     "counter",
	Aliases: []string{"counters"},
	Short:   "List counters",
	Long: `List the counters of the save directory. A counter named page is used
in the pattern as {page} and advances by its increment after every save.

Examples:
  picqer-cli counter
  picqer-cli counter create page --start 10 --increment 5
  picqer-cli counter reset page`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, c := range GetSession().Counters() {
			fmt.Printf("%-16s value=%-6d increment=%-4d start=%d\n", c.Name, c.Value, c.Increment, c.ResetValue())
		}
		return nil
	},
}

var counterCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a counter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		createCmd := commands.NewCreateCounterCommand(GetSession(), args[0], counterStart, counterIncrement)
		createCmd.Overwrite = counterOverwrite
		createCmd.Persist = true
		result, err := createCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var counterResetCmd = &cobra.Command{
	Use:   "reset <name>",
	Short: "Reset a counter to its start value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resetCmd := commands.NewResetCounterCommand(GetSession(), args[0])
		resetCmd.Persist = true
		result, err := resetCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

var counterDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a counter",
	Long: `Delete a counter. The default counter cannot be deleted.

A pattern that still references the deleted counter cannot be saved until
the reference is removed or the counter is created again.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deleteCmd := commands.NewDeleteCounterCommand(GetSession(), args[0])
		deleteCmd.Persist = true
		result, err := deleteCmd.Execute(context.Background())
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(counterCmd)
	counterCmd.AddCommand(counterCreateCmd)
	counterCmd.AddCommand(counterResetCmd)
	counterCmd.AddCommand(counterDeleteCmd)

	counterCreateCmd.Flags().IntVar(&counterStart, "start", 1, "first value")
	counterCreateCmd.Flags().IntVar(&counterIncrement, "increment", 1, "step added after each save")
	counterCreateCmd.Flags().BoolVar(&counterOverwrite, "overwrite", false, "replace an existing counter")
}
