package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"picqer/internal/application/commands"
	"picqer/internal/domain"
)

var patternCmd = &cobra.Command{
	Use:   "pattern",
	Short: "Show the naming pattern",
	Long: `Show the naming pattern of the save directory and the filename the
next save would get.

Examples:
  picqer-cli pattern
  picqer-cli pattern add token date
  picqer-cli pattern set "shot_{date}_{counter}"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s := GetSession()
		printPattern(&commands.PatternResult{
			Elements: s.Elements(),
			Template: s.Template(),
			Preview:  s.PreviewFilename(),
		})
		return nil
	},
}

var patternAddCmd = &cobra.Command{
	Use:   "add <token|counter|literal|space> [value]",
	Short: "Append an element to the pattern",
	Long: `Append an element to the naming pattern.

Examples:
  picqer-cli pattern add token date
  picqer-cli pattern add literal _
  picqer-cli pattern add counter page
  picqer-cli pattern add space`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value := ""
		if len(args) == 2 {
			value = args[1]
		}
		addCmd := commands.NewAddElementCommand(GetSession(), args[0], value)
		addCmd.Persist = true
		return runPattern(addCmd.Execute(context.Background()))
	},
}

var patternUndoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Remove the last element",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		undoCmd := commands.NewUndoElementCommand(GetSession())
		undoCmd.Persist = true
		return runPattern(undoCmd.Execute(context.Background()))
	},
}

var patternClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every element",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		clearCmd := commands.NewClearPatternCommand(GetSession())
		clearCmd.Persist = true
		return runPattern(clearCmd.Execute(context.Background()))
	},
}

var patternResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default pattern",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resetCmd := commands.NewResetPatternCommand(GetSession())
		resetCmd.Persist = true
		return runPattern(resetCmd.Execute(context.Background()))
	},
}

var patternSetCmd = &cobra.Command{
	Use:   "set <template>",
	Short: "Replace the pattern with a template",
	Long: `Replace the naming pattern with a template. Names in braces are tokens
or counters; {{ and }} produce literal braces.

Examples:
  picqer-cli pattern set "{date}_{counter}"
  picqer-cli pattern set "invoice {{draft}} {page}"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setCmd := commands.NewSetTemplateCommand(GetSession(), args[0])
		setCmd.Persist = true
		return runPattern(setCmd.Execute(context.Background()))
	},
}

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List the built-in time tokens",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		now := GetSession().Now()
		for _, t := range domain.BuiltinTokens {
			value, _ := domain.ResolveToken(t.Name, now)
			fmt.Printf("%-14s %-22s %s\n", "{"+t.Name+"}", t.Example, value)
		}
		return nil
	},
}

func runPattern(result *commands.PatternResult, err error) error {
	if err != nil {
		return err
	}
	printPattern(result)
	return nil
}

func printPattern(result *commands.PatternResult) {
	if result.Message != "" {
		fmt.Println(result.Message)
	}
	parts := make([]string, len(result.Elements))
	for i, e := range result.Elements {
		parts[i] = e.String()
	}
	fmt.Printf("Template: %s\n", result.Template)
	fmt.Printf("Elements: %s\n", strings.Join(parts, " "))
	fmt.Printf("Preview:  %s\n", result.Preview)
}

func init() {
	rootCmd.AddCommand(patternCmd)
	rootCmd.AddCommand(tokensCmd)
	patternCmd.AddCommand(patternAddCmd)
	patternCmd.AddCommand(patternUndoCmd)
	patternCmd.AddCommand(patternClearCmd)
	patternCmd.AddCommand(patternResetCmd)
	patternCmd.AddCommand(patternSetCmd)
}
