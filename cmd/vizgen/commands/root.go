package commands

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vizgen",
	Short: "vizgen turns a natural-language request into a visualization",
	Long: `vizgen runs the prompt-to-visualization pipeline once, outside the HTTP
service. It uses the same configuration as the API (environment or .env).`,
	SilenceUsage: true,
}

// Execute is called by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// AddCommand registers a subcommand on the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

func printHeading(format string, args ...any) {
	color.New(color.FgCyan, color.Bold).Printf(format+"\n", args...)
}

func printField(name string, value any) {
	fmt.Printf("  %s %v\n", color.New(color.Faint).Sprint(name+":"), value)
}
