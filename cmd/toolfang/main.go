// Package main provides the entry point for the toolfang CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/toolfang/toolfang/cmd/toolfang/commands"
	"github.com/toolfang/toolfang/pkg/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "toolfang",
		Short: "Toolfang - structured output for wrapped developer tools",
		Long: `Toolfang wraps noisy developer-tool CLIs and turns their output into
canonical structured records with deterministic text renderings.

Commands:
  run       Run a wrapped tool and print its canonical record
  parse     Parse previously captured tool output
  mcp       Start the MCP stdio server for AI agent integration`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewRunCommand())
	rootCmd.AddCommand(commands.NewParseCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintln(os.Stdout, version.String())
		},
	}
}
