package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/toolfang/toolfang/internal/config"
	"github.com/toolfang/toolfang/pkg/outpolicy"
	"github.com/toolfang/toolfang/pkg/parsers"
	"github.com/toolfang/toolfang/pkg/schemas"
	"github.com/toolfang/toolfang/pkg/toolrec"
)

// parseArgRange is kind plus an optional capture file.
const (
	parseMinArgs = 1
	parseMaxArgs = 2
)

// NewParseCommand creates the parse command: turn previously captured tool
// output into its canonical record.
func NewParseCommand() *cobra.Command {
	var (
		configPath string
		exitCode   int
		timedOut   bool
		durationMs int64
		full       bool
		jsonOut    bool
		noColor    bool
		validate   bool
	)

	cmd := &cobra.Command{
		Use:   "parse <kind> [file]",
		Short: "Parse previously captured tool output",
		Long: `Parse captured tool output from a file (or stdin) into its canonical record.

The kind names the output dialect to parse. Known kinds:
  ` + strings.Join(parsers.Kinds(), ", ") + `

Example:
  go build ./... 2>&1 | toolfang parse go_build --exit-code 1
  toolfang parse git_log capture.txt --json`,
		Args:          cobra.RangeArgs(parseMinArgs, parseMaxArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			capture, err := readCapture(args, cobraCmd.InOrStdin())
			if err != nil {
				return err
			}

			res := toolrec.Result{
				Stdout:   capture,
				ExitCode: exitCode,
				Duration: time.Duration(durationMs) * time.Millisecond,
				TimedOut: timedOut,
			}

			if validate {
				if err := validateRecord(args[0], res); err != nil {
					return err
				}
			}

			policy := outpolicy.Policy{
				AlwaysFull:    cfg.Output.AlwaysFull || full,
				MarginPercent: cfg.Output.MarginPercent,
			}

			return emitRecord(cobraCmd.OutOrStdout(), args[0], res, policy, jsonOut, noColor)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a toolfang config file")
	cmd.Flags().IntVar(&exitCode, "exit-code", 0, "Exit code of the captured invocation")
	cmd.Flags().BoolVar(&timedOut, "timed-out", false, "Mark the captured invocation as timed out")
	cmd.Flags().Int64Var(&durationMs, "duration-ms", 0, "Duration of the captured invocation in milliseconds")
	cmd.Flags().BoolVar(&full, "full", false, "Force the full record even when the compact projection is smaller")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the structured record instead of the rendering")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored status output")
	cmd.Flags().BoolVar(&validate, "validate", false, "Validate the full record against its JSON schema")

	return cmd
}

// readCapture loads the captured output from the optional file argument,
// falling back to stdin.
func readCapture(args []string, stdin io.Reader) (string, error) {
	if len(args) < parseMaxArgs {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}

		return string(data), nil
	}

	data, err := os.ReadFile(args[parseMaxArgs-1])
	if err != nil {
		return "", fmt.Errorf("read capture: %w", err)
	}

	return string(data), nil
}

// validateRecord checks the full record against the schema for its kind.
// Validation always runs against the full shape; compaction happens after.
func validateRecord(kind string, res toolrec.Result) error {
	rec, err := parsers.Parse(kind, res)
	if err != nil {
		return err
	}

	full, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal %s record: %w", rec.Kind(), err)
	}

	return schemas.Validate(rec.Kind(), full)
}
