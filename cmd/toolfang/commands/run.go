package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/toolfang/toolfang/internal/config"
	"github.com/toolfang/toolfang/internal/execdriver"
	"github.com/toolfang/toolfang/pkg/outpolicy"
	"github.com/toolfang/toolfang/pkg/parsers"
	"github.com/toolfang/toolfang/pkg/toolrec"
)

// minRunArgs is kind plus at least the command name.
const minRunArgs = 2

// NewRunCommand creates the run command: execute a wrapped tool and print
// its canonical record.
func NewRunCommand() *cobra.Command {
	var (
		configPath string
		dir        string
		full       bool
		jsonOut    bool
		noColor    bool
	)

	cmd := &cobra.Command{
		Use:   "run <kind> -- <command> [args...]",
		Short: "Run a wrapped tool and print its canonical record",
		Long: `Run a wrapped tool, capture its output, and print the canonical record.

The kind names the output dialect to parse, not the binary. Known kinds:
  ` + strings.Join(parsers.Kinds(), ", ") + `

Example:
  toolfang run go_build -- go build ./...
  toolfang run git_status -- git status --porcelain`,
		Args:          cobra.MinimumNArgs(minRunArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			driver := execdriver.Driver{Timeout: cfg.Exec.Timeout, Dir: dir}

			res, err := driver.Run(cobraCmd.Context(), args[1], args[2:]...)
			if err != nil {
				return err
			}

			policy := outpolicy.Policy{
				AlwaysFull:    cfg.Output.AlwaysFull || full,
				MarginPercent: cfg.Output.MarginPercent,
			}

			return emitRecord(cobraCmd.OutOrStdout(), args[0], res, policy, jsonOut, noColor)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a toolfang config file")
	cmd.Flags().StringVar(&dir, "dir", "", "Working directory for the wrapped tool")
	cmd.Flags().BoolVar(&full, "full", false, "Force the full record even when the compact projection is smaller")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the structured record instead of the rendering")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored status output")

	return cmd
}

// emitRecord parses one capture, applies the output policy, and prints the
// chosen half of the payload.
func emitRecord(w io.Writer, kind string, res toolrec.Result, policy outpolicy.Policy, jsonOut, noColor bool) error {
	rec, err := parsers.Parse(kind, res)
	if err != nil {
		return err
	}

	payload, err := policy.Select(rec, res)
	if err != nil {
		return err
	}

	if jsonOut {
		var pretty map[string]any
		if err := json.Unmarshal(payload.Structured, &pretty); err != nil {
			return fmt.Errorf("decode %s record: %w", kind, err)
		}

		data, err := json.MarshalIndent(pretty, "", "  ")
		if err != nil {
			return fmt.Errorf("encode %s record: %w", kind, err)
		}

		fmt.Fprintln(w, string(data))

		return nil
	}

	fmt.Fprintln(w, statusLine(kind, res, payload.Compacted, noColor))
	fmt.Fprintln(w, payload.Text)

	return nil
}

// statusLine is the colored one-line header above a rendering.
func statusLine(kind string, res toolrec.Result, compacted, noColor bool) string {
	okColor := color.New(color.FgGreen)
	failColor := color.New(color.FgRed)

	if noColor || os.Getenv("NO_COLOR") != "" {
		okColor.DisableColor()
		failColor.DisableColor()
	}

	status := okColor.Sprint("ok")
	if !res.Success() {
		status = failColor.Sprint("failed")
	}

	suffix := ""
	if compacted {
		suffix = " (compacted)"
	}

	return fmt.Sprintf("%s [%s]%s", kind, status, suffix)
}
