package diag

import (
	"fmt"
	"strings"

	"github.com/toolfang/toolfang/pkg/render"
	"github.com/toolfang/toolfang/pkg/toolrec"
)

// KindBuild identifies diagnostic-producing build/lint invocations.
const KindBuild = "build"

// noErrorsSentence is the stable empty-collection rendering. The output
// policy's size heuristics depend on this staying a single short line.
const noErrorsSentence = "no errors found"

// BuildReport is the canonical record for a compiler, linter, or build
// tool invocation.
type BuildReport struct {
	toolrec.Execution

	Diagnostics []toolrec.Diagnostic `json:"diagnostics"`
	Errors      int                  `json:"errors"`
	Warnings    int                  `json:"warnings"`
	Total       int                  `json:"total"`
}

func newBuildReport(res toolrec.Result, diags []toolrec.Diagnostic) *BuildReport {
	if diags == nil {
		diags = []toolrec.Diagnostic{}
	}

	return &BuildReport{
		Execution:   toolrec.NewExecution(res),
		Diagnostics: diags,
		Errors:      toolrec.CountSeverity(diags, toolrec.SeverityError),
		Warnings:    toolrec.CountSeverity(diags, toolrec.SeverityWarning),
		Total:       len(diags),
	}
}

// Kind implements [toolrec.Record].
func (r *BuildReport) Kind() string { return KindBuild }

// Render implements [toolrec.Record].
func (r *BuildReport) Render() string {
	return renderBuild(r.Execution, r.Errors, r.Warnings, r.Diagnostics, 0)
}

// Compact implements [toolrec.Record]. The projection keeps the derived
// counts and the leading diagnostics; full message bodies beyond the head
// are dropped.
func (r *BuildReport) Compact() toolrec.Record {
	return &BuildSummary{
		Execution: r.Execution,
		Errors:    r.Errors,
		Warnings:  r.Warnings,
		Total:     r.Total,
		Head:      toolrec.HeadDiagnostics(r.Diagnostics, toolrec.CompactDiagnosticHead),
	}
}

// BuildSummary is the compact projection of a BuildReport.
type BuildSummary struct {
	toolrec.Execution

	Errors   int                  `json:"errors"`
	Warnings int                  `json:"warnings"`
	Total    int                  `json:"total"`
	Head     []toolrec.Diagnostic `json:"head,omitempty"`
}

// Kind implements [toolrec.Record].
func (s *BuildSummary) Kind() string { return KindBuild }

// Render implements [toolrec.Record].
func (s *BuildSummary) Render() string {
	return renderBuild(s.Execution, s.Errors, s.Warnings, s.Head, s.Total-len(s.Head))
}

// Compact implements [toolrec.Record]. A summary is already compact.
func (s *BuildSummary) Compact() toolrec.Record { return s }

func renderBuild(env toolrec.Execution, errors, warnings int, diags []toolrec.Diagnostic, omitted int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "build %s in %s: ", render.StatusWord(env.Success), render.Duration(env.DurationMs))

	if errors == 0 && warnings == 0 {
		b.WriteString(noErrorsSentence)

		if env.TimedOut {
			b.WriteString(" (timed out)")
		}

		return b.String()
	}

	b.WriteString(render.Count(errors, "error", "errors"))
	b.WriteString(", ")
	b.WriteString(render.Count(warnings, "warning", "warnings"))

	for _, d := range diags {
		b.WriteString("\n  ")
		b.WriteString(formatDiagnostic(d))
	}

	if omitted > 0 {
		fmt.Fprintf(&b, "\n  ... and %d more", omitted)
	}

	return b.String()
}

func formatDiagnostic(d toolrec.Diagnostic) string {
	var b strings.Builder

	if d.File != "" {
		b.WriteString(d.File)

		if d.Line > 0 {
			fmt.Fprintf(&b, ":%d", d.Line)
		}

		if d.Column > 0 {
			fmt.Fprintf(&b, ":%d", d.Column)
		}

		b.WriteString(": ")
	}

	b.WriteString(string(d.Severity))

	if d.Code != "" {
		b.WriteString(" " + d.Code)
	}

	b.WriteString(": " + d.Message)

	return b.String()
}
