// Package fmtcheck parses formatter check output in the gofmt -l style: one
// unformatted file path per line, nothing when the tree is clean.
package fmtcheck

import (
	"fmt"
	"strings"

	"github.com/toolfang/toolfang/pkg/render"
	"github.com/toolfang/toolfang/pkg/toolrec"
)

// Kind identifies formatter check invocations.
const Kind = "fmtcheck"

// cleanSentence is the stable empty-list rendering. The output policy keys
// off short renderings like this one, so the text must not drift.
const cleanSentence = "all files formatted correctly"

// diagnosticMarker identifies error lines mixed into the file list, such as
// "main.go:3:2: expected declaration". Paths never contain ": ", so plain
// file names with spaces pass through.
const diagnosticMarker = ": "

// FmtReport is the canonical record for a formatter check invocation.
type FmtReport struct {
	toolrec.Execution

	Files     []string `json:"files"`
	Count     int      `json:"count"`
	Formatted bool     `json:"formatted"`
}

// Parse parses the file list. Diagnostic lines mixed into the stream (a
// parse error from a broken source file, say) are dropped; path lines
// survive, including paths with spaces in them.
func Parse(res toolrec.Result) *FmtReport {
	files := []string{}

	for _, line := range toolrec.Lines(res.Stdout) {
		raw := strings.TrimSpace(line)
		if raw == "" || strings.Contains(raw, diagnosticMarker) {
			continue
		}

		files = append(files, raw)
	}

	return &FmtReport{
		Execution: toolrec.NewExecution(res),
		Files:     files,
		Count:     len(files),
		Formatted: len(files) == 0,
	}
}

// Kind implements [toolrec.Record].
func (r *FmtReport) Kind() string { return Kind }

// Render implements [toolrec.Record].
func (r *FmtReport) Render() string {
	if r.Formatted {
		return cleanSentence
	}

	var b strings.Builder

	b.WriteString(render.Count(r.Count, "file needs formatting", "files need formatting"))

	for _, file := range r.Files {
		b.WriteString("\n  " + file)
	}

	return b.String()
}

// Compact implements [toolrec.Record].
func (r *FmtReport) Compact() toolrec.Record {
	return &FmtSummary{
		Execution: r.Execution,
		Count:     r.Count,
		Formatted: r.Formatted,
		Head:      toolrec.HeadStrings(r.Files, toolrec.CompactFileHead),
	}
}

// FmtSummary is the compact projection of an FmtReport.
type FmtSummary struct {
	toolrec.Execution

	Count     int      `json:"count"`
	Formatted bool     `json:"formatted"`
	Head      []string `json:"head,omitempty"`
}

// Kind implements [toolrec.Record].
func (s *FmtSummary) Kind() string { return Kind }

// Render implements [toolrec.Record].
func (s *FmtSummary) Render() string {
	if s.Formatted {
		return cleanSentence
	}

	var b strings.Builder

	b.WriteString(render.Count(s.Count, "file needs formatting", "files need formatting"))

	for _, file := range s.Head {
		b.WriteString("\n  " + file)
	}

	if omitted := s.Count - len(s.Head); omitted > 0 {
		fmt.Fprintf(&b, "\n  ... and %d more", omitted)
	}

	return b.String()
}

// Compact implements [toolrec.Record].
func (s *FmtSummary) Compact() toolrec.Record { return s }
