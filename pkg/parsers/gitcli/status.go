package gitcli

import (
	"fmt"
	"strings"

	"github.com/toolfang/toolfang/pkg/toolrec"
)

// KindStatus identifies git status --porcelain invocations.
const KindStatus = "git_status"

// statusMinLineLen is the shortest valid porcelain v1 row: two status
// columns, a space, and a one-character path.
const statusMinLineLen = 4

// untrackedCode is the porcelain code for untracked paths.
const untrackedCode = "??"

// StatusEntry is one porcelain v1 status row. Staged and Unstaged hold the
// X and Y columns with spaces normalized away.
type StatusEntry struct {
	Staged      string `json:"staged,omitempty"`
	Unstaged    string `json:"unstaged,omitempty"`
	Path        string `json:"path"`
	RenamedFrom string `json:"renamed_from,omitempty"`
}

// Untracked reports whether the entry is an untracked path.
func (e StatusEntry) Untracked() bool {
	return e.Staged == "?" && e.Unstaged == "?"
}

// StatusReport is the canonical record for a porcelain status invocation.
type StatusReport struct {
	toolrec.Execution

	Entries   []StatusEntry `json:"entries"`
	Staged    int           `json:"staged"`
	Unstaged  int           `json:"unstaged"`
	Untracked int           `json:"untracked"`
	Clean     bool          `json:"clean"`
}

// ParseStatus parses git status --porcelain output.
func ParseStatus(res toolrec.Result) *StatusReport {
	entries := []StatusEntry{}

	for _, raw := range toolrec.Lines(res.Stdout) {
		if len(raw) < statusMinLineLen || raw[2] != ' ' {
			continue
		}

		entry := StatusEntry{
			Staged:   strings.TrimSpace(raw[0:1]),
			Unstaged: strings.TrimSpace(raw[1:2]),
			Path:     raw[3:],
		}

		if from, to, found := strings.Cut(entry.Path, " -> "); found {
			entry.RenamedFrom = from
			entry.Path = to
		}

		entries = append(entries, entry)
	}

	report := &StatusReport{
		Execution: toolrec.NewExecution(res),
		Entries:   entries,
		Clean:     len(entries) == 0,
	}

	for _, e := range entries {
		if e.Untracked() {
			report.Untracked++

			continue
		}

		if e.Staged != "" {
			report.Staged++
		}

		if e.Unstaged != "" {
			report.Unstaged++
		}
	}

	return report
}

// Kind implements [toolrec.Record].
func (r *StatusReport) Kind() string { return KindStatus }

// Render implements [toolrec.Record].
func (r *StatusReport) Render() string {
	if r.Clean {
		return "working tree clean"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%d staged, %d unstaged, %d untracked", r.Staged, r.Unstaged, r.Untracked)

	for _, e := range r.Entries {
		code := e.Staged + e.Unstaged
		if code == "" {
			code = "??"
		}

		path := e.Path
		if e.RenamedFrom != "" {
			path = e.RenamedFrom + " -> " + e.Path
		}

		fmt.Fprintf(&b, "\n  %-2s %s", code, path)
	}

	return b.String()
}

// Compact implements [toolrec.Record]. Per-path rows collapse into the
// three counters plus a capped path head.
func (r *StatusReport) Compact() toolrec.Record {
	paths := make([]string, 0, len(r.Entries))

	for _, e := range r.Entries {
		paths = append(paths, e.Path)
	}

	return &StatusSummary{
		Execution: r.Execution,
		Staged:    r.Staged,
		Unstaged:  r.Unstaged,
		Untracked: r.Untracked,
		Clean:     r.Clean,
		Head:      toolrec.HeadStrings(paths, toolrec.CompactFileHead),
	}
}

// StatusSummary is the compact projection of a StatusReport.
type StatusSummary struct {
	toolrec.Execution

	Staged    int      `json:"staged"`
	Unstaged  int      `json:"unstaged"`
	Untracked int      `json:"untracked"`
	Clean     bool     `json:"clean"`
	Head      []string `json:"head,omitempty"`
}

// Kind implements [toolrec.Record].
func (s *StatusSummary) Kind() string { return KindStatus }

// Render implements [toolrec.Record].
func (s *StatusSummary) Render() string {
	if s.Clean {
		return "working tree clean"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%d staged, %d unstaged, %d untracked", s.Staged, s.Unstaged, s.Untracked)

	for _, path := range s.Head {
		b.WriteString("\n  " + path)
	}

	return b.String()
}

// Compact implements [toolrec.Record].
func (s *StatusSummary) Compact() toolrec.Record { return s }
