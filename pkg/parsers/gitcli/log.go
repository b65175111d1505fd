// Package gitcli parses the script-friendly output dialects of the git CLI:
// --graph logs, --porcelain blame, --numstat diffs, and --porcelain status.
// All parsers are pure functions over captured text; unrecognized lines are
// dropped silently.
package gitcli

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/toolfang/toolfang/pkg/render"
	"github.com/toolfang/toolfang/pkg/toolrec"
)

// KindLog identifies git log --graph --oneline invocations.
const KindLog = "git_log"

// commitTailRe matches the part of a graph line after the commit marker:
// short hash, optional decoration refs, and the subject.
var commitTailRe = regexp.MustCompile(`^\s*([0-9a-f]{7,40})(?:\s+\(([^)]*)\))?\s*(.*)$`)

// topologyRe matches lines made of graph connector characters only, such
// as merge and branch connectors between commit lines.
var topologyRe = regexp.MustCompile(`^[\s|\\/_.*o-]+$`)

// LogLine is one line of graph log output. Topology lines carry only the
// graph prefix; commit lines additionally carry hash, refs, and subject.
type LogLine struct {
	Graph   string `json:"graph"`
	Hash    string `json:"hash,omitempty"`
	Refs    string `json:"refs,omitempty"`
	Subject string `json:"subject,omitempty"`
}

// Commit reports whether the line introduces a commit rather than pure
// topology.
func (l LogLine) Commit() bool { return l.Hash != "" }

// LogReport is the canonical record for a graph log invocation. Commit and
// topology lines are both preserved in output order to retain the visual
// topology; only commit lines count toward Commits.
type LogReport struct {
	toolrec.Execution

	Lines   []LogLine `json:"lines"`
	Commits int       `json:"commits"`
}

// ParseLog parses git log --graph --oneline output.
func ParseLog(res toolrec.Result) *LogReport {
	lines := []LogLine{}

	for _, raw := range toolrec.Lines(res.Stdout) {
		if strings.TrimSpace(raw) == "" {
			continue
		}

		line, ok := classifyLogLine(raw)
		if !ok {
			continue
		}

		lines = append(lines, line)
	}

	commits := 0

	for _, l := range lines {
		if l.Commit() {
			commits++
		}
	}

	return &LogReport{
		Execution: toolrec.NewExecution(res),
		Lines:     lines,
		Commits:   commits,
	}
}

func classifyLogLine(raw string) (LogLine, bool) {
	star := strings.IndexByte(raw, '*')
	if star >= 0 {
		match := commitTailRe.FindStringSubmatch(raw[star+1:])
		if match != nil {
			return LogLine{
				Graph:   raw[:star+1],
				Hash:    match[1],
				Refs:    match[2],
				Subject: match[3],
			}, true
		}
	}

	if topologyRe.MatchString(raw) {
		return LogLine{Graph: strings.TrimRight(raw, " ")}, true
	}

	return LogLine{}, false
}

// Kind implements [toolrec.Record].
func (r *LogReport) Kind() string { return KindLog }

// Render implements [toolrec.Record].
func (r *LogReport) Render() string {
	if r.Commits == 0 {
		return "no commits"
	}

	var b strings.Builder

	b.WriteString(render.Count(r.Commits, "commit", "commits"))

	for _, l := range r.Lines {
		b.WriteString("\n")
		b.WriteString(l.Graph)

		if !l.Commit() {
			continue
		}

		b.WriteString(" " + l.Hash)

		if l.Refs != "" {
			b.WriteString(" (" + l.Refs + ")")
		}

		if l.Subject != "" {
			b.WriteString(" " + l.Subject)
		}
	}

	return b.String()
}

// Compact implements [toolrec.Record]. Topology lines and refs are dropped;
// the head of the commit list survives.
func (r *LogReport) Compact() toolrec.Record {
	head := []LogCommit{}

	for _, l := range r.Lines {
		if !l.Commit() || len(head) == toolrec.CompactCommitHead {
			continue
		}

		head = append(head, LogCommit{Hash: l.Hash, Subject: l.Subject})
	}

	return &LogSummary{
		Execution: r.Execution,
		Commits:   r.Commits,
		Head:      head,
	}
}

// LogCommit is the compact per-commit projection: identity and subject only.
type LogCommit struct {
	Hash    string `json:"hash"`
	Subject string `json:"subject,omitempty"`
}

// LogSummary is the compact projection of a LogReport.
type LogSummary struct {
	toolrec.Execution

	Commits int         `json:"commits"`
	Head    []LogCommit `json:"head,omitempty"`
}

// Kind implements [toolrec.Record].
func (s *LogSummary) Kind() string { return KindLog }

// Render implements [toolrec.Record].
func (s *LogSummary) Render() string {
	if s.Commits == 0 {
		return "no commits"
	}

	var b strings.Builder

	b.WriteString(render.Count(s.Commits, "commit", "commits"))

	for _, c := range s.Head {
		fmt.Fprintf(&b, "\n%s %s", c.Hash, c.Subject)
	}

	if omitted := s.Commits - len(s.Head); omitted > 0 {
		fmt.Fprintf(&b, "\n... and %d more", omitted)
	}

	return b.String()
}

// Compact implements [toolrec.Record].
func (s *LogSummary) Compact() toolrec.Record { return s }
