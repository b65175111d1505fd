// Package recap parses fixed-field run summaries in the style of an
// ansible PLAY RECAP block, one host per row with labeled counters.
package recap

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/toolfang/toolfang/pkg/render"
	"github.com/toolfang/toolfang/pkg/toolrec"
)

// Kind identifies recap table invocations.
const Kind = "recap"

// fieldRe matches one labeled counter. Fields are pulled by name so a
// reordered or missing field never corrupts its neighbors.
var fieldRe = regexp.MustCompile(`([a-z]+)=(\d+)`)

// hostRowRe matches a recap row: host name, colon, at least one counter.
var hostRowRe = regexp.MustCompile(`^(\S+)\s*:\s*((?:[a-z]+=\d+\s*)+)$`)

// HostRecap is one host's counters.
type HostRecap struct {
	Host        string `json:"host"`
	Ok          int    `json:"ok"`
	Changed     int    `json:"changed"`
	Unreachable int    `json:"unreachable"`
	Failed      int    `json:"failed"`
	Skipped     int    `json:"skipped"`
	Rescued     int    `json:"rescued"`
	Ignored     int    `json:"ignored"`
}

// Healthy reports whether the host finished with no failures and was
// reachable throughout.
func (h HostRecap) Healthy() bool {
	return h.Failed == 0 && h.Unreachable == 0
}

// RecapReport is the canonical record for a recap invocation.
type RecapReport struct {
	toolrec.Execution

	Hosts     []HostRecap `json:"hosts"`
	Failed    int         `json:"failed"`
	Changed   int         `json:"changed"`
	HostCount int         `json:"host_count"`
}

// Parse parses recap rows out of playbook output. Non-recap lines are
// dropped, including the PLAY RECAP banner itself.
func Parse(res toolrec.Result) *RecapReport {
	hosts := []HostRecap{}

	for _, raw := range toolrec.Lines(res.Stdout) {
		match := hostRowRe.FindStringSubmatch(strings.TrimSpace(raw))
		if match == nil {
			continue
		}

		hosts = append(hosts, parseRow(match[1], match[2]))
	}

	report := &RecapReport{
		Execution: toolrec.NewExecution(res),
		Hosts:     hosts,
		HostCount: len(hosts),
	}

	for _, h := range hosts {
		if !h.Healthy() {
			report.Failed++
		}

		if h.Changed > 0 {
			report.Changed++
		}
	}

	return report
}

func parseRow(host, fields string) HostRecap {
	recap := HostRecap{Host: host}

	for _, m := range fieldRe.FindAllStringSubmatch(fields, -1) {
		value, _ := strconv.Atoi(m[2])

		switch m[1] {
		case "ok":
			recap.Ok = value
		case "changed":
			recap.Changed = value
		case "unreachable":
			recap.Unreachable = value
		case "failed":
			recap.Failed = value
		case "skipped":
			recap.Skipped = value
		case "rescued":
			recap.Rescued = value
		case "ignored":
			recap.Ignored = value
		}
	}

	return recap
}

// Kind implements [toolrec.Record].
func (r *RecapReport) Kind() string { return Kind }

// Render implements [toolrec.Record].
func (r *RecapReport) Render() string {
	if r.HostCount == 0 {
		return "no recap data"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s, %d failed, %d changed\n",
		render.Count(r.HostCount, "host", "hosts"), r.Failed, r.Changed)

	rows := make([]table.Row, 0, len(r.Hosts))

	for _, h := range r.Hosts {
		rows = append(rows, table.Row{
			h.Host, render.StatusWord(h.Healthy()),
			h.Ok, h.Changed, h.Unreachable, h.Failed, h.Skipped,
		})
	}

	b.WriteString(render.Table(
		table.Row{"HOST", "STATUS", "OK", "CHANGED", "UNREACHABLE", "FAILED", "SKIPPED"}, rows))

	return b.String()
}

// Compact implements [toolrec.Record]. Per-host counters collapse into the
// aggregate counts plus the unhealthy host names.
func (r *RecapReport) Compact() toolrec.Record {
	unhealthy := []string{}

	for _, h := range r.Hosts {
		if !h.Healthy() {
			unhealthy = append(unhealthy, h.Host)
		}
	}

	return &RecapSummary{
		Execution: r.Execution,
		HostCount: r.HostCount,
		Failed:    r.Failed,
		Changed:   r.Changed,
		Unhealthy: toolrec.HeadStrings(unhealthy, toolrec.CompactFileHead),
	}
}

// RecapSummary is the compact projection of a RecapReport.
type RecapSummary struct {
	toolrec.Execution

	HostCount int      `json:"host_count"`
	Failed    int      `json:"failed"`
	Changed   int      `json:"changed"`
	Unhealthy []string `json:"unhealthy,omitempty"`
}

// Kind implements [toolrec.Record].
func (s *RecapSummary) Kind() string { return Kind }

// Render implements [toolrec.Record].
func (s *RecapSummary) Render() string {
	if s.HostCount == 0 {
		return "no recap data"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s, %d failed, %d changed",
		render.Count(s.HostCount, "host", "hosts"), s.Failed, s.Changed)

	for _, host := range s.Unhealthy {
		b.WriteString("\n  " + host)
	}

	return b.String()
}

// Compact implements [toolrec.Record].
func (s *RecapSummary) Compact() toolrec.Record { return s }
