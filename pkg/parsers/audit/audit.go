// Package audit parses dependency advisory reports in the npm audit --json
// style. The JSON document is pulled out of the surrounding console noise
// first; a stream with no JSON payload yields an empty report, not an error.
package audit

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/toolfang/toolfang/pkg/rawjson"
	"github.com/toolfang/toolfang/pkg/render"
	"github.com/toolfang/toolfang/pkg/toolrec"
)

// Kind identifies dependency audit invocations.
const Kind = "audit"

// Severity order for renderings, most urgent first.
var severityOrder = []string{"critical", "high", "moderate", "low", "info"}

// auditDocument is the subset of the npm audit v2 report the parser reads.
type auditDocument struct {
	Vulnerabilities map[string]struct {
		Severity string `json:"severity"`
	} `json:"vulnerabilities"`
	Metadata struct {
		Vulnerabilities map[string]int `json:"vulnerabilities"`
	} `json:"metadata"`
}

// Vulnerability is one advisory-affected package.
type Vulnerability struct {
	Name     string `json:"name"`
	Severity string `json:"severity"`
}

// AuditReport is the canonical record for an audit invocation.
type AuditReport struct {
	toolrec.Execution

	// Found reports whether a JSON advisory document was present at all.
	Found bool `json:"found"`

	Vulnerabilities []Vulnerability `json:"vulnerabilities,omitempty"`
	Totals          map[string]int  `json:"totals,omitempty"`
	Total           int             `json:"total"`
}

// Parse extracts and decodes the advisory document. Extraction failure and
// undecodable payloads both yield Found == false.
func Parse(res toolrec.Result) *AuditReport {
	report := &AuditReport{Execution: toolrec.NewExecution(res)}

	payload, err := rawjson.Extract(res.Combined())
	if err != nil {
		return report
	}

	var doc auditDocument
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return report
	}

	report.Found = true
	report.Totals = map[string]int{}

	for _, severity := range severityOrder {
		report.Totals[severity] = doc.Metadata.Vulnerabilities[severity]
	}

	names := make([]string, 0, len(doc.Vulnerabilities))
	for name := range doc.Vulnerabilities {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		report.Vulnerabilities = append(report.Vulnerabilities, Vulnerability{
			Name:     name,
			Severity: doc.Vulnerabilities[name].Severity,
		})
	}

	if total, ok := doc.Metadata.Vulnerabilities["total"]; ok {
		report.Total = total
	} else {
		for _, severity := range severityOrder {
			report.Total += report.Totals[severity]
		}
	}

	return report
}

// Kind implements [toolrec.Record].
func (r *AuditReport) Kind() string { return Kind }

// Render implements [toolrec.Record].
func (r *AuditReport) Render() string {
	if !r.Found {
		return "no audit data"
	}

	if r.Total == 0 {
		return "no vulnerabilities found"
	}

	var b strings.Builder

	b.WriteString(render.Count(r.Total, "vulnerability", "vulnerabilities"))

	parts := []string{}

	for _, severity := range severityOrder {
		if n := r.Totals[severity]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, severity))
		}
	}

	if len(parts) > 0 {
		b.WriteString(" (" + strings.Join(parts, ", ") + ")")
	}

	for _, v := range r.Vulnerabilities {
		fmt.Fprintf(&b, "\n  %s: %s", v.Severity, v.Name)
	}

	return b.String()
}

// Compact implements [toolrec.Record]. The per-package list collapses into
// the severity totals plus a capped head of affected names.
func (r *AuditReport) Compact() toolrec.Record {
	names := make([]string, 0, len(r.Vulnerabilities))

	for _, v := range r.Vulnerabilities {
		names = append(names, v.Name)
	}

	return &AuditSummary{
		Execution: r.Execution,
		Found:     r.Found,
		Totals:    r.Totals,
		Total:     r.Total,
		Head:      toolrec.HeadStrings(names, toolrec.CompactFileHead),
	}
}

// AuditSummary is the compact projection of an AuditReport.
type AuditSummary struct {
	toolrec.Execution

	Found  bool           `json:"found"`
	Totals map[string]int `json:"totals,omitempty"`
	Total  int            `json:"total"`
	Head   []string       `json:"head,omitempty"`
}

// Kind implements [toolrec.Record].
func (s *AuditSummary) Kind() string { return Kind }

// Render implements [toolrec.Record].
func (s *AuditSummary) Render() string {
	if !s.Found {
		return "no audit data"
	}

	if s.Total == 0 {
		return "no vulnerabilities found"
	}

	var b strings.Builder

	b.WriteString(render.Count(s.Total, "vulnerability", "vulnerabilities"))

	for _, name := range s.Head {
		b.WriteString("\n  " + name)
	}

	if omitted := s.Total - len(s.Head); omitted > 0 {
		fmt.Fprintf(&b, "\n  ... and %d more", omitted)
	}

	return b.String()
}

// Compact implements [toolrec.Record].
func (s *AuditSummary) Compact() toolrec.Record { return s }
