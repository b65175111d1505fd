// Package deptree parses package-manager dependency trees rendered with
// ASCII tree prefixes, in the style of npm ls.
package deptree

import (
	"fmt"
	"strings"

	"github.com/toolfang/toolfang/pkg/render"
	"github.com/toolfang/toolfang/pkg/toolrec"
)

// Kind identifies dependency tree invocations.
const Kind = "deptree"

// branchUnit is the width of one nesting level in the tree prefix. Every
// level contributes two characters ("| ", "  ") before the branch marker.
const branchUnit = 2

// dedupedSuffix marks an entry the package manager already hoisted
// elsewhere in the tree.
const dedupedSuffix = " deduped"

// upgradeMarker separates the declared and resolved versions in an
// "old -> new" notation. The declared (left) version wins.
const upgradeMarker = " -> "

var branchMarkers = []string{"+-- ", "\\-- ", "`-- "}

// Dependency is one resolved entry in the tree.
type Dependency struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Depth   int    `json:"depth"`
}

// Direct reports whether the dependency sits directly under the root.
func (d Dependency) Direct() bool { return d.Depth == 1 }

// String returns the name@version form used in renderings and dedup keys.
func (d Dependency) String() string {
	if d.Version == "" {
		return d.Name
	}

	return d.Name + "@" + d.Version
}

// TreeReport is the canonical record for a dependency tree invocation.
type TreeReport struct {
	toolrec.Execution

	Root         string       `json:"root,omitempty"`
	RootVersion  string       `json:"root_version,omitempty"`
	Dependencies []Dependency `json:"dependencies"`
	Total        int          `json:"total"`
	Direct       int          `json:"direct"`
	Deduplicated int          `json:"deduplicated"`
}

// Parse parses tree-formatted dependency listings. Duplicate name@version
// entries keep their first occurrence only; entries the tool itself marks
// as deduped are dropped the same way.
func Parse(res toolrec.Result) *TreeReport {
	report := &TreeReport{
		Execution:    toolrec.NewExecution(res),
		Dependencies: []Dependency{},
	}

	seen := map[string]bool{}

	for _, raw := range toolrec.Lines(res.Stdout) {
		if strings.TrimSpace(raw) == "" {
			continue
		}

		marker, offset := findBranch(raw)
		if marker < 0 {
			// The header line names the root package as name@version.
			if name, version := splitNameVersion(strings.Fields(raw)[0]); report.Root == "" && version != "" {
				report.Root, report.RootVersion = name, version
			}

			continue
		}

		dep, deduped := parseEntry(raw[marker+offset:])
		dep.Depth = marker/branchUnit + 1

		if deduped || seen[dep.String()] {
			report.Deduplicated++

			continue
		}

		seen[dep.String()] = true
		report.Dependencies = append(report.Dependencies, dep)
	}

	report.Total = len(report.Dependencies)

	for _, dep := range report.Dependencies {
		if dep.Direct() {
			report.Direct++
		}
	}

	return report
}

// findBranch locates the branch marker in a tree line and returns its byte
// index plus the marker width, or -1 when the line carries no marker.
func findBranch(line string) (index, width int) {
	for _, marker := range branchMarkers {
		if i := strings.Index(line, marker); i >= 0 {
			return i, len(marker)
		}
	}

	return -1, 0
}

func parseEntry(entry string) (Dependency, bool) {
	entry = strings.TrimSpace(entry)

	deduped := strings.HasSuffix(entry, dedupedSuffix)
	if deduped {
		entry = strings.TrimSuffix(entry, dedupedSuffix)
	}

	name, version := splitNameVersion(entry)

	// "1.2.3 -> 2.0.0" resolves to the declared version.
	if declared, _, found := strings.Cut(version, upgradeMarker); found {
		version = declared
	}

	return Dependency{Name: name, Version: version}, deduped
}

// splitNameVersion cuts at the last "@" so scoped names like
// "@scope/pkg@1.0.0" keep their prefix.
func splitNameVersion(entry string) (name, version string) {
	at := strings.LastIndexByte(entry, '@')
	if at <= 0 {
		return entry, ""
	}

	return entry[:at], entry[at+1:]
}

// Kind implements [toolrec.Record].
func (r *TreeReport) Kind() string { return Kind }

// Render implements [toolrec.Record].
func (r *TreeReport) Render() string {
	if r.Total == 0 {
		return "no dependencies"
	}

	var b strings.Builder

	root := r.Root
	if r.RootVersion != "" {
		root += "@" + r.RootVersion
	}

	if root != "" {
		b.WriteString(root + ": ")
	}

	fmt.Fprintf(&b, "%s (%d direct, %d deduplicated)",
		render.Count(r.Total, "dependency", "dependencies"), r.Direct, r.Deduplicated)

	for _, dep := range r.Dependencies {
		b.WriteString("\n" + strings.Repeat("  ", dep.Depth) + dep.String())
	}

	return b.String()
}

// Compact implements [toolrec.Record]. The tree collapses into counts plus
// a capped head of direct dependencies.
func (r *TreeReport) Compact() toolrec.Record {
	direct := make([]string, 0, r.Direct)

	for _, dep := range r.Dependencies {
		if dep.Direct() {
			direct = append(direct, dep.String())
		}
	}

	return &TreeSummary{
		Execution:    r.Execution,
		Root:         r.Root,
		Total:        r.Total,
		Direct:       r.Direct,
		Deduplicated: r.Deduplicated,
		Head:         toolrec.HeadStrings(direct, toolrec.CompactFileHead),
	}
}

// TreeSummary is the compact projection of a TreeReport.
type TreeSummary struct {
	toolrec.Execution

	Root         string   `json:"root,omitempty"`
	Total        int      `json:"total"`
	Direct       int      `json:"direct"`
	Deduplicated int      `json:"deduplicated"`
	Head         []string `json:"head,omitempty"`
}

// Kind implements [toolrec.Record].
func (s *TreeSummary) Kind() string { return Kind }

// Render implements [toolrec.Record].
func (s *TreeSummary) Render() string {
	if s.Total == 0 {
		return "no dependencies"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s (%d direct, %d deduplicated)",
		render.Count(s.Total, "dependency", "dependencies"), s.Direct, s.Deduplicated)

	for _, dep := range s.Head {
		b.WriteString("\n  " + dep)
	}

	if omitted := s.Direct - len(s.Head); omitted > 0 {
		fmt.Fprintf(&b, "\n  ... and %d more", omitted)
	}

	return b.String()
}

// Compact implements [toolrec.Record].
func (s *TreeSummary) Compact() toolrec.Record { return s }
