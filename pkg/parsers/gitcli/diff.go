package gitcli

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/toolfang/toolfang/pkg/render"
	"github.com/toolfang/toolfang/pkg/toolrec"
)

// KindDiff identifies git diff --numstat invocations.
const KindDiff = "git_diff"

// numstatRe matches one numstat row: additions, deletions ("-" for binary
// files), and the path.
var numstatRe = regexp.MustCompile(`^(\d+|-)\t(\d+|-)\t(.+)$`)

// renameMarker separates the old and new path in a numstat rename row.
const renameMarker = " => "

// FileStatus classifies one changed file.
type FileStatus string

const (
	// StatusAdded marks a file with additions and no deletions.
	StatusAdded FileStatus = "added"
	// StatusDeleted marks a file with deletions and no additions.
	StatusDeleted FileStatus = "deleted"
	// StatusModified is the default, covering binary files and rows with
	// neither additions nor deletions.
	StatusModified FileStatus = "modified"
	// StatusRenamed marks a row carrying a rename marker, regardless of
	// its line counts.
	StatusRenamed FileStatus = "renamed"
)

// DiffFile is one changed file from numstat output.
type DiffFile struct {
	Path      string     `json:"path"`
	OldPath   string     `json:"old_path,omitempty"`
	Status    FileStatus `json:"status"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
	Binary    bool       `json:"binary,omitempty"`
}

// DiffReport is the canonical record for a numstat diff invocation.
type DiffReport struct {
	toolrec.Execution

	Files          []DiffFile `json:"files"`
	FilesChanged   int        `json:"files_changed"`
	TotalAdditions int        `json:"total_additions"`
	TotalDeletions int        `json:"total_deletions"`
}

// ParseDiff parses git diff --numstat output.
func ParseDiff(res toolrec.Result) *DiffReport {
	files := []DiffFile{}

	for _, raw := range toolrec.Lines(res.Stdout) {
		match := numstatRe.FindStringSubmatch(raw)
		if match == nil {
			continue
		}

		files = append(files, parseNumstatRow(match))
	}

	report := &DiffReport{
		Execution:    toolrec.NewExecution(res),
		Files:        files,
		FilesChanged: len(files),
	}

	for _, f := range files {
		report.TotalAdditions += f.Additions
		report.TotalDeletions += f.Deletions
	}

	return report
}

func parseNumstatRow(match []string) DiffFile {
	binary := match[1] == "-" || match[2] == "-"
	additions, _ := strconv.Atoi(match[1])
	deletions, _ := strconv.Atoi(match[2])

	file := DiffFile{
		Path:      match[3],
		Additions: additions,
		Deletions: deletions,
		Binary:    binary,
	}

	if strings.Contains(file.Path, renameMarker) {
		file.OldPath, file.Path = expandRename(file.Path)
	}

	file.Status = classifyDiff(file)

	return file
}

// classifyDiff applies the status precedence: renamed beats everything, a
// pure-addition row is added, a pure-deletion row is deleted, and all
// remaining rows are modified. Binary "-" rows and 0/0 rows land on
// modified through the default arm.
func classifyDiff(f DiffFile) FileStatus {
	switch {
	case f.OldPath != "":
		return StatusRenamed
	case f.Additions > 0 && f.Deletions == 0:
		return StatusAdded
	case f.Deletions > 0 && f.Additions == 0:
		return StatusDeleted
	default:
		return StatusModified
	}
}

// expandRename resolves the two numstat rename notations: the full
// "old => new" form and the brace form "prefix{old => new}suffix" where the
// unchanged path segments sit outside the braces.
func expandRename(path string) (oldPath, newPath string) {
	open := strings.IndexByte(path, '{')
	closing := strings.IndexByte(path, '}')

	if open >= 0 && closing > open {
		prefix := path[:open]
		suffix := path[closing+1:]
		oldPart, newPart, _ := strings.Cut(path[open+1:closing], renameMarker)

		return cleanRenamePath(prefix + oldPart + suffix), cleanRenamePath(prefix + newPart + suffix)
	}

	oldPart, newPart, _ := strings.Cut(path, renameMarker)

	return strings.TrimSpace(oldPart), strings.TrimSpace(newPart)
}

// cleanRenamePath collapses the double slash left behind when a brace side
// is empty, as in "lib/{ => core}/util.go".
func cleanRenamePath(path string) string {
	path = strings.ReplaceAll(path, "//", "/")

	return strings.TrimSpace(path)
}

// Kind implements [toolrec.Record].
func (r *DiffReport) Kind() string { return KindDiff }

// Render implements [toolrec.Record].
func (r *DiffReport) Render() string {
	if r.FilesChanged == 0 {
		return "no changes"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s changed, +%d -%d\n",
		render.Count(r.FilesChanged, "file", "files"), r.TotalAdditions, r.TotalDeletions)

	rows := make([]table.Row, 0, len(r.Files))

	for _, f := range r.Files {
		path := f.Path
		if f.OldPath != "" {
			path = f.OldPath + " -> " + f.Path
		}

		adds, dels := strconv.Itoa(f.Additions), strconv.Itoa(f.Deletions)
		if f.Binary {
			adds, dels = "-", "-"
		}

		rows = append(rows, table.Row{string(f.Status), adds, dels, path})
	}

	b.WriteString(render.Table(table.Row{"STATUS", "ADD", "DEL", "PATH"}, rows))

	return b.String()
}

// Compact implements [toolrec.Record]. Per-file rows collapse into status
// counts plus a capped path head.
func (r *DiffReport) Compact() toolrec.Record {
	summary := &DiffSummary{
		Execution:      r.Execution,
		FilesChanged:   r.FilesChanged,
		TotalAdditions: r.TotalAdditions,
		TotalDeletions: r.TotalDeletions,
	}

	for _, f := range r.Files {
		switch f.Status {
		case StatusAdded:
			summary.Added++
		case StatusDeleted:
			summary.Deleted++
		case StatusRenamed:
			summary.Renamed++
		case StatusModified:
			summary.Modified++
		}

		if len(summary.Head) < toolrec.CompactFileHead {
			summary.Head = append(summary.Head, f.Path)
		}
	}

	return summary
}

// DiffSummary is the compact projection of a DiffReport.
type DiffSummary struct {
	toolrec.Execution

	FilesChanged   int      `json:"files_changed"`
	TotalAdditions int      `json:"total_additions"`
	TotalDeletions int      `json:"total_deletions"`
	Added          int      `json:"added"`
	Deleted        int      `json:"deleted"`
	Modified       int      `json:"modified"`
	Renamed        int      `json:"renamed"`
	Head           []string `json:"head,omitempty"`
}

// Kind implements [toolrec.Record].
func (s *DiffSummary) Kind() string { return KindDiff }

// Render implements [toolrec.Record].
func (s *DiffSummary) Render() string {
	if s.FilesChanged == 0 {
		return "no changes"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s changed, +%d -%d (added=%d deleted=%d modified=%d renamed=%d)",
		render.Count(s.FilesChanged, "file", "files"),
		s.TotalAdditions, s.TotalDeletions, s.Added, s.Deleted, s.Modified, s.Renamed)

	for _, path := range s.Head {
		b.WriteString("\n  " + path)
	}

	if omitted := s.FilesChanged - len(s.Head); omitted > 0 {
		fmt.Fprintf(&b, "\n  ... and %d more", omitted)
	}

	return b.String()
}

// Compact implements [toolrec.Record].
func (s *DiffSummary) Compact() toolrec.Record { return s }
