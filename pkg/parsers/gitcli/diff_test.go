package gitcli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolfang/toolfang/pkg/toolrec"
)

func parseSingleRow(t *testing.T, row string) DiffFile {
	t.Helper()

	report := ParseDiff(toolrec.Result{Stdout: row + "\n"})

	require.Len(t, report.Files, 1)

	return report.Files[0]
}

func TestParseDiff_StatusPrecedence(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		row  string
		want FileStatus
	}{
		{name: "pure_addition", row: "42\t0\tnew.go", want: StatusAdded},
		{name: "pure_deletion", row: "0\t17\tgone.go", want: StatusDeleted},
		{name: "mixed_change", row: "5\t3\tchanged.go", want: StatusModified},
		{name: "zero_zero", row: "0\t0\tchmod-only.sh", want: StatusModified},
		{name: "binary", row: "-\t-\tlogo.png", want: StatusModified},
		{name: "rename_plain", row: "0\t0\told.go => new.go", want: StatusRenamed},
		{name: "rename_beats_addition", row: "12\t4\tlib/{a.go => b.go}", want: StatusRenamed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			file := parseSingleRow(t, tc.row)

			assert.Equal(t, tc.want, file.Status)
		})
	}
}

func TestParseDiff_BinaryRow(t *testing.T) {
	t.Parallel()

	file := parseSingleRow(t, "-\t-\tassets/logo.png")

	assert.True(t, file.Binary)
	assert.Zero(t, file.Additions)
	assert.Zero(t, file.Deletions)
	assert.Equal(t, StatusModified, file.Status)
}

func TestParseDiff_BraceRenameExpansion(t *testing.T) {
	t.Parallel()

	file := parseSingleRow(t, "3\t1\tsrc/{parser => lexer}/table.go")

	assert.Equal(t, "src/parser/table.go", file.OldPath)
	assert.Equal(t, "src/lexer/table.go", file.Path)
	assert.Equal(t, StatusRenamed, file.Status)
}

func TestParseDiff_BraceRenameEmptySide(t *testing.T) {
	t.Parallel()

	file := parseSingleRow(t, "0\t0\tlib/{ => core}/util.go")

	assert.Equal(t, "lib/util.go", file.OldPath)
	assert.Equal(t, "lib/core/util.go", file.Path)
}

func TestParseDiff_Totals(t *testing.T) {
	t.Parallel()

	input := "10\t2\ta.go\n0\t5\tb.go\n-\t-\tc.bin\n"

	report := ParseDiff(toolrec.Result{Stdout: input})

	assert.Equal(t, 3, report.FilesChanged)
	assert.Equal(t, 10, report.TotalAdditions)
	assert.Equal(t, 7, report.TotalDeletions)
}

func TestParseDiff_NoiseLinesDropped(t *testing.T) {
	t.Parallel()

	input := "warning: CRLF will be replaced\n10\t2\ta.go\n"

	report := ParseDiff(toolrec.Result{Stdout: input})

	assert.Equal(t, 1, report.FilesChanged)
}

func TestParseDiff_Empty(t *testing.T) {
	t.Parallel()

	report := ParseDiff(toolrec.Result{})

	assert.Zero(t, report.FilesChanged)
	assert.Equal(t, "no changes", report.Render())
}

func TestDiffReport_RenderTable(t *testing.T) {
	t.Parallel()

	input := "10\t2\ta.go\n-\t-\tlogo.png\n"
	out := ParseDiff(toolrec.Result{Stdout: input}).Render()

	assert.Contains(t, out, "2 files changed, +10 -2")
	assert.Contains(t, out, "a.go")
	assert.Contains(t, out, "logo.png")
	assert.Contains(t, out, "modified")
}

func TestDiffReport_CompactCountsByStatus(t *testing.T) {
	t.Parallel()

	input := "42\t0\tnew.go\n0\t17\tgone.go\n5\t3\tchanged.go\n0\t0\told.go => moved.go\n"

	report := ParseDiff(toolrec.Result{Stdout: input})

	summary, ok := report.Compact().(*DiffSummary)
	require.True(t, ok)

	assert.Equal(t, 1, summary.Added)
	assert.Equal(t, 1, summary.Deleted)
	assert.Equal(t, 1, summary.Modified)
	assert.Equal(t, 1, summary.Renamed)
	assert.Equal(t, report.FilesChanged, summary.Added+summary.Deleted+summary.Modified+summary.Renamed)
	assert.Len(t, summary.Head, 4)
}
