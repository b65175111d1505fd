package fmtcheck

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolfang/toolfang/pkg/toolrec"
)

func TestParse_UnformattedFileList(t *testing.T) {
	t.Parallel()

	input := "cmd/main.go\ninternal/config/config.go\n"

	report := Parse(toolrec.Result{Stdout: input})

	require.Len(t, report.Files, 2)
	assert.Equal(t, 2, report.Count)
	assert.False(t, report.Formatted)
}

func TestParse_CleanTree(t *testing.T) {
	t.Parallel()

	report := Parse(toolrec.Result{})

	assert.True(t, report.Formatted)
	assert.Zero(t, report.Count)
	assert.Equal(t, "all files formatted correctly", report.Render())
}

func TestParse_DiagnosticLinesDropped(t *testing.T) {
	t.Parallel()

	input := "broken.go:3:1: expected declaration, found '}'\ncmd/main.go\n"

	report := Parse(toolrec.Result{Stdout: input})

	require.Len(t, report.Files, 1)
	assert.Equal(t, "cmd/main.go", report.Files[0])
}

func TestParse_ExitCodeDecidesSuccess(t *testing.T) {
	t.Parallel()

	// Listing unformatted files with a zero exit code stays a success.
	report := Parse(toolrec.Result{Stdout: "main.go\n"})

	assert.True(t, report.Success)
	assert.False(t, report.Formatted)
}

func TestFmtReport_RenderListsFiles(t *testing.T) {
	t.Parallel()

	out := Parse(toolrec.Result{Stdout: "a.go\nb.go\n"}).Render()

	assert.Contains(t, out, "2 files need formatting")
	assert.Contains(t, out, "\n  a.go")
	assert.Contains(t, out, "\n  b.go")
}

func TestFmtReport_CompactCapsFileHead(t *testing.T) {
	t.Parallel()

	var input string
	for i := range 14 {
		input += fmt.Sprintf("pkg/file%02d.go\n", i)
	}

	report := Parse(toolrec.Result{Stdout: input})

	summary, ok := report.Compact().(*FmtSummary)
	require.True(t, ok)

	assert.Equal(t, 14, summary.Count)
	assert.Len(t, summary.Head, toolrec.CompactFileHead)
	assert.Contains(t, summary.Render(), "... and 4 more")
}

func TestParse_PathWithSpaceKept(t *testing.T) {
	t.Parallel()

	input := "broken.go:3:1: expected declaration, found '}'\nlegacy code/main.go\n"

	report := Parse(toolrec.Result{Stdout: input})

	require.Len(t, report.Files, 1)
	assert.Equal(t, "legacy code/main.go", report.Files[0])
}
