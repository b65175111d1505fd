package gitcli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolfang/toolfang/pkg/toolrec"
)

const porcelainStatus = ` M internal/config/config.go
M  cmd/main.go
A  pkg/render/render.go
R  old_name.go -> new_name.go
?? notes.txt
`

func TestParseStatus_Entries(t *testing.T) {
	t.Parallel()

	report := ParseStatus(toolrec.Result{Stdout: porcelainStatus})

	require.Len(t, report.Entries, 5)
	assert.False(t, report.Clean)

	first := report.Entries[0]

	assert.Empty(t, first.Staged)
	assert.Equal(t, "M", first.Unstaged)
	assert.Equal(t, "internal/config/config.go", first.Path)
}

func TestParseStatus_CountsDerived(t *testing.T) {
	t.Parallel()

	report := ParseStatus(toolrec.Result{Stdout: porcelainStatus})

	assert.Equal(t, 3, report.Staged)
	assert.Equal(t, 1, report.Unstaged)
	assert.Equal(t, 1, report.Untracked)
}

func TestParseStatus_Rename(t *testing.T) {
	t.Parallel()

	report := ParseStatus(toolrec.Result{Stdout: porcelainStatus})

	renamed := report.Entries[3]

	assert.Equal(t, "R", renamed.Staged)
	assert.Equal(t, "old_name.go", renamed.RenamedFrom)
	assert.Equal(t, "new_name.go", renamed.Path)
}

func TestParseStatus_CleanTree(t *testing.T) {
	t.Parallel()

	report := ParseStatus(toolrec.Result{})

	assert.True(t, report.Clean)
	assert.Equal(t, "working tree clean", report.Render())
}

func TestParseStatus_ShortLinesDropped(t *testing.T) {
	t.Parallel()

	report := ParseStatus(toolrec.Result{Stdout: "x\n M a.go\n"})

	require.Len(t, report.Entries, 1)
}

func TestStatusReport_CompactKeepsCounters(t *testing.T) {
	t.Parallel()

	report := ParseStatus(toolrec.Result{Stdout: porcelainStatus})

	summary, ok := report.Compact().(*StatusSummary)
	require.True(t, ok)

	assert.Equal(t, report.Staged, summary.Staged)
	assert.Equal(t, report.Unstaged, summary.Unstaged)
	assert.Equal(t, report.Untracked, summary.Untracked)
	assert.Len(t, summary.Head, 5)
	assert.Contains(t, summary.Head, "new_name.go")
}
