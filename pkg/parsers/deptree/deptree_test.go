package deptree

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolfang/toolfang/pkg/toolrec"
)

const npmTree = `myapp@1.0.0 /home/dev/myapp
+-- express@4.18.2
| +-- accepts@1.3.8
| | \-- mime-types@2.1.35
| \-- body-parser@1.20.1
+-- lodash@4.17.21
\-- supertest@6.3.4
  \-- mime-types@2.1.35 deduped
`

func TestParse_DepthFromTreePrefix(t *testing.T) {
	t.Parallel()

	report := Parse(toolrec.Result{Stdout: npmTree})

	require.Len(t, report.Dependencies, 6)
	assert.Equal(t, 1, report.Dependencies[0].Depth)
	assert.Equal(t, 2, report.Dependencies[1].Depth)
	assert.Equal(t, 3, report.Dependencies[2].Depth)
	assert.Equal(t, "mime-types", report.Dependencies[2].Name)
}

func TestParse_RootHeader(t *testing.T) {
	t.Parallel()

	report := Parse(toolrec.Result{Stdout: npmTree})

	assert.Equal(t, "myapp", report.Root)
	assert.Equal(t, "1.0.0", report.RootVersion)
}

func TestParse_DedupedMarkerDropped(t *testing.T) {
	t.Parallel()

	report := Parse(toolrec.Result{Stdout: npmTree})

	assert.Equal(t, 6, report.Total)
	assert.Equal(t, 1, report.Deduplicated)
	assert.Equal(t, 3, report.Direct)
}

func TestParse_RepeatedEntryKeepsFirstOccurrence(t *testing.T) {
	t.Parallel()

	input := "+-- left@1.0.0\n| \\-- shared@2.0.0\n\\-- right@1.0.0\n  \\-- shared@2.0.0\n"

	report := Parse(toolrec.Result{Stdout: input})

	require.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.Deduplicated)
	assert.Equal(t, 2, report.Dependencies[1].Depth)
	assert.Equal(t, "shared", report.Dependencies[1].Name)
}

func TestParse_UpgradeNotationKeepsDeclaredVersion(t *testing.T) {
	t.Parallel()

	report := Parse(toolrec.Result{Stdout: "+-- glob@7.2.3 -> 8.1.0\n"})

	require.Len(t, report.Dependencies, 1)
	assert.Equal(t, "7.2.3", report.Dependencies[0].Version)
}

func TestParse_ScopedPackageName(t *testing.T) {
	t.Parallel()

	report := Parse(toolrec.Result{Stdout: "+-- @types/node@20.11.5\n"})

	require.Len(t, report.Dependencies, 1)
	assert.Equal(t, "@types/node", report.Dependencies[0].Name)
	assert.Equal(t, "20.11.5", report.Dependencies[0].Version)
}

func TestParse_NoiseLinesDropped(t *testing.T) {
	t.Parallel()

	input := "npm WARN old lockfile\n+-- express@4.18.2\nadded 12 packages\n"

	report := Parse(toolrec.Result{Stdout: input})

	assert.Equal(t, 1, report.Total)
	assert.Empty(t, report.Root)
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	report := Parse(toolrec.Result{})

	assert.Zero(t, report.Total)
	assert.Equal(t, "no dependencies", report.Render())
}

func TestTreeReport_RenderIndentsByDepth(t *testing.T) {
	t.Parallel()

	out := Parse(toolrec.Result{Stdout: npmTree}).Render()

	assert.Contains(t, out, "myapp@1.0.0: 6 dependencies (3 direct, 1 deduplicated)")
	assert.Contains(t, out, "\n  express@4.18.2")
	assert.Contains(t, out, "\n    accepts@1.3.8")
	assert.Contains(t, out, "\n      mime-types@2.1.35")
}

func TestTreeReport_CompactKeepsDirectHead(t *testing.T) {
	t.Parallel()

	report := Parse(toolrec.Result{Stdout: npmTree})

	summary, ok := report.Compact().(*TreeSummary)
	require.True(t, ok)

	assert.Equal(t, report.Total, summary.Total)
	assert.Equal(t, report.Deduplicated, summary.Deduplicated)
	assert.Equal(t, []string{"express@4.18.2", "lodash@4.17.21", "supertest@6.3.4"}, summary.Head)
}

func TestTreeReport_CompactCapsDirectHead(t *testing.T) {
	t.Parallel()

	var input string
	for i := range 15 {
		input += fmt.Sprintf("+-- pkg%d@1.0.0\n", i)
	}

	summary := Parse(toolrec.Result{Stdout: input}).Compact().(*TreeSummary)

	assert.Equal(t, 15, summary.Direct)
	assert.Len(t, summary.Head, toolrec.CompactFileHead)
	assert.Contains(t, summary.Render(), "... and 5 more")
}
