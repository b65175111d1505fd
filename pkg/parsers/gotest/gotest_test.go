package gotest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/toolfang/toolfang/pkg/toolrec"
)

func eventLines(lines ...string) string {
	return strings.Join(lines, "\n") + "\n"
}

func TestParse_RerunOverwritesFailWithPass(t *testing.T) {
	t.Parallel()

	input := eventLines(
		`{"Action":"run","Package":"example.com/m","Test":"TestX"}`,
		`{"Action":"fail","Package":"example.com/m","Test":"TestX","Elapsed":0.01}`,
		`{"Action":"pass","Package":"example.com/m","Test":"TestX","Elapsed":0.02}`,
	)

	report := Parse(toolrec.Result{Stdout: input})

	require.Len(t, report.Tests, 1)
	assert.Equal(t, StatusPass, report.Tests[0].Status)
	assert.InDelta(t, 0.02, report.Tests[0].Elapsed, 1e-9)
	assert.Equal(t, 1, report.Passed)
	assert.Zero(t, report.Failed)
}

func TestParse_CountsDerivedFromTerminalStatuses(t *testing.T) {
	t.Parallel()

	input := eventLines(
		`{"Action":"pass","Package":"p","Test":"TestA","Elapsed":0.1}`,
		`{"Action":"fail","Package":"p","Test":"TestB","Elapsed":0.2}`,
		`{"Action":"skip","Package":"p","Test":"TestC"}`,
		`{"Action":"pass","Package":"q","Test":"TestA","Elapsed":0.3}`,
	)

	report := Parse(toolrec.Result{Stdout: input})

	require.Len(t, report.Tests, 4)
	assert.Equal(t, 2, report.Passed)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Skipped)
}

func TestParse_SameTestNameDifferentPackages(t *testing.T) {
	t.Parallel()

	input := eventLines(
		`{"Action":"pass","Package":"p","Test":"TestA"}`,
		`{"Action":"fail","Package":"q","Test":"TestA"}`,
	)

	report := Parse(toolrec.Result{Stdout: input})

	require.Len(t, report.Tests, 2)
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 1, report.Failed)
}

func TestParse_PackageEventsExcludedFromTests(t *testing.T) {
	t.Parallel()

	input := eventLines(
		`{"Action":"pass","Package":"p","Test":"TestA","Elapsed":0.1}`,
		`{"Action":"output","Package":"p","Output":"ok  \tp\t0.5s\n"}`,
		`{"Action":"pass","Package":"p","Elapsed":0.5}`,
	)

	report := Parse(toolrec.Result{Stdout: input})

	require.Len(t, report.Tests, 1)
	require.Len(t, report.Packages, 1)
	assert.Equal(t, "p", report.Packages[0].Package)
	assert.Equal(t, StatusPass, report.Packages[0].Status)
	assert.InDelta(t, 0.5, report.Packages[0].Elapsed, 1e-9)
	assert.Equal(t, 2, report.Stats.Unkeyed)
}

func TestParse_MalformedLinesDropped(t *testing.T) {
	t.Parallel()

	input := eventLines(
		`{"Action":"pass","Package":"p","Test":"TestA"}`,
		`=== RUN   TestA`,
		`{"Action":"fail","Package":"p","Test":`,
	)

	report := Parse(toolrec.Result{Stdout: input})

	require.Len(t, report.Tests, 1)
	assert.Equal(t, 2, report.Stats.Malformed)
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	report := Parse(toolrec.Result{Duration: 80 * time.Millisecond})

	assert.Empty(t, report.Tests)
	assert.Equal(t, "tests ok in 80ms: no test results", report.Render())
}

func TestTestReport_RenderListsFailures(t *testing.T) {
	t.Parallel()

	input := eventLines(
		`{"Action":"pass","Package":"p","Test":"TestA","Elapsed":0.1}`,
		`{"Action":"fail","Package":"p","Test":"TestB","Elapsed":0.25}`,
		`{"Action":"fail","Package":"p","Elapsed":0.4}`,
	)

	res := toolrec.Result{Stdout: input, ExitCode: 1, Duration: 400 * time.Millisecond}
	out := Parse(res).Render()

	assert.Contains(t, out, "tests failed in 400ms: 1 passed, 1 failed, 0 skipped")
	assert.Contains(t, out, "FAIL p.TestB (0.25s)")
	assert.Contains(t, out, "FAIL p (package)")
	assert.NotContains(t, out, "TestA")
}

func TestTestReport_SuccessFromExitCodeOnly(t *testing.T) {
	t.Parallel()

	// A fail event with a zero exit code does not flip success.
	input := eventLines(`{"Action":"fail","Package":"p","Test":"TestB"}`)

	report := Parse(toolrec.Result{Stdout: input, ExitCode: 0})

	assert.True(t, report.Success)
	assert.Equal(t, 1, report.Failed)
}

func TestTestReport_CompactCapsFailedHead(t *testing.T) {
	t.Parallel()

	var lines []string
	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L"} {
		lines = append(lines, `{"Action":"fail","Package":"p","Test":"Test`+name+`"}`)
	}

	report := Parse(toolrec.Result{Stdout: eventLines(lines...), ExitCode: 1})

	summary, ok := report.Compact().(*TestSummary)
	require.True(t, ok)

	assert.Equal(t, 12, summary.Failed)
	assert.Len(t, summary.FailedHead, toolrec.CompactTestHead)
	assert.Equal(t, "p.TestA", summary.FailedHead[0])
	assert.Contains(t, summary.Render(), "... and 2 more")
}
