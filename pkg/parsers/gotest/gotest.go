// Package gotest parses the JSON-lines event stream emitted by go test
// with the JSON reporter enabled. Per-test events fold down to one terminal
// state per test; package-level events feed package durations only.
package gotest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/toolfang/toolfang/pkg/eventstream"
	"github.com/toolfang/toolfang/pkg/render"
	"github.com/toolfang/toolfang/pkg/toolrec"
)

// Kind identifies go test invocations.
const Kind = "go_test"

// Terminal test statuses. Non-terminal actions (run, output, pause, cont)
// pass through the reducer but never survive as a final state on a healthy
// stream; they are reported verbatim when a stream is truncated mid-test.
const (
	StatusPass = "pass"
	StatusFail = "fail"
	StatusSkip = "skip"
)

// Event is one line of the JSON test reporter stream.
type Event struct {
	Action  string  `json:"Action"`
	Package string  `json:"Package"`
	Test    string  `json:"Test,omitempty"`
	Elapsed float64 `json:"Elapsed,omitempty"`
	Output  string  `json:"Output,omitempty"`
}

type testKey struct {
	pkg  string
	test string
}

// TestResult is the terminal state of one test.
type TestResult struct {
	Package string  `json:"package"`
	Test    string  `json:"test"`
	Status  string  `json:"status"`
	Elapsed float64 `json:"elapsed"`
}

// Name returns the package-qualified test name.
func (t TestResult) Name() string { return t.Package + "." + t.Test }

// PackageResult is the terminal state of one package, derived from the
// unkeyed package-level events.
type PackageResult struct {
	Package string  `json:"package"`
	Status  string  `json:"status"`
	Elapsed float64 `json:"elapsed"`
}

// TestReport is the canonical record for a go test invocation.
type TestReport struct {
	toolrec.Execution

	Tests    []TestResult    `json:"tests"`
	Packages []PackageResult `json:"packages"`
	Passed   int             `json:"passed"`
	Failed   int             `json:"failed"`
	Skipped  int             `json:"skipped"`

	// Stats exposes the reducer's drop counters to tests. It is not part
	// of the record's wire shape.
	Stats eventstream.Stats `json:"-"`
}

// Parse folds the JSON event stream into one result per test. A later
// event for the same test overwrites the earlier state, so a rerun that
// turns a fail into a pass reports pass.
func Parse(res toolrec.Result) *TestReport {
	red := eventstream.Reduce(
		[]byte(res.Stdout),
		func(line []byte) (Event, error) {
			var ev Event

			err := json.Unmarshal(line, &ev)

			return ev, err
		},
		func(ev Event) (testKey, bool) {
			if ev.Test == "" {
				return testKey{}, false
			}

			return testKey{pkg: ev.Package, test: ev.Test}, true
		},
	)

	report := &TestReport{
		Execution: toolrec.NewExecution(res),
		Tests:     make([]TestResult, 0, len(red.Final)),
		Stats:     red.Stats,
	}

	for _, ev := range red.Final {
		report.Tests = append(report.Tests, TestResult{
			Package: ev.Package,
			Test:    ev.Test,
			Status:  ev.Action,
			Elapsed: ev.Elapsed,
		})
	}

	report.Packages = packageResults(red.Unkeyed)

	for _, t := range report.Tests {
		switch t.Status {
		case StatusPass:
			report.Passed++
		case StatusFail:
			report.Failed++
		case StatusSkip:
			report.Skipped++
		}
	}

	return report
}

// packageResults folds the package-level events the same way the keyed
// reduction folds tests: the last event per package wins.
func packageResults(events []Event) []PackageResult {
	index := make(map[string]int)
	results := []PackageResult{}

	for _, ev := range events {
		if ev.Package == "" || ev.Action == "output" {
			continue
		}

		result := PackageResult{Package: ev.Package, Status: ev.Action, Elapsed: ev.Elapsed}

		if pos, seen := index[ev.Package]; seen {
			results[pos] = result

			continue
		}

		index[ev.Package] = len(results)
		results = append(results, result)
	}

	return results
}

// FailedTests returns the tests whose terminal state is fail.
func (r *TestReport) FailedTests() []TestResult {
	failed := []TestResult{}

	for _, t := range r.Tests {
		if t.Status == StatusFail {
			failed = append(failed, t)
		}
	}

	return failed
}

// Kind implements [toolrec.Record].
func (r *TestReport) Kind() string { return Kind }

// Render implements [toolrec.Record].
func (r *TestReport) Render() string {
	if len(r.Tests) == 0 {
		return fmt.Sprintf("tests %s in %s: no test results",
			render.StatusWord(r.Success), render.Duration(r.DurationMs))
	}

	var b strings.Builder

	fmt.Fprintf(&b, "tests %s in %s: %d passed, %d failed, %d skipped",
		render.StatusWord(r.Success), render.Duration(r.DurationMs),
		r.Passed, r.Failed, r.Skipped)

	for _, t := range r.FailedTests() {
		fmt.Fprintf(&b, "\n  FAIL %s (%.2fs)", t.Name(), t.Elapsed)
	}

	for _, p := range r.Packages {
		if p.Status == StatusFail {
			fmt.Fprintf(&b, "\n  FAIL %s (package)", p.Package)
		}
	}

	return b.String()
}

// Compact implements [toolrec.Record]. Per-test rows collapse into the
// three counters plus a capped head of failing test names.
func (r *TestReport) Compact() toolrec.Record {
	failed := r.FailedTests()
	names := make([]string, 0, len(failed))

	for _, t := range failed {
		names = append(names, t.Name())
	}

	return &TestSummary{
		Execution:  r.Execution,
		Total:      len(r.Tests),
		Passed:     r.Passed,
		Failed:     r.Failed,
		Skipped:    r.Skipped,
		FailedHead: toolrec.HeadStrings(names, toolrec.CompactTestHead),
	}
}

// TestSummary is the compact projection of a TestReport.
type TestSummary struct {
	toolrec.Execution

	Total      int      `json:"total"`
	Passed     int      `json:"passed"`
	Failed     int      `json:"failed"`
	Skipped    int      `json:"skipped"`
	FailedHead []string `json:"failed_head,omitempty"`
}

// Kind implements [toolrec.Record].
func (s *TestSummary) Kind() string { return Kind }

// Render implements [toolrec.Record].
func (s *TestSummary) Render() string {
	if s.Total == 0 {
		return fmt.Sprintf("tests %s in %s: no test results",
			render.StatusWord(s.Success), render.Duration(s.DurationMs))
	}

	var b strings.Builder

	fmt.Fprintf(&b, "tests %s in %s: %d passed, %d failed, %d skipped",
		render.StatusWord(s.Success), render.Duration(s.DurationMs),
		s.Passed, s.Failed, s.Skipped)

	for _, name := range s.FailedHead {
		b.WriteString("\n  FAIL " + name)
	}

	if omitted := s.Failed - len(s.FailedHead); omitted > 0 {
		fmt.Fprintf(&b, "\n  ... and %d more", omitted)
	}

	return b.String()
}

// Compact implements [toolrec.Record].
func (s *TestSummary) Compact() toolrec.Record { return s }
