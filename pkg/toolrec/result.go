// Package toolrec defines the shared types flowing through the output
// normalization pipeline: the raw capture of one tool invocation, the
// canonical record interface every parser produces, and the diagnostic
// value extracted from compiler/linter text.
package toolrec

import "time"

// Result is the raw capture of a single tool invocation as delivered by the
// process-execution layer. It is immutable and consumed exactly once.
type Result struct {
	// Stdout is the complete standard output of the process.
	Stdout string

	// Stderr is the complete standard error of the process.
	Stderr string

	// ExitCode is the process exit code. Negative when the process was
	// killed before exiting.
	ExitCode int

	// Duration is the wall-clock time the process ran.
	Duration time.Duration

	// TimedOut reports whether the process was killed by the deadline.
	TimedOut bool
}

// Success reports whether the invocation succeeded. Only the exit code and
// the timeout flag decide this; error-looking text never does.
func (r Result) Success() bool {
	return r.ExitCode == 0 && !r.TimedOut
}

// Combined returns stdout and stderr joined in capture order. This is the
// informational footprint the output policy compares against.
func (r Result) Combined() string {
	if r.Stdout == "" {
		return r.Stderr
	}

	if r.Stderr == "" {
		return r.Stdout
	}

	return r.Stdout + "\n" + r.Stderr
}

// Execution is the per-invocation envelope embedded in every canonical
// record. Derived once from a Result and never mutated.
type Execution struct {
	Success    bool  `json:"success"`
	DurationMs int64 `json:"duration_ms"`
	TimedOut   bool  `json:"timed_out,omitempty"`
}

// NewExecution derives the record envelope from a raw result.
func NewExecution(res Result) Execution {
	return Execution{
		Success:    res.Success(),
		DurationMs: res.Duration.Milliseconds(),
		TimedOut:   res.TimedOut,
	}
}
