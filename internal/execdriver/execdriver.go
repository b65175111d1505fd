// Package execdriver runs wrapped developer-tool CLIs and captures their
// output for the parsing pipeline. It enforces the invocation timeout and
// a flag-injection guard on user-supplied positional arguments; everything
// downstream of the capture is pure.
package execdriver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/toolfang/toolfang/pkg/toolrec"
)

// ErrFlagInjection indicates a user-supplied positional argument that would
// be parsed as a flag by the wrapped tool.
var ErrFlagInjection = errors.New("positional argument must not begin with '-'")

// DefaultTimeout bounds an invocation when the driver is constructed with a
// zero timeout.
const DefaultTimeout = 2 * time.Minute

// Driver executes wrapped tools.
type Driver struct {
	// Timeout bounds each invocation. Zero falls back to DefaultTimeout.
	Timeout time.Duration

	// Dir is the working directory for invocations. Empty inherits the
	// process working directory.
	Dir string
}

// GuardArgs rejects user-supplied positional arguments that begin with a
// dash. Flags belong to the server's own argument construction; a leading
// dash in a positional slot is an injection attempt or a typo, never valid.
func GuardArgs(args []string) error {
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") {
			return fmt.Errorf("%w: %q", ErrFlagInjection, arg)
		}
	}

	return nil
}

// Run executes the tool and captures its output. A non-zero exit code is
// not an error: it is part of the capture. The returned error is reserved
// for failures to run the tool at all (binary missing, permission denied).
func (d Driver) Run(ctx context.Context, name string, args ...string) (toolrec.Result, error) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, name, args...)
	cmd.Dir = d.Dir

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	res := toolrec.Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: duration,
		TimedOut: errors.Is(runCtx.Err(), context.DeadlineExceeded),
	}

	if runErr == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) || res.TimedOut {
		res.ExitCode = exitCode(cmd, res.TimedOut)

		return res, nil
	}

	return toolrec.Result{}, fmt.Errorf("run %s: %w", name, runErr)
}

// exitCode extracts the exit code from a finished command. A killed
// process reports -1.
func exitCode(cmd *exec.Cmd, timedOut bool) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}

	if timedOut {
		return -1
	}

	return 0
}
