package execdriver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_CapturesStdoutAndStderr(t *testing.T) {
	t.Parallel()

	res, err := Driver{}.Run(context.Background(), "sh", "-c", "echo out; echo err >&2")

	require.NoError(t, err)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
	assert.Zero(t, res.ExitCode)
	assert.True(t, res.Success())
}

func TestRun_NonZeroExitIsCaptureNotError(t *testing.T) {
	t.Parallel()

	res, err := Driver{}.Run(context.Background(), "sh", "-c", "echo broken; exit 3")

	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "broken\n", res.Stdout)
	assert.False(t, res.Success())
}

func TestRun_TimeoutMarksCapture(t *testing.T) {
	t.Parallel()

	driver := Driver{Timeout: 50 * time.Millisecond}

	res, err := driver.Run(context.Background(), "sh", "-c", "sleep 5")

	require.NoError(t, err)
	assert.True(t, res.TimedOut)
	assert.False(t, res.Success())
}

func TestRun_MissingBinaryIsError(t *testing.T) {
	t.Parallel()

	_, err := Driver{}.Run(context.Background(), "definitely-not-a-real-binary-xyz")

	require.Error(t, err)
}

func TestRun_RecordsDuration(t *testing.T) {
	t.Parallel()

	res, err := Driver{}.Run(context.Background(), "sh", "-c", "true")

	require.NoError(t, err)
	assert.Positive(t, res.Duration)
}

func TestGuardArgs_AcceptsPlainArguments(t *testing.T) {
	t.Parallel()

	assert.NoError(t, GuardArgs([]string{"main.go", "pkg/render", "HEAD~3"}))
	assert.NoError(t, GuardArgs(nil))
}

func TestGuardArgs_RejectsLeadingDash(t *testing.T) {
	t.Parallel()

	err := GuardArgs([]string{"main.go", "--exec=/bin/sh"})

	require.ErrorIs(t, err, ErrFlagInjection)
	assert.Contains(t, err.Error(), "--exec=/bin/sh")
}
