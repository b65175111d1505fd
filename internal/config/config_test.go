package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "toolfang.yaml")

	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load(writeConfig(t, ""))

	require.NoError(t, err)
	assert.False(t, cfg.Output.AlwaysFull)
	assert.Zero(t, cfg.Output.MarginPercent)
	assert.Equal(t, 2*time.Minute, cfg.Exec.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Telemetry.OTLPEndpoint)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
output:
  always_full: true
  margin_percent: 25
exec:
  timeout: 30s
logging:
  level: debug
  format: json
telemetry:
  otlp_endpoint: localhost:4317
  otlp_insecure: true
  sample_ratio: 0.5
`)

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.True(t, cfg.Output.AlwaysFull)
	assert.Equal(t, 25, cfg.Output.MarginPercent)
	assert.Equal(t, 30*time.Second, cfg.Exec.Timeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "localhost:4317", cfg.Telemetry.OTLPEndpoint)
	assert.InDelta(t, 0.5, cfg.Telemetry.SampleRatio, 1e-9)
}

func TestLoad_NegativeMarginRejected(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, "output:\n  margin_percent: -5\n"))

	require.ErrorIs(t, err, ErrInvalidMargin)
}

func TestLoad_NonPositiveTimeoutRejected(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, "exec:\n  timeout: 0s\n"))

	require.ErrorIs(t, err, ErrInvalidTimeout)
}

func TestLoad_UnknownLogLevelRejected(t *testing.T) {
	t.Parallel()

	_, err := Load(writeConfig(t, "logging:\n  level: verbose\n"))

	require.ErrorIs(t, err, ErrInvalidLogLevel)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, 2*time.Minute, cfg.Exec.Timeout)
}
