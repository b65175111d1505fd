// Package config provides configuration loading and validation for the
// toolfang server and CLI.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidMargin   = errors.New("output margin percent must not be negative")
	ErrInvalidTimeout  = errors.New("exec timeout must be positive")
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Default configuration values.
const (
	defaultTimeout       = 2 * time.Minute
	defaultMarginPercent = 0
	defaultLogLevel      = "info"
	defaultLogFormat     = "text"
)

// validLogLevels are the accepted logging.level values.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Config holds all configuration for toolfang.
type Config struct {
	Output    OutputConfig    `mapstructure:"output"`
	Exec      ExecConfig      `mapstructure:"exec"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// OutputConfig controls the full-versus-compact payload decision.
type OutputConfig struct {
	// AlwaysFull forces the full structured record on every invocation.
	AlwaysFull bool `mapstructure:"always_full"`

	// MarginPercent widens the size allowance before compaction kicks in.
	MarginPercent int `mapstructure:"margin_percent"`
}

// ExecConfig controls how wrapped tools are run.
type ExecConfig struct {
	// Timeout bounds one tool invocation.
	Timeout time.Duration `mapstructure:"timeout"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OTel export configuration. An empty endpoint keeps
// the providers no-op.
type TelemetryConfig struct {
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	MetricsAddr  string  `mapstructure:"metrics_addr"`
}

// Load reads configuration from the given file (or the default search
// paths when empty) and from TOOLFANG_* environment variables.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("toolfang")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("$HOME/.config/toolfang")
		viperCfg.AddConfigPath("/etc/toolfang")
	}

	viperCfg.SetEnvPrefix("TOOLFANG")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validate(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("output.always_full", false)
	viperCfg.SetDefault("output.margin_percent", defaultMarginPercent)

	viperCfg.SetDefault("exec.timeout", defaultTimeout.String())

	viperCfg.SetDefault("logging.level", defaultLogLevel)
	viperCfg.SetDefault("logging.format", defaultLogFormat)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
	viperCfg.SetDefault("telemetry.metrics_addr", "")
}

func validate(config *Config) error {
	if config.Output.MarginPercent < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMargin, config.Output.MarginPercent)
	}

	if config.Exec.Timeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, config.Exec.Timeout)
	}

	if !validLogLevels[config.Logging.Level] {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, config.Logging.Level)
	}

	return nil
}
