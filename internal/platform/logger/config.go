package logger

import (
	"os"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Format selects the log encoder.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// parseFormat accepts "text" as a synonym for console. Anything else
// unknown is logged as JSON, which is what the log shipper expects.
func parseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "console", "text":
		return FormatConsole
	default:
		return FormatJSON
	}
}

// LoggerConfig holds configuration for the logger.
type LoggerConfig struct {
	Level      string
	Format     Format
	OutputFile string
}

// ConfigFromEnv reads LOG_LEVEL, LOG_FORMAT and LOG_OUTPUT_FILE.
func ConfigFromEnv() *LoggerConfig {
	cfg := &LoggerConfig{Level: "info", Format: FormatJSON, OutputFile: "stdout"}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		cfg.Level = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok {
		cfg.Format = parseFormat(v)
	}
	if v, ok := os.LookupEnv("LOG_OUTPUT_FILE"); ok && v != "" {
		cfg.OutputFile = strings.TrimSpace(v)
	}
	return cfg
}

// ZapLevel converts the configured level, defaulting to info. Levels that
// would stop the process on a single entry are not accepted.
func (c *LoggerConfig) ZapLevel() zapcore.Level {
	if c.Level == "warning" {
		return zapcore.WarnLevel
	}
	lvl, err := zapcore.ParseLevel(c.Level)
	if err != nil || lvl > zapcore.ErrorLevel {
		return zapcore.InfoLevel
	}
	return lvl
}

// toFile reports whether entries also go to a file next to the standard streams.
func (c *LoggerConfig) toFile() bool {
	return c.OutputFile != "" && c.OutputFile != "stdout" && c.OutputFile != "stderr"
}

// outputPaths returns the zap sinks for regular and internal error output.
func (c *LoggerConfig) outputPaths() (out, errOut []string) {
	switch {
	case c.OutputFile == "stderr":
		return []string{"stderr"}, []string{"stderr"}
	case c.toFile():
		return []string{c.OutputFile, "stdout"}, []string{c.OutputFile, "stderr"}
	default:
		return []string{"stdout"}, []string{"stderr"}
	}
}
