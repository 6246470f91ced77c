// Package logs holds the logging section of the server configuration.
package logs

import (
	"fmt"
	"strings"
)

const (
	FormatUnspecified Format = ""
	FormatText        Format = "text"
	FormatJSON        Format = "json"
)

const (
	LevelUnspecified Level = ""
	LevelTrace       Level = "trace"
	LevelDebug       Level = "debug"
	LevelInfo        Level = "info"
	LevelWarn        Level = "warn"
	LevelError       Level = "error"
)

// Config contains logging-related configuration options. Output is "stdout", "stderr", or a
// file path (optionally prefixed with "file://").
type Config struct {
	Format Format `toml:"format"`
	Level  Level  `toml:"level"`
	Output string `toml:"output" env_interpolation:"yes"`
}

// Format represents the logging output format
type Format string

// Level represents the logging verbosity level
type Level string

func (f Format) String() string {
	return string(f)
}

func (l Level) String() string {
	return string(l)
}

// IsValid checks if the Format is valid
func (f Format) IsValid() bool {
	switch f {
	case FormatUnspecified, FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// IsValid checks if the Level is valid
func (l Level) IsValid() bool {
	switch l {
	case LevelUnspecified, LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError:
		return true
	default:
		return false
	}
}

// FormatFromString converts a string to a Format
func FormatFromString(format string) (Format, error) {
	switch strings.ToLower(format) {
	case "json":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	case "":
		return FormatUnspecified, nil
	default:
		return FormatUnspecified, fmt.Errorf("%w: %s", ErrInvalidLogFormat, format)
	}
}

// LevelFromString converts a string to a Level
func LevelFromString(level string) (Level, error) {
	switch strings.ToLower(level) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "":
		return LevelUnspecified, nil
	default:
		return LevelUnspecified, fmt.Errorf("%w: %s", ErrInvalidLogLevel, level)
	}
}

// EffectiveFormat returns the format with the text default applied.
func (lc *Config) EffectiveFormat() Format {
	if lc.Format == FormatUnspecified {
		return FormatText
	}
	return lc.Format
}

// EffectiveLevel returns the level with the info default applied.
func (lc *Config) EffectiveLevel() Level {
	if lc.Level == LevelUnspecified {
		return LevelInfo
	}
	return lc.Level
}
