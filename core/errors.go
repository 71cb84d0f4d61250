package core

import (
	"fmt"
)

// ConfigError represents a configuration-related error with an actionable
// instruction for resolution.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Error codes for configuration errors
const (
	ErrCodeInvalidPort    = "INVALID_PORT"
	ErrCodeFontNotFound   = "FONT_NOT_FOUND"
	ErrCodeOutputDir      = "OUTPUT_DIR_UNWRITABLE"
	ErrCodeFFmpegMissing  = "FFMPEG_MISSING"
	ErrCodeDatabaseFailed = "DATABASE_FAILED"
)

// ErrInvalidPort returns an error for an out-of-range PORT value.
func ErrInvalidPort(port int) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidPort,
		Message: fmt.Sprintf("Invalid PORT value %d", port),
		Action:  "Set PORT to a value between 1 and 65535",
	}
}

// ErrFontNotFound returns an error for an unreadable IMPACT_PATH. The
// renderer falls back to an embedded face, so this is surfaced as a
// warning during startup validation rather than a fatal error.
func ErrFontNotFound(path string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeFontNotFound,
		Message: fmt.Sprintf("Caption font not found: %s", path),
		Action:  "Set IMPACT_PATH to a readable TrueType file or unset it to use the embedded font",
	}
}

// ErrOutputDirUnwritable returns an error for an output directory that
// cannot be created or written.
func ErrOutputDirUnwritable(dir string, cause error) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeOutputDir,
		Message: fmt.Sprintf("Output directory %s is not writable: %v", dir, cause),
		Action:  "Set OUTPUT_DIR to a writable location",
	}
}

// ErrFFmpegMissing returns an error for an ffmpeg binary that cannot be
// located. Only the karaoke endpoint needs ffmpeg, so startup treats this
// as a warning.
func ErrFFmpegMissing(path string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeFFmpegMissing,
		Message: fmt.Sprintf("ffmpeg not found at %q", path),
		Action:  "Install ffmpeg or set FFMPEG_PATH; the /karaoke endpoint will fail without it",
	}
}
