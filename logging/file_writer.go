package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileWriterConfig controls log file rotation.
type FileWriterConfig struct {
	// Filename is the file to write logs to.
	Filename string
	// MaxSizeMB is the maximum size in megabytes before rotation.
	MaxSizeMB int
	// MaxBackups is the maximum number of old log files to retain.
	MaxBackups int
	// MaxAgeDays is the maximum number of days to retain old files.
	MaxAgeDays int
	// Compress determines if rotated files are gzipped.
	Compress bool
}

// applyFileWriterDefaults fills zero-value fields with sane defaults.
func applyFileWriterDefaults(cfg FileWriterConfig) FileWriterConfig {
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 100
	}
	if cfg.MaxBackups == 0 {
		cfg.MaxBackups = 5
	}
	if cfg.MaxAgeDays == 0 {
		cfg.MaxAgeDays = 30
	}
	return cfg
}

// NewFileWriter creates a rotating log file writer. The parent directory
// is created if it does not exist.
func NewFileWriter(cfg FileWriterConfig) (zapcore.WriteSyncer, error) {
	if cfg.Filename == "" {
		return nil, fmt.Errorf("log filename is required")
	}
	cfg = applyFileWriterDefaults(cfg)

	if dir := filepath.Dir(cfg.Filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}

	writer := &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	return zapcore.AddSync(writer), nil
}
