package logging

import (
	"os"

	"go.uber.org/zap/zapcore"
)

// NewMultiCore builds a zapcore.Core that writes to both the console and
// a rotating log file. Console output is human-oriented (colored in
// development); file output is always JSON.
func NewMultiCore(level zapcore.Level, logFilePath string, isDevelopment bool) (zapcore.Core, error) {
	consoleEncoder := zapcore.NewConsoleEncoder(NewConsoleEncoderConfig())
	if !isDevelopment {
		consoleEncoder = zapcore.NewJSONEncoder(NewEncoderConfig())
	}
	consoleCore := zapcore.NewCore(
		consoleEncoder,
		zapcore.Lock(os.Stdout),
		level,
	)

	if logFilePath == "" {
		return consoleCore, nil
	}

	fileWriter, err := NewFileWriter(FileWriterConfig{
		Filename: logFilePath,
		Compress: true,
	})
	if err != nil {
		return nil, err
	}
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(NewEncoderConfig()),
		fileWriter,
		level,
	)

	return zapcore.NewTee(consoleCore, fileCore), nil
}
