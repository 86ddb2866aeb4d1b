// Package common provides shared utilities for finlens
package common

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/arbor/models"
	"github.com/ternarybob/arbor/writers"
)

// Logger wraps arbor.ILogger to provide a consistent interface
type Logger struct {
	arbor.ILogger
}

const (
	consoleTimeFormat = "15:04:05"
	logFileMaxSize    = 100 * 1024 * 1024
	logFileMaxBackups = 3
)

// NewLogger creates a console logger with the specified level
func NewLogger(level string) *Logger {
	return NewLoggerFromConfig(LoggingConfig{Level: level, Outputs: []string{"console"}})
}

// NewLoggerFromConfig builds a logger from the logging section of the config.
// Level "disabled" yields a no-op logger.
func NewLoggerFromConfig(cfg LoggingConfig) *Logger {
	level := strings.ToLower(strings.TrimSpace(cfg.Level))
	if level == "disabled" || level == "off" {
		return NewSilentLogger()
	}
	if level == "" {
		level = "info"
	}

	logger := arbor.NewLogger()

	outputs := cfg.Outputs
	if len(outputs) == 0 {
		outputs = []string{"console"}
	}

	for _, output := range outputs {
		switch output {
		case "console", "stdout":
			logger = logger.WithConsoleWriter(models.WriterConfiguration{
				Type:       models.LogWriterTypeConsole,
				TimeFormat: consoleTimeFormat,
			})
		case "file":
			path := cfg.FilePath
			if path == "" {
				path = "./logs/finlens.log"
			}
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				continue
			}
			logger = logger.WithFileWriter(models.WriterConfiguration{
				Type:             models.LogWriterTypeFile,
				FileName:         path,
				TimeFormat:       consoleTimeFormat,
				MaxSize:          logFileMaxSize,
				MaxBackups:       logFileMaxBackups,
				OutputType:       fileOutputFormat(cfg.Format),
				DisableTimestamp: false,
			})
		}
	}

	return &Logger{ILogger: logger.WithLevelFromString(level)}
}

// NewDefaultLogger creates a logger with default settings
func NewDefaultLogger() *Logger {
	return NewLogger("info")
}

func fileOutputFormat(format string) models.OutputFormat {
	if strings.EqualFold(format, "json") {
		return models.OutputFormatJSON
	}
	return models.OutputFormatLogfmt
}

// NewSilentLogger creates a logger that discards all output. It carries its
// own writer so the global writer registry is never consulted.
func NewSilentLogger() *Logger {
	return &Logger{ILogger: arbor.NewLogger().WithWriters([]writers.IWriter{discardWriter{}})}
}

type discardWriter struct{}

func (d discardWriter) WithLevel(log.Level) writers.IWriter { return d }
func (discardWriter) Write(p []byte) (int, error)           { return len(p), nil }
func (discardWriter) GetFilePath() string                   { return "" }
func (discardWriter) Close() error                          { return nil }

// WithCorrelationID returns a logger that tags every event with id
func (l *Logger) WithCorrelationID(id string) *Logger {
	if id == "" {
		return l
	}
	return &Logger{ILogger: l.ILogger.WithCorrelationId(id)}
}
