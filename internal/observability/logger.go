// Package observability owns the process-wide zap logger. Configuration
// warnings and CLI diagnostics are written through it to stderr.
package observability

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerConfig selects level, console format and an optional rotating file.
type LoggerConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"` // "console" or "json"
	ServiceName string `yaml:"service_name"`
	AddSource   bool   `yaml:"add_source"`
	LogFile     string `yaml:"log_file"`
	MaxSize     int    `yaml:"max_size"` // megabytes
	MaxBackups  int    `yaml:"max_backups"`
	MaxAge      int    `yaml:"max_age"` // days
	Compress    bool   `yaml:"compress"`
}

func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		Level:       "info",
		Format:      "console",
		ServiceName: "reflexarc",
		MaxSize:     10,
		MaxBackups:  3,
		MaxAge:      28,
	}
}

var (
	globalLogger atomic.Pointer[zap.Logger]
	once         sync.Once
)

// Initialize builds the global logger writing console output to
// consoleWriter. Only the first call has an effect.
func Initialize(cfg LoggerConfig, consoleWriter zapcore.WriteSyncer) {
	once.Do(func() {
		level := zap.NewAtomicLevel()
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			level.SetLevel(zap.InfoLevel)
		}

		cores := []zapcore.Core{zapcore.NewCore(getEncoder(cfg.Format), consoleWriter, level)}

		if cfg.LogFile != "" {
			fileWriter := zapcore.AddSync(&lumberjack.Logger{
				Filename:   cfg.LogFile,
				MaxSize:    cfg.MaxSize,
				MaxBackups: cfg.MaxBackups,
				MaxAge:     cfg.MaxAge,
				Compress:   cfg.Compress,
			})
			cores = append(cores, zapcore.NewCore(getEncoder("json"), fileWriter, level))
		}

		options := []zap.Option{zap.AddStacktrace(zap.ErrorLevel)}
		if cfg.AddSource {
			options = append(options, zap.AddCaller())
		}

		logger := zap.New(zapcore.NewTee(cores...), options...).Named(cfg.ServiceName)
		globalLogger.Store(logger)
		zap.ReplaceGlobals(logger)
	})
}

// InitializeLogger initializes the global logger on locked stderr.
func InitializeLogger(cfg LoggerConfig) {
	Initialize(cfg, zapcore.Lock(os.Stderr))
}

// ResetForTest clears the global logger. Tests only.
func ResetForTest() {
	globalLogger.Store(nil)
	once = sync.Once{}
}

func getEncoder(format string) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	if format == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encoderConfig)
	}
	return zapcore.NewJSONEncoder(encoderConfig)
}

// GetLogger returns the global logger, or a warn-level stderr console
// logger when Initialize has not run.
func GetLogger() *zap.Logger {
	if logger := globalLogger.Load(); logger != nil {
		return logger
	}
	fallback := zapcore.NewCore(getEncoder("console"), zapcore.Lock(os.Stderr), zap.WarnLevel)
	return zap.New(fallback).Named("reflexarc")
}

// Sync flushes buffered entries of the global logger.
func Sync() {
	logger := globalLogger.Load()
	if logger == nil {
		return
	}
	// stderr sync fails with EINVAL on terminals; only report real failures
	if err := logger.Sync(); err != nil && !isIgnorableSyncError(err) {
		fmt.Fprintln(os.Stderr, "Error: failed to sync logger:", err)
	}
}

func isIgnorableSyncError(err error) bool {
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY)
}
