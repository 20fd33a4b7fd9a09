// Package utils provides utility functions for the QBench CLI.
//
// This file builds the zap loggers: a debug log at ~/.qbench/debug.log for
// the terminal app, and a console logger for verbose headless runs.
package utils

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogPath returns the debug log location
func LogPath() string {
	return filepath.Join(os.Getenv("HOME"), ".qbench", "debug.log")
}

// InitLogger creates the file-backed debug logger
func InitLogger() (*zap.Logger, error) {
	logFile := LogPath()
	if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
		return nil, err
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{logFile}
	cfg.ErrorOutputPaths = []string{logFile}
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	logger.Info("=== QBench CLI Started ===")
	return logger, nil
}

// ConsoleLogger logs to stderr, at debug level when verbose and warnings otherwise
func ConsoleLogger(verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	encoder := zap.NewDevelopmentEncoderConfig()
	encoder.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoder),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core)
}
