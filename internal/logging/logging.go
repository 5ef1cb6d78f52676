// Package logging builds the zap logger used by every command.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where log lines go.
type Options struct {
	// File is the rotating JSON log. Empty disables file output.
	File string
	// Verbose adds a human-readable console core on stderr at debug level.
	Verbose bool
}

// New returns a logger writing JSON to a rotating file and, when verbose,
// console-encoded lines to stderr. With neither sink it returns a no-op logger.
func New(opts Options) *zap.Logger {
	var cores []zapcore.Core

	if opts.File != "" {
		enc := zap.NewProductionEncoderConfig()
		enc.EncodeTime = zapcore.ISO8601TimeEncoder
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    5, // MB
			MaxBackups: 3,
			MaxAge:     28, // days
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(enc), sink, zapcore.InfoLevel))
	}

	if opts.Verbose {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), zapcore.DebugLevel))
	}

	if len(cores) == 0 {
		return zap.NewNop()
	}
	return zap.New(zapcore.NewTee(cores...))
}
