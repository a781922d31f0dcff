package main

import (
	"io"
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logFileMaxSizeMB  = 100
	logFileMaxBackups = 3
)

// initTrace returns the logger of the command and a function releasing its
// output. Logs go to stdout unless logFile is set.
func initTrace(debugLevel string, noLogTime bool, logFile string) (*slog.Logger, func()) {
	handlerOptions := &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}
	if noLogTime {
		handlerOptions.ReplaceAttr = func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{} // Remove the time attribute
			}
			return a
		}
	}

	switch debugLevel {
	case "debug":
		handlerOptions.Level = slog.LevelDebug
		handlerOptions.AddSource = true
	case "info":
		handlerOptions.Level = slog.LevelInfo
	case "warn":
		handlerOptions.Level = slog.LevelWarn
	case "error":
		handlerOptions.Level = slog.LevelError
	default:
		handlerOptions.Level = slog.LevelInfo
	}

	var out io.Writer = os.Stdout
	closer := func() {}
	if logFile != "" {
		lj := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    logFileMaxSizeMB,
			MaxBackups: logFileMaxBackups,
		}
		out = lj
		closer = func() { _ = lj.Close() }
	}

	handler := slog.NewTextHandler(out, handlerOptions)
	logger := slog.New(handler)
	return logger, closer
}
