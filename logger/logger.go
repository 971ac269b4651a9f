package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
)

var (
	logger *zap.SugaredLogger
	once   sync.Once
)

// Init initializes the global structured logger. Production mode (JSON output)
// is selected when ENV=production, development mode otherwise.
func Init() {
	once.Do(func() {
		var base *zap.Logger
		var err error
		if os.Getenv("ENV") == "production" {
			base, err = zap.NewProduction()
		} else {
			base, err = zap.NewDevelopment()
		}
		if err != nil {
			panic("failed to initialize logger: " + err.Error())
		}
		logger = base.Sugar()
	})
}

// L returns the global logger instance
func L() *zap.SugaredLogger {
	if logger == nil {
		Init()
	}
	return logger
}

// Close flushes buffered log entries. Call before exit in production.
func Close() {
	_ = L().Sync()
}

// Info is a shorthand for L().Infow
func Info(msg string, args ...any) {
	L().Infow(msg, args...)
}

// Error is a shorthand for L().Errorw
func Error(msg string, args ...any) {
	L().Errorw(msg, args...)
}

// Debug is a shorthand for L().Debugw
func Debug(msg string, args ...any) {
	L().Debugw(msg, args...)
}

// Warn is a shorthand for L().Warnw
func Warn(msg string, args ...any) {
	L().Warnw(msg, args...)
}

// Fatal is a shorthand for L().Fatalw
func Fatal(msg string, args ...any) {
	L().Fatalw(msg, args...)
}
