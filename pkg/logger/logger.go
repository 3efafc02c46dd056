// Package logger wraps logrus with request-scoped context plumbing.
package logger

import (
	"context"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type contextKey string

const requestIdKey contextKey = "request_id"

var baseLogger = newLogger("info", false)

func newLogger(level string, useJSON bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetLevel(parseLevel(level))
	if useJSON {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

// Initialize reconfigures the package logger. Safe defaults (info, text)
// are applied at init so tests and library consumers need no setup.
func Initialize(level string, useJSON bool) {
	baseLogger = newLogger(level, useJSON)
}

// Logger returns an entry carrying the request id from ctx, if any.
func Logger(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(baseLogger)
	if ctx == nil {
		return entry
	}
	if requestId, ok := ctx.Value(requestIdKey).(string); ok && requestId != "" {
		entry = entry.WithField(string(requestIdKey), requestId)
	}
	return entry
}

// WithRequestId stamps a request id onto the context for Logger to pick up.
func WithRequestId(ctx context.Context, requestId string) context.Context {
	return context.WithValue(ctx, requestIdKey, requestId)
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
