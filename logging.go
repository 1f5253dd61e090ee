package goschema

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

var (
	logMu     sync.RWMutex
	pkgLogger = zerolog.Nop()
)

// SetLogger replaces the package logger. The default discards everything.
func SetLogger(l zerolog.Logger) {
	logMu.Lock()
	pkgLogger = l
	logMu.Unlock()
}

func logger() *zerolog.Logger {
	logMu.RLock()
	l := pkgLogger
	logMu.RUnlock()
	return &l
}

// loggerFrom prefers a logger attached with zerolog's WithContext.
func loggerFrom(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
			return l
		}
	}
	return logger()
}

// Logger returns the package logger for use by field kinds and adapters.
func Logger() *zerolog.Logger { return logger() }
