package clog

import (
	"fmt"
	"io"
	"sync"

	"github.com/apex/log"
)

// GlobalCtx is the context used when a caller has nothing more specific.
const GlobalCtx = "vmconsole"

// ContextLogger routes log entries by a named context (a collection name such
// as "brands", or a subsystem such as "http"). Contexts without their own
// logger fall through to the global one, tagged with ctx=<name>.
type ContextLogger struct {
	GlobalLogger *log.Logger

	mu      sync.RWMutex
	loggers map[string]*log.Logger
}

func NewContextLogger(w io.Writer) *ContextLogger {
	return &ContextLogger{
		GlobalLogger: &log.Logger{Handler: NewHandler(w), Level: log.InfoLevel},
		loggers:      make(map[string]*log.Logger),
	}
}

// AddLoggingContext gives ctx its own writer and level.
func (l *ContextLogger) AddLoggingContext(ctx string, w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loggers[ctx] = &log.Logger{Handler: NewHandler(w), Level: l.GlobalLogger.Level}
}

func (l *ContextLogger) RemoveLoggingContext(ctx string) {
	l.mu.Lock()
	logger, ok := l.loggers[ctx]
	delete(l.loggers, ctx)
	l.mu.Unlock()

	if !ok {
		return
	}

	if h, ok := logger.Handler.(*Handler); ok {
		h.Close()
	}
}

func (l *ContextLogger) SetLevel(ctx string, level log.Level) {
	if ctx == GlobalCtx {
		l.GlobalLogger.Level = level
		return
	}

	if logger := l.lookup(ctx); logger != nil {
		logger.Level = level
	}
}

func (l *ContextLogger) SetLevelFromString(ctx, s string) error {
	level, err := log.ParseLevel(s)
	if err != nil {
		return err
	}

	l.SetLevel(ctx, level)
	return nil
}

func (l *ContextLogger) SetOutput(ctx string, w io.Writer) error {
	logger := l.GlobalLogger
	if ctx != GlobalCtx {
		logger = l.lookup(ctx)
	}

	if logger == nil {
		return fmt.Errorf("no such logging context %s", ctx)
	}

	h, ok := logger.Handler.(*Handler)
	if !ok {
		return fmt.Errorf("logging context %s has a foreign handler", ctx)
	}

	h.SetOutput(w)
	return nil
}

func (l *ContextLogger) UsingCtx(ctx string) *log.Entry {
	if logger := l.lookup(ctx); logger != nil {
		return logger.WithField("ctx", ctx)
	}

	return l.GlobalLogger.WithField("ctx", ctx)
}

func (l *ContextLogger) Global() *log.Entry {
	return l.UsingCtx(GlobalCtx)
}

func (l *ContextLogger) lookup(ctx string) *log.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loggers[ctx]
}
