package boxlite

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

// Logger is what the world and runner log through. Debug output is guarded
// by DebugEnabled so hot paths can skip formatting.
type Logger interface {
	DebugEnabled() bool
	SetDebug(enabled bool)
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// DefaultLogger writes "[prefix] LEVEL: message" lines through the standard
// log package. Debug and info go to one writer, warnings and errors to the
// other.
type DefaultLogger struct {
	mu     sync.Mutex
	debug  bool
	prefix string

	info  *log.Logger
	alert *log.Logger
}

func NewDefaultLogger(prefix string, debug bool) *DefaultLogger {
	return NewWriterLogger(prefix, debug, os.Stdout, os.Stderr)
}

func NewWriterLogger(prefix string, debug bool, out, errOut io.Writer) *DefaultLogger {
	const flags = log.LstdFlags | log.Lmicroseconds
	return &DefaultLogger{
		debug:  debug,
		prefix: prefix,
		info:   log.New(out, "", flags),
		alert:  log.New(errOut, "", flags),
	}
}

// Named returns a logger sharing l's writers with sub appended to the
// prefix, e.g. "phys/runner".
func (l *DefaultLogger) Named(sub string) *DefaultLogger {
	prefix := sub
	if l.prefix != "" {
		prefix = l.prefix + "/" + sub
	}
	return &DefaultLogger{
		debug:  l.DebugEnabled(),
		prefix: prefix,
		info:   l.info,
		alert:  l.alert,
	}
}

func (l *DefaultLogger) Prefix() string { return l.prefix }

func (l *DefaultLogger) DebugEnabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.debug
}

func (l *DefaultLogger) SetDebug(enabled bool) {
	l.mu.Lock()
	l.debug = enabled
	l.mu.Unlock()
}

func (l *DefaultLogger) Debugf(format string, args ...any) {
	if l.DebugEnabled() {
		l.emit(l.info, "DEBUG", format, args)
	}
}

func (l *DefaultLogger) Infof(format string, args ...any) {
	l.emit(l.info, "INFO", format, args)
}

func (l *DefaultLogger) Warnf(format string, args ...any) {
	l.emit(l.alert, "WARN", format, args)
}

func (l *DefaultLogger) Errorf(format string, args ...any) {
	l.emit(l.alert, "ERROR", format, args)
}

func (l *DefaultLogger) emit(dst *log.Logger, level, format string, args []any) {
	msg := fmt.Sprintf(format, args...)
	if l.prefix == "" {
		dst.Printf("%s: %s", level, msg)
		return
	}
	dst.Printf("[%s] %s: %s", l.prefix, level, msg)
}

type nopLogger struct{}

// NewNopLogger discards everything.
func NewNopLogger() Logger { return nopLogger{} }

func (nopLogger) DebugEnabled() bool    { return false }
func (nopLogger) SetDebug(bool)         {}
func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
func (nopLogger) Errorf(string, ...any) {}

func loggerOrNop(l Logger) Logger {
	if l == nil {
		return NewNopLogger()
	}
	return l
}
