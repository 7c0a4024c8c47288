// Package log provides context-aware diagnostic logging for doclint.
//
// Diagnostics go to stderr. User-facing run output goes through the
// output package instead.
package log

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

type ctxKey struct{}

// Logger writes diagnostics. Debug lines are only emitted in verbose mode,
// and quiet suppresses everything.
type Logger struct {
	out     io.Writer
	mu      *sync.Mutex
	verbose bool
	quiet   bool
	fields  []any
}

// New creates a new logger.
func New(out io.Writer, verbose, quiet bool) *Logger {
	return &Logger{out: out, mu: &sync.Mutex{}, verbose: verbose, quiet: quiet}
}

// WithLogger attaches a logger to the context.
func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves the logger from context.
// Returns a discarding logger if none is attached.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return New(io.Discard, false, false)
}

// With returns a child logger that prefixes every Debug line with the
// given key/value pairs. The child shares the parent's writer lock.
func (l *Logger) With(keyvals ...any) *Logger {
	child := *l
	child.fields = append(append([]any(nil), l.fields...), keyvals...)
	return &child
}

// Printf writes formatted output unless quiet.
func (l *Logger) Printf(format string, args ...any) {
	if l.quiet {
		return
	}
	l.write(fmt.Sprintf(format, args...))
}

// Println writes a line of output unless quiet.
func (l *Logger) Println(args ...any) {
	if l.quiet {
		return
	}
	l.write(fmt.Sprintln(args...))
}

// Warn writes a warning line unless quiet.
func (l *Logger) Warn(msg string, keyvals ...any) {
	if l.quiet {
		return
	}
	l.write("warning: " + l.format(msg, keyvals) + "\n")
}

// Debug writes "msg key=value ..." when verbose.
// A trailing key without a value is dropped.
func (l *Logger) Debug(msg string, keyvals ...any) {
	if !l.IsVerbose() {
		return
	}
	l.write(l.format(msg, keyvals) + "\n")
}

// IsVerbose reports whether debug output is enabled.
func (l *Logger) IsVerbose() bool {
	return l.verbose && !l.quiet
}

// Writer returns the underlying writer.
func (l *Logger) Writer() io.Writer {
	return l.out
}

func (l *Logger) format(msg string, keyvals []any) string {
	var b strings.Builder
	b.WriteString(msg)
	all := append(append([]any(nil), l.fields...), keyvals...)
	for i := 0; i+1 < len(all); i += 2 {
		fmt.Fprintf(&b, " %v=%v", all[i], all[i+1])
	}
	return b.String()
}

func (l *Logger) write(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, s)
}
