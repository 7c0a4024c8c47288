// Package output provides the shared, line-atomic writer for user-facing
// doclint output. Stdout carries run output (per-path lines, reports, JSON).
// Stderr (via the log package) carries diagnostics.
package output

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/raphi011/doclint/internal/log"
)

type ctxKey struct{}

// Writer serializes lines from concurrent callers onto one stream.
// A zero Writer is not usable; construct one with New.
type Writer struct {
	mu         sync.Mutex
	w          io.Writer
	errLog     *log.Logger
	timestamps bool
	now        func() time.Time
}

// Option configures a Writer.
type Option func(*Writer)

// WithErrorLog sets the logger that receives write failures.
func WithErrorLog(l *log.Logger) Option {
	return func(w *Writer) { w.errLog = l }
}

// WithTimestamps prefixes every line with an RFC3339 timestamp.
func WithTimestamps(enabled bool) Option {
	return func(w *Writer) { w.timestamps = enabled }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(w *Writer) { w.now = now }
}

// New creates a Writer on top of w.
func New(w io.Writer, opts ...Option) *Writer {
	ow := &Writer{
		w:      w,
		errLog: log.New(io.Discard, false, false),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(ow)
	}
	return ow
}

// WithWriter attaches a Writer to the context.
func WithWriter(ctx context.Context, w *Writer) context.Context {
	return context.WithValue(ctx, ctxKey{}, w)
}

// FromContext retrieves the Writer from context.
// Returns a Writer on os.Stdout if none is attached.
func FromContext(ctx context.Context) *Writer {
	if w, ok := ctx.Value(ctxKey{}).(*Writer); ok {
		return w
	}
	return New(os.Stdout)
}

// WriteLine appends text and a newline to the stream in a single write.
// Write errors are logged and swallowed.
func (w *Writer) WriteLine(text string) {
	line := make([]byte, 0, len(text)+32)
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timestamps {
		line = w.now().UTC().AppendFormat(line, time.RFC3339)
		line = append(line, ' ')
	}
	line = append(line, text...)
	line = append(line, '\n')

	if _, err := w.w.Write(line); err != nil {
		w.errLog.Warn("output write failed", "err", err)
	}
}

// Write implements io.Writer so block output (tables, JSON) shares the
// same lock as WriteLine. Errors are returned to the caller.
func (w *Writer) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.w.Write(p)
}

// Underlying returns the wrapped writer.
func (w *Writer) Underlying() io.Writer {
	return w.w
}
