package output

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/raphi011/doclint/internal/log"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

// chunkWriter records each Write call separately.
type chunkWriter struct {
	mu     sync.Mutex
	chunks []string
}

func (c *chunkWriter) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chunks = append(c.chunks, string(p))
	return len(p), nil
}

func TestWithWriter_FromContext(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()
		w := New(&bytes.Buffer{})
		ctx := WithWriter(context.Background(), w)
		if FromContext(ctx) != w {
			t.Error("FromContext should return the attached writer")
		}
	})

	t.Run("default to stdout when not set", func(t *testing.T) {
		t.Parallel()
		w := FromContext(context.Background())
		if w.Underlying() != os.Stdout {
			t.Error("Underlying() should default to os.Stdout")
		}
	})
}

func TestWriteLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := New(&buf)
	w.WriteLine("✓ a.txt: clean")
	w.WriteLine("")
	if got, want := buf.String(), "✓ a.txt: clean\n\n"; got != want {
		t.Errorf("WriteLine wrote %q, want %q", got, want)
	}
}

func TestWriteLine_Timestamps(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	fixed := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	w := New(&buf, WithTimestamps(true), WithClock(func() time.Time { return fixed }))
	w.WriteLine("hello")
	if got, want := buf.String(), "2026-03-04T05:06:07Z hello\n"; got != want {
		t.Errorf("WriteLine wrote %q, want %q", got, want)
	}
}

func TestWriteLine_SwallowsErrors(t *testing.T) {
	t.Parallel()

	var logBuf bytes.Buffer
	w := New(failingWriter{}, WithErrorLog(log.New(&logBuf, false, false)))
	w.WriteLine("lost line")

	if !strings.Contains(logBuf.String(), "broken pipe") {
		t.Errorf("error log = %q, want the write error", logBuf.String())
	}
}

func TestWriteLine_OneWritePerLine(t *testing.T) {
	t.Parallel()

	cw := &chunkWriter{}
	w := New(cw)

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.WriteLine(strings.Repeat(string(rune('a'+i%26)), 200))
		}()
	}
	wg.Wait()

	if len(cw.chunks) != 100 {
		t.Fatalf("got %d writes, want 100", len(cw.chunks))
	}
	for _, c := range cw.chunks {
		if len(c) != 201 || c[len(c)-1] != '\n' {
			t.Errorf("chunk %q is not a whole line", c)
			continue
		}
		if strings.Count(c, c[:1]) != 200 {
			t.Errorf("chunk %q mixes lines", c)
		}
	}
}

func TestWrite_SharesLock(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := New(&buf)
	if _, err := w.Write([]byte("table\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	w.WriteLine("after")
	if got := buf.String(); got != "table\nafter\n" {
		t.Errorf("got %q", got)
	}
}
