package progress

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/raphi011/doclint/internal/doctor"
)

// BarSink reports doctor run progress on a ProgressBar.
type BarSink struct {
	out  io.Writer
	mu   sync.Mutex
	bar  *ProgressBar
	done atomic.Int64
}

var _ doctor.ProgressSink = (*BarSink)(nil)

// NewBarSink returns a sink that draws on out, usually stderr.
func NewBarSink(out io.Writer) *BarSink {
	return &BarSink{out: out}
}

// Start creates and shows the bar for total paths.
func (s *BarSink) Start(total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bar != nil {
		return
	}
	s.done.Store(0)
	s.bar = NewProgressBar(s.out, total, pathsMessage(0, total))
	s.bar.Start()
}

// Advance marks n more paths as finished.
func (s *BarSink) Advance(n int) {
	cur := int(s.done.Add(int64(n)))
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bar == nil {
		return
	}
	s.bar.SetProgress(cur, pathsMessage(cur, s.bar.Total()))
}

// Finish removes the bar. Safe to call more than once.
func (s *BarSink) Finish() {
	s.mu.Lock()
	bar := s.bar
	s.bar = nil
	s.mu.Unlock()
	if bar != nil {
		bar.Stop()
	}
}

// Done reports how many paths have been marked finished.
func (s *BarSink) Done() int {
	return int(s.done.Load())
}

func pathsMessage(cur, total int) string {
	return fmt.Sprintf("%d/%d paths", cur, total)
}
