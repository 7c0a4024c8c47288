package doctor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// fakeEval returns canned diagnostics per path. hooks run before the
// result is returned and may block.
type fakeEval struct {
	diags map[string][]Diagnostic
	errs  map[string]error
	hooks map[string]func()

	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func (f *fakeEval) Evaluate(_ context.Context, path string) ([]Diagnostic, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		old := f.maxSeen.Load()
		if n <= old || f.maxSeen.CompareAndSwap(old, n) {
			break
		}
	}
	if hook, ok := f.hooks[path]; ok {
		hook()
	}
	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	return f.diags[path], nil
}

type applyCall struct {
	path string
	kind string
}

// fakeFixer records Apply calls and fails for configured kinds.
type fakeFixer struct {
	mu    sync.Mutex
	calls []applyCall
	fail  map[string]error // by diagnostic kind
}

func (f *fakeFixer) Apply(_ context.Context, path string, d Diagnostic) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, applyCall{path: path, kind: d.Kind})
	if err, ok := f.fail[d.Kind]; ok {
		return err
	}
	return nil
}

func (f *fakeFixer) Calls() []applyCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]applyCall(nil), f.calls...)
}

// countingApprover answers with a fixed decision and counts prompts.
type countingApprover struct {
	answer bool
	calls  atomic.Int32
}

func (a *countingApprover) Confirm(context.Context, string) bool {
	a.calls.Add(1)
	return a.answer
}

// recordingProgress captures the sequence of progress calls.
type recordingProgress struct {
	mu       sync.Mutex
	events   []string
	total    int
	advanced int
}

func (p *recordingProgress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
	p.events = append(p.events, fmt.Sprintf("start:%d", total))
}

func (p *recordingProgress) Advance(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.advanced += n
	p.events = append(p.events, "advance")
}

func (p *recordingProgress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, "finish")
}

type recordingRecorder struct {
	mu    sync.Mutex
	paths []string
	runs  int
}

func (r *recordingRecorder) RecordPath(_ context.Context, res PathRunResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, res.Target)
}

func (r *recordingRecorder) RecordRun(context.Context, *RunResult) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs++
}

var errUnreadable = errors.New("permission denied")

func fixable(kind string, line int) Diagnostic {
	return Diagnostic{Kind: kind, Message: kind + " found", Fixable: true, Line: line}
}

func unfixable(kind string, line int) Diagnostic {
	return Diagnostic{Kind: kind, Message: kind + " found", Line: line}
}

// stepClock advances one second on every call.
type stepClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newStepClock() *stepClock {
	return &stepClock{cur: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

// hookRecorder calls the function for every recorded path.
type hookRecorder func(PathRunResult)

func (h hookRecorder) RecordPath(_ context.Context, res PathRunResult) { h(res) }
func (h hookRecorder) RecordRun(context.Context, *RunResult)           {}
