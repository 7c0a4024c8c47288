package prompt

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/mattn/go-isatty"

	"github.com/raphi011/doclint/internal/doctor"
	"github.com/raphi011/doclint/internal/log"
)

// ConfirmFunc shows one prompt and waits for the answer.
type ConfirmFunc func(ctx context.Context, prompt string) (ConfirmResult, error)

// Gate is an interactive doctor.Approver. Concurrent callers are queued and
// served one at a time in arrival order.
type Gate struct {
	confirm   ConfirmFunc
	available func() bool
	logger    *log.Logger
	onCancel  func()

	mu    sync.Mutex
	busy  bool
	queue []chan struct{}

	cancelled atomic.Bool
	warned    atomic.Bool
}

var _ doctor.Approver = (*Gate)(nil)

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithConfirmFunc replaces the bubbletea prompt.
func WithConfirmFunc(fn ConfirmFunc) GateOption {
	return func(g *Gate) { g.confirm = fn }
}

// WithAvailability replaces the terminal check run before every prompt.
func WithAvailability(fn func() bool) GateOption {
	return func(g *Gate) { g.available = fn }
}

// WithGateLogger sets the logger used for unavailable prompts.
func WithGateLogger(l *log.Logger) GateOption {
	return func(g *Gate) { g.logger = l }
}

// OnCancel registers fn to run once, the first time the user aborts a
// prompt with esc, q or ctrl+c. Later prompts decline without asking.
func OnCancel(fn func()) GateOption {
	return func(g *Gate) { g.onCancel = fn }
}

// NewGate returns a Gate that prompts on the terminal.
func NewGate(opts ...GateOption) *Gate {
	g := &Gate{
		confirm:   Confirm,
		available: stdinIsTerminal,
		logger:    log.New(io.Discard, false, false),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Confirm asks the user and reports the answer. Any failure to ask is
// logged and treated as a decline.
func (g *Gate) Confirm(ctx context.Context, prompt string) bool {
	ok, err := g.Ask(ctx, prompt)
	if err != nil {
		if g.warned.CompareAndSwap(false, true) {
			g.logger.Warn("cannot prompt, declining fixes", "err", err)
		} else {
			g.logger.Debug("cannot prompt, declining fix", "err", err)
		}
		return false
	}
	return ok
}

// Ask waits for its turn and shows prompt. Errors wrap
// doctor.ErrApprovalUnavailable.
func (g *Gate) Ask(ctx context.Context, prompt string) (bool, error) {
	if !g.available() {
		return false, fmt.Errorf("%w: stdin is not a terminal", doctor.ErrApprovalUnavailable)
	}
	if err := g.acquire(ctx); err != nil {
		return false, fmt.Errorf("%w: %w", doctor.ErrApprovalUnavailable, err)
	}
	defer g.release()

	if g.cancelled.Load() {
		return false, nil
	}

	res, err := g.confirm(ctx, prompt)
	if err != nil {
		return false, fmt.Errorf("%w: %w", doctor.ErrApprovalUnavailable, err)
	}
	if res.Cancelled {
		if g.cancelled.CompareAndSwap(false, true) && g.onCancel != nil {
			g.onCancel()
		}
		return false, nil
	}
	return res.Confirmed, nil
}

// acquire blocks until the caller owns the terminal. Ownership passes
// directly from release to the oldest waiter.
func (g *Gate) acquire(ctx context.Context) error {
	g.mu.Lock()
	if !g.busy {
		g.busy = true
		g.mu.Unlock()
		return nil
	}
	ticket := make(chan struct{})
	g.queue = append(g.queue, ticket)
	g.mu.Unlock()

	select {
	case <-ticket:
		return nil
	case <-ctx.Done():
		g.mu.Lock()
		i := slices.Index(g.queue, ticket)
		if i >= 0 {
			g.queue = slices.Delete(g.queue, i, i+1)
			g.mu.Unlock()
			return ctx.Err()
		}
		g.mu.Unlock()
		// Handed ownership while giving up; pass it on.
		g.release()
		return ctx.Err()
	}
}

func (g *Gate) release() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.queue) == 0 {
		g.busy = false
		return
	}
	next := g.queue[0]
	g.queue = g.queue[1:]
	close(next)
}

// waiting reports how many callers are queued.
func (g *Gate) waiting() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.queue)
}
