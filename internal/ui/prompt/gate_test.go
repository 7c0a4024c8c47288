package prompt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/raphi011/doclint/internal/doctor"
	"github.com/raphi011/doclint/internal/log"
)

func always() bool { return true }

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not reached")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestGate_ServesInArrivalOrder(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		order   []string
		active  atomic.Int32
		overlap atomic.Bool
	)
	hold := make(chan struct{})
	started := make(chan struct{}, 1)

	g := NewGate(WithAvailability(always), WithConfirmFunc(func(_ context.Context, prompt string) (ConfirmResult, error) {
		if active.Add(1) > 1 {
			overlap.Store(true)
		}
		defer active.Add(-1)
		mu.Lock()
		order = append(order, prompt)
		mu.Unlock()
		if prompt == "p0" {
			started <- struct{}{}
			<-hold
		}
		return ConfirmResult{Confirmed: true}, nil
	}))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		g.Confirm(context.Background(), "p0")
	}()
	<-started

	// Queue p1..p4 one after another so arrival order is known.
	for i := 1; i <= 4; i++ {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			if !g.Confirm(context.Background(), p) {
				t.Errorf("Confirm(%s) = false, want true", p)
			}
		}(fmt.Sprintf("p%d", i))
		waitFor(t, func() bool { return g.waiting() == i })
	}

	close(hold)
	wg.Wait()

	want := []string{"p0", "p1", "p2", "p3", "p4"}
	if !slices.Equal(order, want) {
		t.Errorf("prompt order = %v, want %v", order, want)
	}
	if overlap.Load() {
		t.Error("two prompts were shown at the same time")
	}
}

func TestGate_WaiterCancelled(t *testing.T) {
	t.Parallel()

	hold := make(chan struct{})
	started := make(chan struct{}, 1)
	var calls atomic.Int32
	g := NewGate(WithAvailability(always), WithConfirmFunc(func(_ context.Context, prompt string) (ConfirmResult, error) {
		calls.Add(1)
		if prompt == "first" {
			started <- struct{}{}
			<-hold
		}
		return ConfirmResult{Confirmed: true}, nil
	}))

	done := make(chan struct{})
	go func() {
		defer close(done)
		g.Confirm(context.Background(), "first")
	}()
	<-started

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() {
		_, err := g.Ask(ctx, "second")
		errc <- err
	}()
	waitFor(t, func() bool { return g.waiting() == 1 })
	cancel()

	err := <-errc
	if !errors.Is(err, doctor.ErrApprovalUnavailable) {
		t.Errorf("Ask() error = %v, want ErrApprovalUnavailable", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Ask() error = %v, want context.Canceled", err)
	}
	if n := g.waiting(); n != 0 {
		t.Errorf("waiting() = %d after cancel, want 0", n)
	}

	close(hold)
	<-done

	// The gate is free again.
	if !g.Confirm(context.Background(), "third") {
		t.Error("Confirm(third) = false, want true")
	}
	if n := calls.Load(); n != 2 {
		t.Errorf("confirm called %d times, want 2", n)
	}
}

func TestGate_Unavailable(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	called := false
	g := NewGate(
		WithAvailability(func() bool { return false }),
		WithGateLogger(log.New(&buf, false, false)),
		WithConfirmFunc(func(context.Context, string) (ConfirmResult, error) {
			called = true
			return ConfirmResult{Confirmed: true}, nil
		}),
	)

	if _, err := g.Ask(context.Background(), "Fix?"); !errors.Is(err, doctor.ErrApprovalUnavailable) {
		t.Errorf("Ask() error = %v, want ErrApprovalUnavailable", err)
	}
	if g.Confirm(context.Background(), "Fix?") {
		t.Error("Confirm() = true, want false when no terminal")
	}
	g.Confirm(context.Background(), "Fix again?")
	if called {
		t.Error("prompt shown without a terminal")
	}
	if n := strings.Count(buf.String(), "warning:"); n != 1 {
		t.Errorf("got %d warnings, want exactly 1:\n%s", n, buf.String())
	}
}

func TestGate_ConfirmError(t *testing.T) {
	t.Parallel()

	g := NewGate(WithAvailability(always), WithConfirmFunc(func(context.Context, string) (ConfirmResult, error) {
		return ConfirmResult{}, errors.New("open /dev/tty: no such device")
	}))

	ok, err := g.Ask(context.Background(), "Fix?")
	if ok {
		t.Error("Ask() = true on prompt error")
	}
	if !errors.Is(err, doctor.ErrApprovalUnavailable) {
		t.Errorf("Ask() error = %v, want ErrApprovalUnavailable", err)
	}
}

func TestGate_UserCancel(t *testing.T) {
	t.Parallel()

	var stops, calls atomic.Int32
	g := NewGate(
		WithAvailability(always),
		OnCancel(func() { stops.Add(1) }),
		WithConfirmFunc(func(context.Context, string) (ConfirmResult, error) {
			calls.Add(1)
			return ConfirmResult{Cancelled: true}, nil
		}),
	)

	if g.Confirm(context.Background(), "one") {
		t.Error("cancelled prompt approved")
	}
	if g.Confirm(context.Background(), "two") {
		t.Error("prompt after cancel approved")
	}
	if n := stops.Load(); n != 1 {
		t.Errorf("OnCancel ran %d times, want 1", n)
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("prompt shown %d times, want 1", n)
	}
}

func TestGate_Answers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		res  ConfirmResult
		want bool
	}{
		{"yes", ConfirmResult{Confirmed: true}, true},
		{"no", ConfirmResult{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewGate(WithAvailability(always), WithConfirmFunc(func(context.Context, string) (ConfirmResult, error) {
				return tt.res, nil
			}))
			if got := g.Confirm(context.Background(), "Fix?"); got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
		})
	}
}
