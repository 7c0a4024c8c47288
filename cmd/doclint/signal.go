package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/raphi011/doclint/internal/log"
)

// stopper is implemented by doctor.Runner.
type stopper interface {
	Stop()
}

// stopOnSignal calls r.Stop on the first SIGINT or SIGTERM so in-flight
// paths can finish. A second signal cancels the returned context. The
// returned func releases the signal handler.
func stopOnSignal(ctx context.Context, r stopper, l *log.Logger) (context.Context, func()) {
	ctx, cancel := context.WithCancel(ctx)
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			l.Printf("Interrupted, waiting for running paths (press again to abort)\n")
			r.Stop()
		case <-done:
			return
		}
		select {
		case <-sigs:
			cancel()
		case <-done:
		}
	}()

	return ctx, func() {
		signal.Stop(sigs)
		close(done)
		cancel()
	}
}
