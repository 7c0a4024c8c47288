package doctor

import "context"

// Approver decides whether a proposed fix may be applied. Implementations
// must be safe for concurrent use; an unavailable decision source answers
// false.
type Approver interface {
	Confirm(ctx context.Context, prompt string) bool
}

// AutoApprove approves everything without blocking.
type AutoApprove struct{}

// Confirm always returns true.
func (AutoApprove) Confirm(context.Context, string) bool { return true }

// DenyAll declines everything without blocking.
type DenyAll struct{}

// Confirm always returns false.
func (DenyAll) Confirm(context.Context, string) bool { return false }

// ApproverFunc adapts a function to Approver.
type ApproverFunc func(ctx context.Context, prompt string) bool

// Confirm calls f.
func (f ApproverFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}
