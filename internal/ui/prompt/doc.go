// Package prompt provides the interactive yes/no prompt used to approve
// fixes.
//
// [Confirm] runs a single bubbletea prompt on stderr. [Gate] wraps it as a
// doctor.Approver that is safe for concurrent use: callers are served one at
// a time in arrival order, so two prompts never share the terminal.
package prompt
