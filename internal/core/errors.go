package core

import (
	"fmt"
	"strings"
)

// Error philosophy:
//
// Usage errors: conditions which signal programmer misuse of the library
// (behavior configured with no pending call, nested replay, invalid count
// ranges) imply programmer intervention is necessary to resolve, and trigger
// an explanatory panic for the programmer to track down.
//
// Assertion errors: conditions which signal that the code under test behaved
// differently than recorded (unexpected calls, unmet expectations, calls from
// the wrong goroutine) trigger a test failure through the attached
// TestReporter, and are also available as typed errors for callers that want
// to inspect them.

// UsageError reports programmer misuse of the mocking API. It is always
// raised by panicking at the offending call site.
type UsageError struct {
	Op  string
	Msg string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("easymock: %s: %s", e.Op, e.Msg)
}

// usagef panics with a UsageError describing the misuse.
func usagef(op, format string, args ...any) {
	panic(&UsageError{Op: op, Msg: fmt.Sprintf(format, args...)})
}

// UnexpectedCallError reports a replay-phase call that matched no recorded
// expectation, or that violated the required sequence of an order group.
type UnexpectedCallError struct {
	Call        Invocation
	OrderingHit bool     // true when the call matched a recorded expectation out of sequence
	Outstanding []string // descriptions of every not-yet-satisfied expectation
}

func (e *UnexpectedCallError) Error() string {
	var b strings.Builder

	if e.OrderingHit {
		fmt.Fprintf(&b, "call out of order: %s", e.Call)
	} else {
		fmt.Fprintf(&b, "unexpected call: %s", e.Call)
	}

	if len(e.Outstanding) == 0 {
		b.WriteString("\n  no expectations are outstanding")
	} else {
		b.WriteString("\n  outstanding expectations:")

		for _, line := range e.Outstanding {
			b.WriteString("\n    ")
			b.WriteString(line)
		}
	}

	return b.String()
}

// VerificationError reports every expectation whose minimum call count was
// not reached by the time Verify ran.
type VerificationError struct {
	Unmet []string // descriptions in recording order
}

func (e *VerificationError) Error() string {
	var b strings.Builder

	b.WriteString("unmet expectations:")

	for _, line := range e.Unmet {
		b.WriteString("\n    ")
		b.WriteString(line)
	}

	return b.String()
}

// ConcurrencyError reports a replay-phase call arriving from a goroutine
// other than the one the control was first driven by, while concurrency
// checking was enabled.
type ConcurrencyError struct {
	Call     Invocation
	FirstGID uint64
	CallGID  uint64
}

func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf(
		"call from unexpected goroutine: %s was invoked from goroutine %d, but this control is driven by goroutine %d"+
			" (use MarkThreadSafe to allow multithreaded replay)",
		e.Call, e.CallGID, e.FirstGID,
	)
}
