// Package easymock provides record/replay test doubles for Go.
// A Control records expected calls with argument matchers, call-count ranges
// and ordering constraints, then replays real calls against them and
// verifies that everything required actually happened.
//
// This is the public API entry point. Implementation lives in internal/core.
package easymock

import (
	"github.com/BoredShadow/easymock/internal/core"
)

// Control is the engine instance governing one (or more, if shared) mock's
// recorded expectations and lifecycle.
type Control = core.Control

// Config is the explicit per-control configuration.
type Config = core.Config

// Mode is the unmatched-call and ordering policy of a control.
type Mode = core.Mode

// State is the lifecycle phase of a control.
type State = core.State

// Lifecycle states.
const (
	Recording = core.Recording
	Replaying = core.Replaying
)

// Behavior modes.
const (
	Default = core.Default
	Nice    = core.Nice
	Strict  = core.Strict
)

// Handle configures behavior for the most recently recorded call.
type Handle = core.Handle

// Invocation is one intercepted call.
type Invocation = core.Invocation

// Method identifies one mockable operation.
type Method = core.Method

// MethodOf builds a Method from a name and a function prototype.
func MethodOf(name string, prototype any) Method {
	return core.MethodOf(name, prototype)
}

// Matcher defines the interface for flexible argument matching.
type Matcher = core.Matcher

// TestReporter is the minimal interface easymock needs from test frameworks.
type TestReporter = core.TestReporter

// Error kinds. See the error philosophy note in internal/core.

// UsageError reports programmer misuse of the mocking API.
type UsageError = core.UsageError

// UnexpectedCallError reports a replay-phase call matching no expectation.
type UnexpectedCallError = core.UnexpectedCallError

// VerificationError reports expectations whose minimum went unmet.
type VerificationError = core.VerificationError

// ConcurrencyError reports a checked-mode call from an unexpected goroutine.
type ConcurrencyError = core.ConcurrencyError

// NewControl creates a control in default mode: unexpected calls fail,
// replay order is unconstrained.
func NewControl(t TestReporter) *Control {
	return core.NewControl(t, Config{Mode: Default})
}

// NewNiceControl creates a control whose mocks answer unexpected calls with
// zero values instead of failing.
func NewNiceControl(t TestReporter) *Control {
	return core.NewControl(t, Config{Mode: Nice})
}

// NewStrictControl creates a control that additionally requires replay to
// follow recording order.
func NewStrictControl(t TestReporter) *Control {
	return core.NewControl(t, Config{Mode: Strict})
}

// NewControlWithConfig creates a control with explicit configuration.
func NewControlWithConfig(t TestReporter, config Config) *Control {
	return core.NewControl(t, config)
}

// Expect closes the pending recorded call into an expectation and returns
// its behavior handle. The placeholder values returned by the recording call
// may be passed in and are ignored, allowing single-return calls to read
// fluently:
//
//	easymock.Expect(ctrl, get("x")).AndReturn("v1")
//
// For multi-return or void methods, call the mock first and then
// ExpectLastCall.
func Expect(c *Control, _ ...any) *Handle {
	return c.ExpectLastCall()
}

// ExpectLastCall closes the pending recorded call into an expectation and
// returns its behavior handle.
func ExpectLastCall(c *Control) *Handle {
	return c.ExpectLastCall()
}

// WithMatcher reports a custom matcher for the next argument of the call
// about to be recorded, and returns that argument's zero value as a
// placeholder. One matcher must be reported per argument when any are used:
//
//	get(easymock.WithMatcher[string](ctrl, match.BeAny))
func WithMatcher[T any](c *Control, m Matcher) T {
	c.ReportMatcher(m)

	var zero T

	return zero
}
