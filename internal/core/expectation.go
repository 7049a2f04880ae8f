package core

import "fmt"

// ActionKind discriminates what an expectation does when a matching call is
// served.
type ActionKind int

const (
	// ActionReturn hands back a fixed list of return values.
	ActionReturn ActionKind = iota
	// ActionPanic panics with a fixed value (the Go rendering of a recorded
	// exception).
	ActionPanic
	// ActionAnswer invokes a callback with the actual arguments and returns
	// whatever it produces.
	ActionAnswer
)

// Action is one entry in an expectation's behavior queue.
type Action struct {
	Kind         ActionKind
	ReturnValues []any
	PanicValue   any
	Answer       func(args []any) []any
}

// Unbounded marks a Range with no upper call limit.
const Unbounded = -1

// Range is the accepted call-count window for an expectation:
// Min >= 0, and Max >= Min or Unbounded.
type Range struct {
	Min int
	Max int
}

// rangeOnce is the default when no count is configured.
var rangeOnce = Range{Min: 1, Max: 1}

// Allows reports whether one more call on top of count stays within range.
func (r Range) Allows(count int) bool {
	return r.Max == Unbounded || count < r.Max
}

func (r Range) String() string {
	switch {
	case r.Min == 1 && r.Max == 1:
		return "once"
	case r.Min == 0 && r.Max == Unbounded:
		return "any times"
	case r.Max == Unbounded:
		return fmt.Sprintf("at least %d times", r.Min)
	case r.Min == r.Max:
		return fmt.Sprintf("exactly %d times", r.Min)
	default:
		return fmt.Sprintf("between %d and %d times", r.Min, r.Max)
	}
}

// Expectation is one recorded behavior: the call pattern to match, how often
// it may happen, and what each matching call does. Expectations are owned
// exclusively by their Repository and mutated only under the owning
// control's lock.
type Expectation struct {
	mock     string
	method   Method
	matchers []Matcher
	rng      Range
	actions  []Action
	group    string
	grouped  bool

	satisfied int
}

func newExpectation(inv Invocation, matchers []Matcher) *Expectation {
	return &Expectation{
		mock:     inv.Mock,
		method:   inv.Method,
		matchers: matchers,
		rng:      rangeOnce,
	}
}

// SignatureMatches reports whether the invocation targets the same mock and
// the same method.
func (e *Expectation) SignatureMatches(inv Invocation) bool {
	return e.mock == inv.Mock && e.method.Equal(inv.Method)
}

// Matches reports whether the invocation targets this expectation's method
// and every positional matcher accepts the corresponding argument.
func (e *Expectation) Matches(inv Invocation) bool {
	return e.SignatureMatches(inv) && matchArgs(e.matchers, inv.Args) == nil
}

// NextAction returns the action for the next call: the satisfied-count'th
// entry of the queue, with the last entry repeating indefinitely once the
// queue is exhausted. An expectation recorded with no behavior returns the
// method's zero values.
func (e *Expectation) NextAction() Action {
	if len(e.actions) == 0 {
		return Action{Kind: ActionReturn, ReturnValues: e.method.ZeroReturns()}
	}

	if e.satisfied < len(e.actions) {
		return e.actions[e.satisfied]
	}

	return e.actions[len(e.actions)-1]
}

// RecordCall increments the satisfied count. The caller must have checked
// the range first; exceeding the maximum is an internal usage error.
func (e *Expectation) RecordCall() {
	if !e.rng.Allows(e.satisfied) {
		usagef("RecordCall", "%s already satisfied %s", e.describeCall(), e.rng)
	}

	e.satisfied++
}

// Exhausted reports whether the expectation can accept no further calls.
func (e *Expectation) Exhausted() bool { return !e.rng.Allows(e.satisfied) }

// Satisfied reports whether the minimum call count has been reached.
func (e *Expectation) Satisfied() bool { return e.satisfied >= e.rng.Min }

// Satisfied count accessor for diagnostics.
func (e *Expectation) Calls() int { return e.satisfied }

func (e *Expectation) describeCall() string {
	return fmt.Sprintf("%s.%s(%s)", e.mock, e.method.Name, describeMatchers(e.matchers))
}

// Describe renders the expectation with its expected range and actual call
// count, for verification and unexpected-call diagnostics.
func (e *Expectation) Describe() string {
	return fmt.Sprintf("%s: expected %s, called %d time(s)", e.describeCall(), e.rng, e.satisfied)
}

func (e *Expectation) setRange(op string, rng Range) {
	if rng.Min < 0 {
		usagef(op, "minimum call count must not be negative, got %d", rng.Min)
	}

	if rng.Max != Unbounded && rng.Max < rng.Min {
		usagef(op, "maximum call count %d is below minimum %d", rng.Max, rng.Min)
	}

	e.rng = rng
}
