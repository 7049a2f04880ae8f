package core

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// State is the lifecycle phase of a control.
type State int

const (
	// Recording accepts expectation definitions.
	Recording State = iota
	// Replaying serves real calls against the recorded set.
	Replaying
)

func (s State) String() string {
	if s == Recording {
		return "record"
	}

	return "replay"
}

// Mode is the unmatched-call and ordering policy of a control.
type Mode int

const (
	// Default fails on unexpected calls; recording order does not constrain
	// replay order.
	Default Mode = iota
	// Nice answers unexpected calls with zero values instead of failing.
	Nice
	// Strict fails on unexpected calls and requires replay to follow
	// recording order.
	Strict
)

func (m Mode) String() string {
	switch m {
	case Nice:
		return "nice"
	case Strict:
		return "strict"
	default:
		return "default"
	}
}

// strictGroup is the order group every expectation of a strict control joins.
const strictGroup = "\x00strict"

// Config is the explicit per-control configuration. There is no process-wide
// property table: everything a control needs is passed at creation.
type Config struct {
	Mode Mode
	// CheckConcurrency makes replay-phase dispatches fail fast when they
	// arrive from a goroutine other than the first one that drove the
	// control, unless MarkThreadSafe was called.
	CheckConcurrency bool
}

// TestReporter is the minimal interface the engine needs from test
// frameworks. *testing.T satisfies it.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
}

// Control owns one expectation repository and drives the
// record -> replay -> verify lifecycle for the mocks registered on it. One
// control per mock by default; several mocks share a repository only when
// registered on the same control.
//
// Assertion failures (unexpected calls, unmet expectations, concurrency
// violations) are reported through the TestReporter. API misuse panics with
// a *UsageError.
type Control struct {
	t TestReporter

	mu               sync.Mutex
	config           Config
	state            State
	repo             *Repository
	mocks            map[string]bool
	mockSeq          int
	pending          *pendingCall
	capturedMatchers []Matcher
	threadSafe       bool
	replayGID        uint64
}

// pendingCall is the "last invocation" slot of the two-phase recording
// protocol, with the custom matchers that were reported while its arguments
// were being evaluated. seq orders pending calls across controls, so a
// Support holding many controls can tell which recording happened last.
type pendingCall struct {
	inv      Invocation
	matchers []Matcher
	closed   bool
	seq      uint64
}

// recordSeq numbers recorded invocations process-wide.
//
//nolint:gochecknoglobals // process-wide recording order needs shared state
var recordSeq atomic.Uint64

// NewControl creates a control in the record state with the given
// configuration and failure reporter.
func NewControl(t TestReporter, config Config) *Control {
	if t == nil {
		usagef("NewControl", "a TestReporter is required")
	}

	return &Control{
		t:      t,
		config: config,
		repo:   NewRepository(),
		mocks:  make(map[string]bool),
	}
}

// Mode returns the control's current behavior mode.
func (c *Control) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.config.Mode
}

// State returns the control's current lifecycle state.
func (c *Control) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// RegisterMock registers a mock identity on this control and returns the
// resolved name. An empty name is assigned "mock-N" in registration order.
// Names must be unique per control.
func (c *Control) RegisterMock(name string) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if name == "" {
		c.mockSeq++
		name = fmt.Sprintf("mock-%d", c.mockSeq)
	}

	if c.mocks[name] {
		usagef("RegisterMock", "a mock named %q is already registered on this control", name)
	}

	c.mocks[name] = true

	return name
}

// ReportMatcher captures a custom matcher for the next recorded
// expectation's argument list. Matchers are consumed exactly once, when the
// pending invocation is closed; if any are captured, one must be captured
// per argument.
func (c *Control) ReportMatcher(m Matcher) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Recording {
		usagef("ReportMatcher", "matchers may only be reported while recording")
	}

	c.capturedMatchers = append(c.capturedMatchers, m)
}

// MarkThreadSafe declares that replay-phase calls may legitimately arrive
// from multiple goroutines, suppressing the concurrency check for this
// control.
func (c *Control) MarkThreadSafe() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.threadSafe = true
}

// Dispatch routes one intercepted call.
//
// While recording, the invocation becomes the pending "last invocation" and
// the returned values are zero placeholders; behavior attaches through
// ExpectLastCall before the next mock interaction.
//
// While replaying, the invocation is matched against the repository. On a
// match the expectation's next action runs (its panic action propagates as a
// panic). On a miss a nice control returns zero values, and any other mode
// reports an UnexpectedCallError and returns zero values for non-fatal
// reporters.
func (c *Control) Dispatch(inv Invocation) []any {
	c.t.Helper()

	c.mu.Lock()

	if c.state == Recording {
		defer c.mu.Unlock()

		return c.recordInvocation(inv)
	}

	return c.replayInvocation(inv)
}

// recordInvocation stores inv as the pending invocation, binding any
// matchers reported while its arguments were evaluated. Caller holds the
// lock.
func (c *Control) recordInvocation(inv Invocation) []any {
	matchers := c.capturedMatchers
	c.capturedMatchers = nil

	c.flushPending("Dispatch")
	c.pending = &pendingCall{inv: inv, matchers: matchers, seq: recordSeq.Add(1)}

	return inv.Method.ZeroReturns()
}

// PendingSeq reports the sequence number of the control's open pending
// invocation. ok is false when nothing is pending. Supports resolving "the
// last recorded call" across several controls.
func (c *Control) PendingSeq() (seq uint64, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending == nil || c.pending.closed {
		return 0, false
	}

	return c.pending.seq, true
}

// replayInvocation resolves inv against the repository. Caller holds the
// lock; it is released before running the matched action so that answer
// callbacks may call back into the control's mocks.
func (c *Control) replayInvocation(inv Invocation) []any {
	if err := c.checkGoroutine(inv); err != nil {
		c.mu.Unlock()
		c.t.Fatalf("%v", err)

		return inv.Method.ZeroReturns()
	}

	expectation, err := c.repo.FindMatch(inv)

	if expectation == nil {
		if c.config.Mode == Nice {
			c.mu.Unlock()

			return inv.Method.ZeroReturns()
		}

		if err == nil {
			err = &UnexpectedCallError{Call: inv, Outstanding: c.repo.Outstanding()}
		}

		c.mu.Unlock()
		c.t.Fatalf("%v", err)

		return inv.Method.ZeroReturns()
	}

	action := expectation.NextAction()
	expectation.RecordCall()
	c.mu.Unlock()

	return c.runAction(inv, action)
}

func (c *Control) runAction(inv Invocation, action Action) []any {
	switch action.Kind {
	case ActionPanic:
		panic(action.PanicValue)
	case ActionAnswer:
		values := action.Answer(inv.Args)
		if len(values) != inv.Method.NumOut() {
			usagef("AndAnswer", "answer for %s produced %d values, the method returns %d",
				inv.Method, len(values), inv.Method.NumOut())
		}

		return values
	default:
		return action.ReturnValues
	}
}

// checkGoroutine enforces the thread-safety policy. Caller holds the lock.
func (c *Control) checkGoroutine(inv Invocation) error {
	if !c.config.CheckConcurrency || c.threadSafe {
		return nil
	}

	gid := curGoroutineID()
	if c.replayGID == 0 {
		c.replayGID = gid

		return nil
	}

	if gid != c.replayGID {
		return &ConcurrencyError{Call: inv, FirstGID: c.replayGID, CallGID: gid}
	}

	return nil
}

// Invoke is the interception entry point for hand-written mock types: it
// builds the Invocation and dispatches it.
//
//	func (m *mockStore) Get(key string) (string, error) {
//		out := m.ctrl.Invoke(m.name, getMethod, key)
//		val, _ := out[0].(string)
//		err, _ := out[1].(error)
//		return val, err
//	}
func (c *Control) Invoke(mock string, method Method, args ...any) []any {
	c.t.Helper()

	return c.Dispatch(NewInvocation(mock, method, args))
}

// ExpectLastCall closes the pending invocation into an expectation with the
// default exactly-once count and returns the handle used to attach behavior.
// Panics with a UsageError when there is no pending invocation.
func (c *Control) ExpectLastCall() *Handle {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Recording {
		usagef("ExpectLastCall", "expectations may only be recorded before replay")
	}

	if c.pending == nil || c.pending.closed {
		usagef("ExpectLastCall", "no mock call is pending; call the mock method first to describe the signature")
	}

	expectation := c.closePending()

	return &Handle{control: c, expectation: expectation}
}

// closePending turns the pending invocation into a repository expectation,
// consuming the matchers bound to it. Caller holds the lock.
func (c *Control) closePending() *Expectation {
	pending := c.pending
	pending.closed = true
	inv := pending.inv

	matchers := defaultMatchers(inv.Args)

	if len(pending.matchers) > 0 {
		if len(pending.matchers) != len(inv.Args) {
			usagef("ExpectLastCall", "%d matcher(s) reported for %s, which takes %d argument(s):"+
				" when using matchers, report one per argument", len(pending.matchers), inv.Method, len(inv.Args))
		}

		matchers = pending.matchers
	}

	expectation := newExpectation(inv, matchers)
	if c.config.Mode == Strict {
		expectation.group = strictGroup
		expectation.grouped = true
	}

	c.repo.Add(expectation)

	return expectation
}

// flushPending deals with a pending invocation that never had behavior
// attached: a call with no return values auto-closes with the default count,
// anything else is missing its behavior definition. Caller holds the lock.
func (c *Control) flushPending(op string) {
	if c.pending == nil || c.pending.closed {
		return
	}

	if c.pending.inv.Method.NumOut() > 0 {
		method := c.pending.inv.Method
		c.pending = nil
		usagef(op, "missing behavior definition for the preceding call to %s", method)
	}

	c.closePending()
}

// Replay transitions the control from record to replay, freezing the
// recorded expectation set. Replaying twice without a reset is a usage
// error.
func (c *Control) Replay() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Replaying {
		usagef("Replay", "this control is already in replay state")
	}

	c.flushPending("Replay")

	if len(c.capturedMatchers) > 0 {
		c.capturedMatchers = nil
		usagef("Replay", "matchers were reported but no mock call consumed them")
	}

	c.state = Replaying
}

// Verify checks that every recorded expectation reached its minimum call
// count. It must run while replaying; calling it before Replay is a usage
// error. The verification failure is reported through the TestReporter and
// also returned for reporters that do not stop the test.
func (c *Control) Verify() error {
	c.t.Helper()

	c.mu.Lock()

	if c.state != Replaying {
		c.mu.Unlock()
		usagef("Verify", "Verify may only be called after Replay")
	}

	err := c.repo.Verify()
	c.mu.Unlock()

	if err != nil {
		c.t.Fatalf("%v", err)
	}

	return err
}

// Reset returns the control to the record state and discards every recorded
// expectation. The behavior mode is unchanged.
func (c *Control) Reset() {
	c.resetTo(nil)
}

// ResetToNice resets the control and switches it to nice mode.
func (c *Control) ResetToNice() {
	mode := Nice
	c.resetTo(&mode)
}

// ResetToDefault resets the control and switches it to default mode.
func (c *Control) ResetToDefault() {
	mode := Default
	c.resetTo(&mode)
}

// ResetToStrict resets the control and switches it to strict mode.
func (c *Control) ResetToStrict() {
	mode := Strict
	c.resetTo(&mode)
}

func (c *Control) resetTo(mode *Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.repo.Reset()
	c.state = Recording
	c.pending = nil
	c.capturedMatchers = nil
	c.replayGID = 0

	if mode != nil {
		c.config.Mode = *mode
	}
}
