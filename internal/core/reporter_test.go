package core_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/BoredShadow/easymock/internal/core"
)

// recordingReporter captures failure reports instead of stopping the test,
// so the engine's failure paths can be asserted on.
type recordingReporter struct {
	mu       sync.Mutex
	failures []string
}

func (r *recordingReporter) Helper() {}

func (r *recordingReporter) Fatalf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failures = append(r.failures, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.failures) > 0
}

func (r *recordingReporter) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.failures) == 0 {
		return ""
	}

	return r.failures[len(r.failures)-1]
}

// mustPanicUsage runs fn and asserts it panics with a *core.UsageError,
// returning the error for message checks.
//
//nolint:varnamelen // Standard Go test parameter name
func mustPanicUsage(t *testing.T, fn func()) *core.UsageError {
	t.Helper()

	var usageErr *core.UsageError

	func() {
		defer func() {
			recovered := recover()
			if recovered == nil {
				return
			}

			var ok bool

			usageErr, ok = recovered.(*core.UsageError)
			if !ok {
				t.Fatalf("panic value %v (%T) is not a *UsageError", recovered, recovered)
			}
		}()

		fn()
	}()

	if usageErr == nil {
		t.Fatal("expected a UsageError panic, but the call returned normally")
	}

	return usageErr
}

// Shared method identities for the engine tests.
var (
	//nolint:gochecknoglobals // test fixtures
	getMethod = core.MethodOf("Get", (func(string) (string, error))(nil))
	//nolint:gochecknoglobals // test fixtures
	putMethod = core.MethodOf("Put", (func(string, string))(nil))
	//nolint:gochecknoglobals // test fixtures
	addMethod = core.MethodOf("Add", (func(int, int) int)(nil))
)

func invocation(mock string, method core.Method, args ...any) core.Invocation {
	return core.NewInvocation(mock, method, args)
}
