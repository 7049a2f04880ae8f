package core

import (
	"strings"
	"testing"
)

// White-box tests for the count-range and action-queue mechanics that the
// lifecycle tests only exercise indirectly.

func testExpectation(tb testing.TB, args ...any) *Expectation {
	tb.Helper()

	methodType := func(a, b string) {}
	inv := NewInvocation("store", MethodOf("Put", methodType), args)

	return newExpectation(inv, defaultMatchers(args))
}

func TestRange_Allows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rng   Range
		count int
		want  bool
	}{
		{name: "once allows first", rng: rangeOnce, count: 0, want: true},
		{name: "once blocks second", rng: rangeOnce, count: 1, want: false},
		{name: "unbounded always allows", rng: Range{Min: 0, Max: Unbounded}, count: 1_000_000, want: true},
		{name: "window edge", rng: Range{Min: 1, Max: 3}, count: 2, want: true},
		{name: "window full", rng: Range{Min: 1, Max: 3}, count: 3, want: false},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			if got := test.rng.Allows(test.count); got != test.want {
				t.Errorf("Allows(%d) = %v, want %v", test.count, got, test.want)
			}
		})
	}
}

func TestRange_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rng  Range
		want string
	}{
		{rng: Range{Min: 1, Max: 1}, want: "once"},
		{rng: Range{Min: 0, Max: Unbounded}, want: "any times"},
		{rng: Range{Min: 2, Max: Unbounded}, want: "at least 2 times"},
		{rng: Range{Min: 3, Max: 3}, want: "exactly 3 times"},
		{rng: Range{Min: 1, Max: 4}, want: "between 1 and 4 times"},
	}

	for _, test := range tests {
		if got := test.rng.String(); got != test.want {
			t.Errorf("%+v.String() = %q, want %q", test.rng, got, test.want)
		}
	}
}

func TestExpectation_ActionQueueIndexing(t *testing.T) {
	t.Parallel()

	expectation := testExpectation(t, "k", "v")
	expectation.setRange("test", Range{Min: 0, Max: Unbounded})
	expectation.actions = []Action{
		{Kind: ActionReturn, ReturnValues: []any{"first"}},
		{Kind: ActionPanic, PanicValue: "second"},
	}

	if action := expectation.NextAction(); action.Kind != ActionReturn {
		t.Errorf("call 1 action kind = %v, want return", action.Kind)
	}

	expectation.RecordCall()

	if action := expectation.NextAction(); action.Kind != ActionPanic {
		t.Errorf("call 2 action kind = %v, want panic", action.Kind)
	}

	expectation.RecordCall()

	// Past the end of the queue the last action repeats.
	if action := expectation.NextAction(); action.Kind != ActionPanic {
		t.Errorf("call 3 action kind = %v, want the last action repeated", action.Kind)
	}
}

func TestExpectation_NoActionsReturnsZeros(t *testing.T) {
	t.Parallel()

	inv := NewInvocation("store", MethodOf("Get", (func(string) (string, error))(nil)), []any{"k"})
	expectation := newExpectation(inv, defaultMatchers(inv.Args))

	action := expectation.NextAction()
	if action.Kind != ActionReturn {
		t.Fatalf("action kind = %v, want return", action.Kind)
	}

	if action.ReturnValues[0] != "" || action.ReturnValues[1] != nil {
		t.Errorf("zero returns = %#v, want [\"\" <nil>]", action.ReturnValues)
	}
}

func TestExpectation_Describe(t *testing.T) {
	t.Parallel()

	expectation := testExpectation(t, "k", "v")
	expectation.setRange("test", Range{Min: 2, Max: 2})
	expectation.RecordCall()

	got := expectation.Describe()

	for _, want := range []string{"store.Put", "exactly 2 times", "called 1 time(s)"} {
		if !strings.Contains(got, want) {
			t.Errorf("Describe() = %q, should contain %q", got, want)
		}
	}
}

func TestRepository_RegroupMovesBetweenGroups(t *testing.T) {
	t.Parallel()

	repo := NewRepository()

	first := testExpectation(t, "a", "1")
	second := testExpectation(t, "b", "2")

	repo.Add(first)
	repo.Add(second)
	repo.regroup(first, "g", true)
	repo.regroup(second, "g", true)

	if got := len(repo.groups["g"].members); got != 2 {
		t.Fatalf("group has %d members, want 2", got)
	}

	// Moving the head out of the group must not disturb the remaining member.
	repo.regroup(first, "", false)

	members := repo.groups["g"].members
	if len(members) != 1 || members[0] != second {
		t.Errorf("group members after regroup = %v, want only the second expectation", members)
	}

	if first.grouped {
		t.Error("regrouped-out expectation should be ungrouped")
	}
}

func TestRepository_EligibleWindow(t *testing.T) {
	t.Parallel()

	repo := NewRepository()

	head := testExpectation(t, "a", "1")
	tail := testExpectation(t, "b", "2")

	repo.Add(head)
	repo.Add(tail)
	repo.regroup(head, "g", true)
	repo.regroup(tail, "g", true)

	if !repo.eligible(head) {
		t.Error("group head should start eligible")
	}

	if repo.eligible(tail) {
		t.Error("tail should be blocked behind the head's unmet minimum")
	}

	head.RecordCall()

	if !repo.eligible(tail) {
		t.Error("tail should become eligible once the head's minimum is met")
	}

	// Matching the tail moves the cursor; the head stays reachable only until
	// then.
	repo.advanceCursor(tail)

	if repo.eligible(head) {
		t.Error("head should be ineligible after the cursor passed it")
	}
}
