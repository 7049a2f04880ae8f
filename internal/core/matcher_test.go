package core_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/BoredShadow/easymock/internal/core"
)

// Test the Any() matcher directly.
//
//nolint:varnamelen // Standard Go test parameter name
func TestAny(t *testing.T) {
	t.Parallel()

	matcher := core.Any()

	ok, err := matcher.Match(42) //nolint:varnamelen // ok is idiomatic
	if !ok || err != nil {
		t.Errorf("Any().Match(42) = (%v, %v), want (true, nil)", ok, err)
	}

	ok, err = matcher.Match(nil)
	if !ok || err != nil {
		t.Errorf("Any().Match(nil) = (%v, %v), want (true, nil)", ok, err)
	}

	if msg := matcher.FailureMessage(42); msg != "" {
		t.Errorf("Any().FailureMessage(42) = %q, want empty string", msg)
	}
}

// TestEq_Values verifies deep value equality, including the array and slice
// by-contents cases.
func TestEq_Values(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		expected any
		actual   any
		want     bool
	}{
		{"equal ints", 42, 42, true},
		{"unequal ints", 42, 43, false},
		{"equal strings", "x", "x", true},
		{"slices by contents", []int{1, 2, 3}, []int{1, 2, 3}, true},
		{"arrays by contents", [2]string{"a", "b"}, [2]string{"a", "b"}, true},
		{"unequal slices", []int{1, 2}, []int{2, 1}, false},
		{"both nil", nil, nil, true},
		{"typed vs untyped nil", (*int)(nil), nil, true},
		{"nil vs value", nil, 7, false},
	}

	for _, testCase := range cases {
		testCase := testCase
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			got, err := core.Eq(testCase.expected).Match(testCase.actual)
			if err != nil {
				t.Fatalf("Eq(%#v).Match(%#v) returned error: %v", testCase.expected, testCase.actual, err)
			}

			if got != testCase.want {
				t.Errorf("Eq(%#v).Match(%#v) = %v, want %v", testCase.expected, testCase.actual, got, testCase.want)
			}
		})
	}
}

// TestEq_FailureMessageIncludesDiff verifies the mismatch message carries a
// diff for comparable structured values.
func TestEq_FailureMessageIncludesDiff(t *testing.T) {
	t.Parallel()

	msg := core.Eq([]int{1, 2, 3}).FailureMessage([]int{1, 2, 4})

	if !strings.Contains(msg, "expected") {
		t.Errorf("failure message %q should name the expected value", msg)
	}

	if !strings.Contains(msg, "diff") {
		t.Errorf("failure message %q should include a diff", msg)
	}
}

// TestSame_Identity verifies identity matching for pointers and comparable
// values.
func TestSame_Identity(t *testing.T) {
	t.Parallel()

	type box struct{ v int }

	first := &box{v: 1}
	second := &box{v: 1}

	if ok, _ := core.Same(first).Match(first); !ok {
		t.Error("Same(p).Match(p) = false, want true")
	}

	// Equal contents, different objects.
	if ok, _ := core.Same(first).Match(second); ok {
		t.Error("Same(p).Match(q) = true for distinct pointers, want false")
	}

	if ok, _ := core.Same("x").Match("x"); !ok {
		t.Error("Same(\"x\").Match(\"x\") = false, want true")
	}

	if ok, _ := core.Same(nil).Match(nil); !ok {
		t.Error("Same(nil).Match(nil) = false, want true")
	}
}

// Test the Satisfies() matcher.
//
//nolint:varnamelen // Standard Go test parameter name
func TestSatisfies_MatchFailure(t *testing.T) {
	t.Parallel()

	matcher := core.Satisfies(func(val int) error {
		if val <= 10 {
			return errors.New("must be greater than 10")
		}

		return nil
	})

	ok, err := matcher.Match(5)

	if ok || err != nil {
		t.Errorf("Satisfies().Match(5) = (%v, %v), want (false, nil)", ok, err)
	}

	msg := matcher.FailureMessage(5)

	expected := "value 5 does not satisfy predicate: must be greater than 10"

	if msg != expected {
		t.Errorf("Satisfies().FailureMessage(5) = %q, want %q", msg, expected)
	}
}

// TestSatisfies_TypeMismatch verifies that a wrongly typed value reports an
// error rather than silently failing to match.
func TestSatisfies_TypeMismatch(t *testing.T) {
	t.Parallel()

	matcher := core.Satisfies(func(int) error { return nil })

	ok, err := matcher.Match("not an int")

	if ok || err == nil {
		t.Errorf("Satisfies[int]().Match(string) = (%v, %v), want (false, type error)", ok, err)
	}
}

// TestMatchValue_DelegatesToMatchers verifies that MatchValue uses a
// Matcher when given one and deep equality otherwise.
func TestMatchValue_DelegatesToMatchers(t *testing.T) {
	t.Parallel()

	if ok, msg := core.MatchValue(99, core.Any()); !ok || msg != "" {
		t.Errorf("MatchValue(99, Any()) = (%v, %q), want (true, \"\")", ok, msg)
	}

	if ok, _ := core.MatchValue(99, 99); !ok {
		t.Error("MatchValue(99, 99) = false, want true")
	}

	ok, msg := core.MatchValue(99, 100)
	if ok || msg == "" {
		t.Errorf("MatchValue(99, 100) = (%v, %q), want a failure with message", ok, msg)
	}
}
