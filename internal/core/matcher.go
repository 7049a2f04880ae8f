package core

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// errTypeMismatch is a sentinel error for type assertion failures.
var errTypeMismatch = errors.New("type mismatch")

// Matcher defines the interface for flexible argument matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work. Matchers must be pure:
// evaluation is left-to-right and may short-circuit.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// MatchValue checks if actual matches expected.
// If expected implements the Matcher interface, uses its Match method.
// Otherwise, uses deep value equality.
// Returns (success, errorMessage). If success is true, errorMessage is empty.
func MatchValue(actual, expected any) (bool, string) {
	if matcher, ok := expected.(Matcher); ok {
		success, err := matcher.Match(actual)
		if err != nil {
			return false, err.Error()
		}

		if !success {
			return false, matcher.FailureMessage(actual)
		}

		return true, ""
	}

	if deepEqual(actual, expected) {
		return true, ""
	}

	return false, fmt.Sprintf("expected %#v, got %#v%s", expected, actual, diffSuffix(expected, actual))
}

// Any returns a matcher that matches any value.
// Useful when you don't care about a particular argument.
func Any() Matcher {
	return anyMatcher{}
}

type anyMatcher struct{}

func (anyMatcher) Match(any) (bool, error) { return true, nil }

func (anyMatcher) FailureMessage(any) string { return "" }

// Eq returns a matcher that compares by deep value equality. This is the
// default matcher for any argument not explicitly configured. Arrays and
// slices compare by contents, not identity.
func Eq(expected any) Matcher {
	return eqMatcher{expected: expected}
}

type eqMatcher struct {
	expected any
}

func (m eqMatcher) Match(actual any) (bool, error) {
	return deepEqual(actual, m.expected), nil
}

func (m eqMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected %#v, got %#v%s", m.expected, actual, diffSuffix(m.expected, actual))
}

// Same returns a matcher that compares by identity: pointers, channels,
// maps, and funcs match when they are the same object, comparable values
// when they are ==.
func Same(expected any) Matcher {
	return sameMatcher{expected: expected}
}

type sameMatcher struct {
	expected any
}

func (m sameMatcher) Match(actual any) (bool, error) {
	if isNil(actual) && isNil(m.expected) {
		return true, nil
	}

	if isNil(actual) != isNil(m.expected) {
		return false, nil
	}

	expectedVal := reflect.ValueOf(m.expected)
	actualVal := reflect.ValueOf(actual)

	if expectedVal.Type() != actualVal.Type() {
		return false, nil
	}

	switch expectedVal.Kind() {
	case reflect.Pointer, reflect.Chan, reflect.Map, reflect.Func, reflect.Slice, reflect.UnsafePointer:
		return expectedVal.Pointer() == actualVal.Pointer(), nil
	default:
		if !expectedVal.Comparable() {
			return false, fmt.Errorf("%w: %s is not an identity-comparable type", errTypeMismatch, expectedVal.Type())
		}

		return m.expected == actual, nil
	}
}

func (m sameMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected same object as %#v, got %#v", m.expected, actual)
}

// Satisfies returns a matcher that uses a predicate function to check for a
// match. The predicate should return nil if the value matches, or an error
// describing the mismatch if it does not.
func Satisfies[T any](predicate func(T) error) Matcher {
	return &satisfiesMatcher[T]{predicate: predicate}
}

type satisfiesMatcher[T any] struct {
	predicate func(T) error
	lastErr   error
}

func (m *satisfiesMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)

	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	m.lastErr = m.predicate(val)

	return m.lastErr == nil, nil
}

func (m *satisfiesMatcher[T]) FailureMessage(actual any) string {
	if m.lastErr != nil {
		return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, m.lastErr)
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

// matchArgs evaluates the positional matchers of an expectation against the
// invocation's arguments. Arity is guaranteed equal by the method-signature
// match. Returns nil on success, or an error naming the first failing
// position.
func matchArgs(matchers []Matcher, args []any) error {
	for index, matcher := range matchers {
		success, err := matcher.Match(args[index])
		if err != nil {
			return fmt.Errorf("arg %d: %w", index, err)
		}

		if !success {
			msg := matcher.FailureMessage(args[index])
			if msg == "" {
				msg = fmt.Sprintf("matcher failed for value %#v", args[index])
			}
			//nolint:err113 // validation error with dynamic context
			return fmt.Errorf("arg %d: %s", index, msg)
		}
	}

	return nil
}

// defaultMatchers builds the per-argument equality matchers used when no
// custom matchers were captured for an expectation.
func defaultMatchers(args []any) []Matcher {
	matchers := make([]Matcher, len(args))
	for i, arg := range args {
		matchers[i] = Eq(arg)
	}

	return matchers
}

// describeMatchers renders the matcher list for expectation diagnostics.
// Equality matchers render as their value, everything else as the matcher
// type.
func describeMatchers(matchers []Matcher) string {
	rendered := make([]string, len(matchers))

	for i, matcher := range matchers {
		switch m := matcher.(type) {
		case eqMatcher:
			rendered[i] = fmt.Sprintf("%#v", m.expected)
		case anyMatcher:
			rendered[i] = "<any>"
		default:
			rendered[i] = fmt.Sprintf("<%T>", matcher)
		}
	}

	return strings.Join(rendered, ", ")
}

// diffSuffix renders a go-cmp diff between expected and actual when one is
// available. cmp panics on unexported fields without options, so the diff is
// best-effort and mismatches fall back to the plain %#v rendering alone.
func diffSuffix(expected, actual any) (suffix string) {
	defer func() {
		if recover() != nil {
			suffix = ""
		}
	}()

	diff := cmp.Diff(expected, actual)
	if diff == "" {
		return ""
	}

	return "\n    diff (-expected +actual):\n" + diff
}

// deepEqual checks whether two values are deeply equal.
// deepEqual calls functions equal if their names are equal.
// For everything else it depends on reflect.DeepEqual.
func deepEqual(actual, expected any) bool {
	// handle, for instance, nil == (*int)(nil)
	if isNil(actual) && isNil(expected) {
		return true
	}

	if isNil(actual) != isNil(expected) {
		return false
	}

	// Special handling for functions. For our purposes, funcs with the same names are equal.
	if reflect.TypeOf(actual).Kind() == reflect.Func &&
		reflect.TypeOf(expected).Kind() == reflect.Func &&
		funcName(actual) == funcName(expected) {
		return true
	}

	return reflect.DeepEqual(actual, expected)
}

// funcName gets a function's name.
func funcName(f any) string {
	// docs say to use UnsafePointer explicitly instead of Pointer()
	name := runtime.FuncForPC(uintptr(reflect.ValueOf(f).UnsafePointer())).Name()
	// this suffix gets appended sometimes. It's unimportant, as far as I can tell.
	name = strings.TrimSuffix(name, "-fm")

	return name
}

// isNil returns whether the value is nil, typed or untyped.
func isNil(value any) bool { return isUntypedNil(value) || isTypedNil(value) }

func isTypedNil(value any) bool {
	reflectedValue := reflect.ValueOf(value)
	return isNillableKind(reflectedValue.Kind()) && reflectedValue.IsNil()
}

func isUntypedNil(value any) bool { return !reflect.ValueOf(value).IsValid() }

// isNillableKind returns true if the kind passed is nillable.
// According to https://pkg.go.dev/reflect#Value.IsNil, this is the case for
// chan, func, interface, map, pointer, or slice kinds.
func isNillableKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Chan, reflect.Func, reflect.Interface,
		reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	default:
		return false
	}
}
