// Package match provides argument matchers for recording expectations.
// This package is designed to be dot-imported alongside gomega matchers:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    . "github.com/BoredShadow/easymock/match"
//	)
//
// Any type implementing Match and FailureMessage works as a matcher, so
// gomega matchers drop in directly.
package match

import (
	"github.com/BoredShadow/easymock/internal/core"
)

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing.
type Matcher = core.Matcher

// BeAny is a matcher that matches any value.
// Useful when you don't care about a particular argument.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny Matcher = core.Any()

// Eq returns a matcher comparing by deep value equality. Arrays and slices
// compare by contents. This is the default for unconfigured arguments, so it
// is only needed when mixing with other matchers on the same call.
func Eq(expected any) Matcher {
	return core.Eq(expected)
}

// Same returns a matcher comparing by identity rather than value.
func Same(expected any) Matcher {
	return core.Same(expected)
}

// Satisfy returns a matcher that uses a predicate function to check for a
// match. The predicate should return nil if the value matches, or an error
// describing the mismatch if it does not.
//
// Example:
//
//	get(easymock.WithMatcher[int](ctrl, Satisfy(func(x int) error {
//	    if x < 0 { return fmt.Errorf("expected positive, got %d", x) }
//	    return nil
//	})))
func Satisfy[T any](predicate func(T) error) Matcher {
	return core.Satisfies[T](predicate)
}
