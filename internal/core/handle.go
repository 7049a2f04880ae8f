package core

import "reflect"

// Handle is the fluent half of the two-phase recording protocol: the mock
// call described the signature, the handle attaches what it should do. All
// handle methods must run before Replay and return the handle for chaining.
type Handle struct {
	control     *Control
	expectation *Expectation
}

// AndReturn appends a return action with the given values. Values must match
// the method's return signature in count and assignability; a nil is
// accepted for any nillable return type.
func (h *Handle) AndReturn(values ...any) *Handle {
	h.mutate("AndReturn", func(e *Expectation) {
		validateReturns(e.method, values)
		e.actions = append(e.actions, Action{Kind: ActionReturn, ReturnValues: values})
	})

	return h
}

// AndPanic appends an action that panics with the given value.
func (h *Handle) AndPanic(value any) *Handle {
	h.mutate("AndPanic", func(e *Expectation) {
		e.actions = append(e.actions, Action{Kind: ActionPanic, PanicValue: value})
	})

	return h
}

// AndAnswer appends an action that computes the return values from the
// actual arguments at call time. The callback must produce one value per
// return in the method signature.
func (h *Handle) AndAnswer(answer func(args []any) []any) *Handle {
	if answer == nil {
		usagef("AndAnswer", "answer callback must not be nil")
	}

	h.mutate("AndAnswer", func(e *Expectation) {
		e.actions = append(e.actions, Action{Kind: ActionAnswer, Answer: answer})
	})

	return h
}

// AndStubReturn makes the expectation a stub: it returns the given values,
// accepts any number of calls including zero, and never participates in
// ordering.
func (h *Handle) AndStubReturn(values ...any) *Handle {
	h.mutate("AndStubReturn", func(e *Expectation) {
		validateReturns(e.method, values)
		e.actions = []Action{{Kind: ActionReturn, ReturnValues: values}}
		e.setRange("AndStubReturn", Range{Min: 0, Max: Unbounded})
		h.control.repo.regroup(e, "", false)
	})

	return h
}

// Times requires the call to happen exactly n times.
func (h *Handle) Times(n int) *Handle {
	h.mutate("Times", func(e *Expectation) {
		e.setRange("Times", Range{Min: n, Max: n})
	})

	return h
}

// Between requires the call to happen at least min and at most max times.
func (h *Handle) Between(minCount, maxCount int) *Handle {
	h.mutate("Between", func(e *Expectation) {
		e.setRange("Between", Range{Min: minCount, Max: maxCount})
	})

	return h
}

// AtLeastOnce requires the call to happen one or more times.
func (h *Handle) AtLeastOnce() *Handle {
	h.mutate("AtLeastOnce", func(e *Expectation) {
		e.setRange("AtLeastOnce", Range{Min: 1, Max: Unbounded})
	})

	return h
}

// AnyTimes allows the call to happen any number of times, including zero.
func (h *Handle) AnyTimes() *Handle {
	h.mutate("AnyTimes", func(e *Expectation) {
		e.setRange("AnyTimes", Range{Min: 0, Max: Unbounded})
	})

	return h
}

// InGroup places the expectation in the named order group. Expectations in
// one group must be satisfied in the sequence they were recorded; ungrouped
// expectations stay unordered relative to everything.
func (h *Handle) InGroup(name string) *Handle {
	h.mutate("InGroup", func(e *Expectation) {
		h.control.repo.regroup(e, name, true)
	})

	return h
}

func (h *Handle) mutate(op string, change func(*Expectation)) {
	h.control.mu.Lock()
	defer h.control.mu.Unlock()

	if h.control.state != Recording {
		usagef(op, "expectations may only be configured before replay")
	}

	change(h.expectation)
}

// validateReturns checks count and assignability of configured return values
// against the method signature.
func validateReturns(method Method, values []any) {
	if len(values) != method.NumOut() {
		usagef("AndReturn", "%s returns %d value(s), but %d were configured",
			method, method.NumOut(), len(values))
	}

	for i, value := range values {
		outType := method.Type.Out(i)

		if value == nil {
			if !isNillableKind(outType.Kind()) {
				usagef("AndReturn", "return %d of %s is %s, which cannot be nil", i, method, outType)
			}

			continue
		}

		if !reflect.TypeOf(value).AssignableTo(outType) {
			usagef("AndReturn", "return %d of %s is %s, but a %T was configured", i, method, outType, value)
		}
	}
}
