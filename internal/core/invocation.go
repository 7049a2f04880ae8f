// Package core implements the record/replay mocking engine: invocations,
// matchers, expectations, the expectation repository, and the mock control
// state machine. The public API at the repository root re-exports from here.
package core

import (
	"fmt"
	"reflect"
	"strings"
)

// Method identifies one mockable operation: a name plus the reflected
// function signature. Two Methods are the same operation iff both the name
// and the signature type are equal.
type Method struct {
	Name string
	Type reflect.Type
}

// MethodOf builds a Method from a name and a function prototype. The
// prototype is only inspected for its type, so a typed nil works:
//
//	getMethod := core.MethodOf("Get", (func(string) (string, error))(nil))
func MethodOf(name string, prototype any) Method {
	fnType := reflect.TypeOf(prototype)
	if fnType == nil || fnType.Kind() != reflect.Func {
		usagef("MethodOf", "prototype for %q must be a function type, got %T", name, prototype)
	}

	return Method{Name: name, Type: fnType}
}

// Arity returns the number of parameters the method takes.
func (m Method) Arity() int { return m.Type.NumIn() }

// NumOut returns the number of values the method returns.
func (m Method) NumOut() int { return m.Type.NumOut() }

// Equal reports whether two methods name the same operation with the same
// signature.
func (m Method) Equal(other Method) bool {
	return m.Name == other.Name && m.Type == other.Type
}

func (m Method) String() string {
	return m.Name + strings.TrimPrefix(m.Type.String(), "func")
}

// ZeroReturns returns the zero value for each of the method's return types.
// This is what nice-mode mocks produce for unmatched calls.
func (m Method) ZeroReturns() []any {
	if m.Type.NumOut() == 0 {
		return nil
	}

	zeros := make([]any, m.Type.NumOut())
	for i := range zeros {
		zeros[i] = reflect.Zero(m.Type.Out(i)).Interface()
	}

	return zeros
}

// Invocation is one intercepted call: which mock received it, which method
// was called, and the argument values. It is created fresh per call and
// never mutated.
type Invocation struct {
	Mock   string
	Method Method
	Args   []any
}

// NewInvocation builds an Invocation, copying the argument slice so later
// mutation by the caller cannot leak in.
func NewInvocation(mock string, method Method, args []any) Invocation {
	var copied []any
	if len(args) > 0 {
		copied = make([]any, len(args))
		copy(copied, args)
	}

	return Invocation{Mock: mock, Method: method, Args: copied}
}

func (inv Invocation) String() string {
	rendered := make([]string, len(inv.Args))
	for i, arg := range inv.Args {
		rendered[i] = fmt.Sprintf("%#v", arg)
	}

	return fmt.Sprintf("%s.%s(%s)", inv.Mock, inv.Method.Name, strings.Join(rendered, ", "))
}
