package easymock

import (
	"fmt"
	"reflect"
)

// Fn synthesizes a mock for any function type T, routing every call through
// the control. This is the built-in interception layer: together with
// hand-written mock structs calling Control.Invoke, it covers mocking
// without code generation.
//
//	get := easymock.Fn[func(string) (string, error)](ctrl, "get")
//	get("x")
//	easymock.ExpectLastCall(ctrl).AndReturn("v1", nil)
func Fn[T any](c *Control, name string) T {
	fnType := reflect.TypeOf((*T)(nil)).Elem()

	// Ignore the type assertion lint check - we are depending on newFuncMock
	// to return the correct type, as documented. If it fails to, the only
	// thing we'd do is panic anyway.
	return newFuncMock(c, name, fnType).Interface().(T) //nolint:forcetypeassert
}

// newFuncMock builds the reflect.MakeFunc implementation shared by Fn and
// Support.InjectMocks. The mock name doubles as the method name, since a
// function mock has exactly one operation.
func newFuncMock(c *Control, name string, fnType reflect.Type) reflect.Value {
	if fnType.Kind() != reflect.Func {
		panic(&UsageError{Op: "Fn", Msg: fmt.Sprintf("mock type must be a function type, got %s", fnType)})
	}

	mockName := c.RegisterMock(name)
	method := Method{Name: mockName, Type: fnType}

	relayer := func(args []reflect.Value) []reflect.Value {
		out := c.Invoke(mockName, method, unreflectValues(args)...)

		return reflectReturns(out, fnType)
	}

	return reflect.MakeFunc(fnType, relayer)
}

// unreflectValues returns the actual values of the reflected values.
func unreflectValues(rArgs []reflect.Value) []any {
	if len(rArgs) == 0 {
		return nil
	}

	args := make([]any, len(rArgs))
	for i := range rArgs {
		args[i] = rArgs[i].Interface()
	}

	return args
}

// reflectReturns converts dispatched return values back into typed
// reflect.Values, as reflect.MakeFunc requires. A nil value maps to the zero
// value of the corresponding return type.
func reflectReturns(values []any, fnType reflect.Type) []reflect.Value {
	if fnType.NumOut() == 0 {
		return nil
	}

	if len(values) != fnType.NumOut() {
		panic(&UsageError{Op: "Fn", Msg: fmt.Sprintf(
			"dispatch produced %d value(s) for a function returning %d", len(values), fnType.NumOut())})
	}

	out := make([]reflect.Value, fnType.NumOut())

	for i, value := range values {
		outType := fnType.Out(i)

		if value == nil {
			out[i] = reflect.Zero(outType)

			continue
		}

		rv := reflect.ValueOf(value)
		if rv.Type() != outType {
			rv = rv.Convert(outType)
		}

		out[i] = rv
	}

	return out
}
