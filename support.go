package easymock

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Support keeps track of every control a test creates, so the whole set can
// be replayed, verified, and reset in one call. Controls are processed in
// registration order; with a *testing.T reporter the first failure stops the
// test (fail-fast), which is the documented aggregation policy.
type Support struct {
	t TestReporter

	mu        sync.Mutex
	controls  []*Control
	factories map[reflect.Type]func(c *Control, name string) any
}

// NewSupport creates a Support reporting failures through t.
func NewSupport(t TestReporter) *Support {
	return &Support{
		t:         t,
		factories: make(map[reflect.Type]func(c *Control, name string) any),
	}
}

// NewControl creates and registers a default-mode control.
func (s *Support) NewControl() *Control {
	return s.register(NewControl(s.t))
}

// NewNiceControl creates and registers a nice-mode control.
func (s *Support) NewNiceControl() *Control {
	return s.register(NewNiceControl(s.t))
}

// NewStrictControl creates and registers a strict-mode control.
func (s *Support) NewStrictControl() *Control {
	return s.register(NewStrictControl(s.t))
}

// NewControlWithConfig creates and registers a control with explicit
// configuration.
func (s *Support) NewControlWithConfig(config Config) *Control {
	return s.register(NewControlWithConfig(s.t, config))
}

// ExpectLastCall closes the most recently recorded mock call across every
// registered control and returns its behavior handle. This is how behavior
// attaches to mocks filled in by InjectMocks, whose controls the Support
// created itself.
func (s *Support) ExpectLastCall() *Handle {
	var (
		last    *Control
		lastSeq uint64
	)

	for _, c := range s.snapshot() {
		if seq, ok := c.PendingSeq(); ok && seq > lastSeq {
			last, lastSeq = c, seq
		}
	}

	if last == nil {
		panic(&UsageError{Op: "ExpectLastCall", Msg: "no mock call is pending on any registered control"})
	}

	return last.ExpectLastCall()
}

// Register adds an externally created control to the set.
func (s *Support) Register(c *Control) {
	s.register(c)
}

func (s *Support) register(c *Control) *Control {
	s.mu.Lock()
	s.controls = append(s.controls, c)
	s.mu.Unlock()

	return c
}

// ReplayAll switches every registered control to replay mode.
func (s *Support) ReplayAll() {
	for _, c := range s.snapshot() {
		c.Replay()
	}
}

// VerifyAll verifies every registered control. The first verification error
// encountered is returned (and, with a fatal reporter, stops the test).
func (s *Support) VerifyAll() error {
	for _, c := range s.snapshot() {
		if err := c.Verify(); err != nil {
			return err
		}
	}

	return nil
}

// ResetAll resets every registered control, keeping each control's mode.
func (s *Support) ResetAll() {
	for _, c := range s.snapshot() {
		c.Reset()
	}
}

// ResetAllToNice resets every registered control to nice mode.
func (s *Support) ResetAllToNice() {
	for _, c := range s.snapshot() {
		c.ResetToNice()
	}
}

// ResetAllToDefault resets every registered control to default mode.
func (s *Support) ResetAllToDefault() {
	for _, c := range s.snapshot() {
		c.ResetToDefault()
	}
}

// ResetAllToStrict resets every registered control to strict mode.
func (s *Support) ResetAllToStrict() {
	for _, c := range s.snapshot() {
		c.ResetToStrict()
	}
}

func (s *Support) snapshot() []*Control {
	s.mu.Lock()
	defer s.mu.Unlock()

	controls := make([]*Control, len(s.controls))
	copy(controls, s.controls)

	return controls
}

// RegisterFactory teaches the Support how to build a mock for the interface
// (or other non-func) type T, so InjectMocks can fill fields of that type.
// The factory receives the control the mock should dispatch through and the
// resolved mock name; it is responsible for registering the name (typically
// by passing it to RegisterMock in the mock's constructor).
func RegisterFactory[T any](s *Support, factory func(c *Control, name string) T) {
	fieldType := reflect.TypeOf((*T)(nil)).Elem()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.factories[fieldType] = func(c *Control, name string) any { return factory(c, name) }
}

// InjectMocks fills every exported field of *target tagged `mock:"..."` with
// a fresh mock backed by its own control, registered on this Support so that
// ReplayAll/VerifyAll cover it. Func-typed fields are synthesized directly;
// other field types need a factory registered via RegisterFactory.
//
// Tag options: `mock:"name=db,mode=nice"`. Resolution precedence: explicit
// tag name over the field name; explicit tag mode over the default mode.
func (s *Support) InjectMocks(target any) {
	targetVal := reflect.ValueOf(target)
	if targetVal.Kind() != reflect.Pointer || targetVal.Elem().Kind() != reflect.Struct {
		panic(&UsageError{Op: "InjectMocks", Msg: fmt.Sprintf("target must be a pointer to a struct, got %T", target)})
	}

	structVal := targetVal.Elem()
	structType := structVal.Type()

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		tag, tagged := field.Tag.Lookup("mock")
		if !tagged {
			continue
		}

		if !field.IsExported() {
			panic(&UsageError{Op: "InjectMocks", Msg: fmt.Sprintf(
				"field %s.%s is tagged mock but not exported", structType, field.Name)})
		}

		name, mode := parseMockTag(structType, field.Name, tag)
		if name == "" {
			name = field.Name
		}

		ctrl := s.NewControlWithConfig(Config{Mode: mode})
		structVal.Field(i).Set(s.buildMock(ctrl, name, field.Type))
	}
}

func (s *Support) buildMock(ctrl *Control, name string, fieldType reflect.Type) reflect.Value {
	if fieldType.Kind() == reflect.Func {
		return newFuncMock(ctrl, name, fieldType)
	}

	s.mu.Lock()
	factory, ok := s.factories[fieldType]
	s.mu.Unlock()

	if !ok {
		panic(&UsageError{Op: "InjectMocks", Msg: fmt.Sprintf(
			"no factory registered for %s; call RegisterFactory for non-func mock types", fieldType)})
	}

	return reflect.ValueOf(factory(ctrl, name))
}

// parseMockTag reads the `mock` struct tag: comma-separated key=value pairs.
func parseMockTag(structType reflect.Type, fieldName, tag string) (name string, mode Mode) {
	mode = Default

	if tag == "" {
		return "", mode
	}

	for _, part := range strings.Split(tag, ",") {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			panic(&UsageError{Op: "InjectMocks", Msg: fmt.Sprintf(
				"field %s.%s: malformed mock tag entry %q", structType, fieldName, part)})
		}

		switch key {
		case "name":
			name = value
		case "mode":
			switch value {
			case "nice":
				mode = Nice
			case "strict":
				mode = Strict
			case "default":
				mode = Default
			default:
				panic(&UsageError{Op: "InjectMocks", Msg: fmt.Sprintf(
					"field %s.%s: unknown mock mode %q", structType, fieldName, value)})
			}
		default:
			panic(&UsageError{Op: "InjectMocks", Msg: fmt.Sprintf(
				"field %s.%s: unknown mock tag key %q", structType, fieldName, key)})
		}
	}

	return name, mode
}
