package core_test

import (
	"testing"

	"github.com/BoredShadow/easymock/internal/core"
)

// TestMethodOf_Identity verifies method equality is name plus signature.
func TestMethodOf_Identity(t *testing.T) {
	t.Parallel()

	sameSignature := core.MethodOf("Get", (func(string) (string, error))(nil))

	if !getMethod.Equal(sameSignature) {
		t.Error("methods with equal name and signature should be equal")
	}

	renamed := core.MethodOf("Fetch", (func(string) (string, error))(nil))
	if getMethod.Equal(renamed) {
		t.Error("methods with different names should not be equal")
	}

	differentSignature := core.MethodOf("Get", (func(int) (string, error))(nil))
	if getMethod.Equal(differentSignature) {
		t.Error("methods with different signatures should not be equal")
	}
}

// TestMethodOf_RejectsNonFunc verifies that non-function prototypes are a
// usage error.
func TestMethodOf_RejectsNonFunc(t *testing.T) {
	t.Parallel()

	mustPanicUsage(t, func() {
		core.MethodOf("Get", 42)
	})

	mustPanicUsage(t, func() {
		core.MethodOf("Get", nil)
	})
}

// TestMethod_ZeroReturns verifies zero values per return type, the values a
// nice mock produces.
func TestMethod_ZeroReturns(t *testing.T) {
	t.Parallel()

	method := core.MethodOf("Mixed", (func() (int, bool, string, error))(nil))

	zeros := method.ZeroReturns()

	if len(zeros) != 4 {
		t.Fatalf("expected 4 zero returns, got %d", len(zeros))
	}

	if zeros[0] != 0 || zeros[1] != false || zeros[2] != "" || zeros[3] != nil {
		t.Errorf("zero returns = %#v, want [0 false \"\" <nil>]", zeros)
	}
}

// TestInvocation_CopiesArgs verifies the invocation is insulated from later
// mutation of the caller's slice.
func TestInvocation_CopiesArgs(t *testing.T) {
	t.Parallel()

	args := []any{"x", "y"}
	inv := core.NewInvocation("store", putMethod, args)

	args[0] = "mutated"

	if inv.Args[0] != "x" {
		t.Errorf("invocation arg 0 = %v, want the value at capture time", inv.Args[0])
	}
}

// TestInvocation_String verifies the diagnostic rendering.
func TestInvocation_String(t *testing.T) {
	t.Parallel()

	inv := invocation("store", getMethod, "x")

	want := `store.Get("x")`
	if inv.String() != want {
		t.Errorf("Invocation.String() = %q, want %q", inv.String(), want)
	}
}
