package errs

import (
	"errors"
	"fmt"
	"testing"

	"pgregory.net/rapid"
)

var allCodes = []Code{
	LocatorNotFound,
	SettlementTimeout,
	AssertionMismatch,
	InvalidArgument,
	Internal,
}

func testCodeOf_RoundtripForTypedErrors(t *rapid.T) {
	code := rapid.SampledFrom(allCodes).Draw(t, "code")
	message := rapid.StringMatching(`[a-zA-Z0-9 _:\-]{1,80}`).Draw(t, "message")

	err := New(code, message)
	if got := CodeOf(err); got != code {
		t.Fatalf("CodeOf(New) mismatch: got=%q want=%q", got, code)
	}
	if !Is(err, code) {
		t.Fatalf("Is(New(%q), %q) = false", code, code)
	}
	if err.Error() != message {
		t.Fatalf("Error() mismatch: got=%q want=%q", err.Error(), message)
	}
}

func TestCodeOf_RoundtripForTypedErrors(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testCodeOf_RoundtripForTypedErrors)
}

func testCodeOf_WrappedTypedError(t *rapid.T) {
	code := rapid.SampledFrom(allCodes).Draw(t, "code")
	message := rapid.StringMatching(`[a-zA-Z0-9 _:\-]{1,80}`).Draw(t, "message")
	cause := errors.New(rapid.StringMatching(`[a-zA-Z0-9 _:\-]{1,80}`).Draw(t, "cause"))

	err := Wrap(code, message, cause)
	wrapped := fmt.Errorf("outer: %w", err)

	if got := CodeOf(wrapped); got != code {
		t.Fatalf("CodeOf(wrapped) mismatch: got=%q want=%q", got, code)
	}
	if !errors.Is(wrapped, cause) {
		t.Fatal("wrapped error lost its cause")
	}
}

func TestCodeOf_WrappedTypedError(t *testing.T) {
	t.Parallel()
	rapid.Check(t, testCodeOf_WrappedTypedError)
}

func TestCodeOf_UntypedDefaultsToInternal(t *testing.T) {
	t.Parallel()

	if got := CodeOf(errors.New("plain")); got != Internal {
		t.Fatalf("CodeOf(plain) = %q, want %q", got, Internal)
	}
	if got := CodeOf(nil); got != Internal {
		t.Fatalf("CodeOf(nil) = %q, want %q", got, Internal)
	}
	if Is(errors.New("plain"), Internal) {
		t.Fatal("Is should not match untyped errors")
	}
	if Is(nil, Internal) {
		t.Fatal("Is(nil) should be false")
	}
}

func TestError_MessageFallsBackToCauseAndCode(t *testing.T) {
	t.Parallel()

	cause := errors.New("underlying")
	err := &Error{Code: SettlementTimeout, Err: cause}
	if err.Error() != "underlying" {
		t.Fatalf("Error() = %q, want cause text", err.Error())
	}

	bare := &Error{Code: LocatorNotFound}
	if bare.Error() != string(LocatorNotFound) {
		t.Fatalf("Error() = %q, want code", bare.Error())
	}
}
