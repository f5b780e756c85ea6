package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew_FormatsMessage(t *testing.T) {
	err := New(ErrCodeInvalidPackage, "package %q: bad %s", "P1", "length")
	want := `INVALID_PACKAGE: package "P1": bad length`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeInternal, cause, "saving run")

	if !stderrors.Is(err, cause) {
		t.Error("errors.Is() does not find the cause")
	}
	if err.Unwrap() != cause {
		t.Error("Unwrap() != cause")
	}
}

func TestIs_MatchesCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(ErrCodeInvalidULD, "bad"))
	if !Is(err, ErrCodeInvalidULD) {
		t.Error("Is() = false through wrapping, want true")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is() matched the wrong code")
	}
	if Is(stderrors.New("plain"), ErrCodeInternal) {
		t.Error("Is() matched a plain error")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeNotFound, "x")); got != ErrCodeNotFound {
		t.Errorf("GetCode() = %q, want NOT_FOUND", got)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode() = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidInput, "no packages")); got != "no packages" {
		t.Errorf("UserMessage() = %q, want without code prefix", got)
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage() = %q, want plain", got)
	}
}

func TestIsFatal(t *testing.T) {
	if !IsFatal(New(ErrCodeDependencyCycle, "cycle")) {
		t.Error("IsFatal(cycle) = false, want true")
	}
	if !IsFatal(New(ErrCodeInconsistentPlacement, "overlap")) {
		t.Error("IsFatal(inconsistent) = false, want true")
	}
	if IsFatal(New(ErrCodeInvalidInput, "bad input")) {
		t.Error("IsFatal(invalid input) = true, want false")
	}
}
