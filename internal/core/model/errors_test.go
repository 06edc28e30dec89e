package model

import (
	"errors"
	"testing"
)

func TestProbeError_ErrorFormatsWithAndWithoutCause(t *testing.T) {
	withCause := NewProbeError(ErrIO, "read socket", errors.New("eof"))
	if got := withCause.Error(); got != "io: read socket: eof" {
		t.Fatalf("Error() = %q, want %q", got, "io: read socket: eof")
	}

	noCause := NewProbeError(ErrTimeout, "deadline exceeded", nil)
	if got := noCause.Error(); got != "timeout: deadline exceeded" {
		t.Fatalf("Error() = %q, want %q", got, "timeout: deadline exceeded")
	}
}

func TestProbeError_UnwrapExposesCause(t *testing.T) {
	cause := errors.New("underlying")
	err := NewProbeError(ErrProtocol, "bad reply", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is did not find the wrapped cause")
	}
}
