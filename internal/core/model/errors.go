package model

import "fmt"

// ErrKind is the error taxonomy from spec.md §7. Per-sample/per-hop
// errors are recorded as ProbeStatus, not returned as Go errors; Kind
// here is for run-level failures (socket acquisition, invalid settings).
type ErrKind string

const (
	ErrInvalidArgument ErrKind = "invalid_argument"
	ErrUnsupported     ErrKind = "unsupported"
	ErrPermissionDenied ErrKind = "permission_denied"
	ErrTimeout         ErrKind = "timeout"
	ErrIO              ErrKind = "io"
	ErrProtocol        ErrKind = "protocol"
	ErrCancelled       ErrKind = "cancelled"
)

// ProbeError is the run-level error type; per-sample failures are
// recorded via ProbeStatus instead.
type ProbeError struct {
	Kind    ErrKind
	Message string
	Err     error
}

func (e *ProbeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ProbeError) Unwrap() error { return e.Err }

func NewProbeError(kind ErrKind, msg string, cause error) *ProbeError {
	return &ProbeError{Kind: kind, Message: msg, Err: cause}
}
