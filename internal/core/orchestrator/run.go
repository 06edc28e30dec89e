// Package orchestrator assigns run IDs and carries start/progress/done
// events from a probe operation out to its caller. It is the Go
// equivalent of the Rust original's tauri::Emitter app.emit(channel,
// payload) calls: each probe engine holds an EventSink instead of an
// AppHandle and calls Emit on the same channel names spec.md §6 names.
// No engine emits an ":error" channel; a failed run returns its error
// to the caller and records it through Run.Finish.
package orchestrator

import (
	"context"
	"sync"

	"netpulse/internal/pkg/logger"
	"netpulse/internal/pkg/runid"
)

// RunState is the lifecycle of one orchestrated operation.
type RunState string

const (
	RunCreated   RunState = "created"
	RunRunning   RunState = "running"
	RunCompleted RunState = "completed"
	RunFailed    RunState = "failed"
	RunCancelled RunState = "cancelled"
)

// EventSink receives the channel/payload pairs a probe engine emits.
// Implementations must not block the caller for long; the default
// ChanSink and the discarding NopSink both return immediately.
type EventSink interface {
	Emit(channel string, payload any)
}

// NopSink discards every event. Useful for library callers and tests
// that only want the final return value.
type NopSink struct{}

func (NopSink) Emit(string, any) {}

// Event pairs a channel name with its payload, as delivered by ChanSink.
type Event struct {
	Channel string
	Payload any
}

// ChanSink delivers events on a buffered channel. Emit is best-effort:
// a full channel drops the event rather than blocking the probe engine,
// mirroring the Rust original's "let _ = app.emit(...)" fire-and-forget
// delivery.
type ChanSink struct {
	ch chan Event
}

// NewChanSink creates a ChanSink with the given buffer size.
func NewChanSink(buffer int) *ChanSink {
	return &ChanSink{ch: make(chan Event, buffer)}
}

func (s *ChanSink) Emit(channel string, payload any) {
	select {
	case s.ch <- Event{Channel: channel, Payload: payload}:
	default:
		logger.Warnf("orchestrator: event channel full, dropping %s event", channel)
	}
}

// Events returns the channel callers should range over to receive events.
func (s *ChanSink) Events() <-chan Event { return s.ch }

// Close closes the underlying channel. Callers must stop emitting
// before calling Close.
func (s *ChanSink) Close() { close(s.ch) }

// Run tracks one orchestrated probe operation: its ID, its sink, and a
// mutex-guarded state used by callers that poll rather than range over
// the sink (e.g. a future HTTP control surface).
type Run struct {
	ID   string
	Sink EventSink

	mu    sync.Mutex
	state RunState
	err   error
}

// New creates a Run with a fresh ID and the given sink. A nil sink is
// replaced with NopSink.
func New(sink EventSink) *Run {
	if sink == nil {
		sink = NopSink{}
	}
	return &Run{ID: runid.New(), Sink: sink, state: RunCreated}
}

// Start marks the run as running. Idempotent.
func (r *Run) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state == RunCreated {
		r.state = RunRunning
		logger.WithRunID(r.ID).Info("run started")
	}
}

// Finish transitions the run to Completed, or to Failed/Cancelled when
// err is non-nil; ctx.Err() is checked first so a cancelled run reports
// Cancelled rather than Failed.
func (r *Run) Finish(ctx context.Context, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch {
	case ctx.Err() != nil:
		r.state = RunCancelled
		r.err = ctx.Err()
	case err != nil:
		r.state = RunFailed
		r.err = err
	default:
		r.state = RunCompleted
	}
	entry := logger.WithRunID(r.ID)
	if r.err != nil {
		entry.Warnf("run finished: %s (%v)", r.state, r.err)
	} else {
		entry.Infof("run finished: %s", r.state)
	}
}

// State returns the run's current state and, if any, its terminal error.
func (r *Run) State() (RunState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state, r.err
}

// Emit is a convenience forwarder to Sink.Emit.
func (r *Run) Emit(channel string, payload any) {
	r.Sink.Emit(channel, payload)
}
