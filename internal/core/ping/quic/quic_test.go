package quic

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
)

func TestClassify_DeadlineExceeded(t *testing.T) {
	var sample model.PingSample
	classify(&sample, context.DeadlineExceeded, 500)
	if !sample.Status.IsTimeout() {
		t.Fatalf("status = %+v, want timeout", sample.Status)
	}
}

func TestClassify_TimeoutSubstringInMessage(t *testing.T) {
	var sample model.PingSample
	classify(&sample, errors.New("handshake timeout exceeded"), 500)
	if !sample.Status.IsTimeout() {
		t.Fatalf("status = %+v, want timeout", sample.Status)
	}
}

func TestClassify_OtherErrorIsClassifiedAsError(t *testing.T) {
	var sample model.PingSample
	classify(&sample, errors.New("connection refused"), 500)
	if !sample.Status.IsError() {
		t.Fatalf("status = %+v, want error", sample.Status)
	}
}

// TestRun_NoListenerFailsWithoutHanging dials a loopback UDP port with
// nothing QUIC-speaking on it; the handshake must fail within the
// timeout rather than hang, and the sample must carry a non-done status.
func TestRun_NoListenerFailsWithoutHanging(t *testing.T) {
	setting := model.PingSetting{
		IP: net.ParseIP("127.0.0.1"), Port: 45123, Count: 1, TimeoutMS: 300,
	}
	run := orchestrator.New(orchestrator.NopSink{})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	stat, err := Run(ctx, run, setting)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stat.Received != 0 {
		t.Fatalf("received = %d, want 0 (no QUIC listener on that port)", stat.Received)
	}
}
