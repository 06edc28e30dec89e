//go:build windows

package traceroute

import (
	"context"
	"net"
	"testing"

	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
)

func TestRunUDP_UnsupportedOnWindows(t *testing.T) {
	setting := model.TraceSetting{IP: net.ParseIP("127.0.0.1")}.Sanitize()
	run := orchestrator.New(orchestrator.NopSink{})

	_, err := RunUDP(context.Background(), run, setting)
	if err == nil {
		t.Fatalf("expected RunUDP to fail on windows")
	}

	probeErr, ok := err.(*model.ProbeError)
	if !ok || probeErr.Kind != model.ErrUnsupported {
		t.Fatalf("err = %v, want *model.ProbeError{Kind: ErrUnsupported}", err)
	}
}
