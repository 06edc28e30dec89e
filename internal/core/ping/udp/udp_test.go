//go:build !windows

package udp

import (
	"context"
	"net"
	"testing"
	"time"

	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
)

// TestRun_Smoke exercises the UDP-probe/ICMP-unreachable flow against
// loopback; it needs a companion ICMP socket, so a permission error is
// an acceptable outcome here rather than a failure.
func TestRun_Smoke(t *testing.T) {
	setting := model.PingSetting{
		IP: net.ParseIP("127.0.0.1"), Count: 1, TimeoutMS: 500, HopLimit: 64, Protocol: model.PingUDP,
	}
	run := orchestrator.New(orchestrator.NopSink{})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	stat, err := Run(ctx, run, setting)
	if err != nil {
		t.Logf("Run returned an error (expected without ICMP privileges): %v", err)
		return
	}
	if len(stat.Samples) != 1 {
		t.Fatalf("samples = %d, want 1", len(stat.Samples))
	}
}
