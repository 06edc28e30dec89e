//go:build windows

package udp

import (
	"context"

	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
)

// DefaultPort is kept in sync with the Unix build for callers that
// reference it regardless of platform.
const DefaultPort = 33435

// Run always fails on Windows: observing the ICMP Destination/Port
// Unreachable generated by a UDP probe needs a raw ICMP listener in
// promiscuous-like mode that requires administrator privilege and
// WinPcap/Npcap, which this tool intentionally avoids. See spec.md §9
// open question 4 and probe/ping/udp.rs's #[cfg(windows)] branch.
func Run(ctx context.Context, run *orchestrator.Run, setting model.PingSetting) (model.PingStat, error) {
	return model.PingStat{}, model.NewProbeError(model.ErrUnsupported, "UDP ping via ICMP unreachable is not supported on Windows", nil)
}
