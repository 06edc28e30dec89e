//go:build windows

package traceroute

import (
	"context"

	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
)

// RunUDP always fails on Windows: capturing the ICMP Destination/Port
// Unreachable a UDP probe provokes needs a promiscuous-mode ICMP
// listener that requires administrator privilege and WinPcap/Npcap,
// which this tool intentionally avoids (see probe/trace/udp.rs's
// #[cfg(windows)] branch).
func RunUDP(ctx context.Context, run *orchestrator.Run, setting model.TraceSetting) (model.TraceResult, error) {
	return model.TraceResult{}, model.NewProbeError(model.ErrUnsupported, "UDP traceroute is not supported on Windows (ICMP capture limitation)", nil)
}
