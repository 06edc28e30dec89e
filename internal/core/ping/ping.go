// Package ping implements the common send/await/classify/emit loop
// shared by every protocol-specific ping engine (icmp, tcp, udp, quic,
// http). Each protocol package supplies a Prober closure; Run drives it.
package ping

import (
	"context"
	"time"

	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
)

// Prober issues one probe attempt for seq and returns the completed
// sample. It must respect ctx cancellation and the setting's timeout.
type Prober func(ctx context.Context, seq uint32) model.PingSample

// Run drives the common ping loop: validates setting, issues count
// probes at send_rate_ms spacing, emits ping:progress per sample, and
// returns/emits the final summary.
func Run(ctx context.Context, run *orchestrator.Run, setting model.PingSetting, probe Prober) (model.PingStat, error) {
	if setting.Count == 0 {
		return model.PingStat{}, model.NewProbeError(model.ErrInvalidArgument, "count must be >= 1", nil)
	}
	if setting.TimeoutMS == 0 {
		return model.PingStat{}, model.NewProbeError(model.ErrInvalidArgument, "timeout_ms must be >= 1", nil)
	}

	run.Start()
	run.Emit("ping:start", map[string]any{"run_id": run.ID, "setting": setting})

	samples := make([]model.PingSample, 0, setting.Count)
	var received uint32

	for seq := uint32(1); seq <= setting.Count; seq++ {
		sample := probe(ctx, seq)
		samples = append(samples, sample)
		if sample.Status.IsDone() {
			received++
		}

		percent := float64(seq) * 100.0 / float64(setting.Count)
		run.Emit("ping:progress", map[string]any{
			"run_id":      run.ID,
			"sample":      sample,
			"transmitted": seq,
			"received":    received,
			"percent":     percent,
		})

		if ctx.Err() != nil {
			break
		}
		if seq != setting.Count {
			select {
			case <-time.After(time.Duration(setting.SendRateMS) * time.Millisecond):
			case <-ctx.Done():
			}
		}
	}

	stat := model.NewPingStat(setting.Hostname, setting.IP, setting.Port, setting.Protocol, samples)
	run.Emit("ping:done", map[string]any{"run_id": run.ID, "stat": stat})
	run.Finish(ctx, nil)
	return stat, nil
}
