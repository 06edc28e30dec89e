// Package quic implements the QUIC handshake ping engine.
package quic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
	"netpulse/internal/core/ping"
	"netpulse/internal/core/socket"
)

// defaultServerName is used when no hostname is available; with
// SkipVerify true the certificate is never actually validated against it.
const defaultServerName = "netpulse.local"

// Run attempts a fresh QUIC handshake per probe, closing the connection
// with code 0 and reason "np" immediately after success.
func Run(ctx context.Context, run *orchestrator.Run, setting model.PingSetting) (model.PingStat, error) {
	port := setting.Port
	if port == 0 {
		port = 443
	}
	serverName := setting.Hostname
	if serverName == "" {
		serverName = defaultServerName
	}

	probe := func(ctx context.Context, seq uint32) model.PingSample {
		return probeOnce(ctx, setting, port, serverName, seq)
	}
	return ping.Run(ctx, run, setting, probe)
}

func probeOnce(ctx context.Context, setting model.PingSetting, port uint16, serverName string, seq uint32) model.PingSample {
	sample := model.PingSample{
		Seq: seq, IP: setting.IP, Hostname: setting.Hostname, Port: port, Protocol: model.PingQUIC,
	}

	cfg := socket.QuicConfig{ALPN: socket.DefaultALPN, SkipVerify: true}
	started := time.Now()
	conn, err := socket.DialQUIC(ctx, cfg, setting.IP, int(port), serverName, time.Duration(setting.TimeoutMS)*time.Millisecond)
	if err != nil {
		classify(&sample, err, setting.TimeoutMS)
		return sample
	}
	rtt := uint64(time.Since(started).Milliseconds())
	sample.RTTMs = &rtt
	sample.Status = model.Done()
	_ = conn.CloseWithError(0, "np")
	return sample
}

func classify(sample *model.PingSample, err error, timeoutMS uint64) {
	if errors.Is(err, context.DeadlineExceeded) || strings.Contains(strings.ToLower(err.Error()), "timeout") || strings.Contains(strings.ToLower(err.Error()), "elapsed") {
		sample.Status = model.TimeoutStatus(fmt.Sprintf("timeout (>%dms)", timeoutMS))
		return
	}
	sample.Status = model.ErrStatus(fmt.Sprintf("connect error: %v", err))
}
