// Package tcp implements the TCP-connect ping engine.
package tcp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
	"netpulse/internal/core/ping"
	"netpulse/internal/core/socket"
)

// Run pings setting.IP:setting.Port with a bare TCP handshake per
// attempt; the connection is closed immediately after it succeeds.
func Run(ctx context.Context, run *orchestrator.Run, setting model.PingSetting) (model.PingStat, error) {
	port := setting.Port
	if port == 0 {
		port = 80
	}

	probe := func(ctx context.Context, seq uint32) model.PingSample {
		return probeOnce(ctx, setting, port, seq)
	}
	return ping.Run(ctx, run, setting, probe)
}

func probeOnce(ctx context.Context, setting model.PingSetting, port uint16, seq uint32) model.PingSample {
	sample := model.PingSample{
		Seq: seq, IP: setting.IP, Hostname: setting.Hostname, Port: port, Protocol: model.PingTCP,
	}

	cfg := socket.TcpConfig{NoDelay: true}
	isV6 := setting.IP.To4() == nil
	if isV6 {
		cfg.HopLimit = int(setting.HopLimit)
	} else {
		cfg.TTL = int(setting.HopLimit)
	}

	started := time.Now()
	conn, err := socket.DialTCP(ctx, cfg, setting.IP, port, time.Duration(setting.TimeoutMS)*time.Millisecond)
	if err != nil {
		classify(&sample, err, setting.TimeoutMS)
		return sample
	}
	rtt := uint64(time.Since(started).Milliseconds())
	sample.RTTMs = &rtt
	sample.Status = model.Done()
	_ = conn.Close()
	return sample
}

func classify(sample *model.PingSample, err error, timeoutMS uint64) {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		sample.Status = model.TimeoutStatus(fmt.Sprintf("timeout (>%dms)", timeoutMS))
		return
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		sample.Status = model.TimeoutStatus(fmt.Sprintf("timeout (>%dms)", timeoutMS))
		return
	}
	sample.Status = model.ErrStatus(fmt.Sprintf("connect error: %v", err))
}
