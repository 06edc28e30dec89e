package portscan

import (
	"context"
	"errors"
	"net"
	"syscall"
	"time"

	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
	"netpulse/internal/core/socket"
)

// RunTCP scans setting's port list by attempting a bare TCP handshake
// on each one.
func RunTCP(ctx context.Context, r *orchestrator.Run, setting model.PortScanSetting) (model.PortScanReport, error) {
	return run(ctx, r, setting, tcpAttempt)
}

func tcpAttempt(ctx context.Context, setting model.PortScanSetting, port uint16) (model.PortState, *uint64, string) {
	cfg := socket.TcpConfig{NoDelay: true}
	isV6 := setting.IP.To4() == nil
	if isV6 {
		cfg.HopLimit = 64
	} else {
		cfg.TTL = 64
	}

	started := time.Now()
	conn, err := socket.DialTCP(ctx, cfg, setting.IP, port, time.Duration(setting.TimeoutMS)*time.Millisecond)
	if err != nil {
		return classifyTCP(err)
	}
	rtt := uint64(time.Since(started).Milliseconds())
	_ = conn.Close()
	return model.PortOpen, &rtt, ""
}

func classifyTCP(err error) (model.PortState, *uint64, string) {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return model.PortFiltered, nil, err.Error()
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return model.PortClosed, nil, err.Error()
	}
	if errors.Is(err, syscall.ENETUNREACH) || errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.EADDRNOTAVAIL) {
		return model.PortFiltered, nil, err.Error()
	}
	return model.PortClosed, nil, err.Error()
}
