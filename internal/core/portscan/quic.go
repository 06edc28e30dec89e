package portscan

import (
	"context"
	"errors"
	"net"
	"time"

	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
	"netpulse/internal/core/socket"
)

// RunQUIC scans setting's port list by attempting a QUIC handshake on
// each one.
func RunQUIC(ctx context.Context, r *orchestrator.Run, setting model.PortScanSetting) (model.PortScanReport, error) {
	return run(ctx, r, setting, quicAttempt)
}

func quicAttempt(ctx context.Context, setting model.PortScanSetting, port uint16) (model.PortState, *uint64, string) {
	serverName := setting.Hostname
	if serverName == "" {
		serverName = setting.IP.String()
	}
	cfg := socket.QuicConfig{ALPN: socket.DefaultALPN, SkipVerify: true}

	started := time.Now()
	conn, err := socket.DialQUIC(ctx, cfg, setting.IP, int(port), serverName, time.Duration(setting.TimeoutMS)*time.Millisecond)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return model.PortFiltered, nil, err.Error()
		}
		return model.PortClosed, nil, err.Error()
	}
	rtt := uint64(time.Since(started).Milliseconds())
	_ = conn.CloseWithError(0, "scan")
	return model.PortOpen, &rtt, ""
}
