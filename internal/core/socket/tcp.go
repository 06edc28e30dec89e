package socket

import (
	"context"
	"fmt"
	"net"
	"syscall"
	"time"
)

// TcpConfig configures an outbound TCP connect attempt.
type TcpConfig struct {
	NoDelay  bool
	TTL      int // IPv4 only, 0 leaves OS default
	HopLimit int // IPv6 only, 0 leaves OS default
	BindAddr string
}

// DialTCP performs a bounded, context-aware connect. TTL/HopLimit are
// applied via dialer.Control, on the raw socket before the SYN goes out,
// since setting them on the net.Conn after DialContext returns is too
// late to affect the handshake the caller is trying to hop-limit.
func DialTCP(ctx context.Context, cfg TcpConfig, remote net.IP, port uint16, timeout time.Duration) (net.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dialer := net.Dialer{}
	if cfg.BindAddr != "" {
		dialer.LocalAddr = &net.TCPAddr{IP: net.ParseIP(cfg.BindAddr)}
	}

	isV6 := remote.To4() == nil
	if (!isV6 && cfg.TTL > 0) || (isV6 && cfg.HopLimit > 0) {
		dialer.Control = func(network, address string, c syscall.RawConn) error {
			var sockErr error
			if err := c.Control(func(fd uintptr) {
				if !isV6 {
					sockErr = setIPv4TTL(fd, cfg.TTL)
				} else {
					sockErr = setIPv6HopLimit(fd, cfg.HopLimit)
				}
			}); err != nil {
				return err
			}
			return sockErr
		}
	}

	addr := net.JoinHostPort(remote.String(), fmt.Sprintf("%d", port))
	conn, err := dialer.DialContext(dialCtx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	if cfg.NoDelay {
		if tcpConn, ok := conn.(*net.TCPConn); ok {
			_ = tcpConn.SetNoDelay(true)
		}
	}
	return conn, nil
}
