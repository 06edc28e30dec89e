package socket

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/quic-go/quic-go"
)

// QuicConfig configures a diagnostic QUIC handshake attempt.
type QuicConfig struct {
	ALPN       []string
	SkipVerify bool
}

// DefaultALPN is the ALPN list spec.md §6 requires for every QUIC probe.
var DefaultALPN = []string{"h3", "hq-29", "hq-interop"}

// DialQUIC attempts a QUIC handshake against remote:port within timeout.
// serverName is used for SNI/certificate verification when SkipVerify is
// false; an empty serverName falls back to the dotted IP, which is only
// useful in SkipVerify mode since there is no valid certificate for a
// bare IP address.
func DialQUIC(ctx context.Context, cfg QuicConfig, remote net.IP, port int, serverName string, timeout time.Duration) (quic.Connection, error) {
	if serverName == "" {
		serverName = remote.String()
	}
	alpn := cfg.ALPN
	if len(alpn) == 0 {
		alpn = DefaultALPN
	}

	tlsConf := &tls.Config{
		ServerName:         serverName,
		NextProtos:         alpn,
		InsecureSkipVerify: cfg.SkipVerify,
	}

	dialCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	addr := fmt.Sprintf("%s:%d", remote.String(), port)
	conn, err := quic.DialAddr(dialCtx, addr, tlsConf, nil)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
