package socket

import (
	"net"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// UdpConfig configures a UDP socket used for UDP reachability probing
// and UDP-mode traceroute.
type UdpConfig struct {
	TTL      int // IPv4 only
	HopLimit int // IPv6 only
	BindAddr string
}

// DialUDP opens a UDP socket bound to an ephemeral local port (or the
// configured BindAddr) and "connected" to remote:port so Write can be
// used directly; the probe engines never read application data back on
// this socket, they watch a separate ICMP socket for Port Unreachable.
func DialUDP(cfg UdpConfig, remote net.IP, port int) (*net.UDPConn, error) {
	var laddr *net.UDPAddr
	if cfg.BindAddr != "" {
		laddr = &net.UDPAddr{IP: net.ParseIP(cfg.BindAddr)}
	}
	raddr := &net.UDPAddr{IP: remote, Port: port}

	conn, err := net.DialUDP(udpNetwork(remote), laddr, raddr)
	if err != nil {
		return nil, err
	}
	if cfg.TTL > 0 && remote.To4() != nil {
		_ = ipv4.NewConn(conn).SetTTL(cfg.TTL)
	}
	if cfg.HopLimit > 0 && remote.To4() == nil {
		_ = ipv6.NewConn(conn).SetHopLimit(cfg.HopLimit)
	}
	return conn, nil
}

func udpNetwork(ip net.IP) string {
	if ip.To4() != nil {
		return "udp4"
	}
	return "udp6"
}
