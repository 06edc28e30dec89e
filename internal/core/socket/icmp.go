// Package socket constructs the raw/dgram sockets the probe engines send
// and receive on. It mirrors the teacher's DGRAM-preferred, RAW-fallback
// construction strategy, expressed with golang.org/x/net/icmp instead of
// a hand-rolled socket2 equivalent: Go's "udp4"/"udp6" ICMP network names
// already get us the unprivileged DGRAM socket Linux exposes via
// net.ipv4.ping_group_range, and "ip4:icmp"/"ip6:ipv6-icmp" is the RAW
// fallback every other platform (or an unprivileged-disabled Linux) needs.
package socket

import (
	"fmt"
	"net"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
)

// IcmpKind is the IP version an ICMP socket speaks.
type IcmpKind int

const (
	IcmpV4 IcmpKind = iota
	IcmpV6
)

// IcmpSockType reports whether the opened socket ended up DGRAM or RAW.
type IcmpSockType int

const (
	IcmpDgram IcmpSockType = iota
	IcmpRaw
)

func (t IcmpSockType) String() string {
	if t == IcmpDgram {
		return "dgram"
	}
	return "raw"
}

// IcmpConfig configures an ICMP socket. Zero value is valid: no bind
// address, no TTL/HopLimit override, no deadlines.
type IcmpConfig struct {
	Kind        IcmpKind
	BindAddr    string // empty binds to the wildcard address
	TTL         int    // 0 means "leave at OS default"
	HopLimit    int    // 0 means "leave at OS default", IPv6 only
	// Interface names the outbound interface to bind to (SO_BINDTODEVICE
	// on Linux, SO_SETFIB-style scoping elsewhere). Not yet wired: see
	// applyOptions.
	Interface string
}

// IcmpSocket wraps an *icmp.PacketConn plus the bookkeeping the probe
// engines need: which IP version it speaks and whether it landed on a
// DGRAM or RAW socket, since RAW sockets see the IPv4 header prepended
// to every read on most platforms and DGRAM ones do not.
type IcmpSocket struct {
	conn     *icmp.PacketConn
	kind     IcmpKind
	sockType IcmpSockType
}

// NewIcmpSocket opens an ICMP listen socket, trying the unprivileged
// DGRAM network first and falling back to RAW when the kernel refuses
// it (EPERM/EACCES without CAP_NET_RAW, or a platform that has no DGRAM
// ICMP at all).
func NewIcmpSocket(cfg IcmpConfig) (*IcmpSocket, error) {
	dgramNet, rawNet := dgramAndRawNetworks(cfg.Kind)
	bind := cfg.BindAddr
	if bind == "" {
		bind = wildcardAddr(cfg.Kind)
	}

	conn, sockType, err := listen(dgramNet, rawNet, bind)
	if err != nil {
		return nil, fmt.Errorf("socket: open icmp socket: %w", err)
	}

	s := &IcmpSocket{conn: conn, kind: cfg.Kind, sockType: sockType}
	if err := s.applyOptions(cfg); err != nil {
		conn.Close()
		return nil, err
	}
	return s, nil
}

func listen(dgramNet, rawNet, bind string) (*icmp.PacketConn, IcmpSockType, error) {
	conn, err := icmp.ListenPacket(dgramNet, bind)
	if err == nil {
		return conn, IcmpDgram, nil
	}
	conn, err2 := icmp.ListenPacket(rawNet, bind)
	if err2 != nil {
		return nil, 0, fmt.Errorf("dgram: %w; raw: %v", err, err2)
	}
	return conn, IcmpRaw, nil
}

func dgramAndRawNetworks(kind IcmpKind) (dgram, raw string) {
	if kind == IcmpV6 {
		return "udp6", "ip6:ipv6-icmp"
	}
	return "udp4", "ip4:icmp"
}

func wildcardAddr(kind IcmpKind) string {
	if kind == IcmpV6 {
		return "::"
	}
	return "0.0.0.0"
}

// applyOptions does not honor cfg.Interface: golang.org/x/net/icmp.PacketConn
// wraps an unexported net.PacketConn with no SyscallConn()/File() escape
// hatch on the ipv4.PacketConn/ipv6.PacketConn helper types it hands back,
// so there is no safe way to reach the fd for SO_BINDTODEVICE/SO_SETFIB
// without a raw net.ListenPacket + syscall.RawConn rewrite of NewIcmpSocket.
// cfg.Interface is accepted so callers can already plumb it through, but it
// is a no-op until that rewrite happens.
func (s *IcmpSocket) applyOptions(cfg IcmpConfig) error {
	if cfg.TTL > 0 && s.kind == IcmpV4 {
		if p := s.conn.IPv4PacketConn(); p != nil {
			if err := p.SetTTL(cfg.TTL); err != nil {
				return fmt.Errorf("socket: set ttl: %w", err)
			}
		}
	}
	if cfg.HopLimit > 0 && s.kind == IcmpV6 {
		if p := s.conn.IPv6PacketConn(); p != nil {
			if err := p.SetHopLimit(cfg.HopLimit); err != nil {
				return fmt.Errorf("socket: set hop limit: %w", err)
			}
		}
	}
	return nil
}

// SetTTL overrides the outgoing TTL on an already-open IPv4 socket.
// Traceroute does not call it: it sets the TTL through IcmpConfig when it
// opens a fresh socket for each hop.
func (s *IcmpSocket) SetTTL(ttl int) error {
	if s.kind != IcmpV4 {
		return fmt.Errorf("socket: SetTTL is IPv4-only")
	}
	p := s.conn.IPv4PacketConn()
	if p == nil {
		return fmt.Errorf("socket: no IPv4 packet conn")
	}
	return p.SetTTL(ttl)
}

// SetHopLimit overrides the outgoing hop limit on an already-open IPv6
// socket.
func (s *IcmpSocket) SetHopLimit(hops int) error {
	if s.kind != IcmpV6 {
		return fmt.Errorf("socket: SetHopLimit is IPv6-only")
	}
	p := s.conn.IPv6PacketConn()
	if p == nil {
		return fmt.Errorf("socket: no IPv6 packet conn")
	}
	return p.SetHopLimit(hops)
}

// WriteTo sends buf to dst.
func (s *IcmpSocket) WriteTo(buf []byte, dst net.Addr) (int, error) {
	return s.conn.WriteTo(buf, dst)
}

// ReadFrom reads one packet with the given deadline. On a RAW IPv4
// socket the kernel hands back the IPv4 header glued to the front of
// the ICMP payload; callers that need just the ICMP bytes should strip
// it with StripIPv4Header when SockType() reports IcmpRaw.
func (s *IcmpSocket) ReadFrom(buf []byte, deadline time.Time) (int, net.Addr, error) {
	if !deadline.IsZero() {
		if err := s.conn.SetReadDeadline(deadline); err != nil {
			return 0, nil, err
		}
	}
	return s.conn.ReadFrom(buf)
}

// Addr builds the net.Addr shape this socket's underlying connection
// expects: *net.UDPAddr for a DGRAM socket, *net.IPAddr for a RAW one.
// icmp.PacketConn.WriteTo type-switches on this, so getting it wrong
// silently fails the write.
func (s *IcmpSocket) Addr(ip net.IP) net.Addr {
	if s.sockType == IcmpDgram {
		return &net.UDPAddr{IP: ip}
	}
	return &net.IPAddr{IP: ip}
}

// SockType reports whether the socket is DGRAM or RAW.
func (s *IcmpSocket) SockType() IcmpSockType { return s.sockType }

// Kind reports the IP version the socket speaks.
func (s *IcmpSocket) Kind() IcmpKind { return s.kind }

// Close releases the socket.
func (s *IcmpSocket) Close() error { return s.conn.Close() }

// StripIPv4Header removes the leading IPv4 header from a RAW-socket read
// so the remainder can be handed to packet.ParseEchoReplyV4 untouched.
func StripIPv4Header(buf []byte) []byte {
	if len(buf) < ipv4.HeaderLen {
		return buf
	}
	hdrLen := int(buf[0]&0x0f) * 4
	if hdrLen < ipv4.HeaderLen || hdrLen > len(buf) {
		return buf
	}
	return buf[hdrLen:]
}
