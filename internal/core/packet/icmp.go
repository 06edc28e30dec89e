// Package packet builds and parses the raw ICMP bytes exchanged by the
// probe engines. It wraps golang.org/x/net/icmp for ICMP message framing
// (which also computes the ICMPv4 checksum); the hand-rolled checksum
// here is used only by BuildUDPProbe.
package packet

import (
	"encoding/binary"
	"net"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// EchoReply holds the fields a probe engine needs to match a reply
// against its pending table.
type EchoReply struct {
	ID       int
	Seq      int
	Payload  []byte
}

// BuildEchoV4 builds an ICMPv4 Echo Request (type 8, code 0).
func BuildEchoV4(id, seq int, payload []byte) ([]byte, error) {
	msg := icmp.Message{
		Type: ipv4.ICMPTypeEcho,
		Code: 0,
		Body: &icmp.Echo{
			ID:   id,
			Seq:  seq,
			Data: payload,
		},
	}
	return msg.Marshal(nil)
}

// BuildEchoV6 builds an ICMPv6 Echo Request (type 128, code 0). With no
// IPv6 pseudo-header passed in, golang.org/x/net/icmp leaves the checksum
// field zero, so these bytes carry no valid checksum of their own; the
// kernel fills it in when they are sent on an ICMPv6 socket.
func BuildEchoV6(id, seq int, payload []byte) ([]byte, error) {
	msg := icmp.Message{
		Type: ipv6.ICMPTypeEchoRequest,
		Code: 0,
		Body: &icmp.Echo{
			ID:   id,
			Seq:  seq,
			Data: payload,
		},
	}
	return msg.Marshal(nil)
}

// ParseEchoReplyV4 extracts id/seq from an ICMPv4 Echo Reply. buf is the
// ICMP message (IPv4 header already stripped by the kernel on read, as
// with a SOCK_DGRAM icmp socket, or stripped by the caller otherwise).
// Returns false if buf is not an Echo Reply.
func ParseEchoReplyV4(buf []byte) (EchoReply, bool) {
	msg, err := icmp.ParseMessage(1 /* ProtocolICMP */, buf)
	if err != nil {
		return EchoReply{}, false
	}
	if msg.Type != ipv4.ICMPTypeEchoReply {
		return EchoReply{}, false
	}
	echo, ok := msg.Body.(*icmp.Echo)
	if !ok {
		return EchoReply{}, false
	}
	return EchoReply{ID: echo.ID, Seq: echo.Seq, Payload: echo.Data}, true
}

// ParseEchoReplyV6 extracts id/seq from an ICMPv6 Echo Reply.
func ParseEchoReplyV6(buf []byte) (EchoReply, bool) {
	msg, err := icmp.ParseMessage(58 /* ProtocolIPv6ICMP */, buf)
	if err != nil {
		return EchoReply{}, false
	}
	if msg.Type != ipv6.ICMPTypeEchoReply {
		return EchoReply{}, false
	}
	echo, ok := msg.Body.(*icmp.Echo)
	if !ok {
		return EchoReply{}, false
	}
	return EchoReply{ID: echo.ID, Seq: echo.Seq, Payload: echo.Data}, true
}

// IsDestinationUnreachableV4 reports whether buf is an ICMPv4
// Destination/Port Unreachable (type 3), used to infer UDP reachability.
func IsDestinationUnreachableV4(buf []byte) bool {
	msg, err := icmp.ParseMessage(1, buf)
	if err != nil {
		return false
	}
	return msg.Type == ipv4.ICMPTypeDestinationUnreachable
}

// IsDestinationUnreachableV6 reports whether buf is an ICMPv6
// Destination Unreachable (type 1).
func IsDestinationUnreachableV6(buf []byte) bool {
	msg, err := icmp.ParseMessage(58, buf)
	if err != nil {
		return false
	}
	return msg.Type == ipv6.ICMPTypeDestinationUnreachable
}

// IsTimeExceededV4 reports whether buf is an ICMPv4 Time Exceeded
// (type 11), the hop-limit-expired signal used by traceroute.
func IsTimeExceededV4(buf []byte) bool {
	msg, err := icmp.ParseMessage(1, buf)
	if err != nil {
		return false
	}
	return msg.Type == ipv4.ICMPTypeTimeExceeded
}

// IsTimeExceededV6 reports whether buf is an ICMPv6 Time Exceeded
// (type 3).
func IsTimeExceededV6(buf []byte) bool {
	msg, err := icmp.ParseMessage(58, buf)
	if err != nil {
		return false
	}
	return msg.Type == ipv6.ICMPTypeTimeExceeded
}

// checksum computes the 16-bit one's-complement Internet checksum, kept
// hand-rolled for the handful of call sites that build a bare UDP probe
// datagram themselves rather than going through x/net/icmp.
func checksum(data []byte) uint16 {
	var sum uint32
	n := len(data)
	i := 0
	for n > 1 {
		sum += uint32(binary.BigEndian.Uint16(data[i:]))
		i += 2
		n -= 2
	}
	if n > 0 {
		sum += uint32(data[i]) << 8
	}
	for sum>>16 > 0 {
		sum = (sum & 0xffff) + (sum >> 16)
	}
	return ^uint16(sum)
}

// BuildUDPProbe builds a bare UDP datagram with checksum, used for
// UDP-mode traceroute and UDP reachability probes sent over a raw IP
// socket where the kernel will not compute the UDP checksum for us.
func BuildUDPProbe(srcIP, dstIP net.IP, srcPort, dstPort int, payload []byte) []byte {
	length := 8 + len(payload)
	h := make([]byte, 8, length)
	binary.BigEndian.PutUint16(h[0:], uint16(srcPort))
	binary.BigEndian.PutUint16(h[2:], uint16(dstPort))
	binary.BigEndian.PutUint16(h[4:], uint16(length))

	ph := make([]byte, 12)
	src4, dst4 := srcIP.To4(), dstIP.To4()
	if src4 != nil && dst4 != nil {
		copy(ph[0:4], src4)
		copy(ph[4:8], dst4)
		ph[9] = 17
		binary.BigEndian.PutUint16(ph[10:], uint16(length))
	}

	buf := make([]byte, 0, len(ph)+length)
	buf = append(buf, ph...)
	buf = append(buf, h...)
	buf = append(buf, payload...)

	sum := checksum(buf)
	if sum == 0 {
		sum = 0xffff
	}
	binary.BigEndian.PutUint16(h[6:], sum)
	return append(h, payload...)
}
