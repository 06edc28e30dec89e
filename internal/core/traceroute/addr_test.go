package traceroute

import (
	"net"
	"testing"
)

func TestAddrIP_UDPAddr(t *testing.T) {
	ip := net.ParseIP("10.0.0.1")
	got := addrIP(&net.UDPAddr{IP: ip, Port: 33434})
	if !got.Equal(ip) {
		t.Fatalf("got %v, want %v", got, ip)
	}
}

func TestAddrIP_IPAddr(t *testing.T) {
	ip := net.ParseIP("2001:db8::1")
	got := addrIP(&net.IPAddr{IP: ip})
	if !got.Equal(ip) {
		t.Fatalf("got %v, want %v", got, ip)
	}
}

func TestAddrIP_UnsupportedType(t *testing.T) {
	if got := addrIP(&net.TCPAddr{IP: net.ParseIP("127.0.0.1")}); got != nil {
		t.Fatalf("got %v, want nil for an unsupported net.Addr", got)
	}
}
