package socket

import (
	"net"
	"testing"
)

func TestUdpNetwork(t *testing.T) {
	if got := udpNetwork(net.ParseIP("1.2.3.4")); got != "udp4" {
		t.Fatalf("got %q, want udp4", got)
	}
	if got := udpNetwork(net.ParseIP("::1")); got != "udp6" {
		t.Fatalf("got %q, want udp6", got)
	}
}

func TestDialUDP_Loopback(t *testing.T) {
	conn, err := DialUDP(UdpConfig{}, net.ParseIP("127.0.0.1"), 33434)
	if err != nil {
		t.Fatalf("DialUDP: %v", err)
	}
	defer conn.Close()

	if conn.RemoteAddr() == nil {
		t.Fatalf("expected a connected UDP socket with a remote address")
	}
}
