//go:build windows

package neighbor

import (
	"net"
	"testing"

	"netpulse/internal/core/model"
)

func TestNdmStateToModelWindows(t *testing.T) {
	cases := []struct {
		state int32
		want  model.NeighborState
	}{
		{nlnsPermanent, model.NeighborPermanent},
		{nlnsReachable, model.NeighborReachable},
		{nlnsStale, model.NeighborStale},
		{nlnsDelay, model.NeighborDelay},
		{nlnsProbe, model.NeighborProbe},
		{nlnsIncomplete, model.NeighborIncomplete},
	}
	for _, c := range cases {
		if got := ndmStateToModelWindows(c.state); got != c.want {
			t.Errorf("ndmStateToModelWindows(%d) = %v, want %v", c.state, got, c.want)
		}
	}
}

func TestIsInterestingState(t *testing.T) {
	for _, s := range []int32{nlnsPermanent, nlnsReachable, nlnsStale, nlnsDelay, nlnsProbe} {
		if !isInterestingState(s) {
			t.Errorf("isInterestingState(%d) = false, want true", s)
		}
	}
	if isInterestingState(nlnsIncomplete) {
		t.Fatalf("isInterestingState(incomplete) = true, want false")
	}
}

func TestSockaddrInetToIP_V4(t *testing.T) {
	var addr [28]byte
	addr[0] = afINET
	copy(addr[4:8], []byte{172, 16, 0, 1})

	ip := sockaddrInetToIP(addr)
	if !ip.Equal(net.IPv4(172, 16, 0, 1)) {
		t.Fatalf("ip = %v, want 172.16.0.1", ip)
	}
}

func TestSockaddrInetToIP_V6(t *testing.T) {
	var addr [28]byte
	addr[0] = afINET6
	want := net.ParseIP("fe80::1")
	copy(addr[8:24], want.To16())

	ip := sockaddrInetToIP(addr)
	if !ip.Equal(want) {
		t.Fatalf("ip = %v, want %v", ip, want)
	}
}

func TestSockaddrInetToIP_UnknownFamily(t *testing.T) {
	var addr [28]byte
	addr[0] = 99
	if ip := sockaddrInetToIP(addr); ip != nil {
		t.Fatalf("expected nil for an unknown family, got %v", ip)
	}
}
