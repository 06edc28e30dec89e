package portscan

import (
	"testing"

	"netpulse/internal/core/model"
)

func TestExpandPorts_Common(t *testing.T) {
	got := expandPorts(model.PortsCommon, nil)
	if len(got) != len(commonPorts) {
		t.Fatalf("len = %d, want %d", len(got), len(commonPorts))
	}
}

func TestExpandPorts_WellKnown(t *testing.T) {
	got := expandPorts(model.PortsWellKnown, nil)
	if len(got) != 1023 {
		t.Fatalf("len = %d, want 1023", len(got))
	}
	if got[0] != 1 || got[len(got)-1] != 1023 {
		t.Fatalf("range = [%d, %d], want [1, 1023]", got[0], got[len(got)-1])
	}
}

func TestExpandPorts_Full(t *testing.T) {
	got := expandPorts(model.PortsFull, nil)
	if len(got) != 65535 {
		t.Fatalf("len = %d, want 65535", len(got))
	}
}

func TestExpandPorts_Top1000_ContainsCommonAndIsDeduped(t *testing.T) {
	got := expandPorts(model.PortsTop1000, nil)
	if len(got) != 1000 {
		t.Fatalf("len = %d, want 1000", len(got))
	}

	seen := make(map[uint16]bool, len(got))
	for _, p := range got {
		if seen[p] {
			t.Fatalf("duplicate port %d in top1000", p)
		}
		seen[p] = true
	}
	for _, p := range commonPorts {
		if !seen[p] {
			t.Fatalf("top1000 missing common port %d", p)
		}
	}
}

func TestExpandPorts_Custom(t *testing.T) {
	want := []uint16{1111, 2222, 3333}
	got := expandPorts(model.PortsCustom, want)
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, p := range want {
		if got[i] != p {
			t.Fatalf("got[%d] = %d, want %d", i, got[i], p)
		}
	}

	// expandPorts must return a copy, not alias userPorts.
	got[0] = 9999
	if want[0] == 9999 {
		t.Fatalf("expandPorts aliased the caller's slice")
	}
}

func TestServiceName_KnownAndUnknown(t *testing.T) {
	if name := serviceName(80); name != "http" {
		t.Fatalf("serviceName(80) = %q, want http", name)
	}
	if name := serviceName(443); name != "https" {
		t.Fatalf("serviceName(443) = %q, want https", name)
	}
	if name := serviceName(54321); name != "" {
		t.Fatalf("serviceName(54321) = %q, want empty", name)
	}
}
