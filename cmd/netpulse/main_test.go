package main

import (
	"net"
	"testing"
)

func TestResolveTarget_LiteralIP(t *testing.T) {
	ip, hostname, err := resolveTarget("127.0.0.1")
	if err != nil {
		t.Fatalf("resolveTarget: %v", err)
	}
	if !ip.Equal(net.ParseIP("127.0.0.1")) {
		t.Fatalf("ip = %v, want 127.0.0.1", ip)
	}
	if hostname != "" {
		t.Fatalf("hostname = %q, want empty for a literal IP", hostname)
	}
}

func TestResolveTarget_Hostname(t *testing.T) {
	ip, hostname, err := resolveTarget("localhost")
	if err != nil {
		t.Fatalf("resolveTarget: %v", err)
	}
	if ip == nil {
		t.Fatalf("expected a resolved IP for localhost")
	}
	if hostname != "localhost" {
		t.Fatalf("hostname = %q, want localhost", hostname)
	}
}

func TestResolveTarget_UnresolvableHostErrors(t *testing.T) {
	if _, _, err := resolveTarget("this-host-should-not-resolve.invalid"); err == nil {
		t.Fatalf("expected an error for an unresolvable hostname")
	}
}

func TestParsePorts_CommaSeparated(t *testing.T) {
	ports, err := parsePorts("80, 443,8080")
	if err != nil {
		t.Fatalf("parsePorts: %v", err)
	}
	want := []uint16{80, 443, 8080}
	if len(ports) != len(want) {
		t.Fatalf("ports = %v, want %v", ports, want)
	}
	for i := range want {
		if ports[i] != want[i] {
			t.Fatalf("ports = %v, want %v", ports, want)
		}
	}
}

func TestParsePorts_EmptyIsError(t *testing.T) {
	if _, err := parsePorts(""); err == nil {
		t.Fatalf("expected an error for an empty port list")
	}
}

func TestParsePorts_RejectsInvalidPort(t *testing.T) {
	if _, err := parsePorts("80,not-a-port"); err == nil {
		t.Fatalf("expected an error for a non-numeric port")
	}
}

func TestExpandTargets_CIDR(t *testing.T) {
	targets, err := expandTargets("192.168.1.0/30")
	if err != nil {
		t.Fatalf("expandTargets: %v", err)
	}
	// /30 has 4 addresses; network and broadcast are dropped, leaving 2 hosts.
	if len(targets) != 2 {
		t.Fatalf("targets = %v, want 2 host addresses", targets)
	}
}

func TestExpandTargets_CommaSeparatedIPs(t *testing.T) {
	targets, err := expandTargets("10.0.0.1, 10.0.0.2")
	if err != nil {
		t.Fatalf("expandTargets: %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("targets = %v, want 2", targets)
	}
}

func TestExpandTargets_InvalidIPErrors(t *testing.T) {
	if _, err := expandTargets("not-an-ip"); err == nil {
		t.Fatalf("expected an error for an invalid target")
	}
}

func TestIncIP_CarriesOverOctets(t *testing.T) {
	ip := net.ParseIP("192.168.1.255").To4()
	incIP(ip)
	if ip.String() != "192.168.2.0" {
		t.Fatalf("ip = %v, want 192.168.2.0", ip)
	}
}
