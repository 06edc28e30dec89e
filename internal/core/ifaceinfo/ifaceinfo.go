// Package ifaceinfo enumerates the host's network interfaces and picks a
// default one. It is the concrete default implementation behind spec §6's
// "interface enumerator" and "default-interface selector" external
// collaborators. Only the CLI and the reporter use it; the ping,
// hostscan, portscan and traceroute engines do not depend on this
// package or on its Interface and Resolver types.
package ifaceinfo

import (
	"context"
	"fmt"
	"net"
	"strings"

	gopsnet "github.com/shirou/gopsutil/v3/net"
)

// Interface is one host network interface.
type Interface struct {
	Index      int
	Name       string
	MAC        string
	IPv4       []net.IP
	IPv6       []net.IP
	Gateway    net.IP
	DNSServers []net.IP
	MTU        int
}

// Resolver resolves host to its addresses. No code in this module takes
// a Resolver value; the probe engines do not use this type.
type Resolver func(ctx context.Context, host string) ([]net.IP, error)

// Interfaces lists every interface gopsutil reports, cross-platform,
// reusing its net.Interfaces() shim rather than hand-rolling netlink/
// sysctl/WMI enumeration a second time next to component G.
func Interfaces() ([]Interface, error) {
	stats, err := gopsnet.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("ifaceinfo: list interfaces: %w", err)
	}
	out := make([]Interface, 0, len(stats))
	for _, s := range stats {
		out = append(out, fromStat(s))
	}
	return out, nil
}

// Default picks the first non-loopback interface with at least one IP
// address bound; the interface's up/down state is not checked.
func Default() (Interface, error) {
	ifaces, err := Interfaces()
	if err != nil {
		return Interface{}, err
	}
	for _, ifc := range ifaces {
		if isLoopback(ifc) {
			continue
		}
		if len(ifc.IPv4) == 0 && len(ifc.IPv6) == 0 {
			continue
		}
		return ifc, nil
	}
	return Interface{}, fmt.Errorf("ifaceinfo: no usable non-loopback interface found")
}

func isLoopback(ifc Interface) bool {
	for _, ip := range ifc.IPv4 {
		if ip.IsLoopback() {
			return true
		}
	}
	for _, ip := range ifc.IPv6 {
		if ip.IsLoopback() {
			return true
		}
	}
	return strings.HasPrefix(strings.ToLower(ifc.Name), "lo")
}

func fromStat(s gopsnet.InterfaceStat) Interface {
	ifc := Interface{Index: s.Index, Name: s.Name, MAC: s.HardwareAddr, MTU: s.MTU}
	for _, a := range s.Addrs {
		ip := parseAddr(a.Addr)
		if ip == nil {
			continue
		}
		if ip.To4() != nil {
			ifc.IPv4 = append(ifc.IPv4, ip)
		} else {
			ifc.IPv6 = append(ifc.IPv6, ip)
		}
	}
	ifc.Gateway, ifc.DNSServers = defaultGatewayAndDNS(ifc.Name)
	return ifc
}

// parseAddr accepts both CIDR ("192.168.1.5/24") and bare-IP forms,
// since gopsutil's Addr.Addr field varies by platform.
func parseAddr(addr string) net.IP {
	if ip, _, err := net.ParseCIDR(addr); err == nil {
		return ip
	}
	return net.ParseIP(addr)
}
