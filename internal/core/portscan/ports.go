package portscan

import "netpulse/internal/core/model"

// commonPorts mirrors nmap's "top ports" shortlist: the handful of
// services most scans care about first.
var commonPorts = []uint16{21, 22, 23, 25, 53, 80, 110, 139, 143, 443, 445, 993, 995, 3306, 3389, 5432, 6379, 8080, 8443, 27017}

// wellKnownPorts is the IANA well-known range, 1-1023.
func wellKnownPorts() []uint16 {
	ports := make([]uint16, 0, 1023)
	for p := 1; p <= 1023; p++ {
		ports = append(ports, uint16(p))
	}
	return ports
}

// fullPorts is the entire TCP/UDP port space, 1-65535.
func fullPorts() []uint16 {
	ports := make([]uint16, 0, 65535)
	for p := 1; p <= 65535; p++ {
		ports = append(ports, uint16(p))
	}
	return ports
}

// top1000Ports extends commonPorts with the next most commonly exposed
// services up to a thousand entries; ports already present are skipped.
func top1000Ports() []uint16 {
	seen := make(map[uint16]bool, len(commonPorts))
	ports := make([]uint16, 0, 1000)
	for _, p := range commonPorts {
		seen[p] = true
		ports = append(ports, p)
	}
	for p := uint16(1); len(ports) < 1000 && p < 65535; p++ {
		if !seen[p] {
			seen[p] = true
			ports = append(ports, p)
		}
	}
	return ports
}

// expandPorts resolves a preset (or explicit user list, for Custom) into
// the concrete port list a scan will walk.
func expandPorts(preset model.PortsPreset, userPorts []uint16) []uint16 {
	switch preset {
	case model.PortsWellKnown:
		return wellKnownPorts()
	case model.PortsFull:
		return fullPorts()
	case model.PortsTop1000:
		return top1000Ports()
	case model.PortsCustom:
		out := make([]uint16, len(userPorts))
		copy(out, userPorts)
		return out
	default:
		out := make([]uint16, len(commonPorts))
		copy(out, commonPorts)
		return out
	}
}
