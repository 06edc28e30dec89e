package model

import "net"

// NeighborState mirrors the kernel neighbor-table entry states; only
// states other than Incomplete are ever exposed (spec.md §4.7).
type NeighborState string

const (
	NeighborPermanent  NeighborState = "permanent"
	NeighborReachable  NeighborState = "reachable"
	NeighborStale      NeighborState = "stale"
	NeighborDelay      NeighborState = "delay"
	NeighborProbe      NeighborState = "probe"
	NeighborIncomplete NeighborState = "incomplete"
)

// NeighborEntry is one row of the OS neighbor (ARP/NDP) table.
type NeighborEntry struct {
	IP    net.IP           `json:"ip"`
	MAC   net.HardwareAddr `json:"mac"`
	State NeighborState    `json:"state"`
}

// NeighborTable maps an IP to its neighbor-table entry. Built by the
// three platform decoders behind one interface (internal/core/neighbor).
type NeighborTable map[string]NeighborEntry
