package model

import "net"

// TraceProtocol selects the probe used per hop.
type TraceProtocol string

const (
	TraceICMP TraceProtocol = "icmp"
	TraceUDP  TraceProtocol = "udp"
)

// TraceSetting configures a traceroute run. Zero MaxHops/TriesPerHop
// are sanitized to 30/1 respectively (spec.md §4.6).
type TraceSetting struct {
	IP           net.IP
	Hostname     string
	MaxHops      uint8
	TriesPerHop  uint8
	TimeoutMS    uint64
	Protocol     TraceProtocol
}

// Sanitize applies the spec's default substitution for zero fields.
func (s TraceSetting) Sanitize() TraceSetting {
	if s.MaxHops == 0 {
		s.MaxHops = 30
	}
	if s.TriesPerHop == 0 {
		s.TriesPerHop = 1
	}
	return s
}

// TraceHop is one row of a traceroute result.
type TraceHop struct {
	Hop     uint8   `json:"hop"`
	IP      net.IP  `json:"ip,omitempty"`
	RTTMs   *uint64 `json:"rtt_ms,omitempty"`
	Reached bool    `json:"reached"`
	Note    string  `json:"note,omitempty"`
}

// TimeoutHop builds the hop record used when no reply arrived within
// tries_per_hop attempts.
func TimeoutHop(hop uint8) TraceHop {
	return TraceHop{Hop: hop, Note: "timeout"}
}

// TraceResult is the done-event payload (component F has no dedicated
// struct in the Rust original, which builds an ad-hoc JSON object; a
// typed struct is the idiomatic Go equivalent).
type TraceResult struct {
	Reached  bool          `json:"reached"`
	Hops     []TraceHop    `json:"hops"`
	IP       net.IP        `json:"ip"`
	Hostname string        `json:"hostname,omitempty"`
	Protocol TraceProtocol `json:"protocol"`
}
