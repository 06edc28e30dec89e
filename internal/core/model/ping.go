package model

import "net"

// PingProtocol selects which probe engine a ping run uses.
type PingProtocol string

const (
	PingICMP PingProtocol = "icmp"
	PingTCP  PingProtocol = "tcp"
	PingUDP  PingProtocol = "udp"
	PingQUIC PingProtocol = "quic"
	PingHTTP PingProtocol = "http"
)

// PingSetting configures a ping run. HopLimit is TTL for IPv4 targets
// and hop-limit for IPv6 targets.
type PingSetting struct {
	IP          net.IP
	Hostname    string
	Port        uint16
	HopLimit    uint8
	Protocol    PingProtocol
	Count       uint32
	TimeoutMS   uint64
	SendRateMS  uint64
}

// PingSample is one probe attempt. RTTMs is set iff Status.IsDone().
type PingSample struct {
	Seq      uint32       `json:"seq"`
	IP       net.IP       `json:"ip"`
	Hostname string       `json:"hostname,omitempty"`
	Port     uint16       `json:"port,omitempty"`
	RTTMs    *uint64      `json:"rtt_ms,omitempty"`
	Status   ProbeStatus  `json:"status"`
	Protocol PingProtocol `json:"protocol"`
}

// PingStat summarizes a completed ping run.
type PingStat struct {
	IP        net.IP       `json:"ip"`
	Hostname  string       `json:"hostname,omitempty"`
	Port      uint16       `json:"port,omitempty"`
	Protocol  PingProtocol `json:"protocol"`
	Samples   []PingSample `json:"samples"`
	Transmitted int        `json:"transmitted"`
	Received  int          `json:"received"`
	MinMs     *uint64      `json:"min_ms,omitempty"`
	AvgMs     *uint64      `json:"avg_ms,omitempty"`
	MaxMs     *uint64      `json:"max_ms,omitempty"`
}

// NewPingStat computes transmitted/received/min/avg/max from samples,
// mirroring spec.md §3's invariants (received<=transmitted, min<=avg<=max
// when defined, all-None when received=0).
func NewPingStat(hostname string, ip net.IP, port uint16, protocol PingProtocol, samples []PingSample) PingStat {
	stat := PingStat{
		IP:          ip,
		Hostname:    hostname,
		Port:        port,
		Protocol:    protocol,
		Samples:     samples,
		Transmitted: len(samples),
	}

	var sum uint64
	var min, max uint64
	first := true
	for _, s := range samples {
		if !s.Status.IsDone() || s.RTTMs == nil {
			continue
		}
		stat.Received++
		sum += *s.RTTMs
		if first {
			min, max = *s.RTTMs, *s.RTTMs
			first = false
			continue
		}
		if *s.RTTMs < min {
			min = *s.RTTMs
		}
		if *s.RTTMs > max {
			max = *s.RTTMs
		}
	}
	if stat.Received > 0 {
		avg := sum / uint64(stat.Received)
		stat.MinMs, stat.AvgMs, stat.MaxMs = &min, &avg, &max
	}
	return stat
}

// LossRate is the fraction of samples that did not complete.
func (s PingStat) LossRate() float64 {
	if s.Transmitted == 0 {
		return 0
	}
	return 1 - float64(s.Received)/float64(s.Transmitted)
}
