// Package icmp implements the ICMP Echo ping engine.
package icmp

import (
	"context"
	"fmt"
	"time"

	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
	"netpulse/internal/core/packet"
	"netpulse/internal/core/ping"
	"netpulse/internal/core/socket"
)

const echoID = 0x1234

// Run pings setting.IP over ICMP Echo. echo_id is fixed at 0x1234 per
// spec.md §4.3; id/seq of the reply are not verified against the probe,
// matching the Rust original's behavior (see the id/seq verification
// decision in SPEC_FULL.md §9 about spurious-match risk under concurrent
// probes).
func Run(ctx context.Context, run *orchestrator.Run, setting model.PingSetting) (model.PingStat, error) {
	isV6 := setting.IP.To4() == nil
	kind := socket.IcmpV4
	if isV6 {
		kind = socket.IcmpV6
	}

	cfg := socket.IcmpConfig{Kind: kind}
	if isV6 {
		cfg.HopLimit = int(setting.HopLimit)
	} else {
		cfg.TTL = int(setting.HopLimit)
	}
	sock, err := socket.NewIcmpSocket(cfg)
	if err != nil {
		return model.PingStat{}, model.NewProbeError(model.ErrPermissionDenied, "open icmp socket", err)
	}
	defer sock.Close()

	probe := func(ctx context.Context, seq uint32) model.PingSample {
		return probeOnce(ctx, sock, isV6, setting, seq)
	}
	return ping.Run(ctx, run, setting, probe)
}

func probeOnce(ctx context.Context, sock *socket.IcmpSocket, isV6 bool, setting model.PingSetting, seq uint32) model.PingSample {
	sample := model.PingSample{
		Seq: seq, IP: setting.IP, Hostname: setting.Hostname, Protocol: model.PingICMP,
	}

	id := echoID
	var pkt []byte
	var err error
	if isV6 {
		pkt, err = packet.BuildEchoV6(id, int(seq), []byte("np:ping"))
	} else {
		pkt, err = packet.BuildEchoV4(id, int(seq), []byte("np:ping"))
	}
	if err != nil {
		sample.Status = model.ErrStatus(fmt.Sprintf("build packet: %v", err))
		return sample
	}

	started := time.Now()
	if _, err := sock.WriteTo(pkt, sock.Addr(setting.IP)); err != nil {
		sample.Status = model.ErrStatus(fmt.Sprintf("send error: %v", err))
		return sample
	}

	// A single recv, whatever arrives first: the id/seq (and, per
	// spec.md §9 open question 1, the source address) of the reply are
	// not verified against the probe. This mirrors the Rust original
	// and is a documented, not accidental, spurious-match risk under
	// concurrent probes against the same socket.
	deadline := started.Add(time.Duration(setting.TimeoutMS) * time.Millisecond)
	buf := make([]byte, 2048)
	n, _, err := sock.ReadFrom(buf, deadline)
	if err != nil {
		sample.Status = model.TimeoutStatus(fmt.Sprintf("timeout (>%dms)", setting.TimeoutMS))
		return sample
	}
	data := buf[:n]
	if sock.SockType() == socket.IcmpRaw && !isV6 {
		data = socket.StripIPv4Header(data)
	}

	var isReply bool
	if isV6 {
		_, isReply = packet.ParseEchoReplyV6(data)
	} else {
		_, isReply = packet.ParseEchoReplyV4(data)
	}
	if !isReply {
		sample.Status = model.ErrStatus("unexpected reply")
		return sample
	}

	rtt := uint64(time.Since(started).Milliseconds())
	sample.RTTMs = &rtt
	sample.Status = model.Done()
	return sample
}
