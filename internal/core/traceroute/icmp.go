// Package traceroute implements ICMP Echo and UDP-based traceroute, one
// fresh socket per TTL so the hop limit never has to be mutated on a
// live socket, grounded on probe/trace/{icmp,udp}.rs.
package traceroute

import (
	"context"
	"fmt"
	"time"

	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
	"netpulse/internal/core/packet"
	"netpulse/internal/core/socket"
)

const icmpEchoID = 0x1234

// RunICMP increases TTL/HopLimit from 1 to setting.MaxHops, sending an
// Echo Request at each hop and keeping the lowest-RTT reply as that
// hop's representative; an Echo Reply from the destination ends the run.
func RunICMP(ctx context.Context, run *orchestrator.Run, setting model.TraceSetting) (model.TraceResult, error) {
	setting = setting.Sanitize()
	run.Start()
	run.Emit("traceroute:start", map[string]any{
		"run_id": run.ID, "ip": setting.IP.String(), "protocol": model.TraceICMP, "max_hops": setting.MaxHops,
	})

	isV6 := setting.IP.To4() == nil
	icmpKind := socket.IcmpV4
	if isV6 {
		icmpKind = socket.IcmpV6
	}
	payload := []byte("np:trace-icmp")
	timeout := time.Duration(setting.TimeoutMS) * time.Millisecond

	var hops []model.TraceHop
	reached := false

	for ttl := uint8(1); ttl <= setting.MaxHops; ttl++ {
		cfg := socket.IcmpConfig{Kind: icmpKind}
		if isV6 {
			cfg.HopLimit = int(ttl)
		} else {
			cfg.TTL = int(ttl)
		}
		sock, err := socket.NewIcmpSocket(cfg)
		if err != nil {
			return model.TraceResult{}, model.NewProbeError(model.ErrPermissionDenied, "open icmp socket", err)
		}

		hop := traceICMPHop(ctx, sock, icmpKind, setting, ttl, payload, timeout)
		sock.Close()

		run.Emit("traceroute:progress", hop)
		hops = append(hops, hop)
		if hop.Reached {
			reached = true
			break
		}
		if ctx.Err() != nil {
			break
		}
	}

	result := model.TraceResult{Reached: reached, Hops: hops, IP: setting.IP, Hostname: setting.Hostname, Protocol: model.TraceICMP}
	run.Emit("traceroute:done", result)
	run.Finish(ctx, nil)
	return result, nil
}

func traceICMPHop(ctx context.Context, sock *socket.IcmpSocket, kind socket.IcmpKind, setting model.TraceSetting, ttl uint8, payload []byte, timeout time.Duration) model.TraceHop {
	best := model.TraceHop{Hop: ttl}
	buf := make([]byte, 2048)

	for t := uint8(0); t < setting.TriesPerHop; t++ {
		if ctx.Err() != nil {
			break
		}
		seq := (int(ttl) << 8) | int(t)
		var pkt []byte
		var err error
		if kind == socket.IcmpV4 {
			pkt, err = packet.BuildEchoV4(icmpEchoID, seq, payload)
		} else {
			pkt, err = packet.BuildEchoV6(icmpEchoID, seq, payload)
		}
		if err != nil {
			best.Note = fmt.Sprintf("build packet: %v", err)
			break
		}

		sentAt := time.Now()
		if _, err := sock.WriteTo(pkt, sock.Addr(setting.IP)); err != nil {
			best.Note = fmt.Sprintf("send error: %v", err)
			break
		}

		n, from, err := sock.ReadFrom(buf, sentAt.Add(timeout))
		if err != nil {
			continue
		}
		rtt := uint64(time.Since(sentAt).Milliseconds())
		data := buf[:n]
		if sock.SockType() == socket.IcmpRaw && kind == socket.IcmpV4 {
			data = socket.StripIPv4Header(data)
		}

		if best.RTTMs == nil || rtt < *best.RTTMs {
			best.RTTMs = &rtt
			best.IP = addrIP(from)
			best.Note = ""
		}

		var isReply bool
		if kind == socket.IcmpV4 {
			if reply, ok := packet.ParseEchoReplyV4(data); ok {
				isReply = reply.ID == icmpEchoID
			}
		} else {
			if reply, ok := packet.ParseEchoReplyV6(data); ok {
				isReply = reply.ID == icmpEchoID
			}
		}
		if isReply {
			best.Reached = true
			return best
		}
	}

	if best.IP == nil && best.Note == "" {
		best.Note = "timeout"
	}
	return best
}
