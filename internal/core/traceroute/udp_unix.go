//go:build !windows

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

// defaultBaseTargetPort is the destination UDP port every traceroute
// probe is sent to; the port does not vary by hop or try.
const defaultBaseTargetPort = 33435

// RunUDP traceroutes by sending UDP datagrams with increasing TTL and
// watching a shared ICMP socket for Destination/Port Unreachable; the
// reply's source equaling the destination (approximated here, like the
// original, by accepting any Unreachable once we've reached the right
// family) ends the run.
func RunUDP(ctx context.Context, run *orchestrator.Run, setting model.TraceSetting) (model.TraceResult, error) {
	setting = setting.Sanitize()
	run.Start()
	run.Emit("traceroute:start", map[string]any{
		"run_id": run.ID, "ip": setting.IP.String(), "protocol": model.TraceUDP, "max_hops": setting.MaxHops,
	})

	isV6 := setting.IP.To4() == nil
	icmpKind := socket.IcmpV4
	if isV6 {
		icmpKind = socket.IcmpV6
	}
	icmpSock, err := socket.NewIcmpSocket(socket.IcmpConfig{Kind: icmpKind})
	if err != nil {
		return model.TraceResult{}, model.NewProbeError(model.ErrPermissionDenied, "open icmp socket", err)
	}
	defer icmpSock.Close()

	timeout := time.Duration(setting.TimeoutMS) * time.Millisecond
	var hops []model.TraceHop
	reached := false

	for ttl := uint8(1); ttl <= setting.MaxHops; ttl++ {
		udpCfg := socket.UdpConfig{}
		if isV6 {
			udpCfg.HopLimit = int(ttl)
		} else {
			udpCfg.TTL = int(ttl)
		}
		udpConn, err := socket.DialUDP(udpCfg, setting.IP, defaultBaseTargetPort)
		if err != nil {
			return model.TraceResult{}, model.NewProbeError(model.ErrPermissionDenied, "open udp socket", err)
		}

		hop := traceUDPHop(ctx, udpConn, icmpSock, isV6, setting, ttl, timeout)
		udpConn.Close()

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

	result := model.TraceResult{Reached: reached, Hops: hops, IP: setting.IP, Hostname: setting.Hostname, Protocol: model.TraceUDP}
	run.Emit("traceroute:done", result)
	run.Finish(ctx, nil)
	return result, nil
}

func traceUDPHop(ctx context.Context, udpConn interface {
	Write([]byte) (int, error)
}, icmpSock *socket.IcmpSocket, isV6 bool, setting model.TraceSetting, ttl uint8, timeout time.Duration) model.TraceHop {
	best := model.TraceHop{Hop: ttl}
	buf := make([]byte, 2048)
	payload := []byte("np:trace-udp")

	for t := uint8(0); t < setting.TriesPerHop; t++ {
		if ctx.Err() != nil {
			break
		}
		sentAt := time.Now()
		if _, err := udpConn.Write(payload); err != nil {
			best.Note = fmt.Sprintf("send error: %v", err)
			break
		}

		n, from, err := icmpSock.ReadFrom(buf, sentAt.Add(timeout))
		if err != nil {
			continue
		}
		rtt := uint64(time.Since(sentAt).Milliseconds())
		data := buf[:n]
		if icmpSock.SockType() == socket.IcmpRaw && !isV6 {
			data = socket.StripIPv4Header(data)
		}

		if best.RTTMs == nil || rtt < *best.RTTMs {
			best.RTTMs = &rtt
			best.IP = addrIP(from)
			best.Note = ""
		}

		var unreach bool
		if isV6 {
			unreach = packet.IsDestinationUnreachableV6(data)
		} else {
			unreach = packet.IsDestinationUnreachableV4(data)
		}
		if unreach {
			best.Reached = true
			return best
		}
	}

	if best.IP == nil && best.Note == "" {
		best.Note = "timeout"
	}
	return best
}
