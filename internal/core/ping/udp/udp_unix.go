//go:build !windows

// Package udp implements UDP reachability ping via ICMP Destination/Port
// Unreachable, grounded on probe/ping/udp.rs. Unix only; see udp_windows.go.
package udp

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

// DefaultPort is the fixed high UDP port probes are sent to, per
// spec.md §6; the target almost certainly has nothing listening there,
// which is what provokes the ICMP Unreachable we watch for.
const DefaultPort = 33435

// Run sends a UDP datagram to DefaultPort and waits for an ICMP
// Destination/Port Unreachable on a companion ICMP socket of the same
// family; receiving one means the target is reachable at the IP layer.
func Run(ctx context.Context, run *orchestrator.Run, setting model.PingSetting) (model.PingStat, error) {
	isV6 := setting.IP.To4() == nil

	udpCfg := socket.UdpConfig{}
	if isV6 {
		udpCfg.HopLimit = int(setting.HopLimit)
	} else {
		udpCfg.TTL = int(setting.HopLimit)
	}
	udpConn, err := socket.DialUDP(udpCfg, setting.IP, DefaultPort)
	if err != nil {
		return model.PingStat{}, model.NewProbeError(model.ErrPermissionDenied, "open udp socket", err)
	}
	defer udpConn.Close()

	icmpKind := socket.IcmpV4
	if isV6 {
		icmpKind = socket.IcmpV6
	}
	icmpSock, err := socket.NewIcmpSocket(socket.IcmpConfig{Kind: icmpKind})
	if err != nil {
		return model.PingStat{}, model.NewProbeError(model.ErrPermissionDenied, "open icmp socket", err)
	}
	defer icmpSock.Close()

	probe := func(ctx context.Context, seq uint32) model.PingSample {
		return probeOnce(ctx, udpConn, icmpSock, isV6, setting, seq)
	}
	return ping.Run(ctx, run, setting, probe)
}

func probeOnce(ctx context.Context, udpConn interface {
	Write([]byte) (int, error)
}, icmpSock *socket.IcmpSocket, isV6 bool, setting model.PingSetting, seq uint32) model.PingSample {
	sample := model.PingSample{
		Seq: seq, IP: setting.IP, Hostname: setting.Hostname, Port: DefaultPort, Protocol: model.PingUDP,
	}

	started := time.Now()
	if _, err := udpConn.Write([]byte("np:udp-probe")); err != nil {
		sample.Status = model.ErrStatus(fmt.Sprintf("send error: %v", err))
		return sample
	}

	deadline := started.Add(time.Duration(setting.TimeoutMS) * time.Millisecond)
	buf := make([]byte, 2048)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			sample.Status = model.TimeoutStatus(fmt.Sprintf("timeout (>%dms)", setting.TimeoutMS))
			return sample
		}
		n, _, err := icmpSock.ReadFrom(buf, deadline)
		if err != nil {
			sample.Status = model.TimeoutStatus(fmt.Sprintf("timeout (>%dms)", setting.TimeoutMS))
			return sample
		}
		data := buf[:n]
		if icmpSock.SockType() == socket.IcmpRaw && !isV6 {
			data = socket.StripIPv4Header(data)
		}

		var unreach bool
		if isV6 {
			unreach = packet.IsDestinationUnreachableV6(data)
		} else {
			unreach = packet.IsDestinationUnreachableV4(data)
		}
		if !unreach {
			continue
		}

		rtt := uint64(time.Since(started).Milliseconds())
		sample.RTTMs = &rtt
		sample.Status = model.Done()
		return sample
	}
}
