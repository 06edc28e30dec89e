// Package hostscan fans ICMP Echo probes out across a target list using
// one shared receive socket per address family, demultiplexing replies
// through a per-run pending table keyed by destination IP.
package hostscan

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
	"netpulse/internal/core/packet"
	"netpulse/internal/core/qos"
	"netpulse/internal/core/socket"
)

// DefaultConcurrency is the bounded fan-out width over targets.
const DefaultConcurrency = 256

// concurrencyGate is the fan-out width control hostscan acquires/releases
// a slot from per target; fixedGate wraps a semaphore.Weighted for the
// common case, adaptiveGate wraps qos.AdaptiveLimiter when the caller
// opts into AIMD-based backoff under real congestion.
type concurrencyGate interface {
	Acquire(ctx context.Context) error
	Release()
	Report(alive bool)
}

type fixedGate struct{ sem *semaphore.Weighted }

func (g fixedGate) Acquire(ctx context.Context) error { return g.sem.Acquire(ctx, 1) }
func (g fixedGate) Release()                          { g.sem.Release(1) }
func (g fixedGate) Report(bool)                       {}

type adaptiveGate struct{ limiter *qos.AdaptiveLimiter }

func (g adaptiveGate) Acquire(ctx context.Context) error { return g.limiter.Acquire(ctx) }
func (g adaptiveGate) Release()                          { g.limiter.Release() }
func (g adaptiveGate) Report(alive bool) {
	if alive {
		g.limiter.OnSuccess()
	} else {
		g.limiter.OnFailure()
	}
}

func newConcurrencyGate(adaptive bool, concurrency int) concurrencyGate {
	if adaptive {
		min := concurrency / 8
		if min < 8 {
			min = 8
		}
		return adaptiveGate{limiter: qos.NewAdaptiveLimiter(concurrency, min, concurrency)}
	}
	return fixedGate{sem: semaphore.NewWeighted(int64(concurrency))}
}

type pendingEntry struct {
	sentAt time.Time
	reply  chan uint64
}

type pendingTable struct {
	mu      sync.Mutex
	entries map[string]*pendingEntry
}

func newPendingTable() *pendingTable {
	return &pendingTable{entries: make(map[string]*pendingEntry)}
}

func (t *pendingTable) insert(ip net.IP) *pendingEntry {
	e := &pendingEntry{sentAt: time.Now(), reply: make(chan uint64, 1)}
	t.mu.Lock()
	t.entries[ip.String()] = e
	t.mu.Unlock()
	return e
}

func (t *pendingTable) remove(ip net.IP) {
	t.mu.Lock()
	delete(t.entries, ip.String())
	t.mu.Unlock()
}

// fulfill looks up ip and, if pending, sends the elapsed RTT and removes
// the entry. Unknown sources are dropped silently.
func (t *pendingTable) fulfill(ip net.IP) {
	t.mu.Lock()
	e, ok := t.entries[ip.String()]
	if ok {
		delete(t.entries, ip.String())
	}
	t.mu.Unlock()
	if !ok {
		return
	}
	select {
	case e.reply <- uint64(time.Since(e.sentAt).Milliseconds()):
	default:
	}
}

// Run performs a host scan, emitting hostscan:start/progress/done on run.
func Run(ctx context.Context, run *orchestrator.Run, setting model.HostScanSetting) (model.HostScanReport, error) {
	run.Start()
	run.Emit("hostscan:start", map[string]any{"run_id": run.ID, "setting": setting})

	total := uint32(len(setting.Targets))
	if total == 0 {
		report := model.HostScanReport{RunID: run.ID, Total: 0}
		run.Emit("hostscan:done", report)
		run.Finish(ctx, nil)
		return report, nil
	}

	count := setting.Count
	if count == 0 {
		count = 1
	}
	timeout := time.Duration(setting.TimeoutMS) * time.Millisecond
	payload := setting.Payload
	if payload == "" {
		payload = "np:hs"
	}
	concurrency := setting.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	targets := make([]net.IP, len(setting.Targets))
	copy(targets, setting.Targets)
	if !setting.Ordered {
		rand.Shuffle(len(targets), func(i, j int) { targets[i], targets[j] = targets[j], targets[i] })
	}

	hasV4, hasV6 := false, false
	for _, ip := range targets {
		if ip.To4() != nil {
			hasV4 = true
		} else {
			hasV6 = true
		}
	}

	var sockV4, sockV6 *socket.IcmpSocket
	var err error
	if hasV4 {
		ttl := int(setting.HopLimit)
		if ttl < 1 {
			ttl = 1
		}
		sockV4, err = socket.NewIcmpSocket(socket.IcmpConfig{Kind: socket.IcmpV4, TTL: ttl})
		if err != nil {
			run.Finish(ctx, err)
			return model.HostScanReport{}, model.NewProbeError(model.ErrPermissionDenied, "open icmpv4 socket", err)
		}
		defer sockV4.Close()
	}
	if hasV6 {
		hops := int(setting.HopLimit)
		if hops < 1 {
			hops = 1
		}
		sockV6, err = socket.NewIcmpSocket(socket.IcmpConfig{Kind: socket.IcmpV6, HopLimit: hops})
		if err != nil {
			run.Finish(ctx, err)
			return model.HostScanReport{}, model.NewProbeError(model.ErrPermissionDenied, "open icmpv6 socket", err)
		}
		defer sockV6.Close()
	}

	pendingV4, pendingV6 := newPendingTable(), newPendingTable()
	recvCtx, cancelRecv := context.WithCancel(ctx)
	defer cancelRecv()

	var recvWg sync.WaitGroup
	if sockV4 != nil {
		recvWg.Add(1)
		go runReceiver(recvCtx, &recvWg, sockV4, pendingV4, false)
	}
	if sockV6 != nil {
		recvWg.Add(1)
		go runReceiver(recvCtx, &recvWg, sockV6, pendingV6, true)
	}

	sem := newConcurrencyGate(setting.AdaptiveLimiter, concurrency)
	var doneCtr uint32
	var doneMu sync.Mutex
	var wg sync.WaitGroup

	alive := make([]model.HostScanAlive, 0, len(targets))
	unreachable := make([]net.IP, 0, len(targets))
	var resultsMu sync.Mutex

	for _, target := range targets {
		target := target
		if err := sem.Acquire(ctx); err != nil {
			break
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release()

			prog := probeOne(ctx, target, sockV4, sockV6, pendingV4, pendingV6, payload, count, timeout)
			sem.Report(prog.State == model.HostAlive)

			doneMu.Lock()
			doneCtr++
			prog.Done = doneCtr
			prog.Total = total
			doneMu.Unlock()

			run.Emit("hostscan:progress", prog)

			resultsMu.Lock()
			if prog.State == model.HostAlive {
				alive = append(alive, model.HostScanAlive{IP: prog.IP, RTTMs: *prog.RTTMs})
			} else {
				unreachable = append(unreachable, prog.IP)
			}
			resultsMu.Unlock()
		}()
	}
	wg.Wait()
	cancelRecv()
	recvWg.Wait()

	report := model.HostScanReport{RunID: run.ID, Alive: alive, Unreachable: unreachable, Total: total}
	run.Emit("hostscan:done", report)
	run.Finish(ctx, nil)
	return report, nil
}

func probeOne(ctx context.Context, dst net.IP, sockV4, sockV6 *socket.IcmpSocket, pendingV4, pendingV6 *pendingTable, payload string, count uint32, timeout time.Duration) model.HostScanProgress {
	isV6 := dst.To4() == nil
	sock := sockV4
	table := pendingV4
	if isV6 {
		sock = sockV6
		table = pendingV6
	}
	if sock == nil {
		return model.HostScanProgress{IP: dst, State: model.HostUnreachable, Message: "no suitable socket for IP family"}
	}

	var bestRTT *uint64
	var lastErr string

	for seq := uint32(1); seq <= count; seq++ {
		entry := table.insert(dst)
		id := rand.Intn(1 << 16)

		var pkt []byte
		var buildErr error
		if isV6 {
			pkt, buildErr = packet.BuildEchoV6(id, int(seq), []byte(payload))
		} else {
			pkt, buildErr = packet.BuildEchoV4(id, int(seq), []byte(payload))
		}
		if buildErr != nil {
			table.remove(dst)
			lastErr = fmt.Sprintf("build packet: %v", buildErr)
			continue
		}

		if _, err := sock.WriteTo(pkt, sock.Addr(dst)); err != nil {
			table.remove(dst)
			lastErr = fmt.Sprintf("send error: %v", err)
			continue
		}

		select {
		case rtt := <-entry.reply:
			if bestRTT == nil || rtt < *bestRTT {
				bestRTT = &rtt
			}
			goto done
		case <-time.After(timeout):
			table.remove(dst)
			lastErr = fmt.Sprintf("timeout (>%dms)", timeout.Milliseconds())
		case <-ctx.Done():
			table.remove(dst)
			lastErr = "cancelled"
			goto done
		}
	}

done:
	if bestRTT != nil {
		return model.HostScanProgress{IP: dst, State: model.HostAlive, RTTMs: bestRTT}
	}
	return model.HostScanProgress{IP: dst, State: model.HostUnreachable, Message: lastErr}
}

func runReceiver(ctx context.Context, wg *sync.WaitGroup, sock *socket.IcmpSocket, table *pendingTable, isV6 bool) {
	defer wg.Done()
	buf := make([]byte, 2048)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		n, addr, err := sock.ReadFrom(buf, time.Now().Add(500*time.Millisecond))
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			continue
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
			continue
		}

		var srcIP net.IP
		switch a := addr.(type) {
		case *net.UDPAddr:
			srcIP = a.IP
		case *net.IPAddr:
			srcIP = a.IP
		}
		if srcIP == nil {
			continue
		}
		table.fulfill(srcIP)
	}
}
