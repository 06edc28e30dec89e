// Package portscan fans a TCP connect or QUIC handshake out across a
// port list with bounded concurrency, grounded on probe/scan/tcp.rs and
// probe/scan/quic.rs.
package portscan

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"

	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
	"netpulse/internal/core/qos"
)

// DefaultConcurrency is PORTS_CONCURRENCY's Go-side default, inside the
// 100-500 range spec.md §4.5 allows.
const DefaultConcurrency = 200

// concurrencyGate is the fan-out width control portscan acquires/releases
// a slot from per port; fixedGate wraps a semaphore.Weighted for the
// common case, adaptiveGate wraps qos.AdaptiveLimiter when the caller
// opts into AIMD-based backoff under real congestion. A filtered port
// (no response, likely dropped by a firewall or saturated link) reports
// as a failure; open/closed ports got a definitive response and report
// as a success.
type concurrencyGate interface {
	Acquire(ctx context.Context) error
	Release()
	Report(ok bool)
}

type fixedGate struct{ sem *semaphore.Weighted }

func (g fixedGate) Acquire(ctx context.Context) error { return g.sem.Acquire(ctx, 1) }
func (g fixedGate) Release()                          { g.sem.Release(1) }
func (g fixedGate) Report(bool)                       {}

type adaptiveGate struct{ limiter *qos.AdaptiveLimiter }

func (g adaptiveGate) Acquire(ctx context.Context) error { return g.limiter.Acquire(ctx) }
func (g adaptiveGate) Release()                          { g.limiter.Release() }
func (g adaptiveGate) Report(ok bool) {
	if ok {
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

type attemptFunc func(ctx context.Context, setting model.PortScanSetting, port uint16) (model.PortState, *uint64, string)

// run drives a port scan for either protocol; attempt performs one
// port's connection attempt and returns its classification.
func run(ctx context.Context, run *orchestrator.Run, setting model.PortScanSetting, attempt attemptFunc) (model.PortScanReport, error) {
	ports := expandPorts(setting.Preset, setting.UserPorts)
	if !setting.Ordered {
		rand.Shuffle(len(ports), func(i, j int) { ports[i], ports[j] = ports[j], ports[i] })
	}

	run.Start()
	run.Emit("portscan:start", map[string]any{
		"run_id": run.ID, "ip": setting.IP.String(), "protocol": setting.Protocol, "total": len(ports),
	})

	total := uint32(len(ports))
	var doneCtr uint32

	concurrency := DefaultConcurrency
	sem := newConcurrencyGate(setting.AdaptiveLimiter, concurrency)

	var mu sync.Mutex
	var open []model.PortScanSample

	var wg sync.WaitGroup
	for _, port := range ports {
		if err := sem.Acquire(ctx); err != nil {
			break
		}
		wg.Add(1)
		go func(port uint16) {
			defer wg.Done()
			defer sem.Release()

			state, rtt, msg := attempt(ctx, setting, port)
			sem.Report(state != model.PortFiltered)
			done := atomic.AddUint32(&doneCtr, 1)

			sample := model.PortScanSample{
				IP: setting.IP, Port: port, State: state, RTTMs: rtt, Message: msg,
				Done: done, Total: total,
			}
			if state == model.PortOpen {
				sample.ServiceName = serviceName(port)
			}
			run.Emit("portscan:progress", sample)

			if state == model.PortOpen {
				mu.Lock()
				open = append(open, sample)
				mu.Unlock()
			}
		}(port)
	}
	wg.Wait()

	sort.Slice(open, func(i, j int) bool { return open[i].Port < open[j].Port })

	report := model.PortScanReport{
		RunID: run.ID, IP: setting.IP, Hostname: setting.Hostname, Protocol: setting.Protocol, Samples: open,
	}
	run.Emit("portscan:done", report)
	run.Finish(ctx, nil)
	return report, nil
}
