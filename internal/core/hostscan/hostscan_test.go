package hostscan

import (
	"context"
	"net"
	"testing"
	"time"

	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
)

func TestPendingTable_InsertFulfillDeliversRTT(t *testing.T) {
	table := newPendingTable()
	ip := net.ParseIP("127.0.0.1")

	entry := table.insert(ip)
	time.Sleep(2 * time.Millisecond)
	table.fulfill(ip)

	select {
	case <-entry.reply:
	case <-time.After(time.Second):
		t.Fatalf("fulfill did not deliver a reply")
	}

	// fulfill must remove the entry so a stray duplicate reply is ignored.
	table.fulfill(ip) // should be a no-op, not a panic
}

func TestPendingTable_FulfillUnknownIsNoop(t *testing.T) {
	table := newPendingTable()
	table.fulfill(net.ParseIP("10.0.0.99")) // must not panic on a miss
}

func TestPendingTable_Remove(t *testing.T) {
	table := newPendingTable()
	ip := net.ParseIP("192.168.1.1")
	table.insert(ip)
	table.remove(ip)

	if _, ok := table.entries[ip.String()]; ok {
		t.Fatalf("entry still present after remove")
	}
}

// TestRun_EmptyTargetsShortCircuits checks the zero-targets path, which
// must return immediately without opening any socket.
func TestRun_EmptyTargetsShortCircuits(t *testing.T) {
	run := orchestrator.New(orchestrator.NopSink{})
	report, err := Run(context.Background(), run, model.HostScanSetting{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Total != 0 || len(report.Alive) != 0 || len(report.Unreachable) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
}

func TestNewConcurrencyGate_FixedBehavesLikeASemaphore(t *testing.T) {
	gate := newConcurrencyGate(false, 2)
	if _, ok := gate.(fixedGate); !ok {
		t.Fatalf("newConcurrencyGate(false, ...) = %T, want fixedGate", gate)
	}

	ctx := context.Background()
	if err := gate.Acquire(ctx); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if err := gate.Acquire(ctx); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	gate.Report(true) // must not panic; fixedGate ignores it

	ctx2, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := gate.Acquire(ctx2); err == nil {
		t.Fatalf("expected Acquire to block past capacity until timeout")
	}
	gate.Release()
}

func TestNewConcurrencyGate_AdaptiveShrinksOnFailure(t *testing.T) {
	gate := newConcurrencyGate(true, 32)
	ag, ok := gate.(adaptiveGate)
	if !ok {
		t.Fatalf("newConcurrencyGate(true, ...) = %T, want adaptiveGate", gate)
	}

	before := ag.limiter.CurrentLimit()
	gate.Report(false)
	if after := ag.limiter.CurrentLimit(); after >= before {
		t.Fatalf("CurrentLimit after a failure report = %d, want < %d", after, before)
	}
}
