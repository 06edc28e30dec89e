package model

import (
	"net"
	"testing"
)

func rtt(ms uint64) *uint64 { return &ms }

func TestNewPingStat_AllDone(t *testing.T) {
	samples := []PingSample{
		{Seq: 1, Status: Done(), RTTMs: rtt(10)},
		{Seq: 2, Status: Done(), RTTMs: rtt(20)},
		{Seq: 3, Status: Done(), RTTMs: rtt(30)},
	}
	stat := NewPingStat("", net.ParseIP("1.1.1.1"), 0, PingICMP, samples)

	if stat.Transmitted != 3 || stat.Received != 3 {
		t.Fatalf("transmitted/received = %d/%d, want 3/3", stat.Transmitted, stat.Received)
	}
	if *stat.MinMs != 10 || *stat.AvgMs != 20 || *stat.MaxMs != 30 {
		t.Fatalf("min/avg/max = %d/%d/%d, want 10/20/30", *stat.MinMs, *stat.AvgMs, *stat.MaxMs)
	}
	if stat.LossRate() != 0 {
		t.Fatalf("loss rate = %v, want 0", stat.LossRate())
	}
}

func TestNewPingStat_AllLost(t *testing.T) {
	samples := []PingSample{
		{Seq: 1, Status: TimeoutStatus("timeout")},
		{Seq: 2, Status: TimeoutStatus("timeout")},
	}
	stat := NewPingStat("", net.ParseIP("1.1.1.1"), 0, PingICMP, samples)

	if stat.Received != 0 {
		t.Fatalf("received = %d, want 0", stat.Received)
	}
	if stat.MinMs != nil || stat.AvgMs != nil || stat.MaxMs != nil {
		t.Fatalf("expected nil min/avg/max on total loss")
	}
	if stat.LossRate() != 1 {
		t.Fatalf("loss rate = %v, want 1", stat.LossRate())
	}
}

func TestNewPingStat_PartialLoss(t *testing.T) {
	samples := []PingSample{
		{Seq: 1, Status: Done(), RTTMs: rtt(5)},
		{Seq: 2, Status: TimeoutStatus("timeout")},
	}
	stat := NewPingStat("", net.ParseIP("1.1.1.1"), 0, PingICMP, samples)

	if stat.Received != 1 || stat.Transmitted != 2 {
		t.Fatalf("received/transmitted = %d/%d, want 1/2", stat.Received, stat.Transmitted)
	}
	if stat.LossRate() != 0.5 {
		t.Fatalf("loss rate = %v, want 0.5", stat.LossRate())
	}
}

func TestProbeStatus_Kinds(t *testing.T) {
	if !Done().IsDone() || Done().IsError() || Done().IsTimeout() {
		t.Fatalf("Done() classified incorrectly")
	}
	if !ErrStatus("boom").IsError() {
		t.Fatalf("ErrStatus not classified as error")
	}
	if !TimeoutStatus("slow").IsTimeout() {
		t.Fatalf("TimeoutStatus not classified as timeout")
	}
}
