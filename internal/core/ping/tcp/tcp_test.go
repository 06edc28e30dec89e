package tcp

import (
	"context"
	"net"
	"testing"
	"time"

	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
)

func TestRun_OpenLoopbackPortSucceeds(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	defer l.Close()
	go func() {
		for {
			conn, err := l.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	port := uint16(l.Addr().(*net.TCPAddr).Port)
	setting := model.PingSetting{
		IP: net.ParseIP("127.0.0.1"), Port: port, Count: 2, TimeoutMS: 500, Protocol: model.PingTCP,
	}

	run := orchestrator.New(orchestrator.NopSink{})
	stat, err := Run(context.Background(), run, setting)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stat.Received != 2 {
		t.Fatalf("received = %d, want 2", stat.Received)
	}
}

func TestRun_ClosedLoopbackPortReportsError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen: %v", err)
	}
	port := uint16(l.Addr().(*net.TCPAddr).Port)
	l.Close()

	setting := model.PingSetting{
		IP: net.ParseIP("127.0.0.1"), Port: port, Count: 1, TimeoutMS: 500, Protocol: model.PingTCP,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	run := orchestrator.New(orchestrator.NopSink{})
	stat, err := Run(ctx, run, setting)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stat.Received != 0 {
		t.Fatalf("received = %d, want 0", stat.Received)
	}
	if !stat.Samples[0].Status.IsError() && !stat.Samples[0].Status.IsTimeout() {
		t.Fatalf("status = %+v, want error or timeout", stat.Samples[0].Status)
	}
}

func TestRun_DefaultsPortTo80(t *testing.T) {
	setting := model.PingSetting{IP: net.ParseIP("127.0.0.1"), Count: 1, TimeoutMS: 50}
	run := orchestrator.New(orchestrator.NopSink{})

	stat, err := Run(context.Background(), run, setting)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stat.Samples[0].Port != 80 {
		t.Fatalf("port = %d, want 80", stat.Samples[0].Port)
	}
}
