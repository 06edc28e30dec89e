package neighbor

import (
	"context"
	"testing"

	"netpulse/internal/core/orchestrator"
)

// TestGet_Smoke exercises the platform-selected getTable backend; it
// must return a usable table or a permission/IO error, never panic.
func TestGet_Smoke(t *testing.T) {
	run := orchestrator.New(orchestrator.NopSink{})
	table, err := Get(context.Background(), run)
	if err != nil {
		t.Logf("Get returned an error (expected without elevated privileges): %v", err)
		return
	}
	for ip, entry := range table {
		if entry.IP.String() != ip {
			t.Errorf("table key %q does not match entry IP %v", ip, entry.IP)
		}
	}
}
