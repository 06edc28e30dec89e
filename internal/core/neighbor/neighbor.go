// Package neighbor reads the OS neighbor (ARP/NDP) table behind one
// platform-independent entrypoint, grounded on net/neigh/os/{linux,darwin,windows}.rs.
package neighbor

import (
	"context"
	"net"

	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
)

// rawEntry is one neighbor row as a platform decoder reports it; each
// decoder has already classified the row into a NeighborState.
type rawEntry struct {
	IP    net.IP
	MAC   net.HardwareAddr
	State model.NeighborState
}

// Get returns the current neighbor table via the platform-specific
// implementation selected at build time (getTable).
func Get(ctx context.Context, run *orchestrator.Run) (model.NeighborTable, error) {
	run.Start()
	run.Emit("neighborscan:start", map[string]any{"run_id": run.ID})

	raw, err := getTable()
	if err != nil {
		run.Finish(ctx, err)
		return nil, model.NewProbeError(model.ErrIO, "read neighbor table", err)
	}

	table := make(model.NeighborTable, len(raw))
	for _, entry := range raw {
		if entry.State == model.NeighborIncomplete {
			continue
		}
		table[entry.IP.String()] = model.NeighborEntry{IP: entry.IP, MAC: entry.MAC, State: entry.State}
	}

	run.Emit("neighborscan:done", table)
	run.Finish(ctx, nil)
	return table, nil
}

// getTable is implemented per-platform in linux.go/darwin.go/windows.go.
