package reporter

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"netpulse/internal/core/ifaceinfo"
	"netpulse/internal/core/model"
)

// ConsoleReporter renders a result with pterm's boxless table, adapted
// from neoAgent's ConsoleReporter.PrintResults.
type ConsoleReporter struct{}

func NewConsoleReporter() *ConsoleReporter { return &ConsoleReporter{} }

// Print renders any of the five operation result types or an
// []ifaceinfo.Interface list; unsupported
// types fall back to pterm.Info.Println of the raw value.
func (r *ConsoleReporter) Print(result any) error {
	headers, rows := adapt(result)
	if headers == nil {
		pterm.Info.Println("Result:", result)
		return nil
	}
	if len(rows) == 0 {
		pterm.Warning.Println("No results.")
		return nil
	}
	tableData := pterm.TableData{headers}
	tableData = append(tableData, rows...)
	if err := pterm.DefaultTable.WithHasHeader(true).WithBoxed(false).WithData(tableData).Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

func adapt(result any) ([]string, [][]string) {
	switch v := result.(type) {
	case model.PingStat:
		return pingHeaders(), pingRows(v)
	case model.HostScanReport:
		return hostscanHeaders(), hostscanRows(v)
	case model.PortScanReport:
		return portscanHeaders(), portscanRows(v)
	case model.TraceResult:
		return traceHeaders(), traceRows(v)
	case model.NeighborTable:
		return neighborHeaders(), neighborRows(v)
	case []ifaceinfo.Interface:
		return ifaceHeaders(), ifaceRows(v)
	default:
		return nil, nil
	}
}

func msOrDash(v *uint64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatUint(*v, 10)
}

func pingHeaders() []string { return []string{"seq", "ip", "status", "rtt_ms"} }

func pingRows(s model.PingStat) [][]string {
	rows := make([][]string, 0, len(s.Samples))
	for _, sample := range s.Samples {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(sample.Seq), 10),
			sample.IP.String(),
			string(sample.Status.Kind),
			msOrDash(sample.RTTMs),
		})
	}
	return rows
}

func hostscanHeaders() []string { return []string{"ip", "state", "rtt_ms"} }

func hostscanRows(r model.HostScanReport) [][]string {
	rows := make([][]string, 0, len(r.Alive)+len(r.Unreachable))
	for _, a := range r.Alive {
		rows = append(rows, []string{a.IP.String(), string(model.HostAlive), strconv.FormatUint(a.RTTMs, 10)})
	}
	for _, ip := range r.Unreachable {
		rows = append(rows, []string{ip.String(), string(model.HostUnreachable), "-"})
	}
	return rows
}

func portscanHeaders() []string { return []string{"port", "state", "service", "rtt_ms"} }

func portscanRows(r model.PortScanReport) [][]string {
	rows := make([][]string, 0, len(r.Samples))
	for _, s := range r.Samples {
		svc := s.ServiceName
		if svc == "" {
			svc = "-"
		}
		rows = append(rows, []string{strconv.Itoa(int(s.Port)), string(s.State), svc, msOrDash(s.RTTMs)})
	}
	return rows
}

func traceHeaders() []string { return []string{"hop", "ip", "rtt_ms", "note"} }

func traceRows(r model.TraceResult) [][]string {
	rows := make([][]string, 0, len(r.Hops))
	for _, h := range r.Hops {
		ip := "*"
		if h.IP != nil {
			ip = h.IP.String()
		}
		rows = append(rows, []string{strconv.Itoa(int(h.Hop)), ip, msOrDash(h.RTTMs), h.Note})
	}
	return rows
}

func neighborHeaders() []string { return []string{"ip", "mac", "state"} }

func neighborRows(t model.NeighborTable) [][]string {
	rows := make([][]string, 0, len(t))
	for ip, entry := range t {
		mac := "-"
		if entry.MAC != nil {
			mac = entry.MAC.String()
		}
		rows = append(rows, []string{ip, mac, string(entry.State)})
	}
	return rows
}

func ifaceHeaders() []string { return []string{"index", "name", "mac", "ipv4", "ipv6", "mtu"} }

func ifaceRows(ifaces []ifaceinfo.Interface) [][]string {
	rows := make([][]string, 0, len(ifaces))
	for _, ifc := range ifaces {
		rows = append(rows, []string{
			strconv.Itoa(ifc.Index), ifc.Name, ifc.MAC,
			joinIPs(ifc.IPv4), joinIPs(ifc.IPv6), strconv.Itoa(ifc.MTU),
		})
	}
	return rows
}

func joinIPs(ips []net.IP) string {
	if len(ips) == 0 {
		return "-"
	}
	parts := make([]string, len(ips))
	for i, ip := range ips {
		parts[i] = ip.String()
	}
	return strings.Join(parts, ",")
}
