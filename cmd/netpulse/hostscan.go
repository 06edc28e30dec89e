package main

import (
	"context"
	"fmt"
	"net"
	"strings"

	"github.com/spf13/cobra"

	"netpulse/internal/core/hostscan"
	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
	"netpulse/internal/core/reporter"
)

func newHostScanCmd() *cobra.Command {
	var (
		target     string
		count      uint32
		timeoutMS  uint64
		hopLimit   uint8
		payload    string
		ordered    bool
		adaptive   bool
		outputCSV  string
	)

	cmd := &cobra.Command{
		Use:   "hostscan",
		Short: "Discover which hosts in a CIDR or IP list are alive",
		RunE: func(cmd *cobra.Command, args []string) error {
			targets, err := expandTargets(target)
			if err != nil {
				return err
			}

			setting := model.HostScanSetting{
				Targets: targets, HopLimit: hopLimit, TimeoutMS: timeoutMS,
				Count: count, Payload: payload, Ordered: ordered,
				AdaptiveLimiter: adaptive,
			}

			run := orchestrator.New(orchestrator.NopSink{})
			fmt.Printf("[*] host-scanning %d targets\n", len(targets))

			report, err := hostscan.Run(context.Background(), run, setting)
			if err != nil {
				return err
			}

			console := reporter.NewConsoleReporter()
			if err := console.Print(report); err != nil {
				return err
			}
			fmt.Printf("%d alive, %d unreachable, %d total\n", len(report.Alive), len(report.Unreachable), report.Total)

			if outputCSV != "" {
				return reporter.SaveCSV(outputCSV, report)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&target, "target", "t", "", "target CIDR or comma-separated IP list")
	flags.Uint32VarP(&count, "count", "c", 2, "retries per host before giving up")
	flags.Uint64Var(&timeoutMS, "timeout", 1000, "per-attempt timeout in milliseconds")
	flags.Uint8Var(&hopLimit, "ttl", 64, "TTL (IPv4) / hop limit (IPv6)")
	flags.StringVar(&payload, "payload", "np:hostscan", "echo payload")
	flags.BoolVar(&ordered, "ordered", false, "probe targets in listed order instead of shuffled")
	flags.BoolVar(&adaptive, "adaptive", false, "throttle fan-out width with AIMD congestion feedback instead of a fixed cap")
	flags.StringVar(&outputCSV, "oc", "", "save results as CSV to this path")
	cmd.MarkFlagRequired("target")

	return cmd
}

// expandTargets accepts a CIDR block or a comma-separated list of bare
// IPs, returning every host address in the range (CIDR's network and
// broadcast addresses are skipped for IPv4).
func expandTargets(spec string) ([]net.IP, error) {
	if ip, ipnet, err := net.ParseCIDR(spec); err == nil {
		return expandCIDR(ip, ipnet), nil
	}

	var targets []net.IP
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ip := net.ParseIP(part)
		if ip == nil {
			return nil, fmt.Errorf("invalid target %q", part)
		}
		targets = append(targets, ip)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no valid targets in %q", spec)
	}
	return targets, nil
}

func expandCIDR(ip net.IP, ipnet *net.IPNet) []net.IP {
	var out []net.IP
	for cur := cloneIP(ip.Mask(ipnet.Mask)); ipnet.Contains(cur); incIP(cur) {
		out = append(out, cloneIP(cur))
	}
	if len(out) > 2 && ipnet.IP.To4() != nil {
		out = out[1 : len(out)-1] // drop network/broadcast addresses
	}
	return out
}

func cloneIP(ip net.IP) net.IP {
	out := make(net.IP, len(ip))
	copy(out, ip)
	return out
}

func incIP(ip net.IP) {
	for i := len(ip) - 1; i >= 0; i-- {
		ip[i]++
		if ip[i] != 0 {
			return
		}
	}
}
