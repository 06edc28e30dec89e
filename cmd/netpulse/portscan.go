package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
	"netpulse/internal/core/portscan"
	"netpulse/internal/core/reporter"
)

func newPortScanCmd() *cobra.Command {
	var (
		target    string
		preset    string
		userPorts string
		proto     string
		timeoutMS uint64
		ordered   bool
		adaptive  bool
		outputCSV string
	)

	cmd := &cobra.Command{
		Use:   "portscan",
		Short: "Scan a host's TCP or QUIC ports for open services",
		RunE: func(cmd *cobra.Command, args []string) error {
			ip, hostname, err := resolveTarget(target)
			if err != nil {
				return err
			}

			setting := model.PortScanSetting{
				IP: ip, Hostname: hostname, Preset: model.PortsPreset(preset),
				Protocol: model.PortScanProtocol(proto), TimeoutMS: timeoutMS, Ordered: ordered,
				AdaptiveLimiter: adaptive,
			}
			if preset == string(model.PortsCustom) {
				setting.UserPorts, err = parsePorts(userPorts)
				if err != nil {
					return err
				}
			}

			run := orchestrator.New(orchestrator.NopSink{})
			fmt.Printf("[*] port-scanning %s (%s) via %s, preset=%s\n", target, ip, proto, preset)

			var report model.PortScanReport
			ctx := context.Background()
			if setting.Protocol == model.PortScanQUIC {
				report, err = portscan.RunQUIC(ctx, run, setting)
			} else {
				report, err = portscan.RunTCP(ctx, run, setting)
			}
			if err != nil {
				return err
			}

			console := reporter.NewConsoleReporter()
			if err := console.Print(report); err != nil {
				return err
			}
			fmt.Printf("%d open ports found\n", len(report.Samples))

			if outputCSV != "" {
				return reporter.SaveCSV(outputCSV, report)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&target, "target", "t", "", "target IP or hostname")
	flags.StringVar(&preset, "preset", string(model.PortsCommon), "port preset: common|well_known|full|top1000|custom")
	flags.StringVar(&userPorts, "ports", "", "comma-separated ports, required when --preset=custom")
	flags.StringVar(&proto, "proto", string(model.PortScanTCP), "scan protocol: tcp|quic")
	flags.Uint64Var(&timeoutMS, "timeout", 1000, "per-port timeout in milliseconds")
	flags.BoolVar(&ordered, "ordered", false, "scan ports in ascending order instead of shuffled")
	flags.BoolVar(&adaptive, "adaptive", false, "throttle fan-out width with AIMD congestion feedback instead of a fixed cap")
	flags.StringVar(&outputCSV, "oc", "", "save results as CSV to this path")
	cmd.MarkFlagRequired("target")

	return cmd
}

func parsePorts(spec string) ([]uint16, error) {
	var ports []uint16
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseUint(part, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid port %q: %w", part, err)
		}
		ports = append(ports, uint16(n))
	}
	if len(ports) == 0 {
		return nil, fmt.Errorf("--ports is required when --preset=custom")
	}
	return ports, nil
}
