package main

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
	httpping "netpulse/internal/core/ping/http"
	icmpping "netpulse/internal/core/ping/icmp"
	quicping "netpulse/internal/core/ping/quic"
	tcpping "netpulse/internal/core/ping/tcp"
	udpping "netpulse/internal/core/ping/udp"
	"netpulse/internal/core/reporter"
)

func newPingCmd() *cobra.Command {
	var (
		target     string
		proto      string
		port       uint16
		count      uint32
		timeoutMS  uint64
		sendRateMS uint64
		hopLimit   uint8
		outputCSV  string
	)

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Ping a target over ICMP/TCP/UDP/QUIC/HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ip, hostname, err := resolveTarget(target)
			if err != nil {
				return err
			}

			setting := model.PingSetting{
				IP: ip, Hostname: hostname, Port: port, HopLimit: hopLimit,
				Protocol: model.PingProtocol(proto), Count: count,
				TimeoutMS: timeoutMS, SendRateMS: sendRateMS,
			}

			run := orchestrator.New(orchestrator.NopSink{})
			fmt.Printf("[*] ping %s (%s) via %s\n", target, ip, proto)

			ctx := context.Background()
			stat, err := dispatchPing(ctx, run, setting)
			if err != nil {
				return err
			}

			console := reporter.NewConsoleReporter()
			if err := console.Print(stat); err != nil {
				return err
			}
			fmt.Printf("%d transmitted, %d received, %.1f%% loss\n", stat.Transmitted, stat.Received, stat.LossRate()*100)

			if outputCSV != "" {
				return reporter.SaveCSV(outputCSV, stat)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&target, "target", "t", "", "target IP or hostname")
	flags.StringVar(&proto, "proto", "icmp", "probe protocol: icmp|tcp|udp|quic|http")
	flags.Uint16VarP(&port, "port", "p", 0, "target port (tcp/udp/quic/http)")
	flags.Uint32VarP(&count, "count", "c", 4, "number of probes to send")
	flags.Uint64Var(&timeoutMS, "timeout", 1000, "per-probe timeout in milliseconds")
	flags.Uint64Var(&sendRateMS, "interval", 1000, "delay between probes in milliseconds")
	flags.Uint8Var(&hopLimit, "ttl", 64, "TTL (IPv4) / hop limit (IPv6)")
	flags.StringVar(&outputCSV, "oc", "", "save results as CSV to this path")
	cmd.MarkFlagRequired("target")

	return cmd
}

func dispatchPing(ctx context.Context, run *orchestrator.Run, setting model.PingSetting) (model.PingStat, error) {
	switch setting.Protocol {
	case model.PingTCP:
		return tcpping.Run(ctx, run, setting)
	case model.PingUDP:
		return udpping.Run(ctx, run, setting)
	case model.PingQUIC:
		return quicping.Run(ctx, run, setting)
	case model.PingHTTP:
		return httpping.Run(ctx, run, setting)
	default:
		return icmpping.Run(ctx, run, setting)
	}
}

// resolveTarget parses target as a literal IP, falling back to a DNS
// lookup (first resolved address wins) when it isn't one.
func resolveTarget(target string) (net.IP, string, error) {
	if ip := net.ParseIP(target); ip != nil {
		return ip, "", nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	addrs, err := net.DefaultResolver.LookupIP(ctx, "ip", target)
	if err != nil || len(addrs) == 0 {
		return nil, "", fmt.Errorf("resolve %q: %w", target, err)
	}
	return addrs[0], target, nil
}
