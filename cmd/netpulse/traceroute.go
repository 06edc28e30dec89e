package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"netpulse/internal/core/model"
	"netpulse/internal/core/orchestrator"
	"netpulse/internal/core/reporter"
	"netpulse/internal/core/traceroute"
)

func newTracerouteCmd() *cobra.Command {
	var (
		target      string
		proto       string
		maxHops     uint8
		triesPerHop uint8
		timeoutMS   uint64
		outputCSV   string
	)

	cmd := &cobra.Command{
		Use:   "traceroute",
		Short: "Trace the route to a target via ICMP or UDP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ip, hostname, err := resolveTarget(target)
			if err != nil {
				return err
			}

			setting := model.TraceSetting{
				IP: ip, Hostname: hostname, MaxHops: maxHops, TriesPerHop: triesPerHop,
				TimeoutMS: timeoutMS, Protocol: model.TraceProtocol(proto),
			}.Sanitize()

			run := orchestrator.New(orchestrator.NopSink{})
			fmt.Printf("[*] tracing route to %s (%s) via %s, max %d hops\n", target, ip, proto, setting.MaxHops)

			ctx := context.Background()
			var result model.TraceResult
			if setting.Protocol == model.TraceUDP {
				result, err = traceroute.RunUDP(ctx, run, setting)
			} else {
				result, err = traceroute.RunICMP(ctx, run, setting)
			}
			if err != nil {
				return err
			}

			console := reporter.NewConsoleReporter()
			if err := console.Print(result); err != nil {
				return err
			}
			fmt.Printf("reached=%v\n", result.Reached)

			if outputCSV != "" {
				return reporter.SaveCSV(outputCSV, result)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&target, "target", "t", "", "target IP or hostname")
	flags.StringVar(&proto, "proto", string(model.TraceICMP), "trace protocol: icmp|udp")
	flags.Uint8Var(&maxHops, "max-hops", 30, "maximum TTL/hop limit to try")
	flags.Uint8Var(&triesPerHop, "tries", 1, "attempts per hop before giving up")
	flags.Uint64Var(&timeoutMS, "timeout", 1000, "per-attempt timeout in milliseconds")
	flags.StringVar(&outputCSV, "oc", "", "save results as CSV to this path")
	cmd.MarkFlagRequired("target")

	return cmd
}
