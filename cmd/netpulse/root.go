package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"netpulse/internal/config"
	"netpulse/internal/pkg/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "netpulse",
	Short: "netpulse is a cross-platform network diagnostic probe",
	Long: `netpulse drives ICMP/TCP/UDP/QUIC/HTTP probes, host and port
scans, traceroute and neighbor-table inspection from one CLI.

Examples:
  netpulse ping -t 1.1.1.1 --proto icmp
  netpulse hostscan -t 192.168.1.0/24
  netpulse portscan -t example.com --preset top1000
  netpulse traceroute -t 8.8.8.8
  netpulse neighbor
  netpulse ifaces
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initCLILogger(cmd)
	},
}

func Execute() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n[FATAL] netpulse crashed unexpectedly: %v\n", r)
			os.Exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (default: ./config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(newPingCmd())
	rootCmd.AddCommand(newHostScanCmd())
	rootCmd.AddCommand(newPortScanCmd())
	rootCmd.AddCommand(newTracerouteCmd())
	rootCmd.AddCommand(newNeighborCmd())
	rootCmd.AddCommand(newIfacesCmd())
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}
	_ = viper.ReadInConfig()
}

func initCLILogger(cmd *cobra.Command) {
	flag := cmd.Flags().Lookup("log-level")
	level := "warn"
	if flag != nil && flag.Changed {
		level = flag.Value.String()
	}

	switch level {
	case "debug":
		pterm.EnableDebugMessages()
	case "info":
		pterm.DisableDebugMessages()
	case "warn", "error", "fatal":
		pterm.DisableDebugMessages()
		pterm.Info = *pterm.Info.WithWriter(io.Discard)
	}

	logConfig := &config.LogConfig{Level: level, Format: "text", Output: "stdout", Caller: false}
	if _, err := logger.InitLogger(logConfig); err != nil {
		fmt.Printf("failed to init logger: %v\n", err)
	}
}
