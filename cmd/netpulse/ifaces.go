package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"netpulse/internal/core/ifaceinfo"
	"netpulse/internal/core/reporter"
)

func newIfacesCmd() *cobra.Command {
	var outputCSV string

	cmd := &cobra.Command{
		Use:   "ifaces",
		Short: "List local network interfaces",
		RunE: func(cmd *cobra.Command, args []string) error {
			ifaces, err := ifaceinfo.Interfaces()
			if err != nil {
				return err
			}

			console := reporter.NewConsoleReporter()
			if err := console.Print(ifaces); err != nil {
				return err
			}
			fmt.Printf("%d interfaces\n", len(ifaces))

			if outputCSV != "" {
				return reporter.SaveCSV(outputCSV, ifaces)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputCSV, "oc", "", "save results as CSV to this path")
	return cmd
}
