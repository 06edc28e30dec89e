package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"netpulse/internal/core/neighbor"
	"netpulse/internal/core/orchestrator"
	"netpulse/internal/core/reporter"
)

func newNeighborCmd() *cobra.Command {
	var outputCSV string

	cmd := &cobra.Command{
		Use:   "neighbor",
		Short: "Dump the local OS neighbor (ARP/NDP) table",
		RunE: func(cmd *cobra.Command, args []string) error {
			run := orchestrator.New(orchestrator.NopSink{})

			table, err := neighbor.Get(context.Background(), run)
			if err != nil {
				return err
			}

			console := reporter.NewConsoleReporter()
			if err := console.Print(table); err != nil {
				return err
			}
			fmt.Printf("%d entries\n", len(table))

			if outputCSV != "" {
				return reporter.SaveCSV(outputCSV, table)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outputCSV, "oc", "", "save results as CSV to this path")
	return cmd
}
