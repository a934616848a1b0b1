package main

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goom-server",
		Short: "Authoritative world server for goom",
		Long: `goom-server simulates a configured world of physics bodies and
behaviour-driven agents and streams state changes to websocket clients.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newJournalCmd())

	return cmd
}
