package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"goom-server/internal/journal"
)

func newJournalCmd() *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "journal <file>",
		Short: "Print a recorded tick journal as JSON lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := journal.Read(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if summary {
				events := 0
				for _, e := range entries {
					events += len(e.Events)
				}
				fmt.Fprintf(out, "%d ticks, %d events\n", len(entries), events)
				return nil
			}
			enc := json.NewEncoder(out)
			for _, e := range entries {
				if err := enc.Encode(e); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "print only tick and event counts")

	return cmd
}
