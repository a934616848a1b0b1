package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"goom-server/internal/analytics"
)

func newStatsCmd() *cobra.Command {
	var (
		dbPath string
		days   int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize recorded analytics events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := os.Stat(dbPath); err != nil {
				return err
			}
			db, err := analytics.OpenDB(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			a := analytics.New(db, slog.Default())
			defer a.Stop()

			counts, err := a.EventCounts(days)
			if err != nil {
				return err
			}
			players, err := a.DistinctPlayers(days)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(counts))
			for name := range counts {
				names = append(names, name)
			}
			sort.Strings(names)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "last %d days, %d distinct players\n", days, players)
			for _, name := range names {
				fmt.Fprintf(w, "%s\t%d\n", name, counts[name])
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "goom.db", "analytics SQLite path")
	cmd.Flags().IntVar(&days, "days", 7, "window in days")

	return cmd
}
