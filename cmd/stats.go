package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newStatsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how many internships are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbContext, internships, err := a.openStore()
			if err != nil {
				return errors.Wrap(err, "can't open store")
			}
			defer dbContext.Close()

			stats, err := internships.Stats(cmd.Context())
			if err != nil {
				return errors.Wrap(err, "can't read store stats")
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendRow(table.Row{"Total", stats.Total})
			t.AppendRow(table.Row{"Added today", stats.AddedToday})
			t.Render()
			return nil
		},
	}
}
