package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/maxaizer/internship-scraper/internal/feed"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newListCommand(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored internships, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dbContext, internships, err := a.openStore()
			if err != nil {
				return errors.Wrap(err, "can't open store")
			}
			defer dbContext.Close()

			items, err := internships.ListAll(cmd.Context(), limit)
			if err != nil {
				return errors.Wrap(err, "can't list internships")
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)
			t.AppendHeader(table.Row{"ID", "Title", "Company", "Location", "Deadline", "Scraped at"})
			for _, item := range items {
				t.AppendRow(table.Row{
					item.ExternalID,
					item.Title,
					item.CompanyName,
					item.Location,
					item.Deadline,
					feed.FormatTimestamp(item.ScrapedAt),
				})
			}
			t.AppendFooter(table.Row{"", "", "", "", "Total", len(items)})
			t.Render()
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of rows, 0 for all")
	return cmd
}
