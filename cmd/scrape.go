package main

import (
	"fmt"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/internship-scraper/internal/clients/source"
	"github.com/maxaizer/internship-scraper/internal/metrics"
	"github.com/maxaizer/internship-scraper/internal/repositories"
	"github.com/maxaizer/internship-scraper/internal/services"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newScrapeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scrape",
		Short: "Fetch recent listings, store new ones and write the feed and backup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScrape(cmd)
		},
	}
}

func (a *app) runScrape(cmd *cobra.Command) error {
	dbContext, internships, err := a.openStore()
	if err != nil {
		return errors.Wrap(err, "can't open store")
	}
	defer dbContext.Close()

	bus := EventBus.New()
	if err = metrics.Subscribe(bus); err != nil {
		return err
	}

	client := source.NewClient(a.cfg.Source)
	ingestor := services.NewIngestor(client, services.IngestOptionsFrom(a.cfg.Source))

	job, err := services.NewScrapeJob(ingestor, repositories.NewCachedInternships(internships), bus,
		services.ScrapeJobOptionsFrom(a.cfg))
	if err != nil {
		return err
	}

	summary, err := job.Run(cmd.Context())
	if pushErr := metrics.Push(a.cfg.Metrics); pushErr != nil {
		log.Warnf("%v", pushErr)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Found %d, added %d, duplicates %d, skipped %d, failed %d. Total in store: %d\n",
		summary.Found, summary.Added, summary.Duplicates, summary.Skipped, summary.Failed, summary.TotalInStore)
	return nil
}
