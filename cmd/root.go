package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/maxaizer/internship-scraper/internal/config"
	"github.com/maxaizer/internship-scraper/internal/logger"
	"github.com/maxaizer/internship-scraper/internal/repositories"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type app struct {
	configFile string
	cfg        *config.Config
}

func newRootCommand() *cobra.Command {
	a := &app{}

	scrape := newScrapeCommand(a)

	root := &cobra.Command{
		Use:           "scraper",
		Short:         "Collects recent internship listings into a local store and a JSON feed",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
		RunE: scrape.RunE,
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "",
		"config file (default is $CONFIG_PATH or ./configs/config.yaml)")

	root.AddCommand(scrape, newDigestCommand(a), newStatsCommand(a), newListCommand(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	// .env is optional, real environment variables take precedence
	_ = godotenv.Load()

	if a.configFile != "" {
		if err := os.Setenv("CONFIG_PATH", a.configFile); err != nil {
			return err
		}
	}

	a.cfg = config.Get()
	logger.Setup(cmd.Context(), a.cfg.Logger)
	return nil
}

func (a *app) openStore() (*repositories.DbContext, *repositories.Internships, error) {
	dbContext, err := repositories.NewDbContext(a.cfg.DB.Path)
	if err != nil {
		return nil, nil, err
	}

	if err = dbContext.Migrate(); err != nil {
		_ = dbContext.Close()
		return nil, nil, err
	}

	log.Debugf("opened store %s", a.cfg.DB.Path)
	return dbContext, repositories.NewInternshipsRepository(dbContext.DB), nil
}
