package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/maxaizer/internship-scraper/internal/logger"
	log "github.com/sirupsen/logrus"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := newRootCommand().ExecuteContext(ctx)
	if err != nil {
		log.Errorf("command failed: %v", err)
	}

	logger.Cleanup()
	if err != nil {
		stop()
		os.Exit(1)
	}
}
