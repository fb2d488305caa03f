package services

import (
	"context"
	"errors"
	"time"

	"github.com/maxaizer/internship-scraper/internal/clients/source"
	"github.com/maxaizer/internship-scraper/internal/config"
	"github.com/maxaizer/internship-scraper/internal/entities"
	"github.com/maxaizer/internship-scraper/internal/logger"
	log "github.com/sirupsen/logrus"
)

type pageFetcher interface {
	FetchPage(ctx context.Context, page int) ([]entities.RawItem, error)
}

type StopReason string

const (
	StopEmptyPage  StopReason = "empty_page"
	StopOldItems   StopReason = "old_items"
	StopMaxPages   StopReason = "max_pages"
	StopFetchError StopReason = "fetch_error"
	StopCanceled   StopReason = "canceled"
)

type IngestOptions struct {
	Lookback          time.Duration
	RequestDelay      time.Duration
	MaxPages          int
	MaxConsecutiveOld int
	FetchRetries      int
	FetchRetryDelay   time.Duration
}

func IngestOptionsFrom(cfg config.SourceConfig) IngestOptions {
	return IngestOptions{
		Lookback:          cfg.Lookback(),
		RequestDelay:      cfg.RequestDelay(),
		MaxPages:          config.MaxPages,
		MaxConsecutiveOld: config.MaxConsecutiveOld,
		FetchRetries:      cfg.FetchRetries,
		FetchRetryDelay:   cfg.FetchRetryDelay,
	}
}

// Collection is the outcome of one pass over the upstream pages.
type Collection struct {
	Items        []entities.RawItem
	PagesFetched int
	DroppedOld   int
	Undated      int
	StopReason   StopReason
	// Err is set when the pass ended on a fetch failure rather than on the data.
	Err error
}

func (c *Collection) Interrupted() bool {
	return c.Err != nil
}

type Ingestor struct {
	fetcher pageFetcher
	options IngestOptions
	now     func() time.Time
}

func NewIngestor(fetcher pageFetcher, options IngestOptions) *Ingestor {
	return &Ingestor{
		fetcher: fetcher,
		options: options,
		now:     time.Now,
	}
}

func (i *Ingestor) SetClock(now func() time.Time) {
	i.now = now
}

// Collect pages through the upstream, keeping items newer than the lookback window.
// It stops on an empty page, after more than MaxConsecutiveOld old items in a row,
// after MaxPages pages, or when a page cannot be fetched.
func (i *Ingestor) Collect(ctx context.Context) *Collection {

	cutoff := i.now().Add(-i.options.Lookback)
	collection := &Collection{Items: []entities.RawItem{}}
	consecutiveOld := 0

	log.Infof("collecting items published after %v", cutoff.UTC().Format(time.RFC3339))

	for page := 1; ; page++ {

		// the pause between pages starts once the previous fetch has finished
		if page > 1 {
			if err := wait(ctx, i.options.RequestDelay); err != nil {
				collection.StopReason, collection.Err = StopCanceled, err
				return collection
			}
		} else if err := ctx.Err(); err != nil {
			collection.StopReason, collection.Err = StopCanceled, err
			return collection
		}

		items, err := i.fetchWithRetry(ctx, page)
		if err != nil {
			collection.StopReason, collection.Err = StopFetchError, err
			if errors.Is(err, context.Canceled) {
				collection.StopReason = StopCanceled
			}
			i.logFetchError(page, err)
			return collection
		}
		collection.PagesFetched++

		if len(items) == 0 {
			log.Infof("page %d is empty, stopping", page)
			collection.StopReason = StopEmptyPage
			return collection
		}

		for _, item := range items {
			published, ok := item.PublishedAt()
			if !ok {
				collection.Undated++
				collection.Items = append(collection.Items, item)
				continue
			}

			if !published.After(cutoff) {
				consecutiveOld++
				collection.DroppedOld++
				continue
			}

			consecutiveOld = 0
			collection.Items = append(collection.Items, item)
		}

		log.Debugf("page %d: %d items, %d kept so far, %d old in a row", page, len(items),
			len(collection.Items), consecutiveOld)

		if consecutiveOld > i.options.MaxConsecutiveOld {
			log.Infof("reached old items limit on page %d, stopping", page)
			collection.StopReason = StopOldItems
			return collection
		}

		if page >= i.options.MaxPages {
			log.Infof("reached max pages limit (%d), stopping", i.options.MaxPages)
			collection.StopReason = StopMaxPages
			return collection
		}
	}
}

func (i *Ingestor) fetchWithRetry(ctx context.Context, page int) ([]entities.RawItem, error) {
	items, err := i.fetcher.FetchPage(ctx, page)

	for attempt := 1; attempt <= i.options.FetchRetries && source.IsTransient(err); attempt++ {
		if waitErr := wait(ctx, i.options.FetchRetryDelay); waitErr != nil {
			return nil, waitErr
		}

		log.Warnf("retrying page %d (attempt %d) after: %v", page, attempt+1, err)
		items, err = i.fetcher.FetchPage(ctx, page)
	}

	return items, err
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (i *Ingestor) logFetchError(page int, err error) {
	switch {
	case errors.Is(err, source.ErrNotConfigured):
		log.Warn("API_BASE_URL not set; no items fetched")
	case errors.Is(err, context.Canceled):
		log.Warnf("collection canceled before page %d", page)
	default:
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeSourceApi).
			Errorf("failed to fetch page %d, stopping early: %v", page, err)
	}
}
