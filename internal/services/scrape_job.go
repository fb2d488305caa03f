package services

import (
	"context"
	"errors"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/internship-scraper/internal/backup"
	"github.com/maxaizer/internship-scraper/internal/config"
	"github.com/maxaizer/internship-scraper/internal/entities"
	"github.com/maxaizer/internship-scraper/internal/events"
	"github.com/maxaizer/internship-scraper/internal/logger"
	"github.com/maxaizer/internship-scraper/internal/repositories"
	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type collector interface {
	Collect(ctx context.Context) *Collection
}

type internshipStore interface {
	Add(ctx context.Context, internship entities.Internship) (bool, error)
	ExportSnapshot(ctx context.Context, path string) (int, error)
	Stats(ctx context.Context) (entities.StoreStats, error)
}

var _ internshipStore = (*repositories.CachedInternships)(nil)

type ScrapeJobOptions struct {
	WebJSONPath   string
	BackupDir     string
	URLBase       string
	HoursLookback int
	PerPage       int
}

func ScrapeJobOptionsFrom(cfg *config.Config) ScrapeJobOptions {
	return ScrapeJobOptions{
		WebJSONPath:   cfg.Output.WebJSONPath,
		BackupDir:     cfg.Output.BackupDir,
		URLBase:       config.CanonicalURLBase,
		HoursLookback: cfg.Source.HoursLookback,
		PerPage:       cfg.Source.PerPage,
	}
}

// Summary describes one completed run.
type Summary struct {
	Found        int
	DroppedOld   int
	Undated      int
	Added        int
	Duplicates   int
	Skipped      int
	Failed       int
	Exported     int
	TotalInStore int64
	AddedToday   int64
	BackupPath   string
	PagesFetched int
	StopReason   StopReason
	Interrupted  bool
	Duration     time.Duration
}

type ScrapeJob struct {
	collector collector
	store     internshipStore
	bus       EventBus.Bus
	options   ScrapeJobOptions
	now       func() time.Time
}

func NewScrapeJob(collector collector, store internshipStore, bus EventBus.Bus, options ScrapeJobOptions) (*ScrapeJob, error) {

	if collector == nil {
		return nil, errors.New("collector is nil")
	}

	if store == nil {
		return nil, errors.New("store is nil")
	}

	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	return &ScrapeJob{collector: collector, store: store, bus: bus, options: options, now: time.Now}, nil
}

func (j *ScrapeJob) SetClock(now func() time.Time) {
	j.now = now
}

// Run collects fresh listings, stores the new ones and writes the feed snapshot and
// the raw backup. Item-level problems are counted; only artifact failures are returned.
func (j *ScrapeJob) Run(ctx context.Context) (*Summary, error) {
	started := j.now()
	log.Info("Starting internship scrape...")

	collection := j.collector.Collect(ctx)
	summary := &Summary{
		Found:        len(collection.Items),
		DroppedOld:   collection.DroppedOld,
		Undated:      collection.Undated,
		PagesFetched: collection.PagesFetched,
		StopReason:   collection.StopReason,
		Interrupted:  collection.Interrupted(),
	}
	log.Infof("Found %d recent internships", summary.Found)

	// collected items are persisted even if the run was canceled while paging
	storeCtx := context.WithoutCancel(ctx)

	for _, item := range collection.Items {
		j.ingest(storeCtx, item, summary)
	}

	exported, err := j.store.ExportSnapshot(storeCtx, j.options.WebJSONPath)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeExport).Errorf("can't export snapshot: %v", err)
		return summary, pkgerrors.Wrapf(err, "can't export snapshot to %s", j.options.WebJSONPath)
	}
	summary.Exported = exported
	log.Infof("Exported %d internships to %s", exported, j.options.WebJSONPath)

	backupPath, err := backup.Write(j.options.BackupDir, j.backupOf(collection, summary, started), started)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeExport).Errorf("can't write backup: %v", err)
		return summary, err
	}
	summary.BackupPath = backupPath

	stats, err := j.store.Stats(storeCtx)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).Errorf("can't read store stats: %v", err)
	}
	summary.TotalInStore, summary.AddedToday = stats.Total, stats.AddedToday

	finished := j.now()
	summary.Duration = finished.Sub(started)

	j.bus.Publish(events.ScrapeCompletedTopic, events.ScrapeCompleted{
		Found:        summary.Found,
		DroppedOld:   summary.DroppedOld,
		Added:        summary.Added,
		Duplicates:   summary.Duplicates,
		Skipped:      summary.Skipped,
		Failed:       summary.Failed,
		PagesFetched: summary.PagesFetched,
		StopReason:   string(summary.StopReason),
		Interrupted:  summary.Interrupted,
		TotalInStore: summary.TotalInStore,
		Duration:     summary.Duration,
		FinishedAt:   finished,
	})

	logSummary(summary)
	return summary, nil
}

func (j *ScrapeJob) ingest(ctx context.Context, item entities.RawItem, summary *Summary) {
	internship, err := entities.NewInternship(item, j.options.URLBase)
	if err != nil {
		log.Debugf("skipping item: %v", err)
		summary.Skipped++
		return
	}

	added, err := j.store.Add(ctx, internship)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeDb).
			Errorf("can't store internship %s: %v", internship.ExternalID, err)
		summary.Failed++
		return
	}

	if !added {
		summary.Duplicates++
		return
	}

	summary.Added++
	log.Infof("Added: %s at %s", internship.Title, internship.CompanyName)
	j.bus.Publish(events.InternshipAddedTopic, events.InternshipAdded{
		ExternalID: internship.ExternalID,
		Title:      internship.Title,
		Company:    internship.CompanyName,
		Type:       internship.Type,
	})
}

func (j *ScrapeJob) backupOf(collection *Collection, summary *Summary, date time.Time) backup.Backup {
	return backup.Backup{
		ScrapeDate:     date,
		HoursLookback:  j.options.HoursLookback,
		PerPage:        j.options.PerPage,
		TotalItems:     summary.Found,
		OldItems:       summary.DroppedOld,
		UndatedItems:   summary.Undated,
		NewItems:       summary.Added,
		DuplicateItems: summary.Duplicates,
		SkippedItems:   summary.Skipped,
		FailedItems:    summary.Failed,
		PagesFetched:   summary.PagesFetched,
		StopReason:     string(summary.StopReason),
		Interrupted:    summary.Interrupted,
		Items:          collection.Items,
	}
}

func logSummary(summary *Summary) {
	entry := log.WithFields(log.Fields{
		"found":          summary.Found,
		"dropped_old":    summary.DroppedOld,
		"undated":        summary.Undated,
		"added":          summary.Added,
		"duplicates":     summary.Duplicates,
		"skipped":        summary.Skipped,
		"failed":         summary.Failed,
		"total_in_store": summary.TotalInStore,
		"added_today":    summary.AddedToday,
		"exported":       summary.Exported,
		"backup":         summary.BackupPath,
		"pages":          summary.PagesFetched,
		"stop_reason":    summary.StopReason,
		"duration":       summary.Duration.Round(time.Millisecond).String(),
	})

	if summary.Interrupted {
		entry.Warn("Scrape finished early after a fetch failure")
		return
	}
	entry.Info("Scrape complete")
}
