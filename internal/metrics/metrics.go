package metrics

import (
	"github.com/asaskevich/EventBus"
	"github.com/maxaizer/internship-scraper/internal/config"
	"github.com/maxaizer/internship-scraper/internal/events"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	log "github.com/sirupsen/logrus"
)

// Registry holds every series of the scraper. It is pushed rather than scraped.
var Registry = prometheus.NewRegistry()

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "internship_scraper_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	AddedCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "internship_scraper_added_total",
			Help: "Total number of internships added to the store, by opportunity type.",
		},
		[]string{"type"},
	)
	ItemsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "internship_scraper_items_total",
			Help: "Total number of collected items, by ingestion outcome.",
		},
		[]string{"outcome"},
	)
	PagesCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "internship_scraper_pages_total",
			Help: "Total number of fetched upstream pages.",
		},
	)
	StoreSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "internship_scraper_store_size",
			Help: "Number of internships in the store after the last run.",
		},
	)
	LastSuccess = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "internship_scraper_last_success_timestamp_seconds",
			Help: "Unix time of the last run that was not interrupted.",
		},
	)
	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "internship_scraper_run_duration_seconds",
			Help:    "Duration of each scrape run in seconds.",
			Buckets: []float64{5, 15, 30, 60, 120, 300, 600},
		},
	)
)

const (
	OutcomeAdded     = "added"
	OutcomeDuplicate = "duplicate"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
	OutcomeOld       = "old"
)

func init() {
	Registry.MustRegister(ErrorsCounter, AddedCounter, ItemsCounter, PagesCounter,
		StoreSize, LastSuccess, RunDuration)
}

// Subscribe turns scrape events into series.
func Subscribe(bus EventBus.Bus) error {
	if err := bus.Subscribe(events.InternshipAddedTopic, onInternshipAdded); err != nil {
		return errors.Wrap(err, "can't subscribe to added internships")
	}
	if err := bus.Subscribe(events.ScrapeCompletedTopic, onScrapeCompleted); err != nil {
		return errors.Wrap(err, "can't subscribe to completed scrapes")
	}
	return nil
}

func onInternshipAdded(event events.InternshipAdded) {
	AddedCounter.WithLabelValues(event.Type).Inc()
}

func onScrapeCompleted(event events.ScrapeCompleted) {
	ItemsCounter.WithLabelValues(OutcomeAdded).Add(float64(event.Added))
	ItemsCounter.WithLabelValues(OutcomeDuplicate).Add(float64(event.Duplicates))
	ItemsCounter.WithLabelValues(OutcomeSkipped).Add(float64(event.Skipped))
	ItemsCounter.WithLabelValues(OutcomeFailed).Add(float64(event.Failed))
	ItemsCounter.WithLabelValues(OutcomeOld).Add(float64(event.DroppedOld))
	PagesCounter.Add(float64(event.PagesFetched))
	StoreSize.Set(float64(event.TotalInStore))
	RunDuration.Observe(event.Duration.Seconds())

	if !event.Interrupted {
		LastSuccess.Set(float64(event.FinishedAt.Unix()))
	}
}

// Push sends the registry to the Pushgateway. It does nothing when no gateway is configured.
func Push(cfg config.MetricsConfig) error {
	if cfg.PushgatewayURL == "" {
		log.Debug("pushgateway url is not set, metrics are not pushed")
		return nil
	}

	err := push.New(cfg.PushgatewayURL, cfg.JobName).Gatherer(Registry).Push()
	if err != nil {
		return errors.Wrap(err, "can't push metrics")
	}

	log.Infof("metrics pushed to %v", cfg.PushgatewayURL)
	return nil
}
