package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ipo_monitor_runs_total",
		Help: "Total number of monitor runs",
	}, []string{"status"})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ipo_monitor_run_duration_seconds",
		Help:    "Duration of a full fetch-evaluate-notify run",
		Buckets: prometheus.DefBuckets,
	})

	ListingsFetched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ipo_listings_fetched_total",
		Help: "Total number of listing records returned by the data source",
	})

	ListingsIncluded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ipo_listings_included_total",
		Help: "Total number of listings above the offer amount threshold",
	})

	ListingsMissingData = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ipo_listings_missing_data_total",
		Help: "Total number of listings excluded for uncomputable offer amount",
	})

	FetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ipo_fetch_failures_total",
		Help: "Total number of whole-batch data source failures",
	})

	SendFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ipo_send_failures_total",
		Help: "Total number of notification delivery failures",
	})
)

func RecordRun(status string, duration time.Duration) {
	RunsTotal.WithLabelValues(status).Inc()
	RunDuration.Observe(duration.Seconds())
}

type Timer struct {
	start time.Time
}

func NewTimer() *Timer {
	return &Timer{
		start: time.Now(),
	}
}

func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
