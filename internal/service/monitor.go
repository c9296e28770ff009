package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/finwatch/ipo-alert/internal/evaluator"
	"github.com/finwatch/ipo-alert/internal/fetch"
	"github.com/finwatch/ipo-alert/internal/notify"
	"github.com/finwatch/ipo-alert/internal/report"
	"github.com/finwatch/ipo-alert/pkg/logger"
	"github.com/finwatch/ipo-alert/pkg/metrics"
)

// Monitor runs one fetch-evaluate-notify cycle. It holds no state between
// runs; every invocation fetches fresh and discards the batch afterwards.
type Monitor struct {
	fetcher   fetch.Fetcher
	notifier  notify.Notifier
	threshold decimal.Decimal
	marketLoc *time.Location
	runLoc    *time.Location

	now func() time.Time
}

func NewMonitor(fetcher fetch.Fetcher, notifier notify.Notifier, threshold decimal.Decimal, marketLoc, runLoc *time.Location) *Monitor {
	return &Monitor{
		fetcher:   fetcher,
		notifier:  notifier,
		threshold: threshold,
		marketLoc: marketLoc,
		runLoc:    runLoc,
		now:       time.Now,
	}
}

// Run performs exactly one notification attempt. A data-source failure is
// downgraded to a zero-listing report with an error note; only a delivery
// failure comes back as the run's error.
func (m *Monitor) Run(ctx context.Context) error {
	timer := metrics.NewTimer()
	refDate := evaluator.ReferenceDate(m.now(), m.marketLoc)

	logger.Info("monitor run started", zap.String("market_date", refDate))

	var fetchErrors []string
	listings, err := m.fetcher.FetchDay(ctx, refDate)
	if err != nil {
		metrics.FetchFailures.Inc()
		fetchErrors = append(fetchErrors, err.Error())
		logger.Error("data source fetch failed", zap.Error(err))
		listings = nil
	}
	metrics.ListingsFetched.Add(float64(len(listings)))

	matches, diag := evaluator.EvaluateAll(listings, refDate, m.threshold)
	metrics.ListingsIncluded.Add(float64(diag.Included))
	metrics.ListingsMissingData.Add(float64(diag.MissingData))

	logger.Info("batch evaluated",
		zap.Int("total", diag.Total),
		zap.Int("included", diag.Included),
		zap.Int("wrong_date", diag.WrongDate),
		zap.Int("missing_data", diag.MissingData),
		zap.Int("below_threshold", diag.BelowThreshold))

	subject, body := report.Compose(report.Data{
		MarketDate:   refDate,
		RunTime:      m.now().In(m.runLoc).Format("2006-01-02 15:04:05 MST"),
		TotalRecords: diag.Total,
		Threshold:    m.threshold,
		Matches:      matches,
		Errors:       fetchErrors,
		MissingData:  diag.MissingData,
	})

	if err := m.notifier.Send(ctx, subject, body); err != nil {
		metrics.SendFailures.Inc()
		metrics.RecordRun("send_failed", timer.Elapsed())
		return fmt.Errorf("sending report: %w", err)
	}

	metrics.RecordRun("ok", timer.Elapsed())
	logger.Info("report sent", zap.String("subject", subject), zap.Int("matches", len(matches)))
	return nil
}
