package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finwatch/ipo-alert/internal/domain"
	"github.com/finwatch/ipo-alert/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init("error", false); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeFetcher struct {
	listings []domain.Listing
	err      error
	gotDay   string
}

func (f *fakeFetcher) FetchDay(ctx context.Context, day string) ([]domain.Listing, error) {
	f.gotDay = day
	return f.listings, f.err
}

type fakeNotifier struct {
	subject string
	body    string
	err     error
	sends   int
}

func (n *fakeNotifier) Send(ctx context.Context, subject, htmlBody string) error {
	n.sends++
	n.subject = subject
	n.body = htmlBody
	return n.err
}

func newTestMonitor(f *fakeFetcher, n *fakeNotifier) *Monitor {
	ny, _ := time.LoadLocation("America/New_York")
	dubai, _ := time.LoadLocation("Asia/Dubai")

	m := NewMonitor(f, n, decimal.NewFromInt(200000000), ny, dubai)
	// Fixed instant: 2024-05-01 in New York.
	m.now = func() time.Time {
		return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	}
	return m
}

func TestRunHappyPath(t *testing.T) {
	fetcher := &fakeFetcher{listings: []domain.Listing{
		{"symbol": "ABC", "date": "2024-05-01", "price": float64(20), "numberOfShares": float64(15000000)},
		{"symbol": "XYZ", "date": "2024-04-30", "price": float64(50), "numberOfShares": float64(10000000)},
	}}
	notifier := &fakeNotifier{}

	if err := newTestMonitor(fetcher, notifier).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if fetcher.gotDay != "2024-05-01" {
		t.Errorf("fetched day: got %q, want 2024-05-01", fetcher.gotDay)
	}
	if notifier.sends != 1 {
		t.Fatalf("sends: got %d, want exactly 1", notifier.sends)
	}
	if !strings.Contains(notifier.body, "ABC") {
		t.Error("report missing the qualifying listing")
	}
	if strings.Contains(notifier.body, "XYZ") {
		t.Error("report contains a wrong-date listing")
	}
	if !strings.HasPrefix(notifier.subject, "US IPOs Today") {
		t.Errorf("subject: got %q", notifier.subject)
	}
}

func TestRunZeroMatchesIsSuccess(t *testing.T) {
	fetcher := &fakeFetcher{listings: nil}
	notifier := &fakeNotifier{}

	if err := newTestMonitor(fetcher, notifier).Run(context.Background()); err != nil {
		t.Fatalf("Run with zero listings must succeed, got: %v", err)
	}
	if notifier.sends != 1 {
		t.Fatalf("sends: got %d, want 1", notifier.sends)
	}
	if !strings.Contains(notifier.body, "No IPOs found") {
		t.Error("report missing the explicit no-matches statement")
	}
}

func TestRunFetchFailureStillNotifies(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("finnhub HTTP 503: down")}
	notifier := &fakeNotifier{}

	if err := newTestMonitor(fetcher, notifier).Run(context.Background()); err != nil {
		t.Fatalf("Run must not fail on fetch error, got: %v", err)
	}

	if notifier.sends != 1 {
		t.Fatalf("sends: got %d, want 1", notifier.sends)
	}
	if !strings.Contains(notifier.body, "Errors (brief)") {
		t.Error("report missing the error section")
	}
	if !strings.Contains(notifier.body, "finnhub HTTP 503") {
		t.Error("report missing the fetch error detail")
	}
	if !strings.Contains(notifier.body, "IPO records returned by API:</b> 0") {
		t.Error("report does not show zero fetched records")
	}
}

func TestRunSendFailurePropagates(t *testing.T) {
	fetcher := &fakeFetcher{}
	notifier := &fakeNotifier{err: errors.New("smtp auth rejected")}

	err := newTestMonitor(fetcher, notifier).Run(context.Background())
	if err == nil {
		t.Fatal("Run must propagate a delivery failure")
	}
	if !strings.Contains(err.Error(), "smtp auth rejected") {
		t.Errorf("error: got %q", err.Error())
	}
}

func TestRunReportsMissingDataTally(t *testing.T) {
	fetcher := &fakeFetcher{listings: []domain.Listing{
		{"symbol": "M1", "date": "2024-05-01"},
		{"symbol": "M2", "date": "2024-05-01", "price": float64(10)},
	}}
	notifier := &fakeNotifier{}

	if err := newTestMonitor(fetcher, notifier).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(notifier.body, "2 record(s) excluded") {
		t.Error("report missing the missing-data tally")
	}
}
