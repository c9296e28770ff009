package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/finwatch/ipo-alert/internal/domain"
)

const defaultBaseURL = "https://finnhub.io/api/v1"

// Fetcher delivers the raw listing batch for a single calendar day.
// The monitor depends on this interface, not on the concrete client.
type Fetcher interface {
	FetchDay(ctx context.Context, day string) ([]domain.Listing, error)
}

// CalendarClient queries the Finnhub IPO calendar endpoint.
type CalendarClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewCalendarClient(baseURL, token string, timeout time.Duration) *CalendarClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &CalendarClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// FetchDay fetches the IPO calendar for an inclusive range degenerate to
// one day. Any transport, status or shape problem is a whole-batch error;
// per-record problems are left to the evaluator.
func (c *CalendarClient) FetchDay(ctx context.Context, day string) ([]domain.Listing, error) {
	u := fmt.Sprintf("%s/calendar/ipo?%s", c.baseURL, url.Values{
		"from":  {day},
		"to":    {day},
		"token": {c.token},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json,text/plain,*/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling finnhub: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("finnhub HTTP %d: %s", resp.StatusCode, excerpt(body))
	}

	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("finnhub non-JSON response: %s", excerpt(body))
	}

	raw, ok := payload["ipoCalendar"]
	if !ok || string(raw) == "null" {
		return nil, fmt.Errorf("finnhub response missing ipoCalendar: %s", excerpt(body))
	}

	var listings []domain.Listing
	if err := json.Unmarshal(raw, &listings); err != nil {
		return nil, fmt.Errorf("finnhub ipoCalendar is not a list: %s", excerpt(raw))
	}

	return listings, nil
}

func excerpt(b []byte) string {
	s := strings.NewReplacer("\n", " ", "\r", " ").Replace(string(b))
	if len(s) > 260 {
		return s[:260] + "..."
	}
	return s
}
