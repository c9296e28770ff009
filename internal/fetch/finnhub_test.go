package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFetchDaySuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Path; got != "/calendar/ipo" {
			t.Errorf("path: got %q, want /calendar/ipo", got)
		}
		q := r.URL.Query()
		if q.Get("from") != "2024-05-01" || q.Get("to") != "2024-05-01" {
			t.Errorf("range: got from=%q to=%q", q.Get("from"), q.Get("to"))
		}
		if q.Get("token") != "test-token" {
			t.Errorf("token: got %q", q.Get("token"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ipoCalendar":[
			{"symbol":"ABC","date":"2024-05-01","price":20,"numberOfShares":15000000},
			{"symbol":"XYZ","date":"2024-04-30","totalSharesValue":"500,000,000"}
		]}`))
	}))
	defer server.Close()

	client := NewCalendarClient(server.URL, "test-token", 5*time.Second)
	listings, err := client.FetchDay(context.Background(), "2024-05-01")
	if err != nil {
		t.Fatalf("FetchDay: %v", err)
	}

	if len(listings) != 2 {
		t.Fatalf("listings: got %d, want 2", len(listings))
	}
	if listings[0].Symbol() != "ABC" {
		t.Errorf("first symbol: got %q, want ABC", listings[0].Symbol())
	}
	if listings[1].Date() != "2024-04-30" {
		t.Errorf("second date: got %q, want 2024-04-30", listings[1].Date())
	}
}

func TestFetchDayEmptyCalendar(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ipoCalendar":[]}`))
	}))
	defer server.Close()

	client := NewCalendarClient(server.URL, "t", 5*time.Second)
	listings, err := client.FetchDay(context.Background(), "2024-05-01")
	if err != nil {
		t.Fatalf("FetchDay: %v", err)
	}
	if len(listings) != 0 {
		t.Errorf("listings: got %d, want 0", len(listings))
	}
}

func TestFetchDayErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantSub string
	}{
		{"http error", http.StatusTooManyRequests, `{"error":"limit"}`, "HTTP 429"},
		{"non-JSON body", http.StatusOK, "<html>maintenance</html>", "non-JSON"},
		{"missing calendar key", http.StatusOK, `{"somethingElse":[]}`, "missing ipoCalendar"},
		{"null calendar", http.StatusOK, `{"ipoCalendar":null}`, "missing ipoCalendar"},
		{"calendar not a list", http.StatusOK, `{"ipoCalendar":{"a":1}}`, "not a list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewCalendarClient(server.URL, "t", 5*time.Second)
			_, err := client.FetchDay(context.Background(), "2024-05-01")
			if err == nil {
				t.Fatal("FetchDay: expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantSub)
			}
		})
	}
}

func TestFetchDayUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := NewCalendarClient(server.URL, "t", time.Second)
	if _, err := client.FetchDay(context.Background(), "2024-05-01"); err == nil {
		t.Fatal("FetchDay: expected transport error")
	}
}
