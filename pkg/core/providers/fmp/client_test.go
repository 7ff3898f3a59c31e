package fmp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient("test-key", 5*time.Second)
	client.SetBaseURL(server.URL)
	return client
}

func TestAnalystEstimates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/analyst-estimates/MSFT") {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("apikey"); got != "test-key" {
			t.Errorf("apikey = %q", got)
		}
		w.Write([]byte(`[
			{"symbol": "MSFT", "year": 2026, "estimatedRevenueAvg": 295000000000.5},
			{"symbol": "MSFT", "year": 2027, "estimatedRevenueAvg": 330000000000.0}
		]`))
	})

	estimates, err := client.AnalystEstimates(context.Background(), "MSFT")
	if err != nil {
		t.Fatal(err)
	}
	if len(estimates) != 2 {
		t.Fatalf("got %d estimates, want 2", len(estimates))
	}
	if estimates[0].Year != 2026 || estimates[0].EstimatedRevenueAvg != 295000000000.5 {
		t.Errorf("unexpected first estimate: %+v", estimates[0])
	}
}

func TestAnalystEstimates_MalformedNumbers(t *testing.T) {
	// Numbers as strings still come through via the safety layer.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"year": "2026", "estimatedRevenueAvg": "295000000000"}]`))
	})
	estimates, err := client.AnalystEstimates(context.Background(), "MSFT")
	if err != nil {
		t.Fatal(err)
	}
	if estimates[0].Year != 2026 || estimates[0].EstimatedRevenueAvg != 295000000000 {
		t.Errorf("unexpected estimate: %+v", estimates[0])
	}
}

func TestAnalystEstimates_Errors(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	if _, err := client.AnalystEstimates(context.Background(), "MSFT"); err == nil {
		t.Error("non-200 status should surface as an error")
	}

	noKey := NewClient("", time.Second)
	if _, err := noKey.AnalystEstimates(context.Background(), "MSFT"); err == nil {
		t.Error("missing API key should surface as an error")
	}
}
