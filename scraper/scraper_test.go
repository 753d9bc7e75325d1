package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/use-agent/etfflow/config"
)

const flowTablePage = `<html><body><table class="etf">
	<tr><th>Date</th><th>IBIT</th><th>FBTC</th><th>BITB</th><th>ARKB</th><th>BTCO</th><th>EZBC</th><th>BRRR</th><th>HODL</th><th>BTCW</th><th>GBTC</th><th>BTC</th><th>Total</th></tr>
	<tr><td><span class="tabletext">11 Jan 2024</span></td><td>111.7</td><td>227.0</td><td>237.9</td><td>65.3</td><td>20.8</td><td>50.1</td><td>1.8</td><td>10.3</td><td>8.5</td><td>(95.1)</td><td>0.0</td><td>638.3</td></tr>
	<tr><td><span class="tabletext">12 Jan 2024</span></td><td>386.0</td><td>177.9</td><td>59.2</td><td>147.4</td><td>21.0</td><td>5.8</td><td>0.0</td><td>14.2</td><td>2.3</td><td>(484.1)</td><td>0.0</td><td>329.7</td></tr>
</table></body></html>`

func testConfig(url string) config.ScraperConfig {
	return config.ScraperConfig{
		URL:        url,
		Timeout:    5 * time.Second,
		Attempts:   3,
		BackoffMin: 5 * time.Second,
		BackoffMax: 10 * time.Second,
	}
}

func TestScraper_Run(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(flowTablePage))
	}))
	defer srv.Close()

	result, err := New(testConfig(srv.URL)).Run(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}

	first := result.Records[0]
	if first["Date"] != "11 Jan 2024" {
		t.Errorf("Date = %q, want span text", first["Date"])
	}
	if first["GBTC"] != "(95.1)" {
		t.Errorf("GBTC = %q, want verbatim parenthesised value", first["GBTC"])
	}
	if first["Total"] != "638.3" {
		t.Errorf("Total = %q, want %q", first["Total"], "638.3")
	}
}

func TestScraper_RunWithRetry_RecoversAfterFailure(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(flowTablePage))
	}))
	defer srv.Close()

	s := New(testConfig(srv.URL))
	s.retrier.sleep = func(context.Context, time.Duration) {}

	result, attempts, err := s.RunWithRetry(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
	if len(result.Records) != 2 {
		t.Errorf("expected 2 records, got %d", len(result.Records))
	}
}

func TestScraper_RunWithRetry_ExhaustsAttempts(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s := New(testConfig(srv.URL))
	s.retrier.sleep = func(context.Context, time.Duration) {}

	_, attempts, err := s.RunWithRetry(context.Background())
	if err == nil {
		t.Fatal("expected terminal failure")
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("upstream hit %d times, want 3", got)
	}
}
