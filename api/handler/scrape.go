package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/etfflow/extract"
	"github.com/use-agent/etfflow/models"
	"github.com/use-agent/etfflow/output"
)

// Runner drives one scrape to completion. Satisfied by *scraper.Scraper;
// tests substitute a stub.
type Runner interface {
	RunWithRetry(ctx context.Context) (*extract.Result, int, error)
}

// Scrape returns a handler for GET /scrape.
//
// The request blocks for the whole fetch-extract-retry sequence; worst
// case is timeout × attempts plus the backoff sleeps. On success the
// JSON and CSV artifacts are also written to disk — a write failure is
// logged but does not fail the response, since the scraped data is
// already in hand.
func Scrape(runner Runner, writer *output.Writer) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		result, attempts, err := runner.RunWithRetry(c.Request.Context())
		if err != nil {
			respondError(c, err, attempts, start)
			return
		}

		if writer != nil {
			if jsonPath, csvPath, werr := writer.WriteAll(result); werr != nil {
				slog.Error("failed to write artifacts", "error", werr)
			} else {
				slog.Info("artifacts written", "json", jsonPath, "csv", csvPath)
			}
		}

		c.JSON(http.StatusOK, models.ScrapeResponse{
			Status:       "success",
			Message:      "Bitcoin ETF data scraped successfully",
			TotalRecords: len(result.Records),
			Columns:      result.Columns,
			Data:         recordMaps(result.Records),
			LastUpdated:  time.Now().UTC().Format(time.RFC3339),
			Timing: &models.TimingInfo{
				TotalMs:  time.Since(start).Milliseconds(),
				Attempts: attempts,
			},
		})
	}
}

// respondError writes the uniform 500 failure response. All failure kinds
// collapse to the same status; the coded message and optional suggestion
// are the only differentiation surfaced to callers.
func respondError(c *gin.Context, err error, attempts int, start time.Time) {
	se := models.AsScrapeError(err)

	c.JSON(http.StatusInternalServerError, models.ScrapeResponse{
		Status:     "error",
		Message:    "Failed to scrape Bitcoin ETF data: " + se.Message,
		Suggestion: se.Suggestion,
		Timing: &models.TimingInfo{
			TotalMs:  time.Since(start).Milliseconds(),
			Attempts: attempts,
		},
	})
}

func recordMaps(records []extract.Record) []map[string]string {
	out := make([]map[string]string, len(records))
	for i, r := range records {
		out[i] = r
	}
	return out
}
