// Package scraper fetches the upstream ETF flow page and drives extraction,
// with a bounded jittered-backoff retry loop for the service path.
package scraper

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/use-agent/etfflow/config"
	"github.com/use-agent/etfflow/extract"
	"github.com/use-agent/etfflow/models"
)

// Scraper orchestrates fetch and extraction against the configured
// upstream URL. It holds no mutable state between runs and is safe for
// concurrent use.
type Scraper struct {
	cfg     config.ScraperConfig
	fetcher *fetcher
	schema  extract.Schema
	retrier *retrier
}

// New creates a Scraper for the configured upstream.
func New(cfg config.ScraperConfig) *Scraper {
	return &Scraper{
		cfg:     cfg,
		fetcher: newFetcher(cfg),
		schema:  extract.DefaultSchema(),
		retrier: newRetrier(cfg.Attempts, jitterBackoff(cfg.BackoffMin, cfg.BackoffMax)),
	}
}

// Run performs a single fetch+extract attempt with no retries.
// This is the batch-mode entry point.
func (s *Scraper) Run(ctx context.Context) (*extract.Result, error) {
	runID := uuid.NewString()
	log := slog.With("run_id", runID, "url", s.cfg.URL)
	log.Info("scrape attempt starting")

	body, err := s.fetcher.fetch(ctx, s.cfg.URL)
	if err != nil {
		log.Error("fetch failed", "error", err)
		return nil, err
	}
	log.Info("upstream page loaded", "bytes", len(body))

	result, err := extract.Table(body, s.schema)
	if err != nil {
		var se *models.ScrapeError
		if errors.As(err, &se) && se.Code == models.ErrCodeStructureNotFound {
			// A missing table usually means a layout change or an
			// anti-bot interstitial; the page shape tells them apart.
			d := extract.Diagnose(body)
			log.Error("expected table structure missing",
				"error", err,
				"page_title", d.Title,
				"visible_text_len", d.VisibleTextLen,
			)
		} else {
			log.Error("extraction failed", "error", err)
		}
		return nil, err
	}

	log.Info("extraction complete", "records", len(result.Records))
	return result, nil
}

// RunWithRetry performs up to the configured number of attempts with a
// uniformly random backoff sleep between failures, and reports the result
// together with the number of attempts made. Only the final attempt's
// error is returned; earlier failures are logged.
func (s *Scraper) RunWithRetry(ctx context.Context) (*extract.Result, int, error) {
	var result *extract.Result
	attempts, err := s.retrier.do(ctx, func(ctx context.Context) error {
		r, runErr := s.Run(ctx)
		if runErr != nil {
			return runErr
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, attempts, err
	}
	return result, attempts, nil
}
