// etfflow-export performs a one-shot scrape and writes the JSON and CSV
// artifacts to the configured output directory. Unlike the service, it
// makes a single attempt with no retry and exits non-zero on failure.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/use-agent/etfflow/config"
	"github.com/use-agent/etfflow/output"
	"github.com/use-agent/etfflow/scraper"
)

func main() {
	cfg := config.Load()
	initLogger(cfg.Log)

	slog.Info("starting one-shot export", "upstream", cfg.Scraper.URL, "output_dir", cfg.Output.Dir)

	sc := scraper.New(cfg.Scraper)
	result, err := sc.Run(context.Background())
	if err != nil {
		slog.Error("scrape failed", "error", err)
		os.Exit(1)
	}

	// Sample of the extracted data for quick eyeballing.
	for i, rec := range result.Records {
		if i == 3 {
			break
		}
		slog.Info("sample record", "row", i+1, "date", rec["Date"], "total", rec["Total"])
	}

	w := output.NewWriter(cfg.Output.Dir)
	jsonPath, csvPath, err := w.WriteAll(result)
	if err != nil {
		slog.Error("failed to write artifacts", "error", err)
		os.Exit(1)
	}

	slog.Info("export complete",
		"records", len(result.Records),
		"json", jsonPath,
		"csv", csvPath,
	)
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
