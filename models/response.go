package models

// Service identity reported by health responses and logs.
const (
	ServiceName = "bitcoin-etf-scraper"
	Version     = "0.1.0"
)

// ScrapeResponse is the response for GET /scrape.
type ScrapeResponse struct {
	// Status is "success" or "error".
	Status string `json:"status"`

	// Message is a human-readable summary of the outcome.
	Message string `json:"message"`

	// TotalRecords is the number of extracted table rows.
	TotalRecords int `json:"total_records,omitempty"`

	// Columns is the column schema, in table order.
	Columns []string `json:"columns,omitempty"`

	// Data holds one column-name→cell-text mapping per table row,
	// in source row order. Values are verbatim text, never parsed.
	Data []map[string]string `json:"data,omitempty"`

	// LastUpdated is the RFC 3339 completion time of the scrape run.
	LastUpdated string `json:"last_updated,omitempty"`

	// Suggestion is a remediation hint, set on some error responses
	// (e.g. when the upstream answered 403).
	Suggestion string `json:"suggestion,omitempty"`

	// Timing provides duration breakdowns for the run.
	Timing *TimingInfo `json:"timing,omitempty"`
}

// TimingInfo breaks down the time spent in each phase of a scrape run.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds, across
	// all retry attempts including backoff sleeps.
	TotalMs int64 `json:"total_ms"`

	// Attempts is the number of fetch attempts performed.
	Attempts int `json:"attempts"`
}

// HealthResponse is the response for GET /health.
type HealthResponse struct {
	Status  string `json:"status"` // always "healthy" while the process serves
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
	Version string `json:"version"`
}

// RoutesResponse is the response for GET /.
type RoutesResponse struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}
