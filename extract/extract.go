// Package extract pulls the ETF flow table out of fetched HTML and
// converts it into ordered records aligned to a fixed column schema.
package extract

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/etfflow/models"
)

// Compiled once; the upstream markup contract is a single table carrying
// the "etf" class, with styled cells wrapping their text in span.tabletext.
var (
	tableSel = cascadia.MustCompile("table.etf")
	rowSel   = cascadia.MustCompile("tr")
	cellSel  = cascadia.MustCompile("td")
	spanSel  = cascadia.MustCompile("span.tabletext")
)

// Schema is the ordered list of expected column names. A row is accepted
// only when it yields exactly len(Schema) values.
type Schema []string

// DefaultSchema returns the column layout of the upstream flow table:
// a date column, one column per tracked fund ticker, and a total.
func DefaultSchema() Schema {
	return Schema{
		"Date", "IBIT", "FBTC", "BITB", "ARKB", "BTCO",
		"EZBC", "BRRR", "HODL", "BTCW", "GBTC", "BTC", "Total",
	}
}

// Record is one extracted table row as a column-name→text mapping.
// Values are trimmed cell text exactly as it appears in markup; currency
// and percentage formatting is preserved verbatim.
type Record map[string]string

// Result is the outcome of a successful extraction. Records keep the
// source table's row order, which for this upstream is chronological.
type Result struct {
	Columns Schema
	Records []Record
}

// Table locates the flow table in body and extracts its data rows.
//
// The first row is always treated as a header and discarded. A data row is
// kept only when its cell count matches the schema exactly; mismatched rows
// are dropped and logged, never surfaced as errors. Returns a ScrapeError
// coded STRUCTURE_NOT_FOUND when the table or its rows are absent, and
// EMPTY_RESULT when the table exists but no row survives filtering.
func Table(body []byte, schema Schema) (*Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeStructureNotFound, "failed to parse HTML document", err)
	}

	table := doc.FindMatcher(tableSel)
	if table.Length() == 0 {
		return nil, models.NewScrapeError(models.ErrCodeStructureNotFound, "table with class 'etf' not found", nil)
	}

	rows := table.First().FindMatcher(rowSel)
	if rows.Length() <= 1 {
		return nil, models.NewScrapeError(models.ErrCodeStructureNotFound, "no data rows found in table", nil)
	}

	records := make([]Record, 0, rows.Length()-1)
	rows.Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			// Header row, dropped unconditionally.
			return
		}

		values := make([]string, 0, len(schema))
		row.FindMatcher(cellSel).Each(func(j int, cell *goquery.Selection) {
			if j >= len(schema) {
				// Trailing cells beyond the schema are ignored.
				return
			}
			values = append(values, cellText(cell))
		})

		if len(values) != len(schema) {
			slog.Warn("dropping malformed table row",
				"row", i,
				"cells", len(values),
				"expected", len(schema),
			)
			return
		}

		rec := make(Record, len(schema))
		for k, name := range schema {
			rec[name] = values[k]
		}
		records = append(records, rec)
	})

	if len(records) == 0 {
		return nil, models.NewScrapeError(models.ErrCodeEmptyResult, "table found but no well-formed data rows", nil)
	}

	return &Result{Columns: schema, Records: records}, nil
}

// cellText returns the trimmed text of the cell's span.tabletext child if
// one exists, otherwise the cell's own trimmed text. Styled and unstyled
// cells differ only in that wrapper.
func cellText(cell *goquery.Selection) string {
	if span := cell.FindMatcher(spanSel); span.Length() > 0 {
		return strings.TrimSpace(span.First().Text())
	}
	return strings.TrimSpace(cell.Text())
}
