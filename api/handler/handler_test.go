package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/use-agent/etfflow/extract"
	"github.com/use-agent/etfflow/models"
	"github.com/use-agent/etfflow/output"
)

type stubRunner struct {
	result   *extract.Result
	attempts int
	err      error
}

func (s *stubRunner) RunWithRetry(context.Context) (*extract.Result, int, error) {
	return s.result, s.attempts, s.err
}

func testRouter(fn gin.HandlerFunc, path string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET(path, fn)
	return r
}

func doGet(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRoot(t *testing.T) {
	w := doGet(t, testRouter(Root(), "/"), "/")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.RoutesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Bitcoin ETF Flow Scraper API", resp.Message)
	assert.Contains(t, resp.Endpoints, "/scrape")
	assert.Contains(t, resp.Endpoints, "/health")
}

func TestHealth(t *testing.T) {
	w := doGet(t, testRouter(Health(time.Now().Add(-90*time.Second)), "/health"), "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, models.ServiceName, resp.Service)
	assert.Equal(t, models.Version, resp.Version)
	assert.NotEmpty(t, resp.Uptime)
}

func TestScrape_Success(t *testing.T) {
	runner := &stubRunner{
		result: &extract.Result{
			Columns: extract.Schema{"Date", "IBIT", "FBTC"},
			Records: []extract.Record{
				{"Date": "2024-01-11", "IBIT": "100.5", "FBTC": "-20.3"},
			},
		},
		attempts: 1,
	}
	writer := output.NewWriter(t.TempDir())

	w := doGet(t, testRouter(Scrape(runner, writer), "/scrape"), "/scrape")
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.ScrapeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 1, resp.TotalRecords)
	assert.Equal(t, []string{"Date", "IBIT", "FBTC"}, resp.Columns)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "100.5", resp.Data[0]["IBIT"])
	assert.NotEmpty(t, resp.LastUpdated)
	require.NotNil(t, resp.Timing)
	assert.Equal(t, 1, resp.Timing.Attempts)

	// Success path also persists the artifacts.
	for _, name := range []string{"bitcoin_etf_flows.json", "bitcoin_etf_flows.csv"} {
		assert.FileExists(t, writer.Dir+"/"+name)
	}
}

func TestScrape_Failure(t *testing.T) {
	runner := &stubRunner{
		attempts: 3,
		err: &models.ScrapeError{
			Code:       models.ErrCodeForbidden,
			Message:    "upstream answered 403 Forbidden",
			Suggestion: "the upstream likely blocks automated clients",
		},
	}

	w := doGet(t, testRouter(Scrape(runner, nil), "/scrape"), "/scrape")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp models.ScrapeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Message, "403")
	assert.NotEmpty(t, resp.Suggestion)
	assert.Empty(t, resp.Data)
	require.NotNil(t, resp.Timing)
	assert.Equal(t, 3, resp.Timing.Attempts)
}

func TestScrape_ArtifactWriteFailureDoesNotFailRequest(t *testing.T) {
	runner := &stubRunner{
		result: &extract.Result{
			Columns: extract.Schema{"Date"},
			Records: []extract.Record{{"Date": "2024-01-11"}},
		},
		attempts: 1,
	}
	// A file where the directory should be makes every write fail.
	writer := output.NewWriter("/dev/null/out")

	w := doGet(t, testRouter(Scrape(runner, writer), "/scrape"), "/scrape")
	assert.Equal(t, http.StatusOK, w.Code)
}
