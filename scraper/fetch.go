package scraper

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"

	tls2 "github.com/refraction-networking/utls"
	"github.com/use-agent/etfflow/config"
	"github.com/use-agent/etfflow/models"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// fetcher performs single HTTP GET round trips with a Chrome TLS
// fingerprint (utls) and a browser-like header set. It never retries;
// retrying is the caller's responsibility.
type fetcher struct {
	client *http.Client
	cfg    config.ScraperConfig
}

// newFetcher builds the fetcher's HTTP client once. The upstream serves
// anti-automation blocks to clients with non-browser TLS fingerprints,
// hence the utls dialer.
func newFetcher(cfg config.ScraperConfig) *fetcher {
	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			return dialTLSChrome(ctx, network, addr)
		},
	}
	if cfg.Proxy != "" {
		if proxyURL, err := url.Parse(cfg.Proxy); err == nil && (proxyURL.Scheme == "http" || proxyURL.Scheme == "https") {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	return &fetcher{
		client: &http.Client{Transport: transport},
		cfg:    cfg,
	}
}

// fetch performs exactly one network round trip and returns the whole
// response body, buffered. Failures come back as *models.ScrapeError:
// TRANSPORT_ERROR before a status was received, UPSTREAM_FORBIDDEN for
// 403, HTTP_STATUS for any other non-2xx.
func (f *fetcher) fetch(ctx context.Context, targetURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeInternal, "failed to build request", err)
	}
	req.Header.Set("User-Agent", chromeUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	// Accept-Encoding is left to the transport: setting it by hand
	// turns off net/http's automatic gzip decompression and the
	// extractor would see raw compressed bytes.
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeTransport, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden {
		return nil, &models.ScrapeError{
			Code:       models.ErrCodeForbidden,
			Message:    fmt.Sprintf("upstream answered 403 Forbidden for %s", targetURL),
			Suggestion: "the upstream likely blocks automated clients; retry later or route through a different egress",
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, models.NewScrapeError(
			models.ErrCodeHTTPStatus,
			fmt.Sprintf("upstream answered HTTP %d for %s", resp.StatusCode, targetURL),
			nil,
		)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024)) // 10 MB cap
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeTransport, "failed to read response body", err)
	}

	return body, nil
}

// dialTLSChrome establishes a TLS connection using a Chrome fingerprint via utls.
func dialTLSChrome(ctx context.Context, network, addr string) (net.Conn, error) {
	dialer := &net.Dialer{}
	rawConn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	host, _, _ := net.SplitHostPort(addr)
	tlsConn := tls2.UClient(rawConn, &tls2.Config{
		ServerName: host,
	}, tls2.HelloChrome_Auto)

	if err := tlsConn.HandshakeContext(ctx); err != nil {
		rawConn.Close()
		return nil, err
	}
	return tlsConn, nil
}
