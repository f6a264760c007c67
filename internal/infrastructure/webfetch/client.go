package webfetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"
	"resty.dev/v3"

	"matchpulse/analysis-api/internal/domain/search"
	"matchpulse/analysis-api/internal/infrastructure/httpclients"
	"matchpulse/analysis-api/internal/infrastructure/metrics"
)

const (
	defaultFetchTimeout = 20 * time.Second

	// Browser-like headers; engine result pages reject obvious bots.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
	acceptLanguage   = "zh-CN,zh;q=0.9,en;q=0.8"

	duckDuckGoEndpoint = "https://html.duckduckgo.com/html/"
	bingEndpoint       = "https://www.bing.com/search"
	bingCNEndpoint     = "https://cn.bing.com/search"
)

// Client fetches pages and scrapes search engine result pages.
type Client struct {
	http   *resty.Client
	logger zerolog.Logger

	// engine endpoints are fields so tests can point them at a local server
	ddgURL    string
	bingURL   string
	bingCNURL string
}

var _ search.FetchClient = (*Client)(nil)

// New builds a fetch client with browser-like headers. A non-positive
// timeout falls back to 20s.
func New(timeout time.Duration, logger zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}

	httpClient := httpclients.NewClient("webfetch").
		SetTimeout(timeout).
		SetHeader("User-Agent", browserUserAgent).
		SetHeader("Accept-Language", acceptLanguage)

	return &Client{
		http:      httpClient,
		logger:    logger,
		ddgURL:    duckDuckGoEndpoint,
		bingURL:   bingEndpoint,
		bingCNURL: bingCNEndpoint,
	}
}

// FetchDocument retrieves one page and extracts its title, meta description
// and visible text.
func (c *Client) FetchDocument(ctx context.Context, url string) (*search.Document, error) {
	body, err := c.get(ctx, url, nil)
	metrics.RecordDocumentFetch("page", err)
	if err != nil {
		return nil, err
	}

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return ExtractDocument(doc), nil
}

// EngineResults walks the engine chain until limit hits accumulate.
// Individual engine failures are logged and skipped.
func (c *Client) EngineResults(ctx context.Context, query string, limit int) []search.Hit {
	hits := c.engineHits(ctx, "duckduckgo", c.ddgURL, query, parseDuckDuckGo)

	if len(hits) < limit {
		hits = append(hits, c.engineHits(ctx, "bing", c.bingURL, query, parseBing)...)
	}
	if len(hits) < limit {
		hits = append(hits, c.engineHits(ctx, "bing-cn", c.bingCNURL, query, parseBing)...)
	}
	return hits
}

func (c *Client) engineHits(ctx context.Context, source, endpoint, query string, parse func(*html.Node) []search.Hit) []search.Hit {
	body, err := c.get(ctx, endpoint, map[string]string{"q": query})
	metrics.RecordDocumentFetch(source, err)
	if err != nil {
		c.logger.Debug().Err(err).Str("engine", source).Msg("engine fetch failed")
		return nil
	}

	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		c.logger.Debug().Err(err).Str("engine", source).Msg("engine page unparsable")
		return nil
	}
	return parse(doc)
}

func (c *Client) get(ctx context.Context, url string, queryParams map[string]string) (string, error) {
	req := c.http.R().SetContext(ctx)
	if len(queryParams) > 0 {
		req.SetQueryParams(queryParams)
	}

	resp, err := req.Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode())
	}
	return resp.String(), nil
}
