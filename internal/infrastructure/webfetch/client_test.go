package webfetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchDocumentSendsBrowserHeaders(t *testing.T) {
	var gotUA, gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotLang = r.Header.Get("Accept-Language")
		_, _ = w.Write([]byte(`<html><head><title>页面</title></head><body>内容</body></html>`))
	}))
	defer server.Close()

	client := New(5*time.Second, zerolog.Nop())

	doc, err := client.FetchDocument(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "页面", doc.Title)
	assert.Equal(t, "内容", doc.Text)
	assert.Contains(t, gotUA, "Chrome/120.0")
	assert.Contains(t, gotLang, "zh-CN")
}

func TestFetchDocumentHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := New(5*time.Second, zerolog.Nop())

	_, err := client.FetchDocument(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestEngineResultsFallsThroughChain(t *testing.T) {
	ddg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ddg.Close()

	var bingQuery string
	bing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bingQuery = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(bingFixture))
	}))
	defer bing.Close()

	cn := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(bingFixture))
	}))
	defer cn.Close()

	client := New(5*time.Second, zerolog.Nop())
	client.ddgURL = ddg.URL
	client.bingURL = bing.URL
	client.bingCNURL = cn.URL

	hits := client.EngineResults(context.Background(), "曼联 利物浦", 10)

	assert.Equal(t, "曼联 利物浦", bingQuery)
	// bing and cn.bing both contribute; dedup happens in the domain layer
	require.Len(t, hits, 4)
	assert.Equal(t, "伤停 报告", hits[0].Title)
}

func TestEngineResultsStopsWhenFirstEngineFillsLimit(t *testing.T) {
	ddg := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(duckDuckGoFixture))
	}))
	defer ddg.Close()

	bingCalls := 0
	bing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		bingCalls++
		_, _ = w.Write([]byte(bingFixture))
	}))
	defer bing.Close()

	client := New(5*time.Second, zerolog.Nop())
	client.ddgURL = ddg.URL
	client.bingURL = bing.URL
	client.bingCNURL = bing.URL

	hits := client.EngineResults(context.Background(), "q", 3)

	assert.Len(t, hits, 3)
	assert.Zero(t, bingCalls)
}
