package search

import "context"

// Hit is one search result surfaced to the caller.
type Hit struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Document is the extracted view of one fetched web page.
type Document struct {
	Title           string
	MetaDescription string
	Text            string
}

// FetchClient retrieves pages and engine result lists. EngineResults
// returns whatever the engine chain produced, possibly with duplicates;
// a failed chain yields an empty slice, never an error.
type FetchClient interface {
	FetchDocument(ctx context.Context, url string) (*Document, error)
	EngineResults(ctx context.Context, query string, limit int) []Hit
}
