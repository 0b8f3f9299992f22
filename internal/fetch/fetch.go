// Package fetch retrieves raw pages for the scrape pipeline.
package fetch

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// Page is the raw result of fetching one URL.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Body       []byte
}

// Document parses the page body as HTML.
func (p Page) Document() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(p.Body))
	if err != nil {
		return nil, fmt.Errorf("parse html from %s: %w", p.URL, err)
	}
	return doc, nil
}

// Fetcher fetches a URL and returns the raw page. A failed fetch (transport
// error or non-success status) returns a *fetch.Error.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// Error describes a failed fetch.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
