package scrape

import "context"

// Page holds a fetched report page reduced to its readable text.
type Page struct {
	URL   string
	Title string
	Text  string
}

// Result holds a fetched page with the strategy that produced it.
type Result struct {
	Page   Page
	Source string // e.g. "plain", "bypass"
}

// Fetcher retrieves a single report URL and returns its content.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Result, error)
	Name() string
}
