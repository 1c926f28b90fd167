package scrape

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// contentSelectors are tried in order against the parsed document; the first
// selector with a non-trivial text yield wins.
var contentSelectors = []string{
	"main",
	"article",
	"div.content",
	"div.article-content",
	"div.news-detail",
}

// PlainFetcher fetches a page with a plain HTTP client and reduces it to
// readable text. It is the first strategy in the chain.
type PlainFetcher struct {
	client    *http.Client
	userAgent string
	delay     time.Duration
}

// NewPlainFetcher creates the plain HTTP strategy.
func NewPlainFetcher(timeout, delay time.Duration, userAgent string) *PlainFetcher {
	return &PlainFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		delay:     delay,
	}
}

// Name implements Fetcher.
func (f *PlainFetcher) Name() string { return "plain" }

// Fetch implements Fetcher. It returns ErrChallenge when the response is a
// protection interstitial so the chain can escalate.
func (f *PlainFetcher) Fetch(ctx context.Context, pageURL string) (*Result, error) {
	if err := sleep(ctx, f.delay); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: build request")
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: fetch page")
	}
	defer resp.Body.Close()

	if DetectBlock(resp) {
		return nil, eris.Wrap(ErrChallenge, "scrape: blocked response")
	}
	if resp.StatusCode >= 400 {
		return nil, eris.Errorf("scrape: status %d for %s", resp.StatusCode, pageURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, eris.Wrap(err, "scrape: read body")
	}
	body, err = DecodeBody(resp.Header.Get("Content-Type"), body)
	if err != nil {
		return nil, err
	}

	page, err := ReducePage(pageURL, body)
	if err != nil {
		return nil, err
	}
	if DetectChallenge(page.Title, page.Text) {
		return nil, eris.Wrap(ErrChallenge, "scrape: plain fetch")
	}
	return &Result{Page: *page, Source: f.Name()}, nil
}

// ReducePage turns raw HTML into a Page: the content region selected via
// goquery, falling back to a readability pass over the whole document when
// no selector yields enough text.
func ReducePage(pageURL string, html []byte) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(html)))
	if err != nil {
		return nil, eris.Wrap(err, "scrape: parse html")
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	doc.Find("script, style, nav, header, footer").Remove()

	for _, sel := range contentSelectors {
		text := strings.TrimSpace(doc.Find(sel).First().Text())
		if len(text) >= 200 {
			return &Page{URL: pageURL, Title: title, Text: text}, nil
		}
	}

	// No content region matched; let readability score the whole document.
	parsed, _ := url.Parse(pageURL)
	article, err := readability.FromReader(strings.NewReader(string(html)), parsed)
	if err == nil && strings.TrimSpace(article.TextContent) != "" {
		if title == "" {
			title = article.Title
		}
		return &Page{URL: pageURL, Title: title, Text: strings.TrimSpace(article.TextContent)}, nil
	}

	zap.L().Debug("scrape: readability yielded nothing, using body text",
		zap.String("url", pageURL),
	)
	return &Page{URL: pageURL, Title: title, Text: strings.TrimSpace(doc.Find("body").Text())}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return eris.Wrap(ctx.Err(), "scrape: wait")
	case <-t.C:
		return nil
	}
}
