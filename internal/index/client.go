// Package index consumes the upstream report listing endpoint and selects
// the reports for the current collection window.
package index

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sealane-research/roundup-cli/internal/model"
	"github.com/sealane-research/roundup-cli/internal/resilience"
	"github.com/sealane-research/roundup-cli/internal/scrape"
)

// ErrParse marks a malformed listing response. Unlike a failed detail-page
// fetch, this aborts the whole update cycle.
var ErrParse = eris.New("index: malformed listing response")

// Options configures the listing client.
type Options struct {
	BaseURL      string
	ListingPath  string
	ResourcePath string
	MaxPages     int
	Delay        time.Duration
	Timeout      time.Duration
	UserAgent    string
}

// Client pages through the article-filter listing endpoint.
type Client struct {
	http    *resty.Client
	opts    Options
	limiter *rate.Limiter
}

// listingResponse is the wire shape of one listing page.
type listingResponse struct {
	HasMore  bool      `json:"hasMore"`
	Articles []article `json:"articles"`
}

type article struct {
	NewsTitle  string `json:"newsTitle"`
	Date       string `json:"date"`
	Category   string `json:"category"`
	CategoryID string `json:"categoryId"`
	Link       string `json:"link"`
}

// NewClient creates a listing client.
func NewClient(opts Options) *Client {
	if opts.MaxPages <= 0 {
		opts.MaxPages = 10
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json, text/plain, */*").
		SetHeader("X-Requested-With", "XMLHttpRequest")
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}

	return &Client{
		http:    client,
		opts:    opts,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Endpoint returns the absolute listing URL, for diagnostics.
func (c *Client) Endpoint() string {
	return c.opts.BaseURL + c.opts.ListingPath
}

// Descriptors fetches every listing page and returns the report descriptors
// in upstream order. A response that fails to decode is inspected for
// challenge markers first so callers can tell bot protection apart from a
// broken endpoint.
func (c *Client) Descriptors(ctx context.Context) ([]model.ReportDescriptor, error) {
	var out []model.ReportDescriptor

	start := 0
	for page := 0; page < c.opts.MaxPages; page++ {
		if c.opts.Delay > 0 {
			t := time.NewTimer(c.opts.Delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return nil, eris.Wrap(ctx.Err(), "index: fetch listing")
			case <-t.C:
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "index: rate limiter wait")
		}

		resp, err := resilience.DoVal(ctx, resilience.Config{}, "index listing", func(ctx context.Context) (*resty.Response, error) {
			resp, err := c.http.R().
				SetContext(ctx).
				SetQueryParams(map[string]string{
					"resource":     c.opts.ResourcePath,
					"start":        strconv.Itoa(start),
					"selectedYear": "0",
					"loadedCount":  strconv.Itoa(start),
				}).
				Get(c.opts.ListingPath)
			if err != nil {
				return nil, eris.Wrap(err, "index: fetch listing")
			}
			if code := resp.StatusCode(); code >= 400 {
				statusErr := eris.Errorf("index: listing status %d", code)
				if resilience.RetryableStatus(code) {
					return nil, resilience.Transient(statusErr, code)
				}
				return nil, statusErr
			}
			return resp, nil
		})
		if err != nil {
			return nil, err
		}

		var listing listingResponse
		if err := json.Unmarshal(resp.Body(), &listing); err != nil {
			if scrape.DetectChallenge("", string(resp.Body())) {
				return nil, eris.Wrap(scrape.ErrChallenge, "index: listing")
			}
			return nil, eris.Wrap(ErrParse, err.Error())
		}

		for _, a := range listing.Articles {
			out = append(out, model.ReportDescriptor{
				Title:      a.NewsTitle,
				Date:       a.Date,
				Category:   a.Category,
				CategoryID: a.CategoryID,
				Link:       a.Link,
			})
		}

		if !listing.HasMore || len(listing.Articles) == 0 {
			break
		}
		start += len(listing.Articles)
	}

	zap.L().Debug("index: listing fetched", zap.Int("descriptors", len(out)))
	return out, nil
}
