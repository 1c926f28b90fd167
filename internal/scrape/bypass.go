package scrape

import (
	"context"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
)

// BypassFetcher fetches through a transport that mimics browser TLS and
// header ordering, for pages that serve a challenge to plain clients. It is
// the escalation strategy in the chain.
type BypassFetcher struct {
	client *resty.Client
	delay  time.Duration
}

// NewBypassFetcher creates the challenge-bypass strategy.
func NewBypassFetcher(timeout, delay time.Duration, userAgent string) *BypassFetcher {
	client := resty.New().SetTimeout(timeout)
	client.SetTransport(cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport))
	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}
	return &BypassFetcher{client: client, delay: delay}
}

// Name implements Fetcher.
func (f *BypassFetcher) Name() string { return "bypass" }

// Fetch implements Fetcher.
func (f *BypassFetcher) Fetch(ctx context.Context, pageURL string) (*Result, error) {
	if err := sleep(ctx, f.delay); err != nil {
		return nil, err
	}

	resp, err := f.client.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		return nil, eris.Wrap(err, "scrape: bypass fetch")
	}
	if resp.StatusCode() >= 400 {
		return nil, eris.Errorf("scrape: bypass status %d for %s", resp.StatusCode(), pageURL)
	}

	body, err := DecodeBody(resp.Header().Get("Content-Type"), resp.Body())
	if err != nil {
		return nil, err
	}

	page, err := ReducePage(pageURL, body)
	if err != nil {
		return nil, err
	}
	if DetectChallenge(page.Title, page.Text) {
		return nil, eris.Wrap(ErrChallenge, "scrape: bypass fetch")
	}
	return &Result{Page: *page, Source: f.Name()}, nil
}
