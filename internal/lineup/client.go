package lineup

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sealane-research/roundup-cli/internal/resilience"
)

// ClientOptions configures the movement feed client.
type ClientOptions struct {
	BaseURL   string
	FeedPath  string
	Delay     time.Duration
	Timeout   time.Duration
	UserAgent string
}

// Client fetches the port authority's vessel movement feed.
type Client struct {
	http *resty.Client
	opts ClientOptions
}

// NewClient creates a feed client.
func NewClient(opts ClientOptions) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json, text/plain, */*")
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}

	return &Client{http: client, opts: opts}
}

// Endpoint returns the absolute feed URL, for diagnostics.
func (c *Client) Endpoint() string {
	return c.opts.BaseURL + c.opts.FeedPath
}

// Vessels fetches every current port call, dropping entries without a name
// and type.
func (c *Client) Vessels(ctx context.Context) ([]Vessel, error) {
	if c.opts.Delay > 0 {
		t := time.NewTimer(c.opts.Delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, eris.Wrap(ctx.Err(), "lineup: fetch feed")
		case <-t.C:
		}
	}

	resp, err := resilience.DoVal(ctx, resilience.Config{}, "lineup feed", func(ctx context.Context) (*resty.Response, error) {
		resp, err := c.http.R().SetContext(ctx).Get(c.opts.FeedPath)
		if err != nil {
			return nil, eris.Wrap(err, "lineup: fetch feed")
		}
		if code := resp.StatusCode(); code >= 400 {
			statusErr := eris.Errorf("lineup: feed status %d", code)
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

	var raw []Vessel
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, eris.Wrap(err, "lineup: decode feed")
	}

	vessels := make([]Vessel, 0, len(raw))
	for _, v := range raw {
		if v.Name == "" || v.Type == "" {
			continue
		}
		vessels = append(vessels, v)
	}

	zap.L().Info("lineup: feed fetched",
		zap.Int("raw", len(raw)),
		zap.Int("usable", len(vessels)),
	)
	return vessels, nil
}
