package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/new-village/corpreg/pkg/corpreg/internalerr"
	"github.com/new-village/corpreg/pkg/corpreg/registry"
)

// Client retrieves corporate-registry records from the paginated catalog
// endpoint, one region at a time. All requests share a rate limiter so the
// remote source's limits are respected even when regions are fetched
// concurrently.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	pageSize   int
	maxRetries int
	backoff    time.Duration
}

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration
	RateLimit  rate.Limit
	PageSize   int
	MaxRetries int
	Backoff    time.Duration
}

// NewClient creates a registry fetch client with sane defaults.
func NewClient(config ClientConfig) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = rate.Every(500 * time.Millisecond)
	}
	if config.PageSize == 0 {
		config.PageSize = 100
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 3
	}
	if config.Backoff == 0 {
		config.Backoff = 500 * time.Millisecond
	}

	return &Client{
		baseURL:    config.BaseURL,
		httpClient: &http.Client{Timeout: config.Timeout},
		limiter:    rate.NewLimiter(config.RateLimit, 1),
		pageSize:   config.PageSize,
		maxRetries: config.MaxRetries,
		backoff:    config.Backoff,
	}
}

// page is the wire shape of one catalog response.
type page struct {
	DivideNumber int               `json:"divide_number"`
	DivideSize   int               `json:"divide_size"`
	Records      []registry.Record `json:"records"`
}

// FetchRegion streams every record of one region as of the given reference
// date, invoking yield per record. Pages are requested in order starting
// at 1 until the source reports no further divisions or returns an empty
// page. A page that still fails after retries aborts the whole region;
// pages are never silently skipped.
func (c *Client) FetchRegion(ctx context.Context, region registry.Region, date string, yield func(registry.Record) error) error {
	for pageNo := 1; ; pageNo++ {
		p, err := c.getPage(ctx, region, date, pageNo)
		if err != nil {
			return fmt.Errorf("%w: region %s page %d: %w", internalerr.ErrRegionFailed, region, pageNo, err)
		}
		if len(p.Records) == 0 {
			return nil
		}
		for _, rec := range p.Records {
			if err := yield(rec); err != nil {
				return err
			}
		}
		if p.DivideSize > 0 && p.DivideNumber >= p.DivideSize {
			return nil
		}
	}
}

// getPage requests one page with bounded retries and exponential backoff.
// Client errors (4xx) are permanent and not retried.
func (c *Client) getPage(ctx context.Context, region registry.Region, date string, pageNo int) (*page, error) {
	var lastErr error
	backoff := c.backoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}

		p, retryable, err := c.requestPage(ctx, region, date, pageNo)
		if err == nil {
			return p, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) requestPage(ctx context.Context, region registry.Region, date string, pageNo int) (*page, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, false, err
	}

	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, false, err
	}
	q := u.Query()
	q.Set("prefecture", string(region))
	q.Set("from", date)
	q.Set("page", fmt.Sprintf("%d", pageNo))
	q.Set("limit", fmt.Sprintf("%d", c.pageSize))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("HTTP %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	var p page
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, true, fmt.Errorf("decode page: %w", err)
	}
	return &p, false, nil
}
