package statsguru

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"statsguru-export/lib/restyutil"
	"statsguru-export/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

var tracer = telemetry.Tracer("scrapers/statsguru")

const DefaultBaseURL = "https://stats.espncricinfo.com"

const defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

type ClientOptions struct {
	// BaseURL overrides the Statsguru host, mainly for tests.
	BaseURL string
	// Delay is the minimum gap between consecutive requests. The site's
	// bot defense keys on request cadence, so this must stay generous.
	// Defaults to 700ms.
	Delay time.Duration
	// Timeout per request, defaults to 30s.
	Timeout time.Duration
	// Retries bounds re-attempts on transient failures, defaults to 3.
	Retries int
	// UserAgent overrides the browser identity presented to the site.
	UserAgent string
	// Debug, when non-nil, receives a transcript of every http exchange.
	Debug restyutil.InstrumentOutput
}

// Client is a polite, paced Statsguru page fetcher. It carries no state
// besides its pacing limiter; every fetch is independent.
type Client struct {
	BaseURL string

	http    *resty.Client
	limiter *rate.Limiter
	retries int
	backoff time.Duration
}

func NewClient(opts ClientOptions) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Delay == 0 {
		opts.Delay = 700 * time.Millisecond
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Retries == 0 {
		opts.Retries = 3
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	client.SetTimeout(opts.Timeout)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	client.SetHeader("Accept-Language", "en-US,en;q=0.9")

	restyutil.InstrumentClient(client, tracer, opts.Debug)

	return &Client{
		BaseURL: opts.BaseURL,
		http:    client,
		limiter: rate.NewLimiter(rate.Every(opts.Delay), 1),
		retries: opts.Retries,
		backoff: 500 * time.Millisecond,
	}
}

// PlayerURL renders the absolute url for a player statistics page.
func (c *Client) PlayerURL(playerID int, spec QuerySpec) string {
	return c.BaseURL + spec.Path(playerID)
}

// challenge interstitials come back as 200 with no data table, so they
// have to be sniffed off the body
var challengeMarkers = []string{
	"Just a moment...",
	"cf-browser-verification",
	"Attention Required! | Cloudflare",
}

// Fetch gets one page of HTML, waiting out the pacing delay first. A 403
// (or an equivalent challenge page) fails immediately with BlockedError;
// a 404 with NotFoundError. Network errors and 5xx responses are retried
// with exponential backoff before giving up with FetchError.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()

	var lastErr error
	attempts := c.retries + 1
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			wait := c.backoff * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		res, err := c.http.R().SetContext(ctx).Get(url)
		if err != nil {
			lastErr = err
			continue
		}

		status := res.StatusCode()
		switch {
		case status == http.StatusOK:
			body := string(res.Body())
			for _, marker := range challengeMarkers {
				if strings.Contains(body, marker) {
					return "", &BlockedError{URL: url, Status: status}
				}
			}
			return body, nil
		case status == http.StatusForbidden || status == http.StatusTooManyRequests:
			return "", &BlockedError{URL: url, Status: status}
		case status == http.StatusNotFound || status == http.StatusGone:
			return "", &NotFoundError{URL: url, Status: status}
		case status >= 500:
			lastErr = fmt.Errorf("status %d", status)
			continue
		default:
			return "", &FetchError{
				URL:      url,
				Attempts: attempt + 1,
				Err:      fmt.Errorf("unexpected status %d", status),
			}
		}
	}

	return "", &FetchError{URL: url, Attempts: attempts, Err: lastErr}
}
