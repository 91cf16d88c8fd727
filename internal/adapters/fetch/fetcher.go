package fetch

import (
	"context"
	crand "crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"github.com/temoto/robotstxt"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"advisor_scraper/internal/adapters/observability"
)

var (
	ErrNotFound         = errors.New("fetch: not found")
	ErrForbidden        = errors.New("fetch: forbidden")
	ErrRobotsDisallowed = errors.New("fetch: disallowed by robots.txt")
)

// Client fetches pages one at a time under a client-side rate limit
// and parses them into goquery document trees. Transient failures
// (network errors, truncated bodies, 429/5xx) are retried a bounded
// number of times with jittered exponential backoff.
type Client struct {
	hc       *http.Client
	ua       string
	rl       *rate.Limiter
	attempts int
	robots   *robotstxt.Group
}

func New(ua string, rps int, timeout time.Duration, attempts int) *Client {
	if rps <= 0 {
		rps = 2
	}
	if attempts <= 0 {
		attempts = 4
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		hc:       &http.Client{Timeout: timeout},
		ua:       ua,
		rl:       rate.NewLimiter(rate.Limit(rps), rps),
		attempts: attempts,
	}
}

// LoadRobots fetches <base>/robots.txt and keeps the group for ua.
// Best-effort: any failure leaves the client permissive.
func (c *Client) LoadRobots(ctx context.Context, base string) {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return
	}
	robotsURL := fmt.Sprintf("%s://%s/robots.txt", u.Scheme, u.Host)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return
	}
	req.Header.Set("User-Agent", c.ua)

	resp, err := c.hc.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("url", robotsURL).Msg("robots.txt fetch failed, allowing all")
		return
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		log.Warn().Err(err).Msg("robots.txt parse failed, allowing all")
		return
	}
	c.robots = data.FindGroup(c.ua)
}

// Fetch GETs url and returns its parsed document tree.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if c.robots != nil {
		if u, err := url.Parse(rawURL); err == nil && !c.robots.Test(u.Path) {
			return nil, ErrRobotsDisallowed
		}
	}

	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	var lastErr error
	for i := 0; i < c.attempts; i++ {
		// build a fresh request each attempt
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", c.ua)
		req.Header.Set("Accept", "text/html,application/xhtml+xml")
		req.Header.Set("Accept-Language", "en-US, en;q=0.5")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			observability.ObserveFetch(0, time.Since(start))
			lastErr = err
			if i < c.attempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr
		}

		observability.ObserveFetch(resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			doc, err := parseBody(resp)
			resp.Body.Close()
			if err == nil {
				return doc, nil
			}
			// truncated/garbled body: same transient class as a
			// connection failure, so retry it
			lastErr = err
			if i < c.attempts-1 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr

		case http.StatusNotFound:
			resp.Body.Close()
			return nil, ErrNotFound

		case http.StatusForbidden, http.StatusUnauthorized:
			resp.Body.Close()
			return nil, ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			// Prefer server-provided Retry-After; otherwise exponential backoff.
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < c.attempts-1 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, lastErr

		default:
			resp.Body.Close()
			return nil, fmt.Errorf("bad status %d for %s", resp.StatusCode, rawURL)
		}
	}

	return nil, lastErr
}

func parseBody(resp *http.Response) (*goquery.Document, error) {
	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		body = resp.Body
	}
	return goquery.NewDocumentFromReader(body)
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential backoff delay with concurrency-safe jitter.
// i = retry attempt (0,1,2,...). Base doubles each attempt (200ms, 400ms, 800ms...),
// with up to +50% random jitter to avoid thundering herds.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
