package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"advisor_scraper/internal/domain"
)

// Crawler drives one run: collect detail links from the listing
// pagination, then fetch and extract each unique link on a bounded
// worker pool, and hand the accumulated records to the sink.
type Crawler struct {
	fetcher domain.PageFetcher
	sink    domain.Sink
	baseURL string
	workers int
	now     func() time.Time
}

type Summary struct {
	Businesses int
	Reviews    int
	Skipped    int
}

func NewCrawler(f domain.PageFetcher, sink domain.Sink, baseURL string, workers int) *Crawler {
	if workers <= 0 {
		workers = 1
	}
	return &Crawler{fetcher: f, sink: sink, baseURL: baseURL, workers: workers, now: time.Now}
}

// Run crawls one listing URL. Only a failed initial listing fetch is
// an error; a detail page lost after the fetcher's own retries is
// logged, recorded as a miss and skipped. Cancelling ctx stops the
// dispatch loop between URLs; records accumulated up to that point
// are still flushed to the sink.
func (c *Crawler) Run(ctx context.Context, listingURL string) (Summary, error) {
	links, err := c.collectLinks(ctx, listingURL)
	if err != nil {
		return Summary{}, err
	}
	log.Info().Int("links", len(links)).Str("listing", listingURL).Msg("detail links collected")

	sem := semaphore.NewWeighted(int64(c.workers))
	var wg sync.WaitGroup

	var mu sync.Mutex
	var businesses []domain.Business
	var reviews []domain.Review
	skipped := 0

	for i, link := range links {
		link := link

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Int("remaining", len(links)-i).Msg("crawl aborted between pages")
			break
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)

			doc, ferr := c.fetcher.Fetch(ctx, link)
			if ferr != nil {
				log.Warn().Str("url", link).Err(ferr).Msg("detail page skipped")
				_ = c.sink.LogMiss(ctx, link, ferr.Error())
				mu.Lock()
				skipped++
				mu.Unlock()
				return
			}

			b := ExtractBusiness(doc, link)
			b.Coords, b.IsClosed = ResolveDerived(doc, c.now(), b.ReviewCount)
			rs := ExtractReviews(doc, b.ID)

			mu.Lock()
			businesses = append(businesses, b)
			reviews = append(reviews, rs...)
			mu.Unlock()

			log.Info().Str("url", link).Int("reviews", len(rs)).Msg("extracted")
		}()
	}
	wg.Wait()

	// Flush on a fresh context so an abort still persists the pages
	// that finished; every record is independently complete.
	flushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := c.sink.SaveBusinesses(flushCtx, businesses); err != nil {
		return Summary{}, fmt.Errorf("save businesses: %w", err)
	}
	if err := c.sink.SaveReviews(flushCtx, reviews); err != nil {
		return Summary{}, fmt.Errorf("save reviews: %w", err)
	}

	return Summary{Businesses: len(businesses), Reviews: len(reviews), Skipped: skipped}, nil
}
