package domain

import (
	"context"

	"github.com/PuerkitoBio/goquery"
)

// PageFetcher turns a URL into a queryable document tree. The
// implementation owns retries, rate limiting and timeouts; a returned
// error means the page is a lost cause for this run.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// Sink receives the output of one crawl in append-only fashion.
type Sink interface {
	SaveBusinesses(ctx context.Context, bs []Business) error
	SaveReviews(ctx context.Context, rs []Review) error
	LogMiss(ctx context.Context, url string, reason string) error
}

// BusinessRepository is the read side served by the API.
type BusinessRepository interface {
	GetBusiness(ctx context.Context, id string) (Business, error)
	ListBusinesses(ctx context.Context, q BusinessQuery) ([]Business, error)
	ListReviews(ctx context.Context, businessID string, limit int) ([]Review, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type BusinessQuery struct {
	City  *string
	Limit int
}
