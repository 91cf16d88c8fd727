package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"advisor_scraper/internal/domain"
)

// QueryService serves the scraped records to the API, with a
// read-through cache in front of the repository.
type QueryService struct {
	repo     domain.BusinessRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.BusinessRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetBusiness(ctx context.Context, id string) (domain.Business, error) {
	key := fmt.Sprintf("business:%s", id)
	var b domain.Business
	if ok, _ := s.cache.Get(ctx, key, &b); ok {
		return b, nil
	}
	b, err := s.repo.GetBusiness(ctx, id)
	if err != nil {
		return domain.Business{}, err
	}
	_ = s.cache.Set(ctx, key, b, int(s.cacheTTL.Seconds()))
	return b, nil
}

func (s *QueryService) ListBusinesses(ctx context.Context, q domain.BusinessQuery) ([]domain.Business, error) {
	return s.repo.ListBusinesses(ctx, q)
}

func (s *QueryService) ListReviews(ctx context.Context, businessID string, limit int) ([]domain.Review, error) {
	key := fmt.Sprintf("reviews:%s:%d", businessID, limit)
	var out []domain.Review
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	rs, err := s.repo.ListReviews(ctx, businessID, limit)
	if err != nil {
		return nil, err
	}

	// copy before caching so callers can't mutate the cached slice
	cp := make([]domain.Review, len(rs))
	copy(cp, rs)

	// optional size guard
	if b, _ := json.Marshal(cp); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	}
	return cp, nil
}
