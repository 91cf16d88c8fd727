package app_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"advisor_scraper/internal/domain"
)

// detailPageHTML is a well-formed detail page exercising every field
// rule at once.
const detailPageHTML = `<html><head></head><body>
<ul>
  <li class="breadcrumb"><a>Europe</a></li>
  <li class="breadcrumb"><a>Kosovo</a></li>
  <li class="breadcrumb"><a>Pristina</a></li>
  <li class="breadcrumb"><a>Pristina Restaurants</a></li>
  <li class="breadcrumb"><a>Liburnia</a></li>
</ul>
<h1 data-test-target="top-info-header">Liburnia</h1>
<div class="vQlTa H3"><a>Website</a></div>
<div class="vQlTa H3"><a>Rr. Meto Bajraktari, Pristina 10000</a><a>+383 44 155 155</a></div>
<a class="dlMOJ">$$ - $$$</a>
<a class="dlMOJ">Mediterranean</a>
<a class="dlMOJ">European</a>
<span class="ZDEqb">4.5</span>
<a class="IcelI">1,204 reviews</a>
<span class="ui_icon verified-checkmark"></span>
<img class="basicImg" src="https://media.example/photo.jpg"/>
<span class="mMkhr">Closed now: Opens 0600 - 2200</span>
<script type="text/javascript">window.__data={"geo":{"coords":"42.6629,21.1655]","zoom":15}};</script>
<div class="review-container" data-reviewid="r-801">
  <div class="memberOverlayLink" id="UID_AB12-SRC_99"></div>
  <span class="noQuotes">Great food</span>
  <span class="ratingDate" title="March 3, 2021">Reviewed March 3, 2021</span>
  <span class="ui_bubble_rating bubble-5"></span>
  <p class="partial_entry">  Lovely staff and fresh seafood.  </p>
  <span class="numHelp">3 helpful votes</span>
</div>
<div class="review-container">
  <span class="noQuotes">Orphan</span>
  <span class="ui_bubble_rating bubble-4"></span>
  <p class="partial_entry">No native identifier, must be skipped.</p>
</div>
<div class="review-container" data-reviewid="r-802">
  <span class="noQuotes">Average</span>
  <span class="ratingDate" title="April 9, 2021">Reviewed April 9, 2021</span>
  <span class="ui_bubble_rating bubble-3"></span>
  <p class="partial_entry">Decent but slow.</p>
</div>
</body></html>`

func mustDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

// ---- fakes ----

// fakeFetcher serves canned HTML per absolute URL; URLs listed in
// broken always fail.
type fakeFetcher struct {
	pages  map[string]string
	broken map[string]struct{}

	mu      sync.Mutex
	fetched []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, url)
	f.mu.Unlock()

	if _, bad := f.broken[url]; bad {
		return nil, errors.New("remote 500")
	}
	html, ok := f.pages[url]
	if !ok {
		return nil, errors.New("no such page")
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

type fakeSink struct {
	mu         sync.Mutex
	businesses []domain.Business
	reviews    []domain.Review
	misses     []string
}

func (s *fakeSink) SaveBusinesses(ctx context.Context, bs []domain.Business) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.businesses = append(s.businesses, bs...)
	return nil
}

func (s *fakeSink) SaveReviews(ctx context.Context, rs []domain.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews = append(s.reviews, rs...)
	return nil
}

func (s *fakeSink) LogMiss(ctx context.Context, url, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.misses = append(s.misses, url)
	return nil
}

// ---- tiny helpers ----

func ptr[T any](v T) *T { return &v }

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
