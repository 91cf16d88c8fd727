// Package jsonl writes crawl output as JSON Lines files on local
// disk, one dataset per listing URL. It is the default sink when no
// database is configured.
package jsonl

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"advisor_scraper/internal/domain"
)

// Sink appends records to <dataset>_businesses.jsonl,
// <dataset>_reviews.jsonl and <dataset>_misses.jsonl under the output
// directory. Writes are serialized; the files are opened lazily on
// first write.
type Sink struct {
	dir     string
	dataset string

	mu sync.Mutex
}

// New derives the dataset name from the listing URL's last path
// segment, minus its .html suffix, and ensures the output directory
// exists. "https://host/Restaurants-g304082-Kosovo.html" becomes
// dataset "Restaurants-g304082-Kosovo".
func New(dir, listingURL string) (*Sink, error) {
	u, err := url.Parse(listingURL)
	if err != nil {
		return nil, fmt.Errorf("bad listing url %q: %w", listingURL, err)
	}
	name := strings.TrimSuffix(path.Base(u.Path), ".html")
	if name == "" || name == "." || name == "/" {
		name = "dataset"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("output dir %s: %w", dir, err)
	}
	return &Sink{dir: dir, dataset: name}, nil
}

func (s *Sink) SaveBusinesses(ctx context.Context, bs []domain.Business) error {
	recs := make([]any, len(bs))
	for i := range bs {
		recs[i] = bs[i]
	}
	return s.appendAll("businesses", recs)
}

func (s *Sink) SaveReviews(ctx context.Context, rs []domain.Review) error {
	recs := make([]any, len(rs))
	for i := range rs {
		recs[i] = rs[i]
	}
	return s.appendAll("reviews", recs)
}

type missRecord struct {
	URL    string    `json:"url"`
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}

func (s *Sink) LogMiss(ctx context.Context, url, reason string) error {
	return s.appendAll("misses", []any{missRecord{URL: url, Reason: reason, At: time.Now().UTC()}})
}

func (s *Sink) appendAll(kind string, recs []any) error {
	if len(recs) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p := filepath.Join(s.dir, fmt.Sprintf("%s_%s.jsonl", s.dataset, kind))
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", p, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, r := range recs {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("write %s: %w", p, err)
		}
	}
	return nil
}
