package app

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// collectLinks walks the listing pagination and returns every detail
// link found, resolved against the site base URL and de-duplicated in
// first-seen order. Only the initial listing fetch is fatal; a broken
// later page ends the walk with whatever was harvested so far.
func (c *Crawler) collectLinks(ctx context.Context, listingURL string) ([]string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("bad base url %q: %w", c.baseURL, err)
	}

	doc, err := c.fetcher.Fetch(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("listing page %s: %w", listingURL, err)
	}

	seen := make(map[string]struct{})
	var links []string
	harvest := func(doc *goquery.Document) {
		doc.Find(detailLinkSel).Each(func(_ int, s *goquery.Selection) {
			href, ok := s.Attr("href")
			if !ok || href == "" {
				return
			}
			abs := resolveRef(base, href)
			if abs == "" {
				return
			}
			if _, dup := seen[abs]; dup {
				return
			}
			seen[abs] = struct{}{}
			links = append(links, abs)
		})
	}
	harvest(doc)

	// The site signals the last page by dropping the next anchor. A
	// repeated pagination URL would otherwise loop forever, so track
	// visited pages too.
	visited := map[string]struct{}{listingURL: {}}
	for {
		href, ok := doc.Find(nextPageSel).First().Attr("href")
		if !ok || href == "" {
			break
		}
		next := resolveRef(base, href)
		if next == "" {
			break
		}
		if _, dup := visited[next]; dup {
			log.Warn().Str("url", next).Msg("pagination loops back on itself, stopping")
			break
		}
		visited[next] = struct{}{}

		log.Info().Str("url", next).Msg("fetching next listing page")
		doc, err = c.fetcher.Fetch(ctx, next)
		if err != nil {
			log.Warn().Str("url", next).Err(err).Msg("listing page lost, keeping links harvested so far")
			break
		}
		harvest(doc)
	}

	return links, nil
}

func resolveRef(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
