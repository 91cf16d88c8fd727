package app_test

import (
	"context"
	"fmt"
	"testing"

	"advisor_scraper/internal/app"
)

const siteBase = "https://example.test"

func listingPage(links []string, next string) string {
	body := ""
	for _, l := range links {
		body += fmt.Sprintf(`<a class="Lwqic Cj b" href=%q>detail</a>`, l)
	}
	if next != "" {
		body += fmt.Sprintf(`<a class="nav next" href=%q>next</a>`, next)
	}
	return "<html><body>" + body + "</body></html>"
}

func detailPage(name string) string {
	return fmt.Sprintf(`<html><body>
<h1 data-test-target="top-info-header">%s</h1>
<div class="review-container" data-reviewid="%s-r1"><p class="partial_entry">fine</p></div>
</body></html>`, name, name)
}

func TestCrawlerRun_PaginatesAndDeduplicates(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		siteBase + "/list.html":    listingPage([]string{"/a.html", "/b.html"}, "/list-p2.html"),
		siteBase + "/list-p2.html": listingPage([]string{"/b.html", "/c.html"}, ""),
		siteBase + "/a.html":       detailPage("Alpha"),
		siteBase + "/b.html":       detailPage("Beta"),
		siteBase + "/c.html":       detailPage("Gamma"),
	}}
	sink := &fakeSink{}
	c := app.NewCrawler(f, sink, siteBase, 2)

	sum, err := c.Run(context.Background(), siteBase+"/list.html")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if sum.Businesses != 3 || sum.Reviews != 3 || sum.Skipped != 0 {
		t.Fatalf("summary = %+v", sum)
	}
	if len(sink.businesses) != 3 {
		t.Fatalf("sink got %d businesses", len(sink.businesses))
	}
	// /b.html appears on both pages but must be fetched once
	hits := 0
	for _, u := range f.fetched {
		if u == siteBase+"/b.html" {
			hits++
		}
	}
	if hits != 1 {
		t.Fatalf("duplicate link fetched %d times", hits)
	}
	for _, r := range sink.reviews {
		if r.BusinessID == "" {
			t.Fatal("review lost its business id")
		}
	}
}

func TestCrawlerRun_SelfReferentialPaginationTerminates(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		siteBase + "/list.html": listingPage([]string{"/a.html"}, "/list.html"),
		siteBase + "/a.html":    detailPage("Alpha"),
	}}
	sink := &fakeSink{}
	c := app.NewCrawler(f, sink, siteBase, 1)

	sum, err := c.Run(context.Background(), siteBase+"/list.html")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Businesses != 1 {
		t.Fatalf("summary = %+v", sum)
	}
}

func TestCrawlerRun_BrokenDetailPageIsSkippedNotFatal(t *testing.T) {
	f := &fakeFetcher{
		pages: map[string]string{
			siteBase + "/list.html": listingPage([]string{"/a.html", "/bad.html", "/c.html"}, ""),
			siteBase + "/a.html":    detailPage("Alpha"),
			siteBase + "/c.html":    detailPage("Gamma"),
		},
		broken: map[string]struct{}{siteBase + "/bad.html": {}},
	}
	sink := &fakeSink{}
	c := app.NewCrawler(f, sink, siteBase, 2)

	sum, err := c.Run(context.Background(), siteBase+"/list.html")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Businesses != 2 || sum.Skipped != 1 {
		t.Fatalf("summary = %+v", sum)
	}
	if len(sink.misses) != 1 || sink.misses[0] != siteBase+"/bad.html" {
		t.Fatalf("misses = %v", sink.misses)
	}
}

func TestCrawlerRun_BrokenListingIsFatal(t *testing.T) {
	f := &fakeFetcher{broken: map[string]struct{}{siteBase + "/list.html": {}}}
	c := app.NewCrawler(f, &fakeSink{}, siteBase, 2)

	if _, err := c.Run(context.Background(), siteBase+"/list.html"); err == nil {
		t.Fatal("expected an error for the initial listing page")
	}
}

func TestCrawlerRun_BrokenLaterListingKeepsHarvestedLinks(t *testing.T) {
	f := &fakeFetcher{
		pages: map[string]string{
			siteBase + "/list.html": listingPage([]string{"/a.html"}, "/list-p2.html"),
			siteBase + "/a.html":    detailPage("Alpha"),
		},
		broken: map[string]struct{}{siteBase + "/list-p2.html": {}},
	}
	sink := &fakeSink{}
	c := app.NewCrawler(f, sink, siteBase, 1)

	sum, err := c.Run(context.Background(), siteBase+"/list.html")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Businesses != 1 {
		t.Fatalf("summary = %+v", sum)
	}
}
