package app

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"

	"advisor_scraper/internal/adapters/observability"
	"advisor_scraper/internal/domain"
)

// ExtractBusiness pulls every direct field out of one detail page.
// Each field has its own rule and its own default; a broken panel in
// one corner of the page must never cost us an unrelated field, so no
// rule is allowed to fail the record.
func ExtractBusiness(doc *goquery.Document, sourceURL string) domain.Business {
	b := domain.Business{
		ID:        uuid.NewString(),
		SourceURL: sourceURL,
	}
	b.Name = extractName(doc)
	b.City = extractCity(doc)
	b.FullAddress, b.Phone = extractAddressPhone(doc)
	b.PriceTag, b.Categories = extractTags(doc)
	b.Stars = extractStars(doc)
	b.ReviewCount = extractReviewCount(doc)
	b.IsClaimed = doc.Find(claimedSel).Length() > 0
	b.ImageURL = extractImage(doc)
	return b
}

func extractName(doc *goquery.Document) *string {
	s := strings.TrimSpace(nbsp(doc.Find(headerSel).First().Text()))
	if s == "" {
		observability.ObserveFieldMiss("name")
		return nil
	}
	return &s
}

// extractCity reads the third breadcrumb entry; the trail's positions
// are fixed on this site.
func extractCity(doc *goquery.Document) *string {
	crumbs := doc.Find(breadcrumbSel)
	if crumbs.Length() < 3 {
		observability.ObserveFieldMiss("city")
		return nil
	}
	s := strings.TrimSpace(nbsp(crumbs.Eq(2).Text()))
	if s == "" {
		observability.ObserveFieldMiss("city")
		return nil
	}
	return &s
}

// extractAddressPhone reads the location block's anchors: position 0
// is the address, position 1 the phone. The pair stands or falls
// together: fewer than two anchors yields neither field.
func extractAddressPhone(doc *goquery.Document) (*string, *string) {
	links := doc.Find(locationSel).Eq(1).Find("a")
	if links.Length() < 2 {
		observability.ObserveFieldMiss("address")
		observability.ObserveFieldMiss("phone")
		return nil, nil
	}
	var addr, phone *string
	if s := strings.TrimSpace(nbsp(links.Eq(0).Text())); s != "" {
		addr = &s
	}
	if s := strings.TrimSpace(nbsp(links.Eq(1).Text())); s != "" && !strings.Contains(s, noPhonePlaceholder) {
		phone = &s
	} else {
		observability.ObserveFieldMiss("phone")
	}
	return addr, phone
}

// extractTags splits the tag-like anchors into the price tag (any
// text carrying a currency symbol; last one wins) and the category
// labels, in document order. When the page has no tag anchors at all,
// the details panel's "cuisines" entry stands in as the single
// category.
func extractTags(doc *goquery.Document) (string, []string) {
	price := domain.NoPriceTag
	var cats []string
	doc.Find(tagLinkSel).Each(func(_ int, s *goquery.Selection) {
		txt := strings.TrimSpace(nbsp(s.Text()))
		if txt == "" {
			return
		}
		if strings.ContainsAny(txt, currencySymbols) {
			price = txt
			return
		}
		cats = append(cats, txt)
	})
	if price == domain.NoPriceTag && len(cats) == 0 {
		doc.Find(detailsPanelSel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			label := strings.ToLower(strings.TrimSpace(s.Find(panelLabelSel).First().Text()))
			if label != "cuisines" {
				return true
			}
			if v := strings.TrimSpace(nbsp(s.Find(panelValueSel).First().Text())); v != "" {
				cats = []string{v}
			}
			return false
		})
	}
	if price == domain.NoPriceTag {
		observability.ObserveFieldMiss("price_tag")
	}
	return price, cats
}

func extractStars(doc *goquery.Document) float64 {
	txt := strings.TrimSpace(nbsp(doc.Find(starsSel).First().Text()))
	f, err := strconv.ParseFloat(txt, 64)
	if err != nil {
		observability.ObserveFieldMiss("stars")
		return 0.0
	}
	return f
}

// extractReviewCount parses the first whitespace-delimited token of
// the review-count anchor ("1,204 reviews" -> 1204).
func extractReviewCount(doc *goquery.Document) int {
	fields := strings.Fields(nbsp(doc.Find(reviewCountSel).First().Text()))
	if len(fields) == 0 {
		observability.ObserveFieldMiss("review_count")
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(fields[0], ",", ""))
	if err != nil || n < 0 {
		observability.ObserveFieldMiss("review_count")
		return 0
	}
	return n
}

func extractImage(doc *goquery.Document) *string {
	src, ok := doc.Find(heroImageSel).First().Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		observability.ObserveFieldMiss("image_url")
		return nil
	}
	return &src
}

// nbsp normalizes the site's non-breaking spaces.
func nbsp(s string) string {
	return strings.ReplaceAll(s, " ", " ")
}
