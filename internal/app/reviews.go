package app

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"advisor_scraper/internal/adapters/observability"
	"advisor_scraper/internal/domain"
)

// ExtractReviews walks the review containers in document order. A
// container without the site-native review id or without body text is
// dropped on its own; its siblings and the parent record are not
// affected. No sorting and no dedup here; link-level dedup already
// happened upstream.
func ExtractReviews(doc *goquery.Document, businessID string) []domain.Review {
	var out []domain.Review
	doc.Find(reviewContainerSel).Each(func(_ int, s *goquery.Selection) {
		id, ok := s.Attr("data-reviewid")
		if !ok || strings.TrimSpace(id) == "" {
			observability.ObserveFieldMiss("review_id")
			return
		}
		text := strings.TrimSpace(nbsp(s.Find(reviewTextSel).First().Text()))
		if text == "" {
			observability.ObserveFieldMiss("review_text")
			return
		}

		r := domain.Review{
			BusinessID: businessID,
			ReviewID:   strings.TrimSpace(id),
			Title:      strings.TrimSpace(nbsp(s.Find(reviewTitleSel).First().Text())),
			Text:       text,
			Rating:     bubbleRating(s),
			Votes:      voteCount(s),
		}
		// date lives in the marker's tooltip, kept verbatim
		r.Date, _ = s.Find(reviewDateSel).First().Attr("title")
		if uid, ok := s.Find(reviewMemberSel).First().Attr("id"); ok && strings.TrimSpace(uid) != "" {
			uid := strings.TrimSpace(uid)
			r.UserID = &uid
		}
		out = append(out, r)
	})
	return out
}

// bubbleRating reads the last hyphen-delimited segment of the bubble
// marker's class attribute ("ui_bubble_rating bubble-4" -> 4).
func bubbleRating(s *goquery.Selection) int {
	cls, ok := s.Find(bubbleRatingSel).First().Attr("class")
	if !ok {
		return 0
	}
	parts := strings.Split(cls, "-")
	n, err := strconv.Atoi(strings.TrimSpace(parts[len(parts)-1]))
	if err != nil || n < 0 || n > 5 {
		return 0
	}
	return n
}

func voteCount(s *goquery.Selection) int {
	fields := strings.Fields(nbsp(s.Find(reviewVotesSel).First().Text()))
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return 0
	}
	return n
}
