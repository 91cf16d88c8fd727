package app

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"advisor_scraper/internal/adapters/observability"
	"advisor_scraper/internal/domain"
)

const (
	coordsMarker = `"coords":`
	coordsWindow = 29
)

var hoursRangeRe = regexp.MustCompile(`(\d{4})\s*-\s*(\d{4})`)

// ResolveDerived computes the two fields that are not plain reads:
// coordinates hidden in embedded script text and the open/closed
// state derived from free-text hours.
func ResolveDerived(doc *goquery.Document, now time.Time, reviewCount int) (*domain.Coords, bool) {
	return extractCoords(doc), resolveClosed(doc, now, reviewCount)
}

// extractCoords scans script blocks for the "coords": marker and
// reads a fixed 29-character window after it. The window length is
// tied to the site's serialization shape and breaks when coordinate
// precision differs; in that case we return nil rather than a wrong
// value.
func extractCoords(doc *goquery.Document) *domain.Coords {
	var out *domain.Coords
	doc.Find(scriptSel).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		txt := s.Text()
		i := strings.Index(txt, coordsMarker)
		if i < 0 {
			return true
		}
		// first matching script wins, parsed or not
		out = parseCoordsWindow(txt[i+len(coordsMarker):])
		return false
	})
	if out == nil {
		observability.ObserveFieldMiss("coordinates")
	}
	return out
}

func parseCoordsWindow(tail string) *domain.Coords {
	// The window counts from the first character after the marker, not
	// from the marker itself; counting from the marker would shave the
	// usable span to ~20 characters and silently truncate the second
	// coordinate.
	if len(tail) > coordsWindow {
		tail = tail[:coordsWindow]
	}
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '"', '\'', '{', '}', '[', ']', '(', ')', ' ':
			return -1
		}
		return r
	}, tail)
	parts := strings.Split(clean, ",")
	if len(parts) < 2 {
		return nil
	}
	lat, err1 := strconv.ParseFloat(parts[0], 64)
	lon, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil {
		return nil
	}
	return &domain.Coords{Lat: lat, Lon: lon}
}

// resolveClosed implements the site's four-branch hours logic:
//
//  1. no hours marker: fall back to "has reviews => open";
//  2. text starts with "Open now": open;
//  3. text starts with "Closed now": parse the trailing
//     "HHMM - HHMM" range, normalize a closing hour before 06 to 24
//     (the range crosses midnight), and report open when the current
//     hour lies strictly inside the range, even though the label says
//     "Closed now": the range is today's hours, not a closure notice.
//     Any parse failure in this branch means closed;
//  4. anything else: closed.
//
// Branch 3's polarity is inherited from the site's rendering and is
// kept as observed.
func resolveClosed(doc *goquery.Document, now time.Time, reviewCount int) bool {
	sel := doc.Find(hoursSel)
	if sel.Length() == 0 {
		// heuristic proxy: places with reviews are assumed live
		return reviewCount == 0
	}
	txt := strings.TrimSpace(nbsp(sel.First().Text()))
	switch {
	case strings.HasPrefix(txt, "Open now"):
		return false
	case strings.HasPrefix(txt, "Closed now"):
		m := hoursRangeRe.FindStringSubmatch(txt)
		if m == nil {
			return true
		}
		openHour, err1 := strconv.Atoi(m[1][:2])
		closeHour, err2 := strconv.Atoi(m[2][:2])
		if err1 != nil || err2 != nil {
			return true
		}
		if closeHour < 6 {
			closeHour = 24
		}
		h := now.Hour()
		return !(openHour < h && h < closeHour)
	default:
		return true
	}
}
