package app_test

import (
	"testing"
	"time"

	"advisor_scraper/internal/app"
)

func at(hour int) time.Time {
	return time.Date(2021, 3, 3, hour, 30, 0, 0, time.UTC)
}

func TestResolveDerived_CoordsWindow(t *testing.T) {
	doc := mustDoc(t, `<html><body>
<script type="text/javascript">var cfg={"coords":"42.6629,21.1655]","zoom":15};</script>
</body></html>`)

	coords, _ := app.ResolveDerived(doc, at(12), 10)
	if coords == nil {
		t.Fatal("expected coordinates")
	}
	if coords.Lat != 42.6629 || coords.Lon != 21.1655 {
		t.Fatalf("coords = %+v", coords)
	}
}

// Pins the window origin: these coordinates only fit if the 29
// characters are counted from after the marker. A count that included
// the marker itself would cut the longitude short and parse a wrong
// value.
func TestResolveDerived_CoordsWindowCountsFromAfterMarker(t *testing.T) {
	doc := mustDoc(t, `<html><body>
<script type="text/javascript">var cfg={"coords":"12.3456789,98.7654321]","z":1};</script>
</body></html>`)

	coords, _ := app.ResolveDerived(doc, at(12), 10)
	if coords == nil {
		t.Fatal("expected coordinates")
	}
	if coords.Lat != 12.3456789 || coords.Lon != 98.7654321 {
		t.Fatalf("coords = %+v, longitude truncated", coords)
	}
}

func TestResolveDerived_FirstMatchingScriptWins(t *testing.T) {
	doc := mustDoc(t, `<html><body>
<script type="text/javascript">var a={"coords":"garbage"};</script>
<script type="text/javascript">var b={"coords":"42.6629,21.1655]"};</script>
</body></html>`)

	// the garbage script is hit first; the parsable one never gets a look
	coords, _ := app.ResolveDerived(doc, at(12), 10)
	if coords != nil {
		t.Fatalf("coords = %+v, want nil", coords)
	}
}

func TestResolveDerived_NoMarkerYieldsNilCoords(t *testing.T) {
	doc := mustDoc(t, `<html><body><script type="text/javascript">var x=1;</script></body></html>`)
	coords, _ := app.ResolveDerived(doc, at(12), 10)
	if coords != nil {
		t.Fatalf("coords = %+v, want nil", coords)
	}
}

func TestResolveDerived_OpenNow(t *testing.T) {
	doc := mustDoc(t, `<html><body><span class="mMkhr">Open now: 0600 - 2200</span></body></html>`)
	if _, closed := app.ResolveDerived(doc, at(12), 0); closed {
		t.Fatal("label says open, got closed")
	}
}

func TestResolveDerived_ClosedNowLabelInsideWindowReportsOpen(t *testing.T) {
	doc := mustDoc(t, `<html><body><span class="mMkhr">Closed now: Opens 0600 - 2200</span></body></html>`)

	if _, closed := app.ResolveDerived(doc, at(10), 0); closed {
		t.Fatal("10:30 lies inside 06-22, the range overrides the label")
	}
	if _, closed := app.ResolveDerived(doc, at(23), 0); !closed {
		t.Fatal("23:30 lies outside 06-22")
	}
	// boundary hours count as outside: the comparison is strict
	if _, closed := app.ResolveDerived(doc, at(6), 0); !closed {
		t.Fatal("opening hour itself is not inside the window")
	}
}

func TestResolveDerived_MidnightCloseNormalizesTo24(t *testing.T) {
	doc := mustDoc(t, `<html><body><span class="mMkhr">Closed now: Opens 2200 - 0200</span></body></html>`)

	if _, closed := app.ResolveDerived(doc, at(23), 0); closed {
		t.Fatal("23:30 is inside 22-02 once the close hour wraps to 24")
	}
	if _, closed := app.ResolveDerived(doc, at(10), 0); !closed {
		t.Fatal("10:30 is outside 22-02")
	}
}

func TestResolveDerived_ClosedNowWithoutRangeMeansClosed(t *testing.T) {
	doc := mustDoc(t, `<html><body><span class="mMkhr">Closed now: See all hours</span></body></html>`)
	if _, closed := app.ResolveDerived(doc, at(12), 0); !closed {
		t.Fatal("unparsable range under a Closed label must stay closed")
	}
}

func TestResolveDerived_UnrecognizedHoursTextMeansClosed(t *testing.T) {
	doc := mustDoc(t, `<html><body><span class="mMkhr">Hours vary</span></body></html>`)
	if _, closed := app.ResolveDerived(doc, at(12), 500); !closed {
		t.Fatal("unrecognized text must not fall back to the review heuristic")
	}
}

func TestResolveDerived_NoHoursFallsBackToReviewCount(t *testing.T) {
	doc := mustDoc(t, `<html><body></body></html>`)

	if _, closed := app.ResolveDerived(doc, at(12), 37); closed {
		t.Fatal("reviewed places without hours are assumed open")
	}
	if _, closed := app.ResolveDerived(doc, at(12), 0); !closed {
		t.Fatal("unreviewed places without hours are assumed closed")
	}
}
