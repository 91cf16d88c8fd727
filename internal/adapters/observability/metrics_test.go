package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"advisor_scraper/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so counters are non-zero
	observability.ObserveFetch(200, 12*time.Millisecond)
	observability.ObserveFieldMiss("phone")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	if !strings.Contains(out, "advisor_fetch_requests_total") {
		t.Fatalf("expected advisor_fetch_requests_total in output")
	}
	if !strings.Contains(out, "advisor_field_misses_total") {
		t.Fatalf("expected advisor_field_misses_total in output")
	}
}
