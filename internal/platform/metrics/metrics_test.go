package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecord(t *testing.T) {
	c := New()
	c.Record(http.MethodGet, http.StatusOK, 20*time.Millisecond)
	c.Record(http.MethodGet, http.StatusOK, 10*time.Millisecond)
	c.Record(http.MethodPost, http.StatusTooManyRequests, time.Millisecond)

	if got := testutil.ToFloat64(c.RequestsTotal.WithLabelValues(http.MethodGet, "200")); got != 2 {
		t.Fatalf("expected 2 GET 200 requests, got %v", got)
	}
	if got := testutil.ToFloat64(c.RateLimitedTotal); got != 1 {
		t.Fatalf("expected 1 rate limited request, got %v", got)
	}
}

func TestEvaluationObserver(t *testing.T) {
	c := New()
	c.ObserveTransition("Draft", "Pending HoD Approval", true)
	c.ObserveTransition("Approved", "Rejected", false)
	c.ObserveCreated("Quarterly", 4)

	if got := testutil.ToFloat64(c.TransitionsTotal.WithLabelValues("Approved", "Rejected", "rejected")); got != 1 {
		t.Fatalf("expected rejected transition, got %v", got)
	}
	if got := testutil.ToFloat64(c.EvaluationsCreated.WithLabelValues("Quarterly")); got != 4 {
		t.Fatalf("expected 4 created, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New()
	c.ObserveCreated("Annual", 2)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `hreval_evaluation_created_total{kind="Annual"} 2`) {
		t.Fatalf("metric missing from output:\n%s", body)
	}
}
