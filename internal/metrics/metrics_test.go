package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInstrumentHandlerUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(InstrumentHandler)
	r.Get("/api/invoices/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/invoices/{id}", "404"))
	for _, id := range []string{"1", "2", "3"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/invoices/"+id, nil))
	}
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/invoices/{id}", "404"))
	if after-before != 3 {
		t.Fatalf("expected 3 requests recorded under the route pattern, got %v", after-before)
	}
}

func TestDomainCounters(t *testing.T) {
	before := testutil.ToFloat64(paymentsRecorded)
	RecordPayment()
	if got := testutil.ToFloat64(paymentsRecorded) - before; got != 1 {
		t.Fatalf("expected payments counter to move by 1, got %v", got)
	}
	RecordTransition("invoice", "sent")
	if got := testutil.ToFloat64(statusTransitions.WithLabelValues("invoice", "sent")); got < 1 {
		t.Fatalf("expected transition counter >= 1, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	RecordPayment()
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "clientpath_billing_payments_recorded_total") {
		t.Fatalf("payments counter missing from exposition")
	}
}
