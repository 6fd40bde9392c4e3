package observability_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"everjourney/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record one sample of each kind so the vectors are exported
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveDB("hotels.list", errors.New("boom"), 3*time.Millisecond)
	observability.ObserveTx("signup", "rollback")
	observability.ObserveDegraded("home", "packages")

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	for _, want := range []string{
		"everjourney_http_requests_total",
		`everjourney_db_queries_total{op="hotels.list",result="error"} 1`,
		`everjourney_db_transactions_total{flow="signup",outcome="rollback"} 1`,
		`everjourney_section_degradations_total{page="home",section="packages"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %s in output", want)
		}
	}
}
