package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetIsSingleton(t *testing.T) {
	if Get() != Get() {
		t.Fatal("Get must return the same registry")
	}
}

func TestHandlerExposesCounters(t *testing.T) {
	reg := Get()
	reg.CompilesTotal.WithLabelValues("ok").Inc()
	reg.RulesEmitted.Observe(9)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	reg.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(body, "wafplan_compiles_total") {
		t.Errorf("scrape output missing compile counter:\n%s", body)
	}
	if !strings.Contains(body, "wafplan_rules_emitted") {
		t.Errorf("scrape output missing rules histogram")
	}
}
