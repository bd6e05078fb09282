package http

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.Evaluation("item", "permanent_deny")
	m.Evaluation("item", "permanent_deny")
	m.Evaluation("ammo", "allow")
	m.Command("add", "added")
	m.AuditFailure()
	m.WindowRearm()
	m.WindowRearm()

	if got := testutil.ToFloat64(m.EvaluationsTotal.WithLabelValues("item", "permanent_deny")); got != 2 {
		t.Errorf("evaluations_total{item,permanent_deny} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.EvaluationsTotal.WithLabelValues("ammo", "allow")); got != 1 {
		t.Errorf("evaluations_total{ammo,allow} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.CommandsTotal.WithLabelValues("add", "added")); got != 1 {
		t.Errorf("commands_total{add,added} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.AuditAppendFailures); got != 1 {
		t.Errorf("audit_append_failures_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.WindowRearmsTotal); got != 2 {
		t.Errorf("window_rearms_total = %v, want 2", got)
	}
}

func TestHandler_ServesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.Evaluation("clothing", "timed_deny")

	srv := httptest.NewServer(Handler(reg))
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	text := string(body)
	if !strings.Contains(text, "itemblocker_evaluations_total") {
		t.Errorf("exposition missing itemblocker_evaluations_total:\n%s", text)
	}
	if !strings.Contains(text, `verdict="timed_deny"`) {
		t.Errorf("exposition missing recorded label:\n%s", text)
	}
}
