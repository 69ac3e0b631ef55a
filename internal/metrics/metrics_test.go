package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveSelection(t *testing.T) {
	before := testutil.ToFloat64(selections.WithLabelValues(OutcomeExact, "table"))
	ObserveSelection("table", OutcomeExact, time.Millisecond)
	if got := testutil.ToFloat64(selections.WithLabelValues(OutcomeExact, "table")); got != before+1 {
		t.Fatalf("expected counter %v, got %v", before+1, got)
	}
}

func TestLogin(t *testing.T) {
	before := testutil.ToFloat64(logins.WithLabelValues("github", "failure"))
	Login("github", false)
	if got := testutil.ToFloat64(logins.WithLabelValues("github", "failure")); got != before+1 {
		t.Fatalf("expected counter %v, got %v", before+1, got)
	}
}
