package prometrics

import (
	"testing"

	"github.com/BiharaCD/beverage-OS/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounter_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New("test", reg)

	c1 := r.Counter(observability.MUsecaseRequests, "help", "use_case", "outcome")
	c2 := r.Counter(observability.MUsecaseRequests, "help", "use_case", "outcome")

	c1.Add(1, observability.L("use_case", "inventory.receive"), observability.L("outcome", "success"))
	c2.Add(2, observability.L("use_case", "inventory.receive"), observability.L("outcome", "success"))

	got := testutil.ToFloat64(c1.(*counter).v.WithLabelValues("inventory.receive", "success"))
	if got != 3 {
		t.Errorf("expected 3, got %v", got)
	}
}

func TestStandard_RegistersAllKeys(t *testing.T) {
	reg := prometheus.NewRegistry()
	counters, histograms := Standard(New("beverage_os", reg))

	for _, k := range []observability.MetricKey{
		observability.MUsecaseRequests,
		observability.MHTTPRequests,
		observability.MExternalRequests,
		observability.MThresholdBreaches,
		observability.MEventsHandled,
	} {
		if counters[k] == nil {
			t.Errorf("missing counter %s", k)
		}
	}
	for _, k := range []observability.MetricKey{
		observability.MUsecaseDuration,
		observability.MHTTPRequestDuration,
		observability.MExternalRequestDuration,
	} {
		if histograms[k] == nil {
			t.Errorf("missing histogram %s", k)
		}
	}
}
