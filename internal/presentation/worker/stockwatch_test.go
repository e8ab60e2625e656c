package workerpresentation

import (
	"context"
	"sync"
	"testing"
	"time"

	appinv "github.com/BiharaCD/beverage-OS/internal/application/inventory"
	dominv "github.com/BiharaCD/beverage-OS/internal/domain/inventory"
	"github.com/BiharaCD/beverage-OS/internal/infrastructure/memory"
	"github.com/BiharaCD/beverage-OS/internal/infrastructure/outbox"
	"github.com/BiharaCD/beverage-OS/internal/infrastructure/repository"
	"github.com/BiharaCD/beverage-OS/internal/observability"
)

type counterSpy struct {
	mu     sync.Mutex
	labels [][]observability.Label
}

func (c *counterSpy) Add(_ float64, labels ...observability.Label) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.labels = append(c.labels, labels)
}

func (c *counterSpy) calls() [][]observability.Label {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]observability.Label(nil), c.labels...)
}

type spyMetrics struct {
	mu       sync.Mutex
	counters map[observability.MetricKey]*counterSpy
}

func (m *spyMetrics) Counter(name observability.MetricKey) observability.Counter {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.counters[name]
	if !ok {
		c = &counterSpy{}
		m.counters[name] = c
	}
	return c
}

func (*spyMetrics) Histogram(observability.MetricKey) observability.Histogram {
	return observability.NopHistogram()
}

type spyTelemetry struct{ metrics *spyMetrics }

func (spyTelemetry) Tracer() observability.Tracer     { return observability.NopTracer() }
func (spyTelemetry) Logger() observability.Logger     { return observability.NopLogger() }
func (t spyTelemetry) Metrics() observability.Metrics { return t.metrics }

func seedItem(t *testing.T, store *memory.Collection[dominv.Item, *dominv.Item], id, name string, quantity int) {
	t.Helper()
	item, err := dominv.NewItem(id, "ITEM-"+id, dominv.Key{ItemName: name, Category: "Packaging"},
		dominv.Receipt{Quantity: quantity}, time.Now().UTC())
	if err != nil {
		t.Fatalf("NewItem: %v", err)
	}
	if err := store.Insert(context.Background(), item); err != nil {
		t.Fatalf("Insert: %v", err)
	}
}

func TestStockWatchWorker_ReportsLowStockFromEvents(t *testing.T) {
	tel := spyTelemetry{metrics: &spyMetrics{counters: make(map[observability.MetricKey]*counterSpy)}}
	store := memory.NewCollection[dominv.Item]("inventory", "itemCode")
	seedItem(t, store, "low", "Bottle500ml", 4)
	seedItem(t, store, "ok", "Cap28mm", 400)

	bus := outbox.NewBus(nil, tel, outbox.Options{})
	watch := appinv.NewStockWatch(repository.NewInventoryRepository(store), tel)
	NewStockWatchWorker(bus, watch, tel, nil).Start()

	ctx := context.Background()
	bus.Start(ctx)
	if err := bus.Publish(ctx, dominv.NewStockDispatchedEvent("d-1", []string{"low", "ok", "low"})); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := bus.Publish(ctx, dominv.NewStockReceivedEvent("g-1", []string{"ok", "missing"})); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := bus.Stop(stopCtx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	breaches := tel.metrics.Counter(observability.MThresholdBreaches).(*counterSpy).calls()
	if len(breaches) != 1 {
		t.Fatalf("expected one breach, got %v", breaches)
	}
	if got := breaches[0][0]; got.Key != "category" || got.Value != "Packaging" {
		t.Errorf("unexpected breach label %+v", got)
	}

	runs := tel.metrics.Counter(observability.MUsecaseRequests).(*counterSpy).calls()
	if len(runs) != 2 {
		t.Fatalf("expected two stock watch runs, got %d", len(runs))
	}
	for _, labels := range runs {
		for _, l := range labels {
			if l.Key == "outcome" && l.Value != "success" {
				t.Errorf("unexpected outcome %q", l.Value)
			}
		}
	}
}

func TestStockWatchWorker_IgnoresForeignEvents(t *testing.T) {
	w := NewStockWatchWorker(nil, nil, nil, nil)
	if err := w.handle(context.Background(), otherEvent{}); err != nil {
		t.Errorf("foreign event: %v", err)
	}
	w.Start()
}

type otherEvent struct{}

func (otherEvent) EventName() string { return "something.else" }
