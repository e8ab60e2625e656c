// Package workerpresentation adapts bus events into background application calls.
package workerpresentation

import (
	"context"

	"github.com/BiharaCD/beverage-OS/internal/application"
	appinv "github.com/BiharaCD/beverage-OS/internal/application/inventory"
	dominv "github.com/BiharaCD/beverage-OS/internal/domain/inventory"
	domoutbox "github.com/BiharaCD/beverage-OS/internal/domain/outbox"
	"github.com/BiharaCD/beverage-OS/internal/observability"
	"go.opentelemetry.io/otel/attribute"
)

const (
	stockWatchService = "stock-watch-worker"
	useCaseStockWatch = "inventory.worker.stock_watch"
)

// StockWatchWorker inspects the items touched by each receipt and dispatch and
// reports the ones left below their reorder threshold.
type StockWatchWorker struct {
	subscriber domoutbox.Subscriber
	watch      *appinv.StockWatch
	tel        observability.Observability
	log        observability.Logger
	in         *application.Instrument
}

func NewStockWatchWorker(subscriber domoutbox.Subscriber, watch *appinv.StockWatch, tel observability.Observability, logger observability.Logger) *StockWatchWorker {
	if tel == nil {
		tel = observability.Nop()
	}
	if logger == nil {
		logger = tel.Logger()
	}
	return &StockWatchWorker{
		subscriber: subscriber,
		watch:      watch,
		tel:        tel,
		log:        logger.With(observability.F("service", stockWatchService)),
		in:         application.NewInstrument(tel, stockWatchService),
	}
}

func (w *StockWatchWorker) Start() {
	if w.subscriber == nil || w.watch == nil {
		return
	}
	w.subscriber.Subscribe(dominv.StockReceivedEvent{}.EventName(), w.handle)
	w.subscriber.Subscribe(dominv.StockDispatchedEvent{}.EventName(), w.handle)
}

func (w *StockWatchWorker) handle(ctx context.Context, e domoutbox.Event) (err error) {
	var scope EventScope
	var ids []string
	switch evt := e.(type) {
	case dominv.StockReceivedEvent:
		scope = EventScope{Name: e.EventName(), ID: evt.GRNID, Attrs: map[string]string{"source": "grn"}}
		ids = evt.ItemIDs
	case dominv.StockDispatchedEvent:
		scope = EventScope{Name: e.EventName(), ID: evt.DispatchID, Attrs: map[string]string{"source": "sales_dispatch"}}
		ids = evt.ItemIDs
	default:
		return nil
	}
	ctx = WithEventContext(ctx, w.log, w.tel, scope)

	ctx, run := w.in.Start(ctx, useCaseStockWatch, "StockWatch",
		attribute.String("event", e.EventName()),
		attribute.Int("items", len(ids)),
	)
	defer func() { run.End(err) }()

	low, err := w.watch.Inspect(ctx, ids)
	run.Add(observability.F("inspected", len(ids)), observability.F("below_threshold", len(low)))
	return err
}
