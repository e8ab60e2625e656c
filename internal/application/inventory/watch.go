package inventory

import (
	"context"
	"errors"
	"fmt"

	dominv "github.com/BiharaCD/beverage-OS/internal/domain/inventory"
	"github.com/BiharaCD/beverage-OS/internal/observability"
	"github.com/BiharaCD/beverage-OS/internal/observability/logctx"
)

// StockWatch re-reads items touched by a receipt or dispatch and reports the ones
// that sit below their reorder level.
type StockWatch struct {
	items    dominv.Repository
	log      observability.Logger
	breaches observability.Counter
}

func NewStockWatch(items dominv.Repository, tel observability.Observability) *StockWatch {
	if tel == nil {
		tel = observability.Nop()
	}
	return &StockWatch{
		items:    items,
		log:      tel.Logger().With(observability.F("component", "stock_watch")),
		breaches: tel.Metrics().Counter(observability.MThresholdBreaches),
	}
}

// Inspect returns the items among ids whose quantity is below threshold. Items that
// have disappeared since the event are skipped.
func (w *StockWatch) Inspect(ctx context.Context, ids []string) ([]*dominv.Item, error) {
	logger := logctx.FromOr(ctx, w.log)

	seen := make(map[string]struct{}, len(ids))
	var low []*dominv.Item
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		item, err := w.items.Get(ctx, id)
		if errors.Is(err, dominv.ErrNotFound) {
			continue
		}
		if err != nil {
			return low, fmt.Errorf("stock watch: get %s: %w", id, err)
		}
		if !item.BelowThreshold() {
			continue
		}

		w.breaches.Add(1, observability.L("category", item.Category))
		logger.Warn("stock_below_threshold",
			observability.F("item_id", item.ID),
			observability.F("item_code", item.ItemCode),
			observability.F("item_name", item.ItemName),
			observability.F("quantity", item.Quantity),
			observability.F("threshold", item.Threshold),
		)
		low = append(low, item)
	}
	return low, nil
}
