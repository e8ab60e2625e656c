package inventory

import "time"

// StockReceivedEvent is emitted after a goods receipt has been applied to stock.
type StockReceivedEvent struct {
	GRNID      string
	ItemIDs    []string
	OccurredAt time.Time
}

func (StockReceivedEvent) EventName() string { return "inventory.received" }

func NewStockReceivedEvent(grnID string, itemIDs []string) StockReceivedEvent {
	return StockReceivedEvent{
		GRNID:      grnID,
		ItemIDs:    itemIDs,
		OccurredAt: time.Now().UTC(),
	}
}

// StockDispatchedEvent is emitted after a dispatch has been deducted from stock.
type StockDispatchedEvent struct {
	DispatchID string
	ItemIDs    []string
	OccurredAt time.Time
}

func (StockDispatchedEvent) EventName() string { return "inventory.dispatched" }

func NewStockDispatchedEvent(dispatchID string, itemIDs []string) StockDispatchedEvent {
	return StockDispatchedEvent{
		DispatchID: dispatchID,
		ItemIDs:    itemIDs,
		OccurredAt: time.Now().UTC(),
	}
}
