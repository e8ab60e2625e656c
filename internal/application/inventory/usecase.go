package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/BiharaCD/beverage-OS/internal/application"
	"github.com/BiharaCD/beverage-OS/internal/domain/dispatch"
	"github.com/BiharaCD/beverage-OS/internal/domain/document"
	dominv "github.com/BiharaCD/beverage-OS/internal/domain/inventory"
	domoutbox "github.com/BiharaCD/beverage-OS/internal/domain/outbox"
	"github.com/BiharaCD/beverage-OS/internal/domain/receipt"
	"github.com/BiharaCD/beverage-OS/internal/observability"
	"github.com/BiharaCD/beverage-OS/internal/pkg/apperr"
	"github.com/BiharaCD/beverage-OS/internal/pkg/validation"
	"go.opentelemetry.io/otel/attribute"
)

const (
	inventoryService = "inventory-service"

	useCaseReceiveGoods    = "inventory.receive"
	useCaseDispatchGoods   = "inventory.dispatch"
	useCaseUpdateThreshold = "inventory.threshold"

	itemCodePrefix = "ITEM"
	grnCodePrefix  = "GRN"
)

// Deps are the collaborators shared by the inventory use cases.
type Deps struct {
	Items      dominv.Repository
	GRNs       document.Store[receipt.GRN]
	Dispatches document.Store[dispatch.Dispatch]
	IDs        application.IDGenerator
	Codes      application.CodeGenerator
	Clock      application.Clock
	Publisher  domoutbox.Publisher
	Validator  *validation.Validator
	Telemetry  observability.Observability
}

func (d Deps) now() application.Clock {
	if d.Clock == nil {
		return application.SystemClock
	}
	return d.Clock
}

type ReceiveGoodsUseCase struct {
	deps Deps
	now  application.Clock
	in   *application.Instrument
}

func NewReceiveGoodsUseCase(deps Deps) *ReceiveGoodsUseCase {
	return &ReceiveGoodsUseCase{
		deps: deps,
		now:  deps.now(),
		in:   application.NewInstrument(deps.Telemetry, inventoryService),
	}
}

// Execute records the GRN, then applies each line to stock in order. A failing line
// stops the loop; the GRN and earlier lines stay applied.
func (uc *ReceiveGoodsUseCase) Execute(ctx context.Context, cmd ReceiveGoodsCommand) (_ *receipt.GRN, err error) {
	ctx, run := uc.in.Start(ctx, useCaseReceiveGoods, "ReceiveGoods",
		attribute.String("po.id", cmd.POID),
		attribute.Int("lines", len(cmd.Items)),
	)
	defer func() { run.End(err) }()
	run.Add(observability.F("po_id", cmd.POID), observability.F("lines", len(cmd.Items)))

	if err := uc.deps.Validator.Struct(cmd, receiveMessages); err != nil {
		return nil, err
	}
	if cmd.QC != "" {
		if err := dominv.QCStatuses.Check("QC", cmd.QC); err != nil {
			return nil, apperr.Validation("QC", err.Error())
		}
	}

	lines := make([]receipt.Line, len(cmd.Items))
	for i, l := range cmd.Items {
		qty, _ := l.QuantityReceived.Int()
		lines[i] = receipt.Line{
			ItemName:         l.ItemName,
			Category:         l.Category,
			QuantityReceived: qty,
			LotNumber:        l.LotNumber,
			ExpiryDate:       l.ExpiryDate.Ptr(),
		}
	}

	number, err := uc.deps.Codes.Next(ctx, grnCodePrefix)
	if err != nil {
		return nil, fmt.Errorf("grn: number: %w", err)
	}
	grn := receipt.New(uc.deps.IDs.NewID(), number, cmd.POID, lines, cmd.QC, uc.now())
	if err := uc.deps.GRNs.Insert(ctx, grn); err != nil {
		return nil, fmt.Errorf("grn: save: %w", err)
	}
	run.Add(observability.F("grn_id", grn.ID), observability.F("grn_number", grn.GRNNumber))

	touched := make([]string, 0, len(lines))
	for i, line := range lines {
		item, lookup, err := uc.applyReceipt(ctx, line, cmd.QC)
		if err != nil {
			run.Add(observability.F("failed_line", i))
			return nil, err
		}
		run.Event("line_applied",
			attribute.String("item.id", item.ID),
			attribute.String("lookup", lookup.String()),
		)
		touched = append(touched, item.ID)
	}

	if err := uc.in.Publish(ctx, uc.deps.Publisher, dominv.NewStockReceivedEvent(grn.ID, touched)); err != nil {
		uc.in.Logger(ctx).Warn("publish_failed",
			observability.F("event", dominv.StockReceivedEvent{}.EventName()),
			observability.F("error", err),
		)
	}
	return grn, nil
}

// applyReceipt is the read-modify-write for one received line. It is not atomic: two
// receipts of the same key running at once can both read the old quantity and one
// increment is lost, or both miss and create two items. A conditional $inc upsert
// on (itemName, category) is what would close this.
func (uc *ReceiveGoodsUseCase) applyReceipt(ctx context.Context, line receipt.Line, qc dominv.QCStatus) (*dominv.Item, dominv.Lookup, error) {
	r := dominv.Receipt{
		Quantity:   line.QuantityReceived,
		LotNumber:  line.LotNumber,
		ExpiryDate: line.ExpiryDate,
		QC:         qc,
	}
	now := uc.now()

	item, lookup, err := uc.deps.Items.FindOrCreate(ctx, line.Key(), func() (*dominv.Item, error) {
		code, err := uc.deps.Codes.Next(ctx, itemCodePrefix)
		if err != nil {
			return nil, fmt.Errorf("inventory: item code: %w", err)
		}
		return dominv.NewItem(uc.deps.IDs.NewID(), code, line.Key(), r, now)
	})
	if err != nil {
		return nil, lookup, err
	}
	if lookup == dominv.Created {
		return item, lookup, nil
	}

	if err := item.Receive(r, now); err != nil {
		return nil, lookup, err
	}
	if err := uc.deps.Items.Save(ctx, item); err != nil {
		return nil, lookup, err
	}
	return item, lookup, nil
}

type DispatchGoodsUseCase struct {
	deps Deps
	now  application.Clock
	in   *application.Instrument
}

func NewDispatchGoodsUseCase(deps Deps) *DispatchGoodsUseCase {
	return &DispatchGoodsUseCase{
		deps: deps,
		now:  deps.now(),
		in:   application.NewInstrument(deps.Telemetry, inventoryService),
	}
}

// Execute validates every line, deducts them one by one and only then stores the
// dispatch. Lines deducted before a failing line stay deducted.
func (uc *DispatchGoodsUseCase) Execute(ctx context.Context, cmd DispatchGoodsCommand) (_ *dispatch.Dispatch, err error) {
	cmd.normalise()
	ctx, run := uc.in.Start(ctx, useCaseDispatchGoods, "DispatchGoods",
		attribute.String("invoice.number", cmd.InvoiceNumber),
		attribute.Int("lines", len(cmd.Items)),
	)
	defer func() { run.End(err) }()
	run.Add(
		observability.F("customer_id", cmd.CustomerID),
		observability.F("invoice_number", cmd.InvoiceNumber),
		observability.F("lines", len(cmd.Items)),
	)

	if err := uc.deps.Validator.Struct(cmd, dispatchMessages); err != nil {
		return nil, err
	}

	lines := make([]dispatch.Line, len(cmd.Items))
	for i, l := range cmd.Items {
		qty, _ := l.Quantity.Int()
		price, _ := l.UnitPrice.Decimal()
		lines[i] = dispatch.Line{ItemName: l.ItemName, Quantity: qty, UnitPrice: price}
	}

	now := uc.now()
	dispatchDate := now
	if cmd.DispatchDate != nil && !cmd.DispatchDate.IsZero() {
		dispatchDate = cmd.DispatchDate.Time
	}
	d, err := dispatch.New(uc.deps.IDs.NewID(), cmd.CustomerID, cmd.InvoiceNumber, lines, dispatch.Status(cmd.Status), dispatchDate, now)
	if err != nil {
		return nil, apperr.Validation("status", err.Error())
	}

	touched := make([]string, 0, len(lines))
	for i, line := range lines {
		item, err := uc.applyDeduction(ctx, line)
		if err != nil {
			run.Add(observability.F("failed_line", i), observability.F("deducted_lines", i))
			return nil, err
		}
		touched = append(touched, item.ID)
	}

	if err := uc.deps.Dispatches.Insert(ctx, d); err != nil {
		return nil, fmt.Errorf("dispatch: save: %w", err)
	}
	run.Add(observability.F("dispatch_id", d.ID), observability.F("total", d.Total().String()))

	if err := uc.in.Publish(ctx, uc.deps.Publisher, dominv.NewStockDispatchedEvent(d.ID, touched)); err != nil {
		uc.in.Logger(ctx).Warn("publish_failed",
			observability.F("event", dominv.StockDispatchedEvent{}.EventName()),
			observability.F("error", err),
		)
	}
	return d, nil
}

// applyDeduction is the read-modify-write for one dispatched line. Like applyReceipt
// it is not atomic; a concurrent dispatch can pass the same availability check and
// drive the stored quantity negative. A conditional update guarded on
// quantity >= requested would close this.
func (uc *DispatchGoodsUseCase) applyDeduction(ctx context.Context, line dispatch.Line) (*dominv.Item, error) {
	item, err := uc.deps.Items.FindByName(ctx, line.ItemName)
	if errors.Is(err, dominv.ErrNotFound) {
		return nil, apperr.Validation("itemName", "Inventory item not found: "+line.ItemName)
	}
	if err != nil {
		return nil, err
	}

	if err := item.Deduct(line.Quantity, uc.now()); err != nil {
		if errors.Is(err, dominv.ErrInsufficientStock) {
			return nil, &apperr.StockInsufficientError{
				ItemName:  line.ItemName,
				Available: item.Quantity,
				Requested: line.Quantity,
			}
		}
		return nil, err
	}
	if err := uc.deps.Items.Save(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}
