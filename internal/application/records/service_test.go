package records

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/BiharaCD/beverage-OS/internal/domain/party"
	"github.com/BiharaCD/beverage-OS/internal/domain/production"
	"github.com/BiharaCD/beverage-OS/internal/domain/purchasing"
	"github.com/BiharaCD/beverage-OS/internal/domain/receipt"
	"github.com/BiharaCD/beverage-OS/internal/infrastructure/id"
	"github.com/BiharaCD/beverage-OS/internal/infrastructure/memory"
	"github.com/BiharaCD/beverage-OS/internal/observability"
	"github.com/BiharaCD/beverage-OS/internal/pkg/apperr"
	"github.com/BiharaCD/beverage-OS/internal/pkg/validation"
	"github.com/shopspring/decimal"
)

var (
	t0 = time.Date(2025, 1, 1, 8, 0, 0, 0, time.UTC)
	v  = validation.New("LK")
)

type tickingClock struct{ now time.Time }

func (c *tickingClock) Now() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

func newPOService(t *testing.T) *Service[purchasing.PurchaseOrder, *purchasing.PurchaseOrder] {
	t.Helper()
	store := memory.NewCollection[purchasing.PurchaseOrder]("purchaseorders", "poNumber")
	return New[purchasing.PurchaseOrder](store, id.NewUUIDGenerator(), func() time.Time { return t0 }, v, observability.Nop(), Options{
		Name:  "purchase_order",
		Label: "Purchase Order",
	})
}

func samplePO(number string) *purchasing.PurchaseOrder {
	return &purchasing.PurchaseOrder{
		PONumber:   number,
		SupplierID: "SUP-1",
		Items: []purchasing.OrderLine{
			{ItemName: "Bottle500ml", Quantity: 100, UnitPrice: decimal.RequireFromString("0.45")},
		},
	}
}

func TestCreate_DefaultsAndUniqueness(t *testing.T) {
	svc := newPOService(t)
	ctx := context.Background()

	po, err := svc.Create(ctx, samplePO("PO-1"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if po.ID == "" || po.Status != purchasing.OrderDraft || !po.CreatedAt.Equal(t0) {
		t.Errorf("unexpected PO %+v", po)
	}

	_, err = svc.Create(ctx, samplePO("PO-1"))
	var cerr *apperr.ConflictError
	if !errors.As(err, &cerr) {
		t.Errorf("expected conflict on duplicate poNumber, got %v", err)
	}

	bad := samplePO("PO-2")
	bad.Status = "Shipped"
	_, err = svc.Create(ctx, bad)
	if !apperr.IsValidation(err) || err.Error() != "status must be one of: Draft, Approved, Sent, Partially Received, Closed" {
		t.Errorf("expected status validation, got %v", err)
	}

	missing := samplePO("")
	if _, err := svc.Create(ctx, missing); !apperr.IsValidation(err) {
		t.Errorf("expected validation error for missing poNumber, got %v", err)
	}
}

func TestSetStatus_AnyMemberNoGraph(t *testing.T) {
	svc := newPOService(t)
	ctx := context.Background()
	po, err := svc.Create(ctx, samplePO("PO-1"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for _, status := range []string{"Closed", "Draft", "Partially Received"} {
		got, err := svc.SetStatus(ctx, po.ID, status)
		if err != nil {
			t.Fatalf("SetStatus %q: %v", status, err)
		}
		if string(got.Status) != status {
			t.Errorf("status = %q, want %q", got.Status, status)
		}
	}

	if _, err := svc.SetStatus(ctx, po.ID, "Lost"); !apperr.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	stored, _ := svc.Get(ctx, po.ID)
	if stored.Status != purchasing.OrderPartiallyReceived {
		t.Errorf("rejected status was stored: %q", stored.Status)
	}

	_, err = svc.SetStatus(ctx, "missing", "Closed")
	if !apperr.IsNotFound(err) || err.Error() != "Purchase Order not found" {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	svc := newPOService(t)
	ctx := context.Background()
	po, _ := svc.Create(ctx, samplePO("PO-1"))

	if err := svc.Delete(ctx, po.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, po.ID); !apperr.IsNotFound(err) {
		t.Errorf("expected not found on second delete, got %v", err)
	}
}

func TestBatch_QCResult(t *testing.T) {
	store := memory.NewCollection[production.Batch]("productionbatches", "batchID")
	svc := New[production.Batch](store, id.NewUUIDGenerator(), nil, v, nil, Options{Name: "production_batch", Label: "Batch"})
	ctx := context.Background()

	b, err := svc.Create(ctx, &production.Batch{BatchID: "B-1", SKU: "COLA-330"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.Status != production.StatusOpened || b.QCResult != "Pass" {
		t.Errorf("unexpected defaults %+v", b)
	}

	got, err := svc.SetQCResult(ctx, b.ID, "Fail")
	if err != nil || got.QCResult != "Fail" {
		t.Fatalf("SetQCResult: %+v %v", got, err)
	}
	if _, err := svc.SetQCResult(ctx, b.ID, "Unknown"); !apperr.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	if _, err := svc.SetStatus(ctx, b.ID, "SecondaryPacked"); err != nil {
		t.Errorf("SetStatus: %v", err)
	}
}

func TestParty_UpdateAndPhone(t *testing.T) {
	store := memory.NewCollection[party.Party]("suppliers")
	clock := &tickingClock{now: t0}
	svc := New[party.Party](store, id.NewUUIDGenerator(), clock.Now, v, nil, Options{
		Name:     "supplier",
		Label:    "Supplier",
		Messages: validation.Messages{"Name.required": "Supplier name is required"},
	})
	ctx := context.Background()

	if _, err := svc.Create(ctx, &party.Party{Name: "Acme", Phone: "12"}); !apperr.IsValidation(err) {
		t.Errorf("expected invalid phone rejected, got %v", err)
	}
	_, err := svc.Create(ctx, &party.Party{})
	if err == nil || err.Error() != "Supplier name is required" {
		t.Errorf("expected name message, got %v", err)
	}

	p, err := svc.Create(ctx, &party.Party{Name: "Acme", Phone: "0771234567", Email: "sales@acme.lk"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	updated, err := svc.Update(ctx, p.ID, &party.Party{Name: "Acme Ltd", Address: "Colombo"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Acme Ltd" || updated.Phone != "" || updated.Address != "Colombo" {
		t.Errorf("unexpected party %+v", updated)
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) || updated.ID != p.ID {
		t.Errorf("update must keep id and move updatedAt: %+v", updated)
	}
}

func TestUnsupportedOperations(t *testing.T) {
	store := memory.NewCollection[receipt.GRN]("grns", "grnNumber")
	svc := New[receipt.GRN](store, id.NewUUIDGenerator(), nil, v, nil, Options{Name: "grn", Label: "GRN", Newest: true})
	ctx := context.Background()

	if _, err := svc.Create(ctx, &receipt.GRN{}); !errors.Is(err, ErrUnsupported) {
		t.Errorf("GRN create must go through receiving, got %v", err)
	}

	older := receipt.New("g1", "GRN-1", "PO-1", nil, "", t0)
	newer := receipt.New("g2", "GRN-2", "PO-1", nil, "", t0.Add(time.Hour))
	_ = store.Insert(ctx, older)
	_ = store.Insert(ctx, newer)

	list, err := svc.List(ctx)
	if err != nil || len(list) != 2 || list[0].ID != "g2" {
		t.Errorf("expected newest first, got %v %v", list, err)
	}
	if _, err := svc.SetQCResult(ctx, "g1", "Pass"); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected unsupported, got %v", err)
	}
	if got, err := svc.SetStatus(ctx, "g1", "Closed"); err != nil || got.Status != receipt.StatusClosed {
		t.Errorf("SetStatus: %+v %v", got, err)
	}
}
