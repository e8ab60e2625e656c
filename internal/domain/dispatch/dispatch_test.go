package dispatch

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestNew_Defaults(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	d, err := New("d1", "c1", "INV-1", []Line{
		{ItemName: "Bottle500ml", Quantity: 30, UnitPrice: decimal.RequireFromString("2.5")},
		{ItemName: "CapLiner", Quantity: 4, UnitPrice: decimal.RequireFromString("0.25")},
	}, "", time.Time{}, now)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if d.Status != StatusDraft || !d.DispatchDate.Equal(now) {
		t.Errorf("unexpected defaults %+v", d)
	}
	if !d.Total().Equal(decimal.RequireFromString("76")) {
		t.Errorf("expected total 76, got %s", d.Total())
	}

	if _, err := New("d2", "c1", "INV-2", nil, "Lost", now, now); err == nil {
		t.Error("expected unknown status to be rejected")
	}
}

func TestSetStatus_AnyMember(t *testing.T) {
	d := &Dispatch{Status: StatusDelivered}
	if err := d.SetStatus("Draft", time.Now()); err != nil {
		t.Fatalf("moving back to Draft should be allowed: %v", err)
	}
	if err := d.SetStatus("Returned", time.Now()); err == nil {
		t.Error("expected non-member to be rejected")
	}
	if d.Status != StatusDraft {
		t.Errorf("rejected status changed the record: %s", d.Status)
	}
}
