package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestStockInsufficientError_Message(t *testing.T) {
	err := &StockInsufficientError{ItemName: "Bottle500ml", Available: 10, Requested: 20}
	if got, want := err.Error(), "Insufficient stock for Bottle500ml. Available: 10"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestKindsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("grn: create: %w", Validation("poID", "Purchase Order ID is required"))
	if !IsValidation(wrapped) {
		t.Fatal("expected wrapped validation error to be detected")
	}
	var v *ValidationError
	if !errors.As(wrapped, &v) || v.Field != "poID" {
		t.Errorf("expected field poID, got %+v", v)
	}

	nf := fmt.Errorf("inventory: get: %w", NotFound("Item", "abc"))
	if !IsNotFound(nf) {
		t.Fatal("expected wrapped not found error to be detected")
	}
	if nf.Error() != "inventory: get: Item not found" {
		t.Errorf("unexpected message %q", nf.Error())
	}
}

func TestUnauthorizedError_Forbidden(t *testing.T) {
	var u *UnauthorizedError
	if !errors.As(Forbidden(""), &u) || !u.Forbidden {
		t.Fatal("expected forbidden unauthorized error")
	}
	if u.Error() != "forbidden" {
		t.Errorf("unexpected message %q", u.Error())
	}
}
