// Package dispatch models outbound sales dispatches. Creating one deducts stock.
package dispatch

import (
	"time"

	"github.com/BiharaCD/beverage-OS/internal/domain/enum"
	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusDraft      Status = "Draft"
	StatusDispatched Status = "Dispatched"
	StatusDelivered  Status = "Delivered"
)

var Statuses = enum.Set[Status]{StatusDraft, StatusDispatched, StatusDelivered}

type Line struct {
	ItemName  string          `json:"itemName" bson:"itemName"`
	Quantity  int             `json:"quantity" bson:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" bson:"unitPrice"`
}

// Amount is quantity times unit price.
func (l Line) Amount() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Dispatch struct {
	ID            string    `json:"_id" bson:"_id"`
	CustomerID    string    `json:"customerID" bson:"customerID"`
	InvoiceNumber string    `json:"invoiceNumber" bson:"invoiceNumber"`
	Items         []Line    `json:"items" bson:"items"`
	DispatchDate  time.Time `json:"dispatchDate" bson:"dispatchDate"`
	Status        Status    `json:"status" bson:"status"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (d *Dispatch) DocumentID() string { return d.ID }

// New builds an unsaved dispatch. Status defaults to Draft and dispatchDate to now.
func New(id, customerID, invoiceNumber string, lines []Line, status Status, dispatchDate time.Time, now time.Time) (*Dispatch, error) {
	if status == "" {
		status = StatusDraft
	}
	if err := Statuses.Check("status", status); err != nil {
		return nil, err
	}
	if dispatchDate.IsZero() {
		dispatchDate = now
	}
	return &Dispatch{
		ID:            id,
		CustomerID:    customerID,
		InvoiceNumber: invoiceNumber,
		Items:         lines,
		DispatchDate:  dispatchDate,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Total sums the line amounts.
func (d *Dispatch) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Items {
		total = total.Add(l.Amount())
	}
	return total
}

func (d *Dispatch) SetStatus(status string, now time.Time) error {
	s := Status(status)
	if err := Statuses.Check("status", s); err != nil {
		return err
	}
	d.Status = s
	d.UpdatedAt = now
	return nil
}
