// Package sales holds customer invoices. Invoices never touch stock; dispatches do.
package sales

import (
	"time"

	"github.com/BiharaCD/beverage-OS/internal/domain/enum"
	"github.com/BiharaCD/beverage-OS/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceDraft   InvoiceStatus = "Draft"
	InvoiceIssued  InvoiceStatus = "Issued"
	InvoicePaid    InvoiceStatus = "Paid"
	InvoiceOverdue InvoiceStatus = "Overdue"
)

var InvoiceStatuses = enum.Set[InvoiceStatus]{InvoiceDraft, InvoiceIssued, InvoicePaid, InvoiceOverdue}

type InvoiceLine struct {
	SKU       string          `json:"SKU" bson:"SKU" validate:"required"`
	Quantity  int             `json:"quantity" bson:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice" bson:"unitPrice"`
}

type Invoice struct {
	ID               string        `json:"_id" bson:"_id"`
	CustomerID       string        `json:"customerID" bson:"customerID" validate:"required"`
	LinkedDispatchID string        `json:"linkedDispatchID,omitempty" bson:"linkedDispatchID,omitempty"`
	Items            []InvoiceLine `json:"items" bson:"items" validate:"required,min=1,dive"`
	InvoiceNumber    string        `json:"invoiceNumber" bson:"invoiceNumber" validate:"required"`
	InvoiceDate      calendar.Date `json:"invoiceDate" bson:"invoiceDate"`
	Status           InvoiceStatus `json:"status" bson:"status"`
	CreatedAt        time.Time     `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time     `json:"updatedAt" bson:"updatedAt"`
}

func (i *Invoice) DocumentID() string { return i.ID }

func (i *Invoice) Init(id string, now time.Time) error {
	if i.Status == "" {
		i.Status = InvoiceDraft
	}
	if err := InvoiceStatuses.Check("status", i.Status); err != nil {
		return err
	}
	if i.InvoiceDate.IsZero() {
		i.InvoiceDate = calendar.Of(now)
	}
	i.ID, i.CreatedAt, i.UpdatedAt = id, now, now
	return nil
}

func (i *Invoice) SetStatus(status string, now time.Time) error {
	s := InvoiceStatus(status)
	if err := InvoiceStatuses.Check("status", s); err != nil {
		return err
	}
	i.Status, i.UpdatedAt = s, now
	return nil
}

// Total sums quantity times unit price over the invoice lines.
func (i *Invoice) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range i.Items {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}
