// Package purchasing holds purchase orders and the supplier bills raised against them.
package purchasing

import (
	"time"

	"github.com/BiharaCD/beverage-OS/internal/domain/enum"
	"github.com/BiharaCD/beverage-OS/internal/pkg/calendar"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderDraft             OrderStatus = "Draft"
	OrderApproved          OrderStatus = "Approved"
	OrderSent              OrderStatus = "Sent"
	OrderPartiallyReceived OrderStatus = "Partially Received"
	OrderClosed            OrderStatus = "Closed"
)

var OrderStatuses = enum.Set[OrderStatus]{OrderDraft, OrderApproved, OrderSent, OrderPartiallyReceived, OrderClosed}

type OrderLine struct {
	ItemName  string          `json:"itemName" bson:"itemName" validate:"required"`
	Quantity  int             `json:"quantity" bson:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice" bson:"unitPrice" validate:"posdec"`
}

type PurchaseOrder struct {
	ID                   string         `json:"_id" bson:"_id"`
	PONumber             string         `json:"poNumber" bson:"poNumber" validate:"required"`
	SupplierID           string         `json:"supplierID" bson:"supplierID" validate:"required"`
	Items                []OrderLine    `json:"items" bson:"items" validate:"required,min=1,dive"`
	ExpectedDeliveryDate *calendar.Date `json:"expectedDeliveryDate,omitempty" bson:"expectedDeliveryDate,omitempty"`
	Status               OrderStatus    `json:"status" bson:"status"`
	CreatedAt            time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt            time.Time      `json:"updatedAt" bson:"updatedAt"`
}

func (o *PurchaseOrder) DocumentID() string { return o.ID }

func (o *PurchaseOrder) Init(id string, now time.Time) error {
	if o.Status == "" {
		o.Status = OrderDraft
	}
	if err := OrderStatuses.Check("status", o.Status); err != nil {
		return err
	}
	o.ID, o.CreatedAt, o.UpdatedAt = id, now, now
	return nil
}

func (o *PurchaseOrder) SetStatus(status string, now time.Time) error {
	s := OrderStatus(status)
	if err := OrderStatuses.Check("status", s); err != nil {
		return err
	}
	o.Status, o.UpdatedAt = s, now
	return nil
}

type BillStatus string

const (
	BillDraft    BillStatus = "Draft"
	BillApproved BillStatus = "Approved"
	BillUnpaid   BillStatus = "Unpaid"
	BillPaid     BillStatus = "Paid"
)

var BillStatuses = enum.Set[BillStatus]{BillDraft, BillApproved, BillUnpaid, BillPaid}

type BillLine struct {
	InventoryID string          `json:"inventoryID,omitempty" bson:"inventoryID,omitempty"`
	Quantity    int             `json:"quantity" bson:"quantity" validate:"gte=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice" bson:"unitPrice"`
}

type SupplierBill struct {
	ID         string         `json:"_id" bson:"_id"`
	SupplierID string         `json:"supplierID" bson:"supplierID" validate:"required"`
	BillNumber string         `json:"billNumber" bson:"billNumber" validate:"required"`
	BillDate   calendar.Date  `json:"billDate" bson:"billDate" validate:"required"`
	DueDate    *calendar.Date `json:"dueDate,omitempty" bson:"dueDate,omitempty"`
	LinkedPO   string         `json:"linkedPO,omitempty" bson:"linkedPO,omitempty"`
	LinkedGRN  string         `json:"linkedGRN,omitempty" bson:"linkedGRN,omitempty"`
	Items      []BillLine     `json:"items" bson:"items" validate:"dive"`
	Status     BillStatus     `json:"status" bson:"status"`
	CreatedAt  time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt" bson:"updatedAt"`
}

func (b *SupplierBill) DocumentID() string { return b.ID }

func (b *SupplierBill) Init(id string, now time.Time) error {
	if b.Status == "" {
		b.Status = BillDraft
	}
	if err := BillStatuses.Check("status", b.Status); err != nil {
		return err
	}
	if b.Items == nil {
		b.Items = []BillLine{}
	}
	b.ID, b.CreatedAt, b.UpdatedAt = id, now, now
	return nil
}

func (b *SupplierBill) SetStatus(status string, now time.Time) error {
	s := BillStatus(status)
	if err := BillStatuses.Check("status", s); err != nil {
		return err
	}
	b.Status, b.UpdatedAt = s, now
	return nil
}

// Total sums quantity times unit price over the bill lines.
func (b *SupplierBill) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range b.Items {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}
