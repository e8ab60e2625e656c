package inventory

import (
	"strings"

	dominv "github.com/BiharaCD/beverage-OS/internal/domain/inventory"
	"github.com/BiharaCD/beverage-OS/internal/pkg/calendar"
	"github.com/BiharaCD/beverage-OS/internal/pkg/validation"
)

// ReceiveGoodsCommand is a goods receipt against a purchase order.
type ReceiveGoodsCommand struct {
	POID  string          `json:"poID" validate:"required"`
	Items []ReceiveLine   `json:"items" validate:"required,min=1,dive"`
	QC    dominv.QCStatus `json:"QC"`
}

type ReceiveLine struct {
	ItemName         string            `json:"itemName" validate:"required"`
	Category         string            `json:"category" validate:"required"`
	QuantityReceived validation.Number `json:"quantityReceived" validate:"required,posint"`
	LotNumber        string            `json:"lotNumber"`
	ExpiryDate       *calendar.Date    `json:"expiryDate"`
}

var receiveMessages = validation.Messages{
	"POID.required":             "Purchase Order ID is required",
	"Items.required":            "At least one item is required",
	"Items.min":                 "At least one item is required",
	"ItemName.required":         "Item name is required for all items",
	"Category.required":         "Category is required for all items",
	"QuantityReceived.required": "Quantity received is required for all items",
	"QuantityReceived.posint":   "Quantity must be a positive number",
}

// DispatchGoodsCommand is an outbound sale that deducts stock.
type DispatchGoodsCommand struct {
	CustomerID    string         `json:"customerID" validate:"required"`
	InvoiceNumber string         `json:"invoiceNumber" validate:"required"`
	Items         []DispatchLine `json:"items" validate:"required,min=1,dive"`
	Status        string         `json:"status"`
	DispatchDate  *calendar.Date `json:"dispatchDate"`
}

type DispatchLine struct {
	ItemName  string            `json:"itemName" validate:"required"`
	Quantity  validation.Number `json:"quantity" validate:"required,posint"`
	UnitPrice validation.Number `json:"unitPrice" validate:"required,posdec"`
}

var dispatchMessages = validation.Messages{
	"CustomerID.required":    "Customer ID is required",
	"InvoiceNumber.required": "Invoice number is required",
	"Items.required":         "At least one item is required",
	"Items.min":              "At least one item is required",
	"ItemName.required":      "Item name is required",
	"Quantity.required":      "Quantity must be greater than 0",
	"Quantity.posint":        "Quantity must be greater than 0",
	"UnitPrice.required":     "Unit price must be greater than 0",
	"UnitPrice.posdec":       "Unit price must be greater than 0",
}

// normalise trims item names so "  Bottle500ml " dispatches Bottle500ml.
func (c *DispatchGoodsCommand) normalise() {
	c.CustomerID = strings.TrimSpace(c.CustomerID)
	c.InvoiceNumber = strings.TrimSpace(c.InvoiceNumber)
	c.Items = append([]DispatchLine(nil), c.Items...)
	for i := range c.Items {
		c.Items[i].ItemName = strings.TrimSpace(c.Items[i].ItemName)
	}
}

// UpdateThresholdCommand changes the reorder level of one item.
type UpdateThresholdCommand struct {
	ItemID    string            `json:"-"`
	Threshold validation.Number `json:"threshold" validate:"required,nonnegint"`
}

var thresholdMessages = validation.Messages{
	"Threshold.required":  "Threshold value is required",
	"Threshold.nonnegint": "Threshold must be a non-negative number",
}
