package inventory

import (
	"errors"
	"time"

	"github.com/BiharaCD/beverage-OS/internal/domain/enum"
)

var (
	ErrNotFound          = errors.New("inventory: item not found")
	ErrInvalidQuantity   = errors.New("inventory: quantity must be greater than zero")
	ErrInsufficientStock = errors.New("inventory: insufficient stock")
	ErrInvalidThreshold  = errors.New("inventory: threshold must be zero or greater")
)

// DefaultThreshold is the reorder level given to items created by a receipt.
const DefaultThreshold = 10

// QCStatus is a quality-control outcome. Goods receipts, stock items and production
// batches all use the same three values.
type QCStatus string

const (
	QCPass  QCStatus = "Pass"
	QCFail  QCStatus = "Fail"
	QCCheck QCStatus = "Check"
)

var QCStatuses = enum.Set[QCStatus]{QCPass, QCFail, QCCheck}

// Key is the identity used when receiving goods. Dispatch matches on ItemName alone.
type Key struct {
	ItemName string
	Category string
}

type Item struct {
	ID              string     `json:"_id" bson:"_id"`
	ItemCode        string     `json:"itemCode" bson:"itemCode"`
	ItemName        string     `json:"itemName" bson:"itemName"`
	Category        string     `json:"category" bson:"category"`
	SubCategory     string     `json:"subCategory,omitempty" bson:"subCategory,omitempty"`
	ContainerType   string     `json:"containerType,omitempty" bson:"containerType,omitempty"`
	LotNumber       string     `json:"lotNumber,omitempty" bson:"lotNumber,omitempty"`
	BatchID         string     `json:"batchID,omitempty" bson:"batchID,omitempty"`
	Quantity        int        `json:"quantity" bson:"quantity"`
	Threshold       int        `json:"threshold" bson:"threshold"`
	ExpiryDate      *time.Time `json:"expiryDate,omitempty" bson:"expiryDate,omitempty"`
	AlcoholFlag     bool       `json:"alcoholFlag" bson:"alcoholFlag"`
	QCStatus        QCStatus   `json:"QCstatus" bson:"QCstatus"`
	YieldPercentage float64    `json:"yieldPercentage" bson:"yieldPercentage"`
	LossReason      string     `json:"lossReason,omitempty" bson:"lossReason,omitempty"`
	CreatedAt       time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt" bson:"updatedAt"`
}

func (i *Item) DocumentID() string { return i.ID }

// Key returns the receipt identity of the item.
func (i *Item) Key() Key { return Key{ItemName: i.ItemName, Category: i.Category} }

// Receipt is one received line as applied to a stock item.
type Receipt struct {
	Quantity   int
	LotNumber  string
	ExpiryDate *time.Time
	QC         QCStatus
}

// NewItem creates the stock item for a first receipt of key. QCStatus falls back to Pass.
func NewItem(id, code string, key Key, r Receipt, now time.Time) (*Item, error) {
	if r.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	qc := r.QC
	if qc == "" {
		qc = QCPass
	}
	return &Item{
		ID:         id,
		ItemCode:   code,
		ItemName:   key.ItemName,
		Category:   key.Category,
		Quantity:   r.Quantity,
		Threshold:  DefaultThreshold,
		LotNumber:  r.LotNumber,
		ExpiryDate: r.ExpiryDate,
		QCStatus:   qc,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Receive adds a receipt to the item. Lot and expiry are replaced only when the
// receipt carries them; a QC outcome always replaces the previous one.
func (i *Item) Receive(r Receipt, now time.Time) error {
	if r.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	i.Quantity += r.Quantity
	if r.LotNumber != "" {
		i.LotNumber = r.LotNumber
	}
	if r.ExpiryDate != nil && !r.ExpiryDate.IsZero() {
		i.ExpiryDate = r.ExpiryDate
	}
	if r.QC != "" {
		i.QCStatus = r.QC
	}
	i.touch(now)
	return nil
}

func (i *Item) Deduct(quantity int, now time.Time) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > i.Quantity {
		return ErrInsufficientStock
	}
	i.Quantity -= quantity
	i.touch(now)
	return nil
}

func (i *Item) SetThreshold(threshold int, now time.Time) error {
	if threshold < 0 {
		return ErrInvalidThreshold
	}
	i.Threshold = threshold
	i.touch(now)
	return nil
}

// BelowThreshold reports whether stock has fallen under the reorder level.
func (i *Item) BelowThreshold() bool {
	return i.Quantity < i.Threshold
}

func (i *Item) touch(now time.Time) {
	i.UpdatedAt = now
}
