// Package production tracks production batches through the bottling line.
package production

import (
	"time"

	"github.com/BiharaCD/beverage-OS/internal/domain/enum"
	"github.com/BiharaCD/beverage-OS/internal/domain/inventory"
)

type Status string

const (
	StatusOpened          Status = "Opened"
	StatusInProcess       Status = "In-Process"
	StatusQC              Status = "QC"
	StatusFilling         Status = "Filling"
	StatusSealed          Status = "Sealed"
	StatusLabeled         Status = "Labeled"
	StatusSecondaryPacked Status = "SecondaryPacked"
	StatusClosed          Status = "Closed"
)

var Statuses = enum.Set[Status]{
	StatusOpened, StatusInProcess, StatusQC, StatusFilling,
	StatusSealed, StatusLabeled, StatusSecondaryPacked, StatusClosed,
}

type Batch struct {
	ID              string             `json:"_id" bson:"_id"`
	BatchID         string             `json:"batchID" bson:"batchID" validate:"required"`
	SKU             string             `json:"SKU" bson:"SKU" validate:"required"`
	Status          Status             `json:"status" bson:"status"`
	ContainerType   string             `json:"containerType,omitempty" bson:"containerType,omitempty"`
	AlcoholFlag     bool               `json:"alcoholFlag" bson:"alcoholFlag"`
	QCResult        inventory.QCStatus `json:"QCresult" bson:"QCresult"`
	YieldPercentage float64            `json:"yieldPercentage" bson:"yieldPercentage" validate:"gte=0,lte=100"`
	LossReason      string             `json:"lossReason,omitempty" bson:"lossReason,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (b *Batch) DocumentID() string { return b.ID }

func (b *Batch) Init(id string, now time.Time) error {
	if b.Status == "" {
		b.Status = StatusOpened
	}
	if err := Statuses.Check("status", b.Status); err != nil {
		return err
	}
	if b.QCResult == "" {
		b.QCResult = inventory.QCPass
	}
	if err := inventory.QCStatuses.Check("QCresult", b.QCResult); err != nil {
		return err
	}
	b.ID, b.CreatedAt, b.UpdatedAt = id, now, now
	return nil
}

func (b *Batch) SetStatus(status string, now time.Time) error {
	s := Status(status)
	if err := Statuses.Check("status", s); err != nil {
		return err
	}
	b.Status, b.UpdatedAt = s, now
	return nil
}

func (b *Batch) SetQCResult(result string, now time.Time) error {
	r := inventory.QCStatus(result)
	if err := inventory.QCStatuses.Check("QCresult", r); err != nil {
		return err
	}
	b.QCResult, b.UpdatedAt = r, now
	return nil
}
