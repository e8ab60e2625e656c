// Package receipt models the goods receipt note (GRN) recorded when purchased
// goods arrive.
package receipt

import (
	"time"

	"github.com/BiharaCD/beverage-OS/internal/domain/enum"
	"github.com/BiharaCD/beverage-OS/internal/domain/inventory"
)

type Status string

const (
	StatusDraft             Status = "Draft"
	StatusApproved          Status = "Approved"
	StatusPartiallyReceived Status = "Partially Received"
	StatusClosed            Status = "Closed"
)

var Statuses = enum.Set[Status]{StatusDraft, StatusApproved, StatusPartiallyReceived, StatusClosed}

type Line struct {
	ItemName         string     `json:"itemName" bson:"itemName"`
	Category         string     `json:"category" bson:"category"`
	QuantityReceived int        `json:"quantityReceived" bson:"quantityReceived"`
	LotNumber        string     `json:"lotNumber,omitempty" bson:"lotNumber,omitempty"`
	ExpiryDate       *time.Time `json:"expiryDate,omitempty" bson:"expiryDate,omitempty"`
}

// Key is the stock identity the line is received against.
func (l Line) Key() inventory.Key {
	return inventory.Key{ItemName: l.ItemName, Category: l.Category}
}

type GRN struct {
	ID        string             `json:"_id" bson:"_id"`
	GRNNumber string             `json:"grnNumber" bson:"grnNumber"`
	POID      string             `json:"poID" bson:"poID"`
	Items     []Line             `json:"items" bson:"items"`
	QC        inventory.QCStatus `json:"QC" bson:"QC"`
	Status    Status             `json:"status" bson:"status"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

func (g *GRN) DocumentID() string { return g.ID }

// New builds a GRN in Draft. The recorded QC defaults to Check; the outcome applied
// to stock is the caller's raw value.
func New(id, number, poID string, lines []Line, qc inventory.QCStatus, now time.Time) *GRN {
	if qc == "" {
		qc = inventory.QCCheck
	}
	return &GRN{
		ID:        id,
		GRNNumber: number,
		POID:      poID,
		Items:     lines,
		QC:        qc,
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (g *GRN) SetStatus(status string, now time.Time) error {
	s := Status(status)
	if err := Statuses.Check("status", s); err != nil {
		return err
	}
	g.Status = s
	g.UpdatedAt = now
	return nil
}
