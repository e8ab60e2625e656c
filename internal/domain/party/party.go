// Package party holds the supplier and customer directory entries.
package party

import "time"

// Party is a supplier or a customer. Both directories share the same fields.
type Party struct {
	ID            string    `json:"_id" bson:"_id"`
	Name          string    `json:"name" bson:"name" validate:"required"`
	ContactPerson string    `json:"contactPerson,omitempty" bson:"contactPerson,omitempty"`
	Phone         string    `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,phone"`
	Email         string    `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Address       string    `json:"address,omitempty" bson:"address,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (p *Party) DocumentID() string { return p.ID }

func (p *Party) Init(id string, now time.Time) error {
	p.ID, p.CreatedAt, p.UpdatedAt = id, now, now
	return nil
}

// Revise copies the editable fields of next onto p.
func (p *Party) Revise(next *Party, now time.Time) {
	p.Name = next.Name
	p.ContactPerson = next.ContactPerson
	p.Phone = next.Phone
	p.Email = next.Email
	p.Address = next.Address
	p.UpdatedAt = now
}
