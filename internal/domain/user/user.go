// Package user models staff accounts, which must be approved by an approved user.
package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound        = errors.New("user: not found")
	ErrAlreadyApproved = errors.New("user: already approved")
	ErrEmailTaken      = errors.New("user: email already registered")
)

type User struct {
	ID         string     `json:"_id" bson:"_id"`
	Name       string     `json:"name" bson:"name"`
	Email      string     `json:"email" bson:"email"`
	Password   string     `json:"-" bson:"password"`
	Approved   bool       `json:"approved" bson:"approved"`
	ApprovedBy *string    `json:"approvedBy" bson:"approvedBy"`
	ApprovedAt *time.Time `json:"approvedAt" bson:"approvedAt"`
	CreatedAt  time.Time  `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt" bson:"updatedAt"`
}

func (u *User) DocumentID() string { return u.ID }

// NormalizeEmail lower-cases and trims an address the way accounts are stored.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// New creates an unapproved account. passwordHash must already be hashed.
func New(id, name, email, passwordHash string, now time.Time) *User {
	return &User{
		ID:        id,
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Password:  passwordHash,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Approve marks the account approved by approverID.
func (u *User) Approve(approverID string, now time.Time) error {
	if u.Approved {
		return ErrAlreadyApproved
	}
	u.Approved = true
	u.ApprovedBy = &approverID
	u.ApprovedAt = &now
	u.UpdatedAt = now
	return nil
}

// AutoApprove approves the account without an approver.
func (u *User) AutoApprove(now time.Time) {
	if u.Approved {
		return
	}
	u.Approved = true
	u.ApprovedAt = &now
	u.UpdatedAt = now
}

type Repository interface {
	Create(ctx context.Context, u *User) error
	Get(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// ListByApproval lists users with the given approval state, most recent first.
	ListByApproval(ctx context.Context, approved bool) ([]*User, error)
	Save(ctx context.Context, u *User) error
	Delete(ctx context.Context, id string) (*User, error)
}
