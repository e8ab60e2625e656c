package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/BiharaCD/beverage-OS/internal/domain/document"
	domuser "github.com/BiharaCD/beverage-OS/internal/domain/user"
)

type UserRepository struct {
	store document.Store[domuser.User]
}

func NewUserRepository(store document.Store[domuser.User]) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(ctx context.Context, u *domuser.User) error {
	if err := r.store.Insert(ctx, u); err != nil {
		if errors.Is(err, document.ErrDuplicate) {
			return domuser.ErrEmailTaken
		}
		return fmt.Errorf("user: create: %w", err)
	}
	return nil
}

func (r *UserRepository) Get(ctx context.Context, id string) (*domuser.User, error) {
	u, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, mapUserErr("get", err)
	}
	return u, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domuser.User, error) {
	u, err := r.store.FindOne(ctx, document.Filter{"email": domuser.NormalizeEmail(email)})
	if err != nil {
		return nil, mapUserErr("find by email", err)
	}
	return u, nil
}

func (r *UserRepository) ListByApproval(ctx context.Context, approved bool) ([]*domuser.User, error) {
	order := document.Newest
	if approved {
		order = document.FindOptions{Sort: &document.Sort{Field: "approvedAt", Desc: true}}
	}
	users, err := r.store.Find(ctx, document.Filter{"approved": approved}, order)
	if err != nil {
		return nil, fmt.Errorf("user: list: %w", err)
	}
	return users, nil
}

func (r *UserRepository) Save(ctx context.Context, u *domuser.User) error {
	if err := r.store.Replace(ctx, u); err != nil {
		return mapUserErr("save", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) (*domuser.User, error) {
	u, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, mapUserErr("get", err)
	}
	if err := r.store.Delete(ctx, id); err != nil {
		return nil, mapUserErr("delete", err)
	}
	return u, nil
}

func mapUserErr(op string, err error) error {
	if errors.Is(err, document.ErrNotFound) {
		return domuser.ErrNotFound
	}
	return fmt.Errorf("user: %s: %w", op, err)
}
