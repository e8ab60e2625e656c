// Package repository adapts document stores to the domain repository ports.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BiharaCD/beverage-OS/internal/domain/document"
	dominv "github.com/BiharaCD/beverage-OS/internal/domain/inventory"
)

type InventoryRepository struct {
	store document.Store[dominv.Item]
}

func NewInventoryRepository(store document.Store[dominv.Item]) *InventoryRepository {
	return &InventoryRepository{store: store}
}

func (r *InventoryRepository) Get(ctx context.Context, id string) (*dominv.Item, error) {
	item, err := r.store.Get(ctx, id)
	if err != nil {
		return nil, mapInventoryErr("get", err)
	}
	return item, nil
}

func (r *InventoryRepository) List(ctx context.Context) ([]*dominv.Item, error) {
	items, err := r.store.Find(ctx, nil, document.FindOptions{})
	if err != nil {
		return nil, fmt.Errorf("inventory: list: %w", err)
	}
	return items, nil
}

func (r *InventoryRepository) FindByName(ctx context.Context, itemName string) (*dominv.Item, error) {
	item, err := r.store.FindOne(ctx, document.Filter{"itemName": itemName})
	if err != nil {
		return nil, mapInventoryErr("find by name", err)
	}
	return item, nil
}

func (r *InventoryRepository) FindOrCreate(ctx context.Context, key dominv.Key, factory func() (*dominv.Item, error)) (*dominv.Item, dominv.Lookup, error) {
	item, err := r.store.FindOne(ctx, document.Filter{"itemName": key.ItemName, "category": key.Category})
	if err == nil {
		return item, dominv.Found, nil
	}
	if !errors.Is(err, document.ErrNotFound) {
		return nil, dominv.Found, fmt.Errorf("inventory: find by key: %w", err)
	}

	item, err = factory()
	if err != nil {
		return nil, dominv.Created, err
	}
	if err := r.store.Insert(ctx, item); err != nil {
		return nil, dominv.Created, fmt.Errorf("inventory: insert: %w", err)
	}
	return item, dominv.Created, nil
}

func (r *InventoryRepository) Save(ctx context.Context, item *dominv.Item) error {
	if item == nil {
		return nil
	}
	if err := r.store.Replace(ctx, item); err != nil {
		return mapInventoryErr("save", err)
	}
	return nil
}

func (r *InventoryRepository) SetThreshold(ctx context.Context, id string, threshold int, now time.Time) (*dominv.Item, error) {
	item, err := r.store.Patch(ctx, id, document.Fields{"threshold": threshold, "updatedAt": now})
	if err != nil {
		return nil, mapInventoryErr("set threshold", err)
	}
	return item, nil
}

func mapInventoryErr(op string, err error) error {
	if errors.Is(err, document.ErrNotFound) {
		return dominv.ErrNotFound
	}
	return fmt.Errorf("inventory: %s: %w", op, err)
}
