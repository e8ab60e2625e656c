package inventory

import (
	"context"
	"time"
)

// Lookup tags the result of FindOrCreate.
type Lookup int

const (
	Found Lookup = iota
	Created
)

func (l Lookup) String() string {
	if l == Created {
		return "created"
	}
	return "found"
}

type Repository interface {
	Get(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context) ([]*Item, error)
	// FindByName matches on itemName only, the key dispatch uses.
	FindByName(ctx context.Context, itemName string) (*Item, error)
	// FindOrCreate returns the item stored under key, or persists the one built by
	// factory when there is none.
	FindOrCreate(ctx context.Context, key Key, factory func() (*Item, error)) (*Item, Lookup, error)
	Save(ctx context.Context, item *Item) error
	// SetThreshold updates threshold and updatedAt only, returning the updated item.
	SetThreshold(ctx context.Context, id string, threshold int, now time.Time) (*Item, error)
}
