package mongostore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/BiharaCD/beverage-OS/internal/domain/document"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type sample struct {
	ID        string          `bson:"_id"`
	Code      string          `bson:"code"`
	Name      string          `bson:"name"`
	Price     decimal.Decimal `bson:"price"`
	CreatedAt time.Time       `bson:"createdAt"`
}

func (s *sample) DocumentID() string { return s.ID }

// Requires a reachable MongoDB; set MONGO_URI to run.
func TestCollection_Mongo(t *testing.T) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set, skipping Mongo integration test")
	}
	ctx := context.Background()

	client, err := Connect(ctx, uri)
	if err != nil {
		t.Skipf("mongo unavailable: %v", err)
	}
	db := client.Database("beverage_os_test_" + uuid.NewString()[:8])
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	coll := NewCollection[sample](db, "samples", "code")
	if err := coll.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	first := &sample{ID: uuid.NewString(), Code: "A", Name: "Bottle500ml", Price: decimal.RequireFromString("2.5"), CreatedAt: time.Now().Add(-time.Minute)}
	second := &sample{ID: uuid.NewString(), Code: "B", Name: "CapLiner", Price: decimal.RequireFromString("0.1"), CreatedAt: time.Now()}
	for _, s := range []*sample{first, second} {
		if err := coll.Insert(ctx, s); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	dup := &sample{ID: uuid.NewString(), Code: "A"}
	if err := coll.Insert(ctx, dup); !errors.Is(err, document.ErrDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	got, err := coll.FindOne(ctx, document.Filter{"name": "Bottle500ml"})
	if err != nil {
		t.Fatalf("FindOne: %v", err)
	}
	if !got.Price.Equal(first.Price) {
		t.Errorf("expected price 2.5, got %s", got.Price)
	}

	list, err := coll.Find(ctx, nil, document.Newest)
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Errorf("expected newest first, got %+v", list)
	}

	patched, err := coll.Patch(ctx, first.ID, document.Fields{"name": "Bottle1L"})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if patched.Name != "Bottle1L" {
		t.Errorf("expected patched name, got %s", patched.Name)
	}

	if err := coll.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := coll.Get(ctx, first.ID); !errors.Is(err, document.ErrNotFound) {
		t.Errorf("expected not found after delete, got %v", err)
	}
}
