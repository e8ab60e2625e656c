package bsonx

import (
	"testing"
	"time"

	"github.com/BiharaCD/beverage-OS/internal/pkg/calendar"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type priced struct {
	ID        string          `bson:"_id"`
	UnitPrice decimal.Decimal `bson:"unitPrice"`
}

func TestDecimal_StoredAsDecimal128(t *testing.T) {
	raw, err := Marshal(priced{ID: "a", UnitPrice: decimal.RequireFromString("2.5")})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	v := raw.Lookup("unitPrice")
	if v.Type != bsontype.Decimal128 {
		t.Fatalf("expected decimal128, got %v", v.Type)
	}

	var got priced
	if err := Unmarshal(raw, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !got.UnitPrice.Equal(decimal.RequireFromString("2.5")) {
		t.Errorf("expected 2.5, got %s", got.UnitPrice)
	}
}

func TestDecimal_DecodesLegacyNumbers(t *testing.T) {
	raw, err := bson.Marshal(bson.D{{Key: "_id", Value: "b"}, {Key: "unitPrice", Value: 3.75}})
	if err != nil {
		t.Fatal(err)
	}
	var got priced
	if err := Unmarshal(raw, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !got.UnitPrice.Equal(decimal.RequireFromString("3.75")) {
		t.Errorf("expected 3.75, got %s", got.UnitPrice)
	}
}

type dated struct {
	ID  string         `bson:"_id"`
	Due *calendar.Date `bson:"due"`
	On  calendar.Date  `bson:"on"`
}

func TestDate_StoredAsDateTime(t *testing.T) {
	on := calendar.Of(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	raw, err := Marshal(dated{ID: "c", On: on})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if v := raw.Lookup("on"); v.Type != bsontype.DateTime {
		t.Fatalf("expected datetime, got %v", v.Type)
	}
	if v := raw.Lookup("due"); v.Type != bsontype.Null {
		t.Fatalf("expected null for nil date, got %v", v.Type)
	}

	var got dated
	if err := Unmarshal(raw, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !got.On.Equal(on.Time) || got.Due != nil {
		t.Errorf("unexpected round trip %+v", got)
	}
}
