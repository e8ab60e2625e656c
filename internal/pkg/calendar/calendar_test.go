package calendar

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDate_Unmarshal(t *testing.T) {
	var got struct {
		A Date  `json:"a"`
		B *Date `json:"b"`
		C Date  `json:"c"`
		D *Date `json:"d"`
	}
	err := json.Unmarshal([]byte(`{"a":"2025-12-31","b":"2025-01-02T03:04:05Z","c":"","d":null}`), &got)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !got.A.Equal(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("a: got %v", got.A)
	}
	if got.B == nil || got.B.Hour() != 3 {
		t.Errorf("b: got %v", got.B)
	}
	if !got.C.IsZero() || got.C.Ptr() != nil {
		t.Errorf("c: expected zero, got %v", got.C)
	}
	if got.D != nil || got.D.Ptr() != nil {
		t.Errorf("d: expected nil, got %v", got.D)
	}

	if err := json.Unmarshal([]byte(`{"a":"31/12/2025"}`), &got); err == nil {
		t.Error("expected error for unsupported layout")
	}
}

func TestDate_MarshalUsesRFC3339(t *testing.T) {
	b, err := json.Marshal(struct {
		A Date `json:"a"`
	}{A: Of(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))})
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"a":"2025-01-02T00:00:00Z"}` {
		t.Errorf("unexpected json %s", b)
	}
}
