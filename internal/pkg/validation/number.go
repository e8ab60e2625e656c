package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Number carries a numeric request field exactly as the client sent it. Clients send
// quantities both as JSON numbers and as numeric strings, so decoding never fails here;
// the posint/nonnegint/posdec tags decide whether the value is usable.
type Number string

var errNotNumber = errors.New("validation: not a number")

// UnmarshalJSON accepts a JSON number, a string or null.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*n = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = Number(strings.TrimSpace(s))
	default:
		*n = Number(data)
	}
	return nil
}

// MarshalJSON writes the value back as a JSON number when it parses, else as a string.
func (n Number) MarshalJSON() ([]byte, error) {
	if d, err := n.Decimal(); err == nil {
		return []byte(d.String()), nil
	}
	return json.Marshal(string(n))
}

// NumberOf is a convenience for callers building commands in code.
func NumberOf(v int) Number {
	return Number(decimal.NewFromInt(int64(v)).String())
}

// Decimal parses the value.
func (n Number) Decimal() (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, errNotNumber
	}
	d, err := decimal.NewFromString(string(n))
	if err != nil {
		return decimal.Zero, errNotNumber
	}
	return d, nil
}

// Int parses the value as a whole number.
func (n Number) Int() (int, error) {
	d, err := n.Decimal()
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() || d.GreaterThan(decimal.NewFromInt(math.MaxInt)) || d.LessThan(decimal.NewFromInt(math.MinInt)) {
		return 0, errNotNumber
	}
	return int(d.IntPart()), nil
}
