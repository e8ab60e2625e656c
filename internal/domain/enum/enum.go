// Package enum backs the status fields that accept any member of a fixed set.
// There is no transition graph: any member may replace any other.
package enum

import (
	"fmt"
	"strings"
)

// Set lists the members of one enumeration in display order.
type Set[S ~string] []S

// Has reports whether v is a member.
func (s Set[S]) Has(v S) bool {
	for _, m := range s {
		if m == v {
			return true
		}
	}
	return false
}

// Check returns an *InvalidError naming field when v is not a member.
func (s Set[S]) Check(field string, v S) error {
	if s.Has(v) {
		return nil
	}
	allowed := make([]string, len(s))
	for i, m := range s {
		allowed[i] = string(m)
	}
	return &InvalidError{Field: field, Value: string(v), Allowed: allowed}
}

// InvalidError reports a value outside its enumeration.
type InvalidError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("%s must be one of: %s", e.Field, strings.Join(e.Allowed, ", "))
}
