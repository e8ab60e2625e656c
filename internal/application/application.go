package application

import (
	"context"
	"time"
)

type UseCase[C any, R any] interface {
	Execute(ctx context.Context, cmd C) (R, error)
}

type IDGenerator interface {
	NewID() string
}

// CodeGenerator issues human-readable codes such as ITEM-... and GRN-....
type CodeGenerator interface {
	Next(ctx context.Context, prefix string) (string, error)
}

// Clock returns the current time. Records store UTC.
type Clock func() time.Time

// SystemClock is the wall clock in UTC.
func SystemClock() time.Time { return time.Now().UTC() }
