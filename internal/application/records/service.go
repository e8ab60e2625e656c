// Package records serves the single-document CRUD resources: purchase orders, bills,
// invoices, production batches, suppliers and customers, plus the list/get/status
// side of GRNs and dispatches. Stock never changes here.
package records

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BiharaCD/beverage-OS/internal/application"
	"github.com/BiharaCD/beverage-OS/internal/domain/document"
	"github.com/BiharaCD/beverage-OS/internal/domain/enum"
	"github.com/BiharaCD/beverage-OS/internal/observability"
	"github.com/BiharaCD/beverage-OS/internal/pkg/apperr"
	"github.com/BiharaCD/beverage-OS/internal/pkg/validation"
	"go.opentelemetry.io/otel/attribute"
)

// ErrUnsupported is returned for an operation the record type does not implement.
var ErrUnsupported = errors.New("records: operation not supported")

type initer interface {
	Init(id string, now time.Time) error
}

type statusSetter interface {
	SetStatus(status string, now time.Time) error
}

type qcSetter interface {
	SetQCResult(result string, now time.Time) error
}

type reviser[T any] interface {
	Revise(next *T, now time.Time)
}

// Options describes one resource.
type Options struct {
	// Name is the metric and log label, e.g. "purchase_order".
	Name string
	// Label is the human name used in messages, e.g. "Purchase Order".
	Label string
	// Newest lists records by createdAt descending instead of insertion order.
	Newest bool
	// Messages overrides validation messages, keyed "<GoField>.<tag>".
	Messages validation.Messages
}

type Service[T any, P interface {
	*T
	document.Document
}] struct {
	store     document.Store[T]
	ids       application.IDGenerator
	now       application.Clock
	validator *validation.Validator
	opts      Options
	in        *application.Instrument
}

func New[T any, P interface {
	*T
	document.Document
}](store document.Store[T], ids application.IDGenerator, clock application.Clock, v *validation.Validator, tel observability.Observability, opts Options) *Service[T, P] {
	if clock == nil {
		clock = application.SystemClock
	}
	return &Service[T, P]{
		store:     store,
		ids:       ids,
		now:       clock,
		validator: v,
		opts:      opts,
		in:        application.NewInstrument(tel, "records-service"),
	}
}

// Label is the human name of the resource.
func (s *Service[T, P]) Label() string { return s.opts.Label }

func (s *Service[T, P]) start(ctx context.Context, op, id string) (context.Context, *application.Run) {
	ctx, run := s.in.Start(ctx, s.opts.Name+"."+op, "Record"+op,
		attribute.String("record.type", s.opts.Name),
		attribute.String("record.id", id),
	)
	if id != "" {
		run.Add(observability.F("record_id", id))
	}
	return ctx, run
}

// Create validates doc, stamps id and timestamps and stores it.
func (s *Service[T, P]) Create(ctx context.Context, doc *T) (_ *T, err error) {
	ctx, run := s.start(ctx, "create", "")
	defer func() { run.End(err) }()

	if err := s.validator.Struct(doc, s.opts.Messages); err != nil {
		return nil, err
	}
	in, ok := any(P(doc)).(initer)
	if !ok {
		return nil, fmt.Errorf("%s create: %w", s.opts.Name, ErrUnsupported)
	}
	if err := in.Init(s.ids.NewID(), s.now()); err != nil {
		return nil, s.mapErr(err)
	}
	if err := s.store.Insert(ctx, doc); err != nil {
		return nil, s.mapErr(err)
	}
	run.Add(observability.F("record_id", P(doc).DocumentID()))
	return doc, nil
}

func (s *Service[T, P]) Get(ctx context.Context, id string) (*T, error) {
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.mapErr(err)
	}
	return doc, nil
}

func (s *Service[T, P]) List(ctx context.Context) ([]*T, error) {
	opts := document.FindOptions{}
	if s.opts.Newest {
		opts = document.Newest
	}
	docs, err := s.store.Find(ctx, nil, opts)
	if err != nil {
		return nil, fmt.Errorf("%s list: %w", s.opts.Name, err)
	}
	return docs, nil
}

// SetStatus replaces the status with any member of the record's status enum.
func (s *Service[T, P]) SetStatus(ctx context.Context, id, status string) (_ *T, err error) {
	ctx, run := s.start(ctx, "status", id)
	defer func() { run.End(err) }()
	run.Add(observability.F("status_to", status))

	return s.mutate(ctx, id, func(doc P, now time.Time) error {
		setter, ok := any(doc).(statusSetter)
		if !ok {
			return ErrUnsupported
		}
		return setter.SetStatus(status, now)
	})
}

// SetQCResult records a quality-control outcome on records that carry one.
func (s *Service[T, P]) SetQCResult(ctx context.Context, id, result string) (_ *T, err error) {
	ctx, run := s.start(ctx, "qc", id)
	defer func() { run.End(err) }()
	run.Add(observability.F("qc_result", result))

	return s.mutate(ctx, id, func(doc P, now time.Time) error {
		setter, ok := any(doc).(qcSetter)
		if !ok {
			return ErrUnsupported
		}
		return setter.SetQCResult(result, now)
	})
}

// Update copies the editable fields of next onto the stored record.
func (s *Service[T, P]) Update(ctx context.Context, id string, next *T) (_ *T, err error) {
	ctx, run := s.start(ctx, "update", id)
	defer func() { run.End(err) }()

	if err := s.validator.Struct(next, s.opts.Messages); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, func(doc P, now time.Time) error {
		r, ok := any(doc).(reviser[T])
		if !ok {
			return ErrUnsupported
		}
		r.Revise(next, now)
		return nil
	})
}

func (s *Service[T, P]) Delete(ctx context.Context, id string) (err error) {
	ctx, run := s.start(ctx, "delete", id)
	defer func() { run.End(err) }()

	if err := s.store.Delete(ctx, id); err != nil {
		return s.mapErr(err)
	}
	return nil
}

func (s *Service[T, P]) mutate(ctx context.Context, id string, apply func(doc P, now time.Time) error) (*T, error) {
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, s.mapErr(err)
	}
	if err := apply(P(doc), s.now()); err != nil {
		if errors.Is(err, ErrUnsupported) {
			return nil, fmt.Errorf("%s: %w", s.opts.Name, err)
		}
		return nil, s.mapErr(err)
	}
	if err := s.store.Replace(ctx, doc); err != nil {
		return nil, s.mapErr(err)
	}
	return doc, nil
}

func (s *Service[T, P]) mapErr(err error) error {
	var eerr *enum.InvalidError
	switch {
	case errors.As(err, &eerr):
		return apperr.Validation(eerr.Field, eerr.Error())
	case errors.Is(err, document.ErrNotFound):
		return &apperr.NotFoundError{Resource: s.opts.Label, Message: s.opts.Label + " not found"}
	case errors.Is(err, document.ErrDuplicate):
		return apperr.Conflict(s.opts.Label + " already exists")
	default:
		return fmt.Errorf("%s: %w", s.opts.Name, err)
	}
}
