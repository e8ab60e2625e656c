package application

import (
	"context"
	"errors"
	"time"

	"github.com/BiharaCD/beverage-OS/internal/domain/document"
	"github.com/BiharaCD/beverage-OS/internal/domain/enum"
	domoutbox "github.com/BiharaCD/beverage-OS/internal/domain/outbox"
	"github.com/BiharaCD/beverage-OS/internal/observability"
	"github.com/BiharaCD/beverage-OS/internal/observability/logctx"
	"github.com/BiharaCD/beverage-OS/internal/pkg/apperr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	spanPrefix     = "UC."
	publishPeer    = "outbox"
	publishTimeout = 300 * time.Millisecond
)

// Instrument carries the logger, tracer and RED metrics shared by the use cases of
// one service.
type Instrument struct {
	log          observability.Logger
	tracer       observability.Tracer
	reqCounter   observability.Counter
	durHistogram observability.Histogram
	extCounter   observability.Counter
	extHistogram observability.Histogram
}

func NewInstrument(tel observability.Observability, service string) *Instrument {
	if tel == nil {
		tel = observability.Nop()
	}
	m := tel.Metrics()
	return &Instrument{
		log:          tel.Logger().With(observability.F("service", service)),
		tracer:       tel.Tracer(),
		reqCounter:   m.Counter(observability.MUsecaseRequests),
		durHistogram: m.Histogram(observability.MUsecaseDuration),
		extCounter:   m.Counter(observability.MExternalRequests),
		extHistogram: m.Histogram(observability.MExternalRequestDuration),
	}
}

// Logger returns the request logger from ctx, else the service logger.
func (in *Instrument) Logger(ctx context.Context) observability.Logger {
	return logctx.FromOr(ctx, in.log)
}

// Run is one in-flight use case execution.
type Run struct {
	in      *Instrument
	ctx     context.Context
	span    trace.Span
	logger  observability.Logger
	useCase string
	start   time.Time
	outcome string
	status  string
	fields  []observability.Field
}

// Start opens the span UC.<spanName> and binds use_case onto the request logger.
func (in *Instrument) Start(ctx context.Context, useCase, spanName string, attrs ...attribute.KeyValue) (context.Context, *Run) {
	attrs = append(attrs, attribute.String("use_case", useCase))
	ctx, span := in.tracer.Start(ctx, spanPrefix+spanName, attrs...)
	logger := in.Logger(ctx).With(observability.F("use_case", useCase))
	return logctx.With(ctx, logger), &Run{
		in:      in,
		ctx:     ctx,
		span:    span,
		logger:  logger,
		useCase: useCase,
		start:   time.Now(),
		outcome: "success",
		status:  "OK",
	}
}

// Add attaches fields to the use_case_done line.
func (r *Run) Add(fields ...observability.Field) {
	r.fields = append(r.fields, fields...)
}

// Event records a span event.
func (r *Run) Event(name string, attrs ...attribute.KeyValue) {
	if r.span != nil {
		r.span.AddEvent(name, trace.WithAttributes(attrs...))
	}
}

// End closes the span, records RED metrics and writes the use_case_done line.
// Call it in a defer with the named error result.
func (r *Run) End(err error) {
	if err != nil {
		r.outcome, r.status = "error", StatusOf(err)
	}

	if r.span != nil {
		if err != nil {
			r.span.RecordError(err)
			r.span.SetStatus(codes.Error, r.status)
		} else {
			r.span.SetStatus(codes.Ok, r.status)
		}
		r.span.End()
	}

	latency := time.Since(r.start).Seconds()
	r.in.reqCounter.Add(1,
		observability.L("use_case", r.useCase),
		observability.L("outcome", r.outcome),
	)
	r.in.durHistogram.Observe(latency,
		observability.L("use_case", r.useCase),
	)

	fields := append([]observability.Field{
		observability.F("outcome", r.outcome),
		observability.F("status", r.status),
		observability.F("latency_seconds", latency),
	}, r.fields...)
	if sc := trace.SpanContextFromContext(r.ctx); sc.IsValid() {
		fields = append(fields,
			observability.F("trace_id", sc.TraceID().String()),
			observability.F("span_id", sc.SpanID().String()),
		)
	}
	if err != nil {
		fields = append(fields, observability.F("error", err.Error()))
	}
	r.logger.Info("use_case_done", fields...)
}

// StatusOf condenses an error into a low-cardinality status for logs and spans.
func StatusOf(err error) string {
	var (
		verr *apperr.ValidationError
		nerr *apperr.NotFoundError
		serr *apperr.StockInsufficientError
		uerr *apperr.UnauthorizedError
		cerr *apperr.ConflictError
		eerr *enum.InvalidError
	)
	switch {
	case err == nil:
		return "OK"
	case errors.As(err, &verr), errors.As(err, &eerr):
		return "VALIDATION_FAILED"
	case errors.As(err, &nerr), errors.Is(err, document.ErrNotFound):
		return "NOT_FOUND"
	case errors.As(err, &serr):
		return "STOCK_INSUFFICIENT"
	case errors.As(err, &uerr):
		if uerr.Forbidden {
			return "FORBIDDEN"
		}
		return "UNAUTHORIZED"
	case errors.As(err, &cerr), errors.Is(err, document.ErrDuplicate):
		return "CONFLICT"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "CANCELED"
	default:
		return "INTERNAL"
	}
}

// Publish hands event to publisher with a short timeout and records the external call.
// A nil publisher is a no-op.
func (in *Instrument) Publish(ctx context.Context, publisher domoutbox.Publisher, event domoutbox.Event) error {
	if publisher == nil || event == nil {
		return nil
	}
	endpoint := event.EventName()

	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	start := time.Now()
	err := publisher.Publish(pubCtx, event)
	outcome := "success"
	if err != nil {
		outcome = "error"
	} else if pubCtx.Err() != nil {
		outcome = "canceled"
		err = pubCtx.Err()
	}
	cancel()

	in.extCounter.Add(1,
		observability.L("peer", publishPeer),
		observability.L("endpoint", endpoint),
		observability.L("outcome", outcome),
	)
	in.extHistogram.Observe(time.Since(start).Seconds(),
		observability.L("peer", publishPeer),
		observability.L("endpoint", endpoint),
	)
	return err
}
