package workerpresentation

import (
	"context"
	"sort"

	"github.com/BiharaCD/beverage-OS/internal/observability"
	"github.com/BiharaCD/beverage-OS/internal/observability/logctx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// EventScope describes the event a background run handles.
type EventScope struct {
	Name string
	// ID is the record the event is about (GRN or dispatch id). A uuid stands in when
	// it is empty.
	ID string
	// Attrs are extra low-cardinality fields such as the source collection.
	Attrs map[string]string
}

// WithEventContext binds a logger carrying event, event_id and the trace ids found in
// ctx, so everything the handler logs can be joined back to the originating record.
func WithEventContext(ctx context.Context, base observability.Logger, tel observability.Observability, scope EventScope) context.Context {
	if base == nil {
		if tel == nil {
			tel = observability.Nop()
		}
		base = tel.Logger()
	}

	eventID := scope.ID
	if eventID == "" {
		eventID = uuid.NewString()
	}
	fields := []observability.Field{
		observability.F("event", scope.Name),
		observability.F("event_id", eventID),
	}

	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			observability.F("trace_id", sc.TraceID().String()),
			observability.F("span_id", sc.SpanID().String()),
		)
	}

	keys := make([]string, 0, len(scope.Attrs))
	for k, v := range scope.Attrs {
		if k == "event" || k == "event_id" || v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fields = append(fields, observability.F(k, scope.Attrs[k]))
	}

	return logctx.With(ctx, base.With(fields...))
}
