package telemetry

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerRecorder implements Recorder on top of an OpenTelemetry tracer.
// Each interaction is a root span; each provider span is its child.
type TracerRecorder struct {
	tracer trace.Tracer
	logger *slog.Logger
}

var _ Recorder = (*TracerRecorder)(nil)

// NewTracerRecorder creates a recorder that emits spans through tracer.
func NewTracerRecorder(tracer trace.Tracer, logger *slog.Logger) *TracerRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &TracerRecorder{
		tracer: tracer,
		logger: logger.With("component", "telemetry"),
	}
}

// BeginInteraction starts a root span named name.
// Attributes are applied in key order.
func (r *TracerRecorder) BeginInteraction(name string, attrs map[string]string) Interaction {
	id := uuid.NewString()
	kv := make([]attribute.KeyValue, 0, len(attrs)+2)
	kv = append(kv,
		attribute.String(AttrInteractionName, name),
		attribute.String(AttrInteractionID, id),
	)
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		kv = append(kv, attribute.String(k, attrs[k]))
	}

	ctx, span := r.tracer.Start(context.Background(), name,
		trace.WithNewRoot(),
		trace.WithAttributes(kv...),
	)
	r.logger.Debug("interaction started", "name", name, "id", id)

	return &tracerInteraction{
		ctx:    ctx,
		span:   span,
		tracer: r.tracer,
		id:     id,
		logger: r.logger,
	}
}

type tracerInteraction struct {
	ctx    context.Context
	span   trace.Span
	tracer trace.Tracer
	id     string
	once   sync.Once
	logger *slog.Logger
}

func (i *tracerInteraction) CreateSpan(key string) Span {
	_, span := i.tracer.Start(i.ctx, ProviderSpanPrefix+key,
		trace.WithAttributes(attribute.String(AttrProviderID, key)),
	)
	return &tracerSpan{span: span}
}

func (i *tracerInteraction) Complete() {
	i.once.Do(func() {
		i.span.SetAttributes(attribute.String(AttrInteractionOutcome, OutcomeComplete))
		i.span.SetStatus(codes.Ok, "")
		i.span.End()
		i.logger.Debug("interaction completed", "id", i.id)
	})
}

func (i *tracerInteraction) Discard() {
	i.once.Do(func() {
		i.span.SetAttributes(attribute.String(AttrInteractionOutcome, OutcomeDiscarded))
		i.span.End()
		i.logger.Debug("interaction discarded", "id", i.id)
	})
}

type tracerSpan struct {
	span trace.Span
	once sync.Once
}

func (s *tracerSpan) End(err error) {
	s.once.Do(func() {
		if err != nil {
			s.span.RecordError(err)
			s.span.SetStatus(codes.Error, err.Error())
		} else {
			s.span.SetStatus(codes.Ok, "")
		}
		s.span.End()
	})
}
