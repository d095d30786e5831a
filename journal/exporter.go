package journal

import (
	"context"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/launchpad/core"
	"github.com/poiesic/launchpad/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Exporter is an OpenTelemetry span exporter that writes to a Journal.
// Shutting the exporter down does not close the journal.
type Exporter struct {
	journal *Journal
	stopped atomic.Bool
}

var _ sdktrace.SpanExporter = (*Exporter)(nil)

// Exporter returns a span exporter writing to j.
func (j *Journal) Exporter() *Exporter {
	return &Exporter{journal: j}
}

// ExportSpans records spans in the journal.
func (e *Exporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	if e.stopped.Load() || len(spans) == 0 {
		return nil
	}
	records := make([]*SpanRecord, 0, len(spans))
	for _, span := range spans {
		records = append(records, recordFromSpan(span))
	}
	return e.journal.Append(ctx, records...)
}

// Shutdown stops the exporter. Later exports are dropped.
func (e *Exporter) Shutdown(_ context.Context) error {
	e.stopped.Store(true)
	return nil
}

func recordFromSpan(span sdktrace.ReadOnlySpan) *SpanRecord {
	sc := span.SpanContext()
	r := &SpanRecord{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID(),
		Name:    span.Name(),
		Kind:    KindInteraction,
		Start:   span.StartTime().UTC(),
		End:     span.EndTime().UTC(),
	}
	if parent := span.Parent(); parent.IsValid() {
		r.ParentID = parent.SpanID()
	}

	for _, kv := range span.Attributes() {
		switch kv.Key {
		case attribute.Key(telemetry.AttrQuery):
			r.QueryHash = core.IDFromContent(kv.Value.AsString())
		case attribute.Key(telemetry.AttrProviderID):
			r.Kind = KindProvider
			r.ProviderID = kv.Value.AsString()
		case attribute.Key(telemetry.AttrInteractionOutcome):
			r.Outcome = kv.Value.AsString()
		}
	}

	if status := span.Status(); status.Code == codes.Error {
		r.Failed = true
		r.Error = status.Description
	}
	if r.Outcome == telemetry.OutcomeDiscarded {
		r.Failed = true
	}
	return r
}

// Append writes records to the journal in one transaction.
func (j *Journal) Append(ctx context.Context, records ...*SpanRecord) error {
	return j.withTx(ctx, func(tx *badger.Txn) error {
		for _, r := range records {
			if err := tx.Set(makeSpanKey(r.End, r.SpanID), marshalRecord(r)); err != nil {
				return err
			}
		}
		return nil
	}, true)
}
