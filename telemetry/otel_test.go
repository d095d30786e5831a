package telemetry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupTestRecorder(t *testing.T) (*TracerRecorder, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(t.Context()) })
	return NewTracerRecorder(tp.Tracer("test"), nil), exporter
}

func spanByName(exporter *tracetest.InMemoryExporter, name string) (tracetest.SpanStub, bool) {
	for _, s := range exporter.GetSpans() {
		if s.Name == name {
			return s, true
		}
	}
	return tracetest.SpanStub{}, false
}

func attributeValue(span tracetest.SpanStub, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracerRecorder_Complete(t *testing.T) {
	recorder, exporter := setupTestRecorder(t)

	interaction := recorder.BeginInteraction("search", map[string]string{AttrQuery: "weather"})
	span := interaction.CreateSpan("files")
	span.End(nil)
	interaction.Complete()

	root, ok := spanByName(exporter, "search")
	require.True(t, ok, "interaction span should be exported")
	assert.Equal(t, codes.Ok, root.Status.Code)

	v, ok := attributeValue(root, AttrQuery)
	require.True(t, ok)
	assert.Equal(t, "weather", v.AsString())

	v, ok = attributeValue(root, AttrInteractionOutcome)
	require.True(t, ok)
	assert.Equal(t, OutcomeComplete, v.AsString())

	v, ok = attributeValue(root, AttrInteractionID)
	require.True(t, ok)
	assert.NotEmpty(t, v.AsString())

	child, ok := spanByName(exporter, ProviderSpanPrefix+"files")
	require.True(t, ok, "provider span should be exported")
	assert.Equal(t, root.SpanContext.SpanID(), child.Parent.SpanID())
	assert.Equal(t, root.SpanContext.TraceID(), child.SpanContext.TraceID())
	v, ok = attributeValue(child, AttrProviderID)
	require.True(t, ok)
	assert.Equal(t, "files", v.AsString())
}

func TestTracerRecorder_DiscardAndSpanError(t *testing.T) {
	recorder, exporter := setupTestRecorder(t)

	interaction := recorder.BeginInteraction("search", nil)
	span := interaction.CreateSpan("web")
	span.End(errors.New("network down"))
	span.End(nil) // ignored
	interaction.Discard()

	child, ok := spanByName(exporter, ProviderSpanPrefix+"web")
	require.True(t, ok)
	assert.Equal(t, codes.Error, child.Status.Code)
	assert.Equal(t, "network down", child.Status.Description)
	require.NotEmpty(t, child.Events, "error should be recorded as an event")

	root, ok := spanByName(exporter, "search")
	require.True(t, ok)
	v, ok := attributeValue(root, AttrInteractionOutcome)
	require.True(t, ok)
	assert.Equal(t, OutcomeDiscarded, v.AsString())
}

func TestTracerRecorder_EndsOnce(t *testing.T) {
	recorder, exporter := setupTestRecorder(t)

	interaction := recorder.BeginInteraction("search", nil)
	interaction.Complete()
	interaction.Discard()
	interaction.Complete()

	require.Len(t, exporter.GetSpans(), 1)
	root := exporter.GetSpans()[0]
	v, _ := attributeValue(root, AttrInteractionOutcome)
	assert.Equal(t, OutcomeComplete, v.AsString(), "first outcome wins")
}

func TestTracerRecorder_InteractionsAreIndependentRoots(t *testing.T) {
	recorder, exporter := setupTestRecorder(t)

	recorder.BeginInteraction("search", nil).Complete()
	recorder.BeginInteraction("search", nil).Complete()

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.NotEqual(t, spans[0].SpanContext.TraceID(), spans[1].SpanContext.TraceID())
	assert.False(t, spans[1].Parent.IsValid())
}

func TestNoop(t *testing.T) {
	interaction := Noop().BeginInteraction("search", map[string]string{AttrQuery: "x"})
	require.NotNil(t, interaction)
	interaction.CreateSpan("p").End(errors.New("ignored"))
	interaction.Complete()
	interaction.Discard()
}
