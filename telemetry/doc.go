// Package telemetry records search interactions and per-provider spans.
//
// A Recorder begins one Interaction per dispatched query. Each capable
// provider gets one Span, closed once after all of that provider's batches
// have settled. The interaction itself ends exactly once, either completed
// (every batch resolved) or discarded (at least one batch was rejected), so
// failed or abandoned dispatches do not pollute aggregates.
//
// Two recorders are provided: Noop, which records nothing, and
// TracerRecorder, which maps interactions and spans onto OpenTelemetry
// spans. NewProvider wires the OpenTelemetry SDK with a stdout, OTLP or
// injected (journal) exporter.
package telemetry
