package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Exporter names accepted by Config.Exporter.
const (
	ExporterNone    = "none"
	ExporterStdout  = "stdout"
	ExporterOTLP    = "otlp"
	ExporterJournal = "journal"
)

const (
	defaultOTLPEndpoint = "localhost:4317"
	defaultServiceName  = "launchpad"
)

// ErrExporterRequired is returned when the journal exporter is selected but
// no exporter was injected.
var ErrExporterRequired = errors.New("span exporter required")

// Config configures the tracing subsystem.
type Config struct {
	// Enabled controls whether tracing is active.
	// When false, a no-op tracer is used.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Exporter selects the export backend.
	// Options: "none", "stdout", "otlp", "journal"
	// Default: "journal"
	Exporter string `mapstructure:"exporter" yaml:"exporter"`

	// JournalPath is the badger directory used by the "journal" exporter.
	JournalPath string `mapstructure:"journal_path" yaml:"journal_path,omitempty"`

	// OTLPEndpoint is the OTLP collector endpoint for the "otlp" exporter.
	// Default: "localhost:4317"
	OTLPEndpoint string `mapstructure:"otlp_endpoint" yaml:"otlp_endpoint,omitempty"`

	// SampleRate controls the fraction of interactions to sample.
	// Default: 1.0
	SampleRate float64 `mapstructure:"sample_rate" yaml:"sample_rate"`

	// ServiceName identifies this service in traces.
	// Default: "launchpad"
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
}

// DefaultConfig returns the default tracing configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:      false,
		Exporter:     ExporterJournal,
		OTLPEndpoint: defaultOTLPEndpoint,
		SampleRate:   1.0,
		ServiceName:  defaultServiceName,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch c.Exporter {
	case ExporterNone, "", ExporterStdout, ExporterOTLP:
	case ExporterJournal:
		if c.Enabled && c.JournalPath == "" {
			return errors.New("telemetry config: journal_path is required for the journal exporter")
		}
	default:
		return fmt.Errorf("telemetry config: unsupported exporter %q", c.Exporter)
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return errors.New("telemetry config: sample_rate must be between 0 and 1")
	}
	return nil
}

// Provider manages the OpenTelemetry tracer provider and the Recorder built on it.
type Provider struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	recorder Recorder
	enabled  bool
}

// ProviderOption configures NewProvider.
type ProviderOption func(*providerOptions)

type providerOptions struct {
	exporter sdktrace.SpanExporter
	sync     bool
	logger   *slog.Logger
}

// WithExporter injects the span exporter used by the "journal" exporter.
func WithExporter(exporter sdktrace.SpanExporter) ProviderOption {
	return func(o *providerOptions) {
		o.exporter = exporter
	}
}

// WithSyncExport exports each span as soon as it ends instead of batching.
func WithSyncExport(sync bool) ProviderOption {
	return func(o *providerOptions) {
		o.sync = sync
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) ProviderOption {
	return func(o *providerOptions) {
		o.logger = logger
	}
}

// NewProvider creates and configures the trace provider.
// If tracing is disabled, the provider hands out a no-op tracer and a Noop recorder.
func NewProvider(cfg Config, opts ...ProviderOption) (*Provider, error) {
	options := &providerOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = slog.Default()
	}

	if !cfg.Enabled {
		return &Provider{
			tracer:   noop.NewTracerProvider().Tracer("noop"),
			recorder: Noop(),
			enabled:  false,
		}, nil
	}

	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.Exporter {
	case ExporterStdout:
		exporter, err = stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("create stdout exporter: %w", err)
		}
	case ExporterOTLP:
		endpoint := cfg.OTLPEndpoint
		if endpoint == "" {
			endpoint = defaultOTLPEndpoint
		}
		exporter, err = otlptracegrpc.New(
			context.Background(),
			otlptracegrpc.WithEndpoint(endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("create otlp exporter: %w", err)
		}
	case ExporterJournal:
		if options.exporter == nil {
			return nil, ErrExporterRequired
		}
		exporter = options.exporter
	case ExporterNone, "":
		// Spans are still created so interactions stay correlated in logs.
		exporter = nil
	default:
		return nil, fmt.Errorf("unsupported exporter type: %s", cfg.Exporter)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	// resource.NewSchemaless avoids schema version conflicts with resource.Default()
	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
	)

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}
	sampler := sdktrace.ParentBased(
		sdktrace.TraceIDRatioBased(sampleRate),
	)

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	}
	if exporter != nil {
		if options.sync {
			tpOpts = append(tpOpts, sdktrace.WithSyncer(exporter))
		} else {
			tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
		}
	}

	tp := sdktrace.NewTracerProvider(tpOpts...)
	tracer := tp.Tracer(serviceName)

	return &Provider{
		provider: tp,
		tracer:   tracer,
		recorder: NewTracerRecorder(tracer, options.logger),
		enabled:  true,
	}, nil
}

// Tracer returns the configured tracer.
// It is a no-op tracer when tracing is disabled.
func (p *Provider) Tracer() trace.Tracer {
	return p.tracer
}

// Recorder returns the interaction recorder backed by the tracer.
func (p *Provider) Recorder() Recorder {
	return p.recorder
}

// Enabled returns whether tracing is enabled.
func (p *Provider) Enabled() bool {
	return p.enabled
}

// Shutdown flushes pending spans and shuts down the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if p.provider != nil {
		return p.provider.Shutdown(ctx)
	}
	return nil
}
