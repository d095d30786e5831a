package telemetry

// Recorder begins telemetry interactions.
// Implementations must be safe for concurrent use.
type Recorder interface {
	// BeginInteraction starts a named interaction tagged with attrs.
	BeginInteraction(name string, attrs map[string]string) Interaction
}

// Interaction bounds the full dispatch of one query.
type Interaction interface {
	// CreateSpan opens a span keyed by provider id.
	CreateSpan(key string) Span

	// Complete marks the interaction as successfully finished.
	// Complete and Discard are mutually exclusive; only the first call counts.
	Complete()

	// Discard marks the interaction as ignored.
	Discard()
}

// Span bounds one provider's contribution to an interaction.
type Span interface {
	// End closes the span, recording err when non-nil. Only the first call counts.
	End(err error)
}

// Noop returns a Recorder that records nothing.
func Noop() Recorder {
	return noopRecorder{}
}

type noopRecorder struct{}

type noopInteraction struct{}

type noopSpan struct{}

var (
	_ Recorder    = noopRecorder{}
	_ Interaction = noopInteraction{}
	_ Span        = noopSpan{}
)

func (noopRecorder) BeginInteraction(string, map[string]string) Interaction { return noopInteraction{} }
func (noopInteraction) CreateSpan(string) Span                              { return noopSpan{} }
func (noopInteraction) Complete()                                           {}
func (noopInteraction) Discard()                                            {}
func (noopSpan) End(error)                                                  {}
