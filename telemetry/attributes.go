package telemetry

// Span attribute keys.
const (
	// Interaction attributes
	AttrInteractionName    = "interaction.name"
	AttrInteractionID      = "interaction.id"
	AttrInteractionOutcome = "interaction.outcome"

	// Search attributes
	AttrQuery = "search.query"

	// Provider attributes
	AttrProviderID = "provider.id"
)

// Interaction outcomes recorded under AttrInteractionOutcome.
const (
	OutcomeComplete  = "complete"
	OutcomeDiscarded = "discarded"
)

// ProviderSpanPrefix prefixes the name of every provider span.
const ProviderSpanPrefix = "provider "
