package plugin

import "errors"

var (
	// ErrCommandRequired is returned when an exec spec has no command.
	ErrCommandRequired = errors.New("command required")

	// ErrMalformedOutput is returned when a plugin prints something other
	// than a JSON result object or array of result objects.
	ErrMalformedOutput = errors.New("malformed plugin output")

	// ErrHostReleased is returned when a search is issued after Release.
	ErrHostReleased = errors.New("plugin host released")
)
