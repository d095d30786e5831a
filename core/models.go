package core

import (
	"encoding/binary"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Result is a single item contributed by one provider for one query.
// Results are opaque to the aggregation store; no cross-provider identity
// or deduplication is defined.
type Result struct {
	Id         ID
	ProviderID string            // Provider that produced the result
	Title      string            // Primary display text
	Subtitle   string            // Secondary display text, may be empty
	Value      string            // Payload acted on when the result is chosen
	Metadata   map[string]string // Optional provider-specific data
}

// NewResult builds a result with an ID derived from the provider and value.
func NewResult(providerID, title, subtitle, value string) Result {
	return Result{
		Id:         IDFromContent(providerID + "\x00" + value),
		ProviderID: providerID,
		Title:      title,
		Subtitle:   subtitle,
		Value:      value,
	}
}
