package journal

import (
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/launchpad/core"
)

// Span kinds recorded in SpanRecord.Kind.
const (
	KindInteraction = "interaction"
	KindProvider    = "provider"
)

// SpanRecord is one finished span as kept in the journal.
type SpanRecord struct {
	TraceID    string
	SpanID     [8]byte
	ParentID   [8]byte // zero for interactions
	Name       string
	Kind       string
	ProviderID string  // empty for interactions
	QueryHash  core.ID // zero when the span carried no query
	Outcome    string  // interactions only: complete or discarded
	Failed     bool
	Error      string
	Start      time.Time
	End        time.Time
}

// Duration returns how long the span was open.
func (r SpanRecord) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// recordVersion prefixes every encoded record.
const recordVersion = 1

func boolToUint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

func spanIDToUint(id [8]byte) uint64 {
	var v uint64
	for _, b := range id {
		v = v<<8 | uint64(b)
	}
	return v
}

func uintToSpanID(v uint64) [8]byte {
	var id [8]byte
	for i := 7; i >= 0; i-- {
		id[i] = byte(v)
		v >>= 8
	}
	return id
}

// marshalRecord serializes a SpanRecord to bytes.
func marshalRecord(r *SpanRecord) []byte {
	size := varint.Uint64.Size(recordVersion) +
		ord.String.Size(r.TraceID) +
		varint.Uint64.Size(spanIDToUint(r.SpanID)) +
		varint.Uint64.Size(spanIDToUint(r.ParentID)) +
		ord.String.Size(r.Name) +
		ord.String.Size(r.Kind) +
		ord.String.Size(r.ProviderID) +
		varint.Uint64.Size(uint64(r.QueryHash)) +
		ord.String.Size(r.Outcome) +
		varint.Uint64.Size(boolToUint(r.Failed)) +
		ord.String.Size(r.Error) +
		varint.Int64.Size(r.Start.UnixMicro()) +
		varint.Int64.Size(r.End.UnixMicro())

	buf := make([]byte, size)
	n := varint.Uint64.Marshal(recordVersion, buf)
	n += ord.String.Marshal(r.TraceID, buf[n:])
	n += varint.Uint64.Marshal(spanIDToUint(r.SpanID), buf[n:])
	n += varint.Uint64.Marshal(spanIDToUint(r.ParentID), buf[n:])
	n += ord.String.Marshal(r.Name, buf[n:])
	n += ord.String.Marshal(r.Kind, buf[n:])
	n += ord.String.Marshal(r.ProviderID, buf[n:])
	n += varint.Uint64.Marshal(uint64(r.QueryHash), buf[n:])
	n += ord.String.Marshal(r.Outcome, buf[n:])
	n += varint.Uint64.Marshal(boolToUint(r.Failed), buf[n:])
	n += ord.String.Marshal(r.Error, buf[n:])
	n += varint.Int64.Marshal(r.Start.UnixMicro(), buf[n:])
	varint.Int64.Marshal(r.End.UnixMicro(), buf[n:])
	return buf
}

// recordReader decodes fields in order, keeping the first error.
type recordReader struct {
	data []byte
	off  int
	err  error
}

func (rr *recordReader) uint64() uint64 {
	if rr.err != nil {
		return 0
	}
	v, n, err := varint.Uint64.Unmarshal(rr.data[rr.off:])
	rr.advance(n, err)
	return v
}

func (rr *recordReader) int64() int64 {
	if rr.err != nil {
		return 0
	}
	v, n, err := varint.Int64.Unmarshal(rr.data[rr.off:])
	rr.advance(n, err)
	return v
}

func (rr *recordReader) string() string {
	if rr.err != nil {
		return ""
	}
	v, n, err := ord.String.Unmarshal(rr.data[rr.off:])
	rr.advance(n, err)
	return v
}

func (rr *recordReader) advance(n int, err error) {
	if err != nil {
		rr.err = fmt.Errorf("%w: %w", ErrTruncatedData, err)
		return
	}
	rr.off += n
}

// unmarshalRecord deserializes a SpanRecord from bytes.
func unmarshalRecord(data []byte) (*SpanRecord, error) {
	rr := &recordReader{data: data}
	if v := rr.uint64(); rr.err == nil && v != recordVersion {
		return nil, fmt.Errorf("%w: unknown record version %d", ErrSerializationFailed, v)
	}

	r := &SpanRecord{}
	r.TraceID = rr.string()
	r.SpanID = uintToSpanID(rr.uint64())
	r.ParentID = uintToSpanID(rr.uint64())
	r.Name = rr.string()
	r.Kind = rr.string()
	r.ProviderID = rr.string()
	r.QueryHash = core.ID(rr.uint64())
	r.Outcome = rr.string()
	r.Failed = rr.uint64() != 0
	r.Error = rr.string()
	r.Start = time.UnixMicro(rr.int64()).UTC()
	r.End = time.UnixMicro(rr.int64()).UTC()

	if rr.err != nil {
		return nil, rr.err
	}
	return r, nil
}
