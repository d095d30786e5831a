package journal

import (
	"bytes"
	"encoding/binary"
	"time"
)

// Key prefixes for different data types
const (
	spanRecordPrefix = "span:"
)

const spanKeySize = len(spanRecordPrefix) + 16

// keyMicros encodes t for use in keys. Times before the Unix epoch sort first.
func keyMicros(t time.Time) uint64 {
	micros := t.UnixMicro()
	if micros < 0 {
		return 0
	}
	return uint64(micros)
}

// makeSpanKey generates a composite key for a span record.
// Format: prefix:endTime:spanID
func makeSpanKey(end time.Time, spanID [8]byte) []byte {
	buf := make([]byte, spanKeySize)
	offset := copy(buf, spanRecordPrefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], keyMicros(end))
	offset += 8
	copy(buf[offset:], spanID[:])
	return buf
}

// makePartialSpanKey generates a partial key for time range scans.
// Format: prefix:endTime
func makePartialSpanKey(end time.Time) []byte {
	buf := make([]byte, len(spanRecordPrefix)+8)
	offset := copy(buf, spanRecordPrefix)
	binary.BigEndian.PutUint64(buf[offset:], keyMicros(end))
	return buf
}

// spanKeyUpperBound sorts after every span key.
func spanKeyUpperBound() []byte {
	return append([]byte(spanRecordPrefix), bytes.Repeat([]byte{0xff}, 16)...)
}

// spanKeyTime extracts the end time from a span key.
func spanKeyTime(key []byte) (time.Time, bool) {
	if len(key) != spanKeySize || !bytes.HasPrefix(key, []byte(spanRecordPrefix)) {
		return time.Time{}, false
	}
	micros := binary.BigEndian.Uint64(key[len(spanRecordPrefix):])
	return time.UnixMicro(int64(micros)).UTC(), true
}
