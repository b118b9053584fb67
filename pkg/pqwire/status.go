package pqwire

import "fmt"

// Status is the result code of every codec entry point. Zero means success;
// each negative value names exactly one failure cause. The numeric values
// are part of the call-boundary contract shared with peer tooling and must
// never be renumbered.
type Status int16

const (
	StatusOK Status = 0

	// StatusNilBuffer: a required buffer argument was nil.
	StatusNilBuffer Status = -1
	// StatusNilEntry1: the first entry argument was nil.
	StatusNilEntry1 Status = -2
	// StatusNilEntry2: the second entry argument was nil.
	StatusNilEntry2 Status = -3
	// StatusShortBuffer: the buffer is smaller than the serialized layout.
	StatusShortBuffer Status = -4
	// StatusSizeOverflow: a size cannot be represented on this architecture.
	StatusSizeOverflow Status = -5
	// StatusEncoding: internal serialization failure.
	StatusEncoding Status = -6
	// StatusDecoding: the bytes do not parse as the expected layout.
	StatusDecoding Status = -7
	// StatusVersionMismatch: the header version differs from FormatVersion.
	StatusVersionMismatch Status = -8
	// StatusLengthParse: a structured length field cannot be decoded.
	StatusLengthParse Status = -9
	// StatusOutOfBounds: embedded lengths reach past the real buffer end.
	StatusOutOfBounds Status = -10
)

var statusText = map[Status]string{
	StatusOK:              "ok",
	StatusNilBuffer:       "nil buffer",
	StatusNilEntry1:       "nil entry1",
	StatusNilEntry2:       "nil entry2",
	StatusShortBuffer:     "buffer too small",
	StatusSizeOverflow:    "size not representable",
	StatusEncoding:        "encoding failed",
	StatusDecoding:        "decoding failed",
	StatusVersionMismatch: "format version mismatch",
	StatusLengthParse:     "length field unparseable",
	StatusOutOfBounds:     "length exceeds buffer",
}

// Error makes Status usable as an error value. Functions in this package
// return nil on success and a Status on failure, so callers can compare with
// errors.Is against the constants above.
func (s Status) Error() string {
	if t, ok := statusText[s]; ok {
		return fmt.Sprintf("pqwire: %s (%d)", t, int16(s))
	}
	return fmt.Sprintf("pqwire: status %d", int16(s))
}

// CodeOf maps an error from this package back to its numeric status.
// A nil error is StatusOK. The second return is false when err did not
// originate here.
func CodeOf(err error) (Status, bool) {
	if err == nil {
		return StatusOK, true
	}
	if s, ok := err.(Status); ok {
		return s, true
	}
	return 0, false
}
