package pqwire

import (
	"encoding/binary"
	"math"
)

// EntryLenSize is the width of each length field in a structured-entries
// buffer: 8 bytes, little-endian unsigned. Both processes of a deployment
// must agree on this; it is fixed here for the whole wire format.
const EntryLenSize = 8

// StructuredEntriesLength returns the exact byte length of a
// structured-entries buffer holding two entries of the given lengths.
// Negative lengths or arithmetic overflow fail closed with
// StatusSizeOverflow instead of wrapping.
func StructuredEntriesLength(len1, len2 int) (int, error) {
	if len1 < 0 || len2 < 0 {
		return 0, StatusSizeOverflow
	}
	if len1 > math.MaxInt-2*EntryLenSize {
		return 0, StatusSizeOverflow
	}
	if len2 > math.MaxInt-2*EntryLenSize-len1 {
		return 0, StatusSizeOverflow
	}
	return 2*EntryLenSize + len1 + len2, nil
}

// StructureEntries writes both length fields followed by entry1 and entry2
// contiguously into dst. Fails with StatusNilBuffer, StatusNilEntry1 or
// StatusNilEntry2 when the respective argument is nil; empty non-nil
// entries are fine.
//
// dst must be at least StructuredEntriesLength(len(entry1), len(entry2))
// bytes. That precondition is not re-validated here: an undersized dst is a
// caller bug and panics. Pair this call with StructuredEntriesLength and it
// cannot happen.
func StructureEntries(dst, entry1, entry2 []byte) error {
	if dst == nil {
		return StatusNilBuffer
	}
	if entry1 == nil {
		return StatusNilEntry1
	}
	if entry2 == nil {
		return StatusNilEntry2
	}
	binary.LittleEndian.PutUint64(dst[0:EntryLenSize], uint64(len(entry1)))
	binary.LittleEndian.PutUint64(dst[EntryLenSize:2*EntryLenSize], uint64(len(entry2)))
	off := 2 * EntryLenSize
	copy(dst[off:off+len(entry1)], entry1)
	off += len(entry1)
	copy(dst[off:off+len(entry2)], entry2)
	return nil
}

// DestructureEntries splits a structured-entries buffer back into its two
// entries. The buffer may come from another process, so the embedded length
// fields are never trusted: every offset and length is checked against the
// real len(buf) before anything is exposed. Fails with StatusNilBuffer,
// StatusLengthParse (a length field does not fit this architecture's int)
// or StatusOutOfBounds (the declared lengths reach past the buffer).
//
// On success both entries are subslices of buf, valid only while buf stays
// allocated and unmodified; copy them if they must outlive it. On failure
// both are nil.
func DestructureEntries(buf []byte) (entry1, entry2 []byte, err error) {
	if buf == nil {
		return nil, nil, StatusNilBuffer
	}
	if len(buf) < 2*EntryLenSize {
		return nil, nil, StatusOutOfBounds
	}
	n1 := binary.LittleEndian.Uint64(buf[0:EntryLenSize])
	n2 := binary.LittleEndian.Uint64(buf[EntryLenSize : 2*EntryLenSize])
	if n1 > uint64(math.MaxInt) {
		return nil, nil, StatusLengthParse
	}
	if n2 > uint64(math.MaxInt) {
		return nil, nil, StatusLengthParse
	}
	len1, len2 := int(n1), int(n2)
	rest := len(buf) - 2*EntryLenSize
	if len1 > rest || len2 > rest-len1 {
		return nil, nil, StatusOutOfBounds
	}
	off := 2 * EntryLenSize
	return buf[off : off+len1], buf[off+len1 : off+len1+len2], nil
}
