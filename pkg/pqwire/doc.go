// Package pqwire is the framing layer for IPC between two processes that
// exchange post-quantum key-exchange operations. One side serializes a
// request header naming an algorithm, an operation and a correlation
// identifier; the other side performs the operation and answers with a
// response header plus an optional body. The package only frames bytes: it
// knows nothing about the channel carrying them and performs no cryptography.
//
// All fields are little-endian with fixed widths:
//
//	RequestHeader  = version(1) | identifier(8) | data_len(4) | algorithm(4) | operation(4)
//	ResponseHeader = version(1) | identifier(8) | success(1, signed) | data_len(4)
//	StructuredEntries = len1(8) | len2(8) | entry1(len1 bytes) | entry2(len2 bytes)
//
// Every entry point reports failure through a Status code; see status.go for
// the full taxonomy. Buffers handed to the deserialize/destructure functions
// may come from another process and are treated as hostile: embedded lengths
// are always checked against the real buffer size before anything is exposed.
//
// The channel must not be readable by everyone: cryptographically sensitive
// material travels over it.
package pqwire

// FormatVersion is the protocol version written into every header.
// Both processes of a deployment must be built against the same value;
// deserialization rejects anything else. Bump it whenever a layout changes.
const FormatVersion byte = 1
