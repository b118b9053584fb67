package pqwire

import (
	"encoding/binary"
	"math"
	"sync"
)

// RequestHeader describes one request on the wire. The identifier is chosen
// by the sender and echoed back unchanged so the response can be matched to
// its request. DataLen is the length of the body bytes that follow the
// header; the bytes after that belong to the next header.
type RequestHeader struct {
	Version    byte
	Identifier uint64
	DataLen    uint32
	Algorithm  Algorithm
	Operation  Operation
}

// ResponseHeader describes one response on the wire. Success is 0 when the
// operation succeeded and nonzero for failure; a failed response always has
// DataLen 0 and no body.
type ResponseHeader struct {
	Version    byte
	Identifier uint64
	Success    int8
	DataLen    uint32
}

var (
	headerSizeOnce sync.Once
	reqHeaderSize  int
	respHeaderSize int
)

func computeHeaderSizes() {
	reqHeaderSize = len(appendRequestHeader(nil, RequestHeader{}))
	respHeaderSize = len(appendResponseHeader(nil, ResponseHeader{}))
}

// RequestHeaderSize returns the fixed byte length of a serialized request
// header. Computed on first use and cached for the process lifetime; safe
// for concurrent first use. Call it before allocating a serialize target or
// judging whether a received buffer is large enough.
func RequestHeaderSize() int {
	headerSizeOnce.Do(computeHeaderSizes)
	return reqHeaderSize
}

// ResponseHeaderSize is the response-side counterpart of RequestHeaderSize.
func ResponseHeaderSize() int {
	headerSizeOnce.Do(computeHeaderSizes)
	return respHeaderSize
}

func appendRequestHeader(b []byte, h RequestHeader) []byte {
	b = append(b, h.Version)
	b = binary.LittleEndian.AppendUint64(b, h.Identifier)
	b = binary.LittleEndian.AppendUint32(b, h.DataLen)
	b = binary.LittleEndian.AppendUint32(b, uint32(h.Algorithm))
	b = binary.LittleEndian.AppendUint32(b, uint32(h.Operation))
	return b
}

func appendResponseHeader(b []byte, h ResponseHeader) []byte {
	b = append(b, h.Version)
	b = binary.LittleEndian.AppendUint64(b, h.Identifier)
	b = append(b, byte(h.Success))
	b = binary.LittleEndian.AppendUint32(b, h.DataLen)
	return b
}

// SerializeRequestHeader writes a request header carrying FormatVersion into
// dst. dst must be at least RequestHeaderSize() bytes: a nil dst fails with
// StatusNilBuffer, a short one with StatusShortBuffer. There is no
// partial-write guarantee on failure; treat dst as unusable then.
func SerializeRequestHeader(dst []byte, identifier uint64, dataLen uint32, alg Algorithm, op Operation) error {
	if dst == nil {
		return StatusNilBuffer
	}
	if len(dst) < RequestHeaderSize() {
		return StatusShortBuffer
	}
	h := RequestHeader{
		Version:    FormatVersion,
		Identifier: identifier,
		DataLen:    dataLen,
		Algorithm:  alg,
		Operation:  op,
	}
	n := copy(dst, appendRequestHeader(make([]byte, 0, reqHeaderSize), h))
	if n != reqHeaderSize {
		return StatusEncoding
	}
	return nil
}

// DeserializeRequestHeader parses a request header from buf. Fails with
// StatusNilBuffer, StatusShortBuffer, StatusDecoding (unknown algorithm or
// operation discriminant) or StatusVersionMismatch. On failure the returned
// header is zero and must not be used.
func DeserializeRequestHeader(buf []byte) (RequestHeader, error) {
	if buf == nil {
		return RequestHeader{}, StatusNilBuffer
	}
	if len(buf) < RequestHeaderSize() {
		return RequestHeader{}, StatusShortBuffer
	}
	h := RequestHeader{
		Version:    buf[0],
		Identifier: binary.LittleEndian.Uint64(buf[1:9]),
		DataLen:    binary.LittleEndian.Uint32(buf[9:13]),
		Algorithm:  Algorithm(binary.LittleEndian.Uint32(buf[13:17])),
		Operation:  Operation(binary.LittleEndian.Uint32(buf[17:21])),
	}
	if !h.Algorithm.Valid() || !h.Operation.Valid() {
		return RequestHeader{}, StatusDecoding
	}
	if h.Version != FormatVersion {
		return RequestHeader{}, StatusVersionMismatch
	}
	return h, nil
}

// SerializeResponseHeader writes h into dst with Version forced to
// FormatVersion. A nonzero Success forces DataLen to 0 so a failed header
// can never announce a body. Same dst rules as SerializeRequestHeader.
func SerializeResponseHeader(dst []byte, h ResponseHeader) error {
	if dst == nil {
		return StatusNilBuffer
	}
	if len(dst) < ResponseHeaderSize() {
		return StatusShortBuffer
	}
	h.Version = FormatVersion
	if h.Success != 0 {
		h.DataLen = 0
	}
	n := copy(dst, appendResponseHeader(make([]byte, 0, respHeaderSize), h))
	if n != respHeaderSize {
		return StatusEncoding
	}
	return nil
}

// SerializeResponse builds a complete response message (header plus body) in
// one allocation. A nil data marks the operation as failed: Success is set
// to -1 with DataLen 0 and no body bytes. The same happens when data does
// not fit the 4-byte length field. An empty non-nil data is a successful
// response with an empty body.
func SerializeResponse(identifier uint64, data []byte) []byte {
	h := ResponseHeader{
		Version:    FormatVersion,
		Identifier: identifier,
	}
	if data == nil || uint64(len(data)) > math.MaxUint32 {
		h.Success = -1
		return appendResponseHeader(make([]byte, 0, ResponseHeaderSize()), h)
	}
	h.DataLen = uint32(len(data))
	out := appendResponseHeader(make([]byte, 0, ResponseHeaderSize()+len(data)), h)
	return append(out, data...)
}

// DeserializeResponseHeader parses a response header from buf. Fails with
// StatusNilBuffer, StatusShortBuffer, StatusDecoding (a failed header
// announcing a body, which no conforming encoder produces) or
// StatusVersionMismatch. On failure the returned header is zero and must
// not be used.
func DeserializeResponseHeader(buf []byte) (ResponseHeader, error) {
	if buf == nil {
		return ResponseHeader{}, StatusNilBuffer
	}
	if len(buf) < ResponseHeaderSize() {
		return ResponseHeader{}, StatusShortBuffer
	}
	h := ResponseHeader{
		Version:    buf[0],
		Identifier: binary.LittleEndian.Uint64(buf[1:9]),
		Success:    int8(buf[9]),
		DataLen:    binary.LittleEndian.Uint32(buf[10:14]),
	}
	if h.Success != 0 && h.DataLen != 0 {
		return ResponseHeader{}, StatusDecoding
	}
	if h.Version != FormatVersion {
		return ResponseHeader{}, StatusVersionMismatch
	}
	return h, nil
}
