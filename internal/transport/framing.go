// Package transport carries framed pqmsg messages over a byte channel: a
// unix domain socket for local IPC or a QUIC stream between hosts. The
// framing itself lives in pkg/pqwire; this package only moves complete
// messages across io boundaries, reassembling partial reads with
// io.ReadFull.
package transport

import (
	"errors"
	"fmt"
	"io"
	"math"

	"dev.c0redev.pqmsg/pkg/pqwire"
)

// MaxBodySize caps bodies accepted off a channel (16 MiB). Headers from a
// peer are untrusted; this bounds the allocation their data_len can force.
const MaxBodySize = 1024 * 1024 * 16

var ErrBodyTooLarge = errors.New("transport: body too large")

// WriteRequest frames and writes one request (header plus body) to w.
func WriteRequest(w io.Writer, identifier uint64, alg pqwire.Algorithm, op pqwire.Operation, body []byte) error {
	if len(body) > MaxBodySize || uint64(len(body)) > math.MaxUint32 {
		return ErrBodyTooLarge
	}
	hdr := make([]byte, pqwire.RequestHeaderSize())
	if err := pqwire.SerializeRequestHeader(hdr, identifier, uint32(len(body)), alg, op); err != nil {
		return fmt.Errorf("serialize request header: %w", err)
	}
	if _, err := w.Write(hdr); err != nil {
		return err
	}
	if len(body) > 0 {
		if _, err := w.Write(body); err != nil {
			return err
		}
	}
	return nil
}

// ReadRequest reads one complete request from r. io.EOF before the first
// header byte means a clean end of stream.
func ReadRequest(r io.Reader) (pqwire.RequestHeader, []byte, error) {
	hdr := make([]byte, pqwire.RequestHeaderSize())
	if _, err := io.ReadFull(r, hdr); err != nil {
		return pqwire.RequestHeader{}, nil, err
	}
	h, err := pqwire.DeserializeRequestHeader(hdr)
	if err != nil {
		return pqwire.RequestHeader{}, nil, err
	}
	if h.DataLen > MaxBodySize {
		return pqwire.RequestHeader{}, nil, ErrBodyTooLarge
	}
	var body []byte
	if h.DataLen > 0 {
		body = make([]byte, h.DataLen)
		if _, err := io.ReadFull(r, body); err != nil {
			return pqwire.RequestHeader{}, nil, err
		}
	}
	return h, body, nil
}

// WriteResponse frames and writes one response to w. A nil body writes a
// failure response, matching pqwire.SerializeResponse.
func WriteResponse(w io.Writer, identifier uint64, body []byte) error {
	if len(body) > MaxBodySize {
		body = nil
	}
	_, err := w.Write(pqwire.SerializeResponse(identifier, body))
	return err
}

// ReadResponse reads one complete response from r. On a failure response
// the returned body is nil.
func ReadResponse(r io.Reader) (pqwire.ResponseHeader, []byte, error) {
	hdr := make([]byte, pqwire.ResponseHeaderSize())
	if _, err := io.ReadFull(r, hdr); err != nil {
		return pqwire.ResponseHeader{}, nil, err
	}
	h, err := pqwire.DeserializeResponseHeader(hdr)
	if err != nil {
		return pqwire.ResponseHeader{}, nil, err
	}
	if h.DataLen > MaxBodySize {
		return pqwire.ResponseHeader{}, nil, ErrBodyTooLarge
	}
	var body []byte
	if h.DataLen > 0 {
		body = make([]byte, h.DataLen)
		if _, err := io.ReadFull(r, body); err != nil {
			return pqwire.ResponseHeader{}, nil, err
		}
	}
	return h, body, nil
}
