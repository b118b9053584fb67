// Package responder serves framed key-exchange requests: it reads requests
// off a connection, executes them through the kem package and writes the
// response back, journaling each one. Retry and resend policy stays with
// the requesting process; a failed request is answered once and forgotten.
package responder

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"sync"

	"github.com/rs/zerolog"

	"dev.c0redev.pqmsg/internal/journal"
	"dev.c0redev.pqmsg/internal/kem"
	"dev.c0redev.pqmsg/internal/transport"
	"dev.c0redev.pqmsg/pkg/pqwire"
)

// Server answers pqmsg requests on accepted connections.
type Server struct {
	log     zerolog.Logger
	journal *journal.Journal // nil disables journaling
}

func New(log zerolog.Logger, j *journal.Journal) *Server {
	return &Server{log: log, journal: j}
}

// Serve accepts connections from ln until ctx is done, handling each on its
// own goroutine. It closes ln on shutdown and returns nil then.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	var wg sync.WaitGroup
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
		case <-done:
		}
		ln.Close()
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			wg.Wait()
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.HandleConn(conn)
		}()
	}
}

// HandleConn answers requests on conn until EOF or an unrecoverable framing
// error. A request that fails its operation gets a failure response; a
// framing error kills the connection since the stream position is lost.
func (s *Server) HandleConn(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReader(conn)
	for {
		h, body, err := transport.ReadRequest(r)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Warn().Err(err).Msg("read request")
			}
			return
		}

		respBody, opErr := kem.Execute(h.Algorithm, h.Operation, body)
		if opErr != nil {
			s.log.Warn().
				Uint64("identifier", h.Identifier).
				Stringer("algorithm", h.Algorithm).
				Stringer("operation", h.Operation).
				Err(opErr).
				Msg("operation failed")
			respBody = nil
		} else {
			s.log.Debug().
				Uint64("identifier", h.Identifier).
				Stringer("algorithm", h.Algorithm).
				Stringer("operation", h.Operation).
				Int("resp_len", len(respBody)).
				Msg("served")
		}

		s.record(h, respBody)
		if err := transport.WriteResponse(conn, h.Identifier, respBody); err != nil {
			s.log.Warn().Err(err).Msg("write response")
			return
		}
	}
}

func (s *Server) record(h pqwire.RequestHeader, respBody []byte) {
	if s.journal == nil {
		return
	}
	var success int8
	if respBody == nil {
		success = -1
	}
	rec := journal.Record{
		Identifier: h.Identifier,
		Algorithm:  h.Algorithm,
		Operation:  h.Operation,
		Success:    success,
		RespLen:    len(respBody),
		RespDigest: journal.Fingerprint(respBody),
	}
	if err := s.journal.Append(rec); err != nil {
		s.log.Warn().Err(err).Msg("journal append")
	}
}
