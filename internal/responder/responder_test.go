package responder

import (
	"bufio"
	"bytes"
	"context"
	"crypto/rand"
	"encoding/binary"
	"net"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"dev.c0redev.pqmsg/internal/journal"
	"dev.c0redev.pqmsg/internal/transport"
	"dev.c0redev.pqmsg/pkg/pqwire"
)

func newIdentifier(t *testing.T) uint64 {
	t.Helper()
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		t.Fatal(err)
	}
	return binary.LittleEndian.Uint64(b[:])
}

func startServer(t *testing.T, j *journal.Journal) string {
	t.Helper()
	sock := filepath.Join(t.TempDir(), "pqmsgd.sock")
	ln, err := transport.ListenUnix(sock)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	srv := New(zerolog.Nop(), j)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := srv.Serve(ctx, ln); err != nil {
			t.Error(err)
		}
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Error("server did not stop")
		}
	})
	return sock
}

func roundTrip(t *testing.T, r *bufio.Reader, conn net.Conn, alg pqwire.Algorithm, op pqwire.Operation, body []byte) (pqwire.ResponseHeader, []byte) {
	t.Helper()
	id := newIdentifier(t)
	if err := transport.WriteRequest(conn, id, alg, op, body); err != nil {
		t.Fatal(err)
	}
	h, resp, err := transport.ReadResponse(r)
	if err != nil {
		t.Fatal(err)
	}
	if h.Identifier != id {
		t.Fatalf("identifier not echoed: sent %d, got %d", id, h.Identifier)
	}
	return h, resp
}

func TestServeFullExchange(t *testing.T) {
	j, err := journal.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()
	sock := startServer(t, j)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := transport.DialUnix(ctx, sock)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	r := bufio.NewReader(conn)

	// Keypair generation.
	h, keys := roundTrip(t, r, conn, pqwire.Kyber768, pqwire.KeypairGeneration, nil)
	if h.Success != 0 {
		t.Fatalf("keygen failed: %+v", h)
	}
	pub, priv, err := pqwire.DestructureEntries(keys)
	if err != nil {
		t.Fatal(err)
	}

	// Encapsulation against the returned public key.
	h, encap := roundTrip(t, r, conn, pqwire.Kyber768, pqwire.Encapsulation, pub)
	if h.Success != 0 {
		t.Fatalf("encap failed: %+v", h)
	}
	ct, ssA, err := pqwire.DestructureEntries(encap)
	if err != nil {
		t.Fatal(err)
	}

	// Decapsulation recovers the same secret.
	n, _ := pqwire.StructuredEntriesLength(len(priv), len(ct))
	decapBody := make([]byte, n)
	if err := pqwire.StructureEntries(decapBody, priv, ct); err != nil {
		t.Fatal(err)
	}
	h, ssB := roundTrip(t, r, conn, pqwire.Kyber768, pqwire.Decapsulation, decapBody)
	if h.Success != 0 {
		t.Fatalf("decap failed: %+v", h)
	}
	if !bytes.Equal(ssA, ssB) {
		t.Fatal("shared secrets differ across the exchange")
	}

	recs, err := j.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("journal records: %d", len(recs))
	}
}

func TestServeUnsupportedAlgorithm(t *testing.T) {
	sock := startServer(t, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, err := transport.DialUnix(ctx, sock)
	if err != nil {
		t.Fatal(err)
	}
	defer conn.Close()
	r := bufio.NewReader(conn)

	h, body := roundTrip(t, r, conn, pqwire.Saber, pqwire.KeypairGeneration, nil)
	if h.Success == 0 {
		t.Fatal("expected failure response")
	}
	if h.DataLen != 0 || body != nil {
		t.Fatalf("failure carried a body: %+v %v", h, body)
	}

	// Connection survives the failed operation.
	h, _ = roundTrip(t, r, conn, pqwire.Kyber768, pqwire.KeypairGeneration, nil)
	if h.Success != 0 {
		t.Fatalf("keygen after failure: %+v", h)
	}
}
