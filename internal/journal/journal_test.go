package journal

import (
	"testing"

	"dev.c0redev.pqmsg/pkg/pqwire"
)

func TestOpenMemory(t *testing.T) {
	j, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()
	if err := j.Ping(); err != nil {
		t.Fatal(err)
	}
}

func TestAppendAndRecent(t *testing.T) {
	j, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	body := []byte("response-bytes")
	if err := j.Append(Record{
		Identifier: 42,
		Algorithm:  pqwire.Kyber768,
		Operation:  pqwire.Encapsulation,
		Success:    0,
		RespLen:    len(body),
		RespDigest: Fingerprint(body),
	}); err != nil {
		t.Fatal(err)
	}
	if err := j.Append(Record{Identifier: 43, Algorithm: pqwire.Saber, Operation: pqwire.KeypairGeneration, Success: -1}); err != nil {
		t.Fatal(err)
	}

	recs, err := j.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records", len(recs))
	}
	if recs[0].Identifier != 43 || recs[0].Success != -1 {
		t.Fatalf("newest first: %+v", recs[0])
	}
	if recs[1].Algorithm != pqwire.Kyber768 || recs[1].Operation != pqwire.Encapsulation {
		t.Fatalf("tags: %+v", recs[1])
	}
	if recs[1].RespDigest != Fingerprint(body) || recs[1].RespDigest == "" {
		t.Fatalf("digest: %q", recs[1].RespDigest)
	}
}

func TestFingerprintEmpty(t *testing.T) {
	if Fingerprint(nil) != "" || Fingerprint([]byte{}) != "" {
		t.Fatal("empty body must have empty digest")
	}
	if Fingerprint([]byte("a")) == Fingerprint([]byte("b")) {
		t.Fatal("digests collide")
	}
}
