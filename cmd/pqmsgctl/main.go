// pqmsgctl: requester CLI. Sends one framed key-exchange request to a
// running pqmsgd and writes the result to disk or stdout.
//
//	pqmsgctl -op keygen -alg kyber768 -out keys/
//	pqmsgctl -op encap -alg kyber768 -pub keys/pub.bin -out keys/
//	pqmsgctl -op decap -alg kyber768 -priv keys/priv.bin -ct keys/ct.bin
package main

import (
	"bufio"
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"
	"time"

	"dev.c0redev.pqmsg/internal/transport"
	"dev.c0redev.pqmsg/pkg/pqwire"
)

var algNames = map[string]pqwire.Algorithm{
	"kyber768":      pqwire.Kyber768,
	"kyber768-p384": pqwire.Kyber768ECDHP384,
}

func main() {
	socket := flag.String("socket", "pqmsgd.sock", "responder unix socket")
	quicAddr := flag.String("quic", "", "dial QUIC addr instead of the socket")
	opName := flag.String("op", "", "operation: keygen, encap or decap")
	algName := flag.String("alg", "kyber768", "algorithm: kyber768 or kyber768-p384")
	pubPath := flag.String("pub", "", "public key file (encap)")
	privPath := flag.String("priv", "", "private key file (decap)")
	ctPath := flag.String("ct", "", "ciphertext file (decap)")
	outDir := flag.String("out", ".", "output directory")
	flag.Parse()

	alg, ok := algNames[*algName]
	if !ok {
		log.Fatalf("unknown algorithm %q", *algName)
	}

	var op pqwire.Operation
	var body []byte
	switch *opName {
	case "keygen":
		op = pqwire.KeypairGeneration
	case "encap":
		op = pqwire.Encapsulation
		body = readFile(*pubPath, "-pub")
	case "decap":
		op = pqwire.Decapsulation
		priv := readFile(*privPath, "-priv")
		ct := readFile(*ctPath, "-ct")
		n, err := pqwire.StructuredEntriesLength(len(priv), len(ct))
		if err != nil {
			log.Fatal(err)
		}
		body = make([]byte, n)
		if err := pqwire.StructureEntries(body, priv, ct); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("unknown operation %q", *opName)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var conn net.Conn
	var err error
	if *quicAddr != "" {
		conn, err = transport.DialStream(ctx, *quicAddr, nil)
	} else {
		conn, err = transport.DialUnix(ctx, *socket)
	}
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	identifier := newIdentifier()
	if err := transport.WriteRequest(conn, identifier, alg, op, body); err != nil {
		log.Fatal(err)
	}
	h, resp, err := transport.ReadResponse(bufio.NewReader(conn))
	if err != nil {
		log.Fatal(err)
	}
	if h.Identifier != identifier {
		log.Fatalf("response identifier %d does not match request %d", h.Identifier, identifier)
	}
	if h.Success != 0 {
		log.Fatalf("responder rejected the operation (success=%d)", h.Success)
	}

	switch op {
	case pqwire.KeypairGeneration:
		pub, priv, err := pqwire.DestructureEntries(resp)
		if err != nil {
			log.Fatal(err)
		}
		writeFile(filepath.Join(*outDir, "pub.bin"), pub)
		writeFile(filepath.Join(*outDir, "priv.bin"), priv)
		fmt.Printf("public key: %d bytes, private key: %d bytes\n", len(pub), len(priv))
	case pqwire.Encapsulation:
		ct, ss, err := pqwire.DestructureEntries(resp)
		if err != nil {
			log.Fatal(err)
		}
		writeFile(filepath.Join(*outDir, "ct.bin"), ct)
		fmt.Printf("ciphertext: %d bytes\nshared secret: %s\n", len(ct), hex.EncodeToString(ss))
	case pqwire.Decapsulation:
		fmt.Printf("shared secret: %s\n", hex.EncodeToString(resp))
	}
}

func newIdentifier() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		log.Fatal(err)
	}
	return binary.LittleEndian.Uint64(b[:])
}

func readFile(path, flagName string) []byte {
	if path == "" {
		log.Fatalf("%s is required for this operation", flagName)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatal(err)
	}
	return data
}

func writeFile(path string, data []byte) {
	if err := os.WriteFile(path, data, 0o600); err != nil {
		log.Fatal(err)
	}
}
