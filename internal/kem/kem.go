// Package kem executes the key-exchange operations named in request
// headers. ML-KEM-768 backs the KYBER_768 tag; the KYBER_768+ECDHp384
// hybrid pairs it with a P-384 exchange and derives one combined secret.
// Request and response bodies use pqwire structured entries.
package kem

import (
	"crypto/ecdh"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"filippo.io/mlkem768"
	"golang.org/x/crypto/hkdf"

	"dev.c0redev.pqmsg/pkg/pqwire"
)

const (
	// SharedSecretSize of every supported algorithm (bytes).
	SharedSecretSize = 32

	p384PublicKeySize  = 97
	p384PrivateKeySize = 48

	hybridPublicKeySize  = mlkem768.EncapsulationKeySize + p384PublicKeySize
	hybridPrivateKeySize = mlkem768.SeedSize + p384PrivateKeySize
	hybridCiphertextSize = mlkem768.CiphertextSize + p384PublicKeySize
)

// hkdf info string; also domain-separates the hybrid from raw ML-KEM output.
var hybridInfo = []byte("pqmsg hybrid KYBER_768+ECDHp384")

var (
	ErrUnsupportedAlgorithm = errors.New("kem: unsupported algorithm")
	ErrUnsupportedOperation = errors.New("kem: unsupported operation")
	ErrBadBody              = errors.New("kem: malformed request body")
)

// Execute runs op for alg on the request body and returns the response body.
//
// Body conventions:
//   - KeypairGeneration: empty request body; response = entries(public, private).
//   - Encapsulation: request body = raw public key; response = entries(ciphertext, sharedSecret).
//   - Decapsulation: request body = entries(private, ciphertext); response = raw sharedSecret.
func Execute(alg pqwire.Algorithm, op pqwire.Operation, body []byte) ([]byte, error) {
	switch alg {
	case pqwire.Kyber768:
		return executeKyber768(op, body)
	case pqwire.Kyber768ECDHP384:
		return executeHybrid(op, body)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}
}

// Supported reports whether this responder can serve alg at all.
func Supported(alg pqwire.Algorithm) bool {
	return alg == pqwire.Kyber768 || alg == pqwire.Kyber768ECDHP384
}

func executeKyber768(op pqwire.Operation, body []byte) ([]byte, error) {
	switch op {
	case pqwire.KeypairGeneration:
		dk, err := mlkem768.GenerateKey()
		if err != nil {
			return nil, err
		}
		return structure(dk.EncapsulationKey(), dk.Bytes())
	case pqwire.Encapsulation:
		if len(body) != mlkem768.EncapsulationKeySize {
			return nil, fmt.Errorf("%w: public key is %d bytes, want %d", ErrBadBody, len(body), mlkem768.EncapsulationKeySize)
		}
		ct, ss, err := mlkem768.Encapsulate(body)
		if err != nil {
			return nil, err
		}
		return structure(ct, ss)
	case pqwire.Decapsulation:
		priv, ct, err := pqwire.DestructureEntries(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadBody, err)
		}
		if len(priv) != mlkem768.SeedSize || len(ct) != mlkem768.CiphertextSize {
			return nil, fmt.Errorf("%w: entry sizes %d/%d", ErrBadBody, len(priv), len(ct))
		}
		dk, err := mlkem768.NewKeyFromSeed(priv)
		if err != nil {
			return nil, err
		}
		return mlkem768.Decapsulate(dk, ct)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperation, op)
	}
}

func executeHybrid(op pqwire.Operation, body []byte) ([]byte, error) {
	switch op {
	case pqwire.KeypairGeneration:
		dk, err := mlkem768.GenerateKey()
		if err != nil {
			return nil, err
		}
		ek, err := ecdh.P384().GenerateKey(rand.Reader)
		if err != nil {
			return nil, err
		}
		pub := append(append([]byte{}, dk.EncapsulationKey()...), ek.PublicKey().Bytes()...)
		priv := append(append([]byte{}, dk.Bytes()...), ek.Bytes()...)
		return structure(pub, priv)

	case pqwire.Encapsulation:
		if len(body) != hybridPublicKeySize {
			return nil, fmt.Errorf("%w: public key is %d bytes, want %d", ErrBadBody, len(body), hybridPublicKeySize)
		}
		peerEC, err := ecdh.P384().NewPublicKey(body[mlkem768.EncapsulationKeySize:])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadBody, err)
		}
		eph, err := ecdh.P384().GenerateKey(rand.Reader)
		if err != nil {
			return nil, err
		}
		ecShared, err := eph.ECDH(peerEC)
		if err != nil {
			return nil, err
		}
		ct, kemShared, err := mlkem768.Encapsulate(body[:mlkem768.EncapsulationKeySize])
		if err != nil {
			return nil, err
		}
		combined, err := combineSecrets(kemShared, ecShared)
		if err != nil {
			return nil, err
		}
		fullCT := append(append([]byte{}, ct...), eph.PublicKey().Bytes()...)
		return structure(fullCT, combined)

	case pqwire.Decapsulation:
		priv, ct, err := pqwire.DestructureEntries(body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadBody, err)
		}
		if len(priv) != hybridPrivateKeySize || len(ct) != hybridCiphertextSize {
			return nil, fmt.Errorf("%w: entry sizes %d/%d", ErrBadBody, len(priv), len(ct))
		}
		dk, err := mlkem768.NewKeyFromSeed(priv[:mlkem768.SeedSize])
		if err != nil {
			return nil, err
		}
		ecKey, err := ecdh.P384().NewPrivateKey(priv[mlkem768.SeedSize:])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadBody, err)
		}
		ephPub, err := ecdh.P384().NewPublicKey(ct[mlkem768.CiphertextSize:])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadBody, err)
		}
		kemShared, err := mlkem768.Decapsulate(dk, ct[:mlkem768.CiphertextSize])
		if err != nil {
			return nil, err
		}
		ecShared, err := ecKey.ECDH(ephPub)
		if err != nil {
			return nil, err
		}
		return combineSecrets(kemShared, ecShared)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOperation, op)
	}
}

// combineSecrets folds both shared secrets into one 32-byte key with
// HKDF-SHA256 so the result is secure while either component holds.
func combineSecrets(kemShared, ecShared []byte) ([]byte, error) {
	ikm := append(append([]byte{}, kemShared...), ecShared...)
	out := make([]byte, SharedSecretSize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, ikm, nil, hybridInfo), out); err != nil {
		return nil, err
	}
	return out, nil
}

func structure(entry1, entry2 []byte) ([]byte, error) {
	n, err := pqwire.StructuredEntriesLength(len(entry1), len(entry2))
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if err := pqwire.StructureEntries(buf, entry1, entry2); err != nil {
		return nil, err
	}
	return buf, nil
}
