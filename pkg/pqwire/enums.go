package pqwire

import "fmt"

// Algorithm tags the key-exchange scheme a request is about. It travels as a
// 4-byte little-endian value; the discriminants are the wire contract and
// must never be reassigned, only appended to.
type Algorithm uint32

const (
	NoAlgorithm            Algorithm = 0
	Frodo640ECDHP256       Algorithm = 1
	Frodo640               Algorithm = 2
	Frodo976ECDHP384       Algorithm = 3
	Frodo976               Algorithm = 4
	Frodo1344ECDHP521      Algorithm = 5
	Frodo1344              Algorithm = 6
	NTRUHRSS701            Algorithm = 7
	NTRUHRSS701ECDHP256    Algorithm = 8
	NTRUHPS2048509         Algorithm = 9
	NTRUHPS2048509ECDHP256 Algorithm = 10
	RND51CCA5D             Algorithm = 11
	RND51CCA5DECDHP256     Algorithm = 12
	RND53CCA5D             Algorithm = 13
	RND53CCA5DECDHP384     Algorithm = 14
	RND55CCA5D             Algorithm = 15
	RND55CCA5DECDHP521     Algorithm = 16
	Kyber512               Algorithm = 17
	Kyber512ECDHP256       Algorithm = 18
	Kyber768               Algorithm = 19
	Kyber768ECDHP384       Algorithm = 20
	Kyber1024              Algorithm = 21
	Kyber1024ECDHP521      Algorithm = 22
	SaberLight             Algorithm = 23
	SaberLightECDHP256     Algorithm = 24
	Saber                  Algorithm = 25
	SaberECDHP384          Algorithm = 26
	SaberFire              Algorithm = 27
	SaberFireECDHP521      Algorithm = 28
)

// algorithmNames maps discriminants to the canonical scheme names used in
// logs and diagnostics across both processes.
var algorithmNames = map[Algorithm]string{
	NoAlgorithm:            "NoAlgorithm",
	Frodo640ECDHP256:       "FRODO640+ECDHp256",
	Frodo640:               "FRODO640",
	Frodo976ECDHP384:       "FRODO976+ECDHp384",
	Frodo976:               "FRODO976",
	Frodo1344ECDHP521:      "FRODO1344+ECDHp521",
	Frodo1344:              "FRODO1344",
	NTRUHRSS701:            "NTRU_HRSS_701",
	NTRUHRSS701ECDHP256:    "NTRU_HRSS_701+ECDHp256",
	NTRUHPS2048509:         "NTRU_HPS_2048509",
	NTRUHPS2048509ECDHP256: "NTRU_HPS_2048509+ECDHp256",
	RND51CCA5D:             "RND5_1CCA_5D",
	RND51CCA5DECDHP256:     "RND5_1CCA_5D+ECDHp256",
	RND53CCA5D:             "RND5_3CCA_5D",
	RND53CCA5DECDHP384:     "RND5_3CCA_5D+ECDHp384",
	RND55CCA5D:             "RND5_5CCA_5D",
	RND55CCA5DECDHP521:     "RND5_5CCA_5D+ECDHp521",
	Kyber512:               "KYBER_512",
	Kyber512ECDHP256:       "KYBER_512+ECDHp256",
	Kyber768:               "KYBER_768",
	Kyber768ECDHP384:       "KYBER_768+ECDHp384",
	Kyber1024:              "KYBER_1024",
	Kyber1024ECDHP521:      "KYBER_1024+ECDHp521",
	SaberLight:             "SABER_LIGHT",
	SaberLightECDHP256:     "SABER_LIGHT+ECDHp256",
	Saber:                  "SABER",
	SaberECDHP384:          "SABER+ECDHp384",
	SaberFire:              "SABER_FIRE",
	SaberFireECDHP521:      "SABER_FIRE+ECDHp521",
}

// Valid reports whether a is a known discriminant.
func (a Algorithm) Valid() bool {
	_, ok := algorithmNames[a]
	return ok
}

func (a Algorithm) String() string {
	if n, ok := algorithmNames[a]; ok {
		return n
	}
	return fmt.Sprintf("Algorithm(%d)", uint32(a))
}

// Operation tags the requested cryptographic action. Same wire rules as
// Algorithm: 4-byte little-endian, discriminants pinned.
type Operation uint32

const (
	NoOperation       Operation = 0
	KeypairGeneration Operation = 1
	Encapsulation     Operation = 2
	Decapsulation     Operation = 3
)

var operationNames = map[Operation]string{
	NoOperation:       "NoOperation",
	KeypairGeneration: "KeypairGeneration",
	Encapsulation:     "Encapsulation",
	Decapsulation:     "Decapsulation",
}

// Valid reports whether o is a known discriminant.
func (o Operation) Valid() bool {
	_, ok := operationNames[o]
	return ok
}

func (o Operation) String() string {
	if n, ok := operationNames[o]; ok {
		return n
	}
	return fmt.Sprintf("Operation(%d)", uint32(o))
}
