// Package hasher provides the hash algorithms used for claim commitments
// and credential digests. Algorithms are selected by a closed HashType tag
// so that adding a new algorithm is a compile-time visible change.
package hasher

import (
	"crypto/sha256"
	"fmt"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/blake2b"
)

// HashType identifies a supported hash algorithm.
type HashType string

const (
	// Sha256 is SHA-256.
	Sha256 HashType = "Sha256"
	// Blake2b256 is BLAKE2b with a 256-bit output.
	Blake2b256 HashType = "Blake2b256"
	// Keccak256 is legacy Keccak-256 as used on Ethereum.
	Keccak256 HashType = "Keccak256"
)

// Size is the output length in bytes of every supported algorithm.
const Size = 32

// Hash computes the digest of data under the given algorithm.
func Hash(ht HashType, data []byte) ([]byte, error) {
	switch ht {
	case Sha256:
		sum := sha256.Sum256(data)
		return sum[:], nil
	case Blake2b256:
		sum := blake2b.Sum256(data)
		return sum[:], nil
	case Keccak256:
		return ethcrypto.Keccak256(data), nil
	default:
		return nil, fmt.Errorf("unsupported hash type: %q", ht)
	}
}

// Valid reports whether ht names a supported algorithm.
func Valid(ht HashType) bool {
	switch ht {
	case Sha256, Blake2b256, Keccak256:
		return true
	}
	return false
}
