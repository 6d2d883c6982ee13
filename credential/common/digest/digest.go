// Package digest computes the signable digest that binds a commitment root
// to credential metadata. The input layout is versioned; dispatch over the
// version is exhaustive so an unknown version can never fall back to a
// default encoding.
package digest

import (
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/zcloak-network/go-credential-sdk/credential/common/hasher"
)

// ErrUnsupportedVersion is returned for any version this package does not know.
var ErrUnsupportedVersion = errors.New("unsupported digest version")

// Version selects the digest input layout.
type Version uint16

const (
	// V1 prefixes the fixed tagV1 literal to the encoded metadata.
	V1 Version = 1
	// V2 hashes the metadata directly, without a version tag.
	V2 Version = 2
)

// DefaultVersion is used by builders when no version is configured.
const DefaultVersion = V2

// tagV1 is the literal prepended under V1, both inside the digest input and
// in front of the digest when producing the signing payload.
const tagV1 = "zk:credential:digest:v1"

// Metadata is the credential metadata bound into the digest.
type Metadata struct {
	Holder         string
	CType          string
	IssuanceDate   time.Time
	ExpirationDate *time.Time
}

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("digest: failed to build CBOR encode mode: %v", err))
	}
}

// Calculate hashes the version-specific encoding of the root hash and
// metadata. Holder and ctype are always included; the expiration element is
// appended only when set, under every version.
func Calculate(v Version, rootHash []byte, meta Metadata, ht hasher.HashType) ([]byte, error) {
	var elements []interface{}

	switch v {
	case V1:
		elements = []interface{}{tagV1, rootHash, meta.Holder, meta.CType, meta.IssuanceDate.Unix()}
	case V2:
		elements = []interface{}{rootHash, meta.Holder, meta.CType, meta.IssuanceDate.Unix()}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}

	if meta.ExpirationDate != nil {
		elements = append(elements, meta.ExpirationDate.Unix())
	}

	encoded, err := encMode.Marshal(elements)
	if err != nil {
		return nil, fmt.Errorf("failed to encode digest input: %w", err)
	}

	d, err := hasher.Hash(ht, encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to hash digest input: %w", err)
	}
	return d, nil
}

// SigningPayload wraps a digest into the exact byte sequence that is signed
// and verified. V1 signs the tag-prefixed digest, V2 signs the digest itself.
func SigningPayload(v Version, d []byte) ([]byte, error) {
	switch v {
	case V1:
		return append([]byte(tagV1), d...), nil
	case V2:
		return append([]byte{}, d...), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, v)
	}
}

// Presentation hashes the ordered sequence of included credential digests.
// Order is significant: swapping two credentials produces a different
// presentation digest.
func Presentation(digests [][]byte, ht hasher.HashType) ([]byte, error) {
	if len(digests) == 0 {
		return nil, errors.New("presentation has no credential digests")
	}

	encoded, err := encMode.Marshal(digests)
	if err != nil {
		return nil, fmt.Errorf("failed to encode presentation digest input: %w", err)
	}

	d, err := hasher.Hash(ht, encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to hash presentation digest input: %w", err)
	}
	return d, nil
}

// Valid reports whether v is a known version.
func Valid(v Version) bool {
	switch v {
	case V1, V2:
		return true
	}
	return false
}
