// Package commit implements the salted hash commitment over a claim set.
//
// Every claim leaf is committed to individually: the canonical encoding of
// its (path, value) statement is hashed, salted with a fresh random nonce
// and hashed again. The root hash covers the sorted set of salted hashes,
// which makes it independent of claim order and lets a holder later drop
// any subset of nonces without breaking the remaining ones.
package commit

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/exp/slices"

	"github.com/zcloak-network/go-credential-sdk/credential/common/claim"
	"github.com/zcloak-network/go-credential-sdk/credential/common/hasher"
)

var (
	// ErrEmptyClaimSet is returned when a commitment over zero leaves is requested.
	ErrEmptyClaimSet = errors.New("claim set has no leaves")

	// ErrMissingNonce is returned when a supplied nonce map has no entry for
	// a leaf that is being recomputed.
	ErrMissingNonce = errors.New("no nonce for claim statement")
)

// NonceLength is the byte length of every claim nonce.
const NonceLength = 32

// encMode is the deterministic CBOR encoder used for statement encoding.
// Core deterministic encoding is injective over JSON-typed values: a number
// and a string with the same spelling encode to different bytes.
var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("commit: failed to build CBOR encode mode: %v", err))
	}
}

// Commitment is the result of committing to a claim set.
type Commitment struct {
	// RootHash summarizes the full salted hash set, order-independently.
	RootHash []byte
	// FieldHashes holds one salted hash per claim leaf, in leaf order.
	FieldHashes [][]byte
	// Nonces maps hex-encoded statement digests to hex-encoded nonces.
	Nonces map[string]string
}

// Option configures a Commit call.
type Option func(*options)

type options struct {
	nonces map[string]string
}

// WithNonces reuses an existing nonce map instead of generating fresh
// nonces. This is the re-derivation path used during verification; every
// leaf being committed must have an entry.
func WithNonces(nonces map[string]string) Option {
	return func(o *options) {
		o.nonces = nonces
	}
}

// Commit computes the salted hash commitment over the claim set.
func Commit(set claim.Set, ht hasher.HashType, opts ...Option) (*Commitment, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	leaves, err := claim.Flatten(set)
	if err != nil {
		return nil, fmt.Errorf("failed to flatten claim set: %w", err)
	}
	if len(leaves) == 0 {
		return nil, ErrEmptyClaimSet
	}

	c := &Commitment{
		FieldHashes: make([][]byte, 0, len(leaves)),
		Nonces:      make(map[string]string, len(leaves)),
	}

	for _, leaf := range leaves {
		sd, err := StatementDigest(ht, leaf)
		if err != nil {
			return nil, err
		}
		key := hexutil.Encode(sd)

		var nonce []byte
		if o.nonces != nil {
			encoded, ok := o.nonces[key]
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrMissingNonce, leaf.Path)
			}
			nonce, err = hexutil.Decode(encoded)
			if err != nil {
				return nil, fmt.Errorf("failed to decode nonce for %s: %w", leaf.Path, err)
			}
		} else {
			nonce = make([]byte, NonceLength)
			if _, err := rand.Read(nonce); err != nil {
				return nil, fmt.Errorf("failed to generate nonce: %w", err)
			}
		}

		fh, err := FieldHash(ht, nonce, sd)
		if err != nil {
			return nil, err
		}

		c.FieldHashes = append(c.FieldHashes, fh)
		c.Nonces[key] = hexutil.Encode(nonce)
	}

	root, err := RootHash(ht, c.FieldHashes)
	if err != nil {
		return nil, err
	}
	c.RootHash = root

	return c, nil
}

// StatementDigest hashes the canonical encoding of a single claim leaf.
// The encoding is the CBOR array [path, value] under core deterministic
// encoding rules.
func StatementDigest(ht hasher.HashType, leaf claim.Leaf) ([]byte, error) {
	statement, err := encMode.Marshal([]interface{}{[]interface{}(leaf.Path), leaf.Value})
	if err != nil {
		return nil, fmt.Errorf("failed to encode claim statement %s: %w", leaf.Path, err)
	}

	digest, err := hasher.Hash(ht, statement)
	if err != nil {
		return nil, fmt.Errorf("failed to hash claim statement %s: %w", leaf.Path, err)
	}
	return digest, nil
}

// FieldHash salts a statement digest with its nonce.
func FieldHash(ht hasher.HashType, nonce, statementDigest []byte) ([]byte, error) {
	fh, err := hasher.Hash(ht, append(append([]byte{}, nonce...), statementDigest...))
	if err != nil {
		return nil, fmt.Errorf("failed to hash salted statement: %w", err)
	}
	return fh, nil
}

// RootHash hashes the concatenation of the field hashes after sorting them
// as raw byte sequences. Sorting happens on a copy; the input order is
// preserved for the caller.
func RootHash(ht hasher.HashType, fieldHashes [][]byte) ([]byte, error) {
	if len(fieldHashes) == 0 {
		return nil, ErrEmptyClaimSet
	}

	sorted := make([][]byte, len(fieldHashes))
	copy(sorted, fieldHashes)
	slices.SortFunc(sorted, bytes.Compare)

	var joined []byte
	for _, fh := range sorted {
		joined = append(joined, fh...)
	}

	root, err := hasher.Hash(ht, joined)
	if err != nil {
		return nil, fmt.Errorf("failed to hash root: %w", err)
	}
	return root, nil
}
