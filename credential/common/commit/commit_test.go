package commit

import (
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcloak-network/go-credential-sdk/credential/common/claim"
	"github.com/zcloak-network/go-credential-sdk/credential/common/hasher"
)

func TestCommit(t *testing.T) {
	set := claim.Set{"name": "zCloak", "age": 19}

	c, err := Commit(set, hasher.Sha256)
	require.NoError(t, err)

	assert.Len(t, c.RootHash, hasher.Size)
	assert.Len(t, c.FieldHashes, 2)
	assert.Len(t, c.Nonces, 2)
	for _, fh := range c.FieldHashes {
		assert.Len(t, fh, hasher.Size)
	}
}

func TestCommitFreshNoncesEveryTime(t *testing.T) {
	set := claim.Set{"name": "zCloak"}

	first, err := Commit(set, hasher.Sha256)
	require.NoError(t, err)
	second, err := Commit(set, hasher.Sha256)
	require.NoError(t, err)

	// Same claims, fresh nonces: everything derived must differ.
	assert.NotEqual(t, first.Nonces, second.Nonces)
	assert.NotEqual(t, first.FieldHashes, second.FieldHashes)
	assert.NotEqual(t, first.RootHash, second.RootHash)
}

func TestCommitReusesSuppliedNonces(t *testing.T) {
	set := claim.Set{"name": "zCloak", "age": 19, "isUser": true}

	original, err := Commit(set, hasher.Blake2b256)
	require.NoError(t, err)

	recomputed, err := Commit(set, hasher.Blake2b256, WithNonces(original.Nonces))
	require.NoError(t, err)

	assert.Equal(t, original.FieldHashes, recomputed.FieldHashes)
	assert.Equal(t, original.RootHash, recomputed.RootHash)
}

func TestCommitMissingNonce(t *testing.T) {
	set := claim.Set{"name": "zCloak", "age": 19}

	original, err := Commit(set, hasher.Sha256)
	require.NoError(t, err)

	// Drop one nonce entry and recompute over the full set.
	for key := range original.Nonces {
		delete(original.Nonces, key)
		break
	}

	_, err = Commit(set, hasher.Sha256, WithNonces(original.Nonces))
	assert.ErrorIs(t, err, ErrMissingNonce)
}

func TestCommitEmptyClaimSet(t *testing.T) {
	_, err := Commit(claim.Set{}, hasher.Sha256)
	assert.ErrorIs(t, err, ErrEmptyClaimSet)
}

func TestCommitUnsupportedValue(t *testing.T) {
	_, err := Commit(claim.Set{"fn": func() {}}, hasher.Sha256)
	assert.ErrorIs(t, err, claim.ErrEncoding)
}

func TestRootHashPermutationInvariant(t *testing.T) {
	set := claim.Set{"a": 1, "b": "two", "c": true, "d": []interface{}{1, 2, 3}}

	c, err := Commit(set, hasher.Keccak256)
	require.NoError(t, err)

	reversed := make([][]byte, len(c.FieldHashes))
	for i, fh := range c.FieldHashes {
		reversed[len(reversed)-1-i] = fh
	}

	root, err := RootHash(hasher.Keccak256, reversed)
	require.NoError(t, err)
	assert.Equal(t, c.RootHash, root)
}

func TestStatementDigestDistinguishesTypes(t *testing.T) {
	path := claim.Path{"value"}

	asNumber, err := StatementDigest(hasher.Sha256, claim.Leaf{Path: path, Value: float64(1)})
	require.NoError(t, err)
	asString, err := StatementDigest(hasher.Sha256, claim.Leaf{Path: path, Value: "1"})
	require.NoError(t, err)

	assert.NotEqual(t, asNumber, asString, "number 1 and string \"1\" must canonicalize differently")
}

func TestFieldHashChangesWithValue(t *testing.T) {
	set := claim.Set{"age": 19}
	original, err := Commit(set, hasher.Sha256)
	require.NoError(t, err)

	// Hold the nonce fixed, flip the value.
	tampered := claim.Set{"age": 20}
	leaves, err := claim.Flatten(tampered)
	require.NoError(t, err)
	require.Len(t, leaves, 1)

	sd, err := StatementDigest(hasher.Sha256, leaves[0])
	require.NoError(t, err)

	var nonce []byte
	for _, encoded := range original.Nonces {
		nonce, err = hexutil.Decode(encoded)
		require.NoError(t, err)
	}

	fh, err := FieldHash(hasher.Sha256, nonce, sd)
	require.NoError(t, err)
	assert.NotEqual(t, original.FieldHashes[0], fh)
}
