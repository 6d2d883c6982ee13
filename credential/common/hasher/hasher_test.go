package hasher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHash(t *testing.T) {
	data := []byte("zCloak")

	sums := make(map[string][]byte)
	for _, ht := range []HashType{Sha256, Blake2b256, Keccak256} {
		sum, err := Hash(ht, data)
		require.NoError(t, err)
		assert.Len(t, sum, Size)

		again, err := Hash(ht, data)
		require.NoError(t, err)
		assert.Equal(t, sum, again, "hashing must be deterministic")

		sums[string(ht)] = sum
	}

	assert.NotEqual(t, sums[string(Sha256)], sums[string(Blake2b256)])
	assert.NotEqual(t, sums[string(Sha256)], sums[string(Keccak256)])
	assert.NotEqual(t, sums[string(Blake2b256)], sums[string(Keccak256)])
}

func TestHashUnsupportedType(t *testing.T) {
	_, err := Hash(HashType("Md5"), []byte("data"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported hash type")
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(Sha256))
	assert.True(t, Valid(Blake2b256))
	assert.True(t, Valid(Keccak256))
	assert.False(t, Valid(HashType("Md5")))
	assert.False(t, Valid(HashType("")))
}
