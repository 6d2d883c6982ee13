package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressRoundTrip(t *testing.T) {
	data := []byte("selective disclosure status bitstring payload")

	compressed, err := Compress(data)
	require.NoError(t, err)

	restored, err := Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, data, restored)
}

func TestCompressToBase64URLRoundTrip(t *testing.T) {
	data := []byte{0x00, 0x01, 0xff, 0x80, 0x7f}

	encoded, err := CompressToBase64URL(data)
	require.NoError(t, err)
	assert.NotContains(t, encoded, "=")

	restored, err := DecompressFromBase64URL(encoded)
	require.NoError(t, err)
	assert.Equal(t, data, restored)
}

func TestDecompressFromBase64URLInvalid(t *testing.T) {
	_, err := DecompressFromBase64URL("not valid base64url!!")
	assert.Error(t, err)

	// Valid base64url but not gzip.
	_, err = DecompressFromBase64URL("aGVsbG8")
	assert.Error(t, err)
}
