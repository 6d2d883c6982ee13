package did

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcloak-network/go-credential-sdk/credential/common/model"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		uri         string
		expected    DID
		expectError bool
	}{
		{name: "Valid DID", uri: "did:zk:0xabc123", expected: DID{Method: "zk", Identifier: "0xabc123"}},
		{name: "Other method", uri: "did:example:issuer", expected: DID{Method: "example", Identifier: "issuer"}},
		{name: "Missing scheme", uri: "zk:0xabc123", expectError: true},
		{name: "Missing identifier", uri: "did:zk:", expectError: true},
		{name: "Missing method", uri: "did::0xabc", expectError: true},
		{name: "Key fragment", uri: "did:zk:0xabc#key-1", expectError: true},
		{name: "Empty", uri: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(tt.uri)

			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidDID)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
			assert.Equal(t, tt.uri, d.String())
		})
	}
}

func TestSplitKeyURI(t *testing.T) {
	didPart, fragment, err := SplitKeyURI("did:zk:0xabc#key-1")
	require.NoError(t, err)
	assert.Equal(t, "did:zk:0xabc", didPart)
	assert.Equal(t, "key-1", fragment)

	_, _, err = SplitKeyURI("did:zk:0xabc")
	assert.ErrorIs(t, err, ErrInvalidDID)

	_, _, err = SplitKeyURI("did:zk:0xabc#")
	assert.ErrorIs(t, err, ErrInvalidDID)
}

func testDocument(t *testing.T) *model.DIDDocument {
	t.Helper()
	doc, err := NewDocument("did:zk:0xabc", []KeySpec{
		{
			Fragment:  "key-1",
			Type:      "EcdsaSecp256k1VerificationKey2019",
			PublicKey: []byte{0x02, 0x01, 0x02, 0x03},
			Purposes:  []model.KeyPurpose{model.KeyPurposeAssertion},
		},
		{
			Fragment:  "key-2",
			Type:      "Ed25519VerificationKey2020",
			PublicKey: []byte{0x0a, 0x0b},
			Purposes:  []model.KeyPurpose{model.KeyPurposeAuthentication},
			Revoked:   true,
		},
	})
	require.NoError(t, err)
	return doc
}

func TestNewDocument(t *testing.T) {
	doc := testDocument(t)

	assert.Equal(t, "did:zk:0xabc", doc.ID)
	require.Len(t, doc.VerificationMethod, 2)
	assert.Equal(t, []string{"did:zk:0xabc#key-1"}, doc.AssertionMethod)
	assert.Equal(t, []string{"did:zk:0xabc#key-2"}, doc.Authentication)
	assert.NotEmpty(t, doc.VerificationMethod[0].PublicKeyMultibase)
}

func TestLookupKey(t *testing.T) {
	doc := testDocument(t)

	entry, publicKey, err := LookupKey(doc, "did:zk:0xabc#key-1", model.KeyPurposeAssertion)
	require.NoError(t, err)
	assert.Equal(t, "EcdsaSecp256k1VerificationKey2019", entry.Type)
	assert.Equal(t, []byte{0x02, 0x01, 0x02, 0x03}, publicKey)

	// Key exists but is not listed under the requested purpose.
	_, _, err = LookupKey(doc, "did:zk:0xabc#key-1", model.KeyPurposeAuthentication)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Unknown key reference.
	_, _, err = LookupKey(doc, "did:zk:0xabc#key-9", model.KeyPurposeAssertion)
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Revoked key.
	_, _, err = LookupKey(doc, "did:zk:0xabc#key-2", model.KeyPurposeAuthentication)
	assert.ErrorIs(t, err, ErrKeyRevoked)
}

func TestLookupKeyHexFallback(t *testing.T) {
	doc := &model.DIDDocument{
		ID: "did:zk:0xdef",
		VerificationMethod: []model.VerificationMethodEntry{{
			ID:           "did:zk:0xdef#key-1",
			Type:         "EcdsaSecp256k1VerificationKey2019",
			PublicKeyHex: "02aabb",
		}},
		AssertionMethod: []string{"did:zk:0xdef#key-1"},
	}

	_, publicKey, err := LookupKey(doc, "did:zk:0xdef#key-1", model.KeyPurposeAssertion)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0xaa, 0xbb}, publicKey)
}
