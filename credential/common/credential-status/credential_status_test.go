package credentialstatus

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcloak-network/go-credential-sdk/credential/common/util"
)

// encodedBitstring compresses a raw bitstring into the wire encoding used by
// status list credentials.
func encodedBitstring(t *testing.T, bits []byte) string {
	t.Helper()
	encoded, err := util.CompressToBase64URL(bits)
	require.NoError(t, err)
	return encoded
}

func TestIsRevoked(t *testing.T) {
	// Bit 3 of byte 0 and bit 1 of byte 2 are set.
	bits := []byte{0b0000_1000, 0x00, 0b0000_0010}
	subject := StatusListSubject{
		StatusPurpose: "revocation",
		EncodedList:   encodedBitstring(t, bits),
	}

	tests := []struct {
		name        string
		position    int
		subject     StatusListSubject
		revoked     bool
		expectError bool
	}{
		{name: "set bit in first byte", position: 3, subject: subject, revoked: true},
		{name: "clear bit in first byte", position: 4, subject: subject},
		{name: "set bit in later byte", position: 17, subject: subject, revoked: true},
		{name: "clear bit in later byte", position: 16, subject: subject},
		{name: "position beyond list", position: 24, subject: subject, expectError: true},
		{name: "negative position", position: -1, subject: subject, expectError: true},
		{
			name:     "non-revocation purpose is ignored",
			position: 3,
			subject: StatusListSubject{
				StatusPurpose: "suspension",
				EncodedList:   subject.EncodedList,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			revoked, err := IsRevoked(tt.position, tt.subject)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.revoked, revoked)
		})
	}
}

func TestIsRevokedBadEncoding(t *testing.T) {
	_, err := IsRevoked(0, StatusListSubject{
		StatusPurpose: "revocation",
		EncodedList:   "not base64url gzip",
	})
	assert.Error(t, err)
}

func TestFetchAndCheckRevocation(t *testing.T) {
	bits := []byte{0b0000_0001}
	credential := StatusListCredential{
		ID:   "https://status.example/1",
		Type: []string{"VerifiableCredential", "StatusListCredential"},
		CredentialSubject: StatusListSubject{
			Type:          "BitstringStatusList",
			StatusPurpose: "revocation",
			EncodedList:   encodedBitstring(t, bits),
		},
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(credential)
	}))
	defer server.Close()

	revoked, err := FetchAndCheckRevocation(context.Background(), server.URL, 0)
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = FetchAndCheckRevocation(context.Background(), server.URL, 1)
	require.NoError(t, err)
	assert.False(t, revoked)

	_, err = FetchAndCheckRevocation(context.Background(), "", 0)
	assert.Error(t, err)
}
