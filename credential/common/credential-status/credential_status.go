// Package credentialstatus fetches status list credentials and checks
// whether a credential at a given bitstring position has been revoked.
package credentialstatus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zcloak-network/go-credential-sdk/credential/common/util"
)

// Client is a simple HTTP client for fetching status list credentials.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new credential status client with a sensible default timeout.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// FetchAndCheckRevocation fetches the status list credential from the given
// URL and checks whether the credential at the given position is revoked.
func FetchAndCheckRevocation(ctx context.Context, statusListCredentialURL string, position int) (bool, error) {
	resp, err := NewClient().FetchStatusListCredential(ctx, statusListCredentialURL)
	if err != nil {
		return false, err
	}
	return IsRevoked(position, resp.CredentialSubject)
}

// FetchStatusListCredential fetches and parses the status list credential
// located at the given URL.
func (c *Client) FetchStatusListCredential(ctx context.Context, statusListCredentialURL string) (*StatusListCredential, error) {
	if statusListCredentialURL == "" {
		return nil, fmt.Errorf("statusListCredential URL is empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, statusListCredentialURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build status list request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call status list credential endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status list credential endpoint returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read status list credential response body: %w", err)
	}

	var result StatusListCredential
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal status list credential JSON: %w", err)
	}

	return &result, nil
}

// IsRevoked checks whether the bit at the given position of the encoded
// revocation list is set.
func IsRevoked(position int, subject StatusListSubject) (bool, error) {
	// Only revocation lists are handled here.
	if subject.StatusPurpose != "revocation" {
		return false, nil
	}

	bitstring, err := util.DecompressFromBase64URL(subject.EncodedList)
	if err != nil {
		return false, fmt.Errorf("failed to decode status bitstring: %w", err)
	}

	byteIndex := position / 8
	bitIndex := position % 8
	if position < 0 || byteIndex >= len(bitstring) {
		return false, fmt.Errorf("status position %d outside the encoded list", position)
	}

	return (bitstring[byteIndex]>>bitIndex)&1 == 1, nil
}
