// Package vc builds, serializes and verifies selectively disclosable
// credentials. A credential commits to every claim with a salted hash; the
// commitment root is bound to holder, ctype and validity metadata in a
// signable digest, and the issuer's signature over that digest stays valid
// no matter which claims are later disclosed.
package vc

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/zcloak-network/go-credential-sdk/credential/common/claim"
	"github.com/zcloak-network/go-credential-sdk/credential/common/digest"
	"github.com/zcloak-network/go-credential-sdk/credential/common/dto"
	"github.com/zcloak-network/go-credential-sdk/credential/common/hasher"
)

// ErrIncompleteCredential is returned when required metadata is missing or
// inconsistent before any cryptographic work starts.
var ErrIncompleteCredential = errors.New("incomplete credential")

// RawCredential is the pre-commitment shape a claimer assembles. It stays
// mutable until a Builder consumes it; the built Credential is immutable.
type RawCredential struct {
	Holder         string     `json:"holder"`
	CType          string     `json:"ctype"`
	Claims         claim.Set  `json:"claims"`
	IssuanceDate   time.Time  `json:"issuanceDate"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
}

// Status points at a status list entry for revocation checking.
type Status struct {
	ID                   string `json:"id,omitempty"`
	Type                 string `json:"type"`
	StatusPurpose        string `json:"statusPurpose,omitempty"`
	StatusListIndex      string `json:"statusListIndex,omitempty"`
	StatusListCredential string `json:"statusListCredential,omitempty"`
}

// Credential is an issued, immutable credential. The private variant keeps
// the full claim hash list and nonce map and can be redacted later; the
// public variant drops both and is only ever fully disclosed.
//
// Digest and Proof are fixed at issuance. Redaction only changes which
// claims and nonces travel alongside them.
type Credential struct {
	ID             string            `json:"id"`
	CType          string            `json:"ctype"`
	Issuer         string            `json:"issuer"`
	Holder         string            `json:"holder"`
	IssuanceDate   time.Time         `json:"issuanceDate"`
	ExpirationDate *time.Time        `json:"expirationDate,omitempty"`
	Claims         claim.Set         `json:"claims,omitempty"`
	ClaimHashes    []string          `json:"claimHashes,omitempty"`
	ClaimNonces    map[string]string `json:"claimNonces,omitempty"`
	RootHash       string            `json:"rootHash"`
	HashType       hasher.HashType   `json:"hashType"`
	DigestHashType hasher.HashType   `json:"digestHashType"`
	Version        digest.Version    `json:"version"`
	Digest         string            `json:"digest"`
	Status         *Status           `json:"credentialStatus,omitempty"`
	Proof          dto.Proof         `json:"proof"`
}

// Private reports whether the credential still carries its claim hash list
// and can therefore be selectively redacted.
func (c *Credential) Private() bool {
	return len(c.ClaimHashes) > 0
}

// Copy returns a deep copy. Redaction works on copies only; the source
// credential is never mutated.
func (c *Credential) Copy() (*Credential, error) {
	out := *c

	if c.Claims != nil {
		claims, err := claim.Copy(c.Claims)
		if err != nil {
			return nil, fmt.Errorf("failed to copy claims: %w", err)
		}
		out.Claims = claims
	}
	if c.ClaimHashes != nil {
		out.ClaimHashes = append([]string{}, c.ClaimHashes...)
	}
	if c.ClaimNonces != nil {
		out.ClaimNonces = make(map[string]string, len(c.ClaimNonces))
		for k, v := range c.ClaimNonces {
			out.ClaimNonces[k] = v
		}
	}
	if c.ExpirationDate != nil {
		exp := *c.ExpirationDate
		out.ExpirationDate = &exp
	}
	if c.Status != nil {
		status := *c.Status
		out.Status = &status
	}

	return &out, nil
}

// Metadata extracts the digest-relevant metadata of the credential.
func (c *Credential) Metadata() digest.Metadata {
	return digest.Metadata{
		Holder:         c.Holder,
		CType:          c.CType,
		IssuanceDate:   c.IssuanceDate,
		ExpirationDate: c.ExpirationDate,
	}
}

// Serialize renders the credential as JSON.
func (c *Credential) Serialize() ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal credential: %w", err)
	}
	return data, nil
}

// ParseCredential parses a credential from JSON and checks its basic shape.
func ParseCredential(raw []byte) (*Credential, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("JSON string is empty")
	}

	var c Credential
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal credential: %w", err)
	}

	if c.Holder == "" || c.CType == "" || c.RootHash == "" || c.Digest == "" {
		return nil, fmt.Errorf("%w: holder, ctype, rootHash and digest are required", ErrIncompleteCredential)
	}
	if !hasher.Valid(c.HashType) || !hasher.Valid(c.DigestHashType) {
		return nil, fmt.Errorf("%w: unknown hash type", ErrIncompleteCredential)
	}
	if !digest.Valid(c.Version) {
		return nil, fmt.Errorf("%w: %d", digest.ErrUnsupportedVersion, c.Version)
	}

	return &c, nil
}
