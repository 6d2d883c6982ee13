// Package vp aggregates credentials into holder-signed presentations. Each
// included credential carries its own disclosure mode: passed through in
// full, reduced to its opaque commitment root, or selectively redacted to a
// chosen subset of claims.
package vp

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zcloak-network/go-credential-sdk/credential/common/dto"
	"github.com/zcloak-network/go-credential-sdk/credential/common/hasher"
	"github.com/zcloak-network/go-credential-sdk/credential/vc"
)

// ErrUnknownField is returned when a selective disclosure names a field the
// credential's claim set does not contain. Selecting a nonexistent field is
// an error, not a silent no-op, matching the all-or-nothing build policy.
var ErrUnknownField = errors.New("selected field not in claim set")

// DisclosureMode names how a credential is exposed inside a presentation.
type DisclosureMode string

const (
	// ModeFull passes claims, hash list and nonce map through unchanged.
	ModeFull DisclosureMode = "Full"
	// ModeDigestOnly strips all claims, hashes and nonces; only the
	// commitment root and the signed digest remain.
	ModeDigestOnly DisclosureMode = "DigestOnly"
	// ModeSelective keeps the named claims and their nonces; the full hash
	// list stays so a verifier can rebuild the root.
	ModeSelective DisclosureMode = "Selective"
)

// Disclosure is the per-credential redaction policy handed to Builder.Add.
type Disclosure struct {
	Mode   DisclosureMode
	Fields []string
}

// Full disclosure: every claim stays visible.
func Full() Disclosure {
	return Disclosure{Mode: ModeFull}
}

// DigestOnly disclosure: no claim is recoverable, only the commitment root.
func DigestOnly() Disclosure {
	return Disclosure{Mode: ModeDigestOnly}
}

// Selective disclosure of exactly the named top-level claim fields.
func Selective(fields ...string) Disclosure {
	return Disclosure{Mode: ModeSelective, Fields: fields}
}

// DisclosedCredential is one credential inside a presentation, after its
// disclosure mode has been applied.
type DisclosedCredential struct {
	Mode       DisclosureMode `json:"disclosureMode"`
	Credential vc.Credential  `json:"credential"`
}

// Presentation is an immutable holder-signed aggregate of credentials. The
// presentation digest covers the included credential digests in insertion
// order; the order is part of what the holder signed.
type Presentation struct {
	ID          string                `json:"id"`
	Holder      string                `json:"holder"`
	Credentials []DisclosedCredential `json:"verifiableCredentials"`
	HashType    hasher.HashType       `json:"hashType"`
	Digest      string                `json:"digest"`
	Proof       dto.Proof             `json:"proof"`
}

// Serialize renders the presentation as JSON.
func (p *Presentation) Serialize() ([]byte, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal presentation: %w", err)
	}
	return data, nil
}

// ParsePresentation parses a presentation from JSON and checks its basic shape.
func ParsePresentation(raw []byte) (*Presentation, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("JSON string is empty")
	}

	var p Presentation
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal presentation: %w", err)
	}

	if p.Holder == "" || p.Digest == "" || len(p.Credentials) == 0 {
		return nil, fmt.Errorf("presentation is missing holder, digest or credentials")
	}
	if !hasher.Valid(p.HashType) {
		return nil, fmt.Errorf("unknown presentation hash type %q", p.HashType)
	}

	return &p, nil
}
