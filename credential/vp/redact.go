package vp

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/zcloak-network/go-credential-sdk/credential/common/claim"
	"github.com/zcloak-network/go-credential-sdk/credential/common/commit"
	"github.com/zcloak-network/go-credential-sdk/credential/vc"
)

// redact applies a disclosure policy to a copy of the credential. The
// source credential is never touched, and digest and proof are carried over
// byte for byte: redaction only decides which claims and nonces travel
// alongside them.
func redact(c *vc.Credential, d Disclosure) (*vc.Credential, error) {
	out, err := c.Copy()
	if err != nil {
		return nil, err
	}

	switch d.Mode {
	case ModeFull:
		return out, nil

	case ModeDigestOnly:
		out.Claims = nil
		out.ClaimHashes = nil
		out.ClaimNonces = nil
		return out, nil

	case ModeSelective:
		if !c.Private() {
			return nil, fmt.Errorf("credential %s is public and cannot be redacted", c.ID)
		}
		if len(d.Fields) == 0 {
			return nil, fmt.Errorf("selective disclosure names no fields")
		}

		selected := claim.Set{}
		for _, field := range d.Fields {
			value, ok := out.Claims[field]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
			}
			selected[field] = value
		}

		nonces, err := noncesFor(selected, out)
		if err != nil {
			return nil, err
		}

		// The full hash list stays: the verifier rebuilds the root from the
		// recomputed hashes of disclosed fields plus these entries verbatim.
		out.Claims = selected
		out.ClaimNonces = nonces
		return out, nil

	default:
		return nil, fmt.Errorf("unknown disclosure mode %q", d.Mode)
	}
}

// noncesFor reduces the credential's nonce map to exactly the entries
// belonging to the given claims.
func noncesFor(selected claim.Set, c *vc.Credential) (map[string]string, error) {
	leaves, err := claim.Flatten(selected)
	if err != nil {
		return nil, fmt.Errorf("failed to flatten selected claims: %w", err)
	}

	nonces := make(map[string]string, len(leaves))
	for _, leaf := range leaves {
		sd, err := commit.StatementDigest(c.HashType, leaf)
		if err != nil {
			return nil, err
		}
		key := hexutil.Encode(sd)
		nonce, ok := c.ClaimNonces[key]
		if !ok {
			return nil, fmt.Errorf("credential %s has no nonce for claim %s", c.ID, leaf.Path)
		}
		nonces[key] = nonce
	}

	return nonces, nil
}
