package vp

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"

	"github.com/zcloak-network/go-credential-sdk/credential/common/digest"
	"github.com/zcloak-network/go-credential-sdk/credential/common/dto"
	"github.com/zcloak-network/go-credential-sdk/credential/common/hasher"
	"github.com/zcloak-network/go-credential-sdk/credential/common/model"
	"github.com/zcloak-network/go-credential-sdk/credential/common/provider"
	"github.com/zcloak-network/go-credential-sdk/credential/vc"
	"github.com/zcloak-network/go-credential-sdk/did"
)

type entry struct {
	credential *vc.Credential
	disclosure Disclosure
}

// Builder accumulates credentials with their disclosure policies and signs
// the aggregate once at Build. It is an immutable value; every method
// returns an adjusted copy and validation happens only inside Build.
type Builder struct {
	holder    string
	hashType  hasher.HashType
	challenge string
	domain    string
	entries   []entry
}

// NewBuilder starts a presentation for the given holder. The hash type is
// used for the presentation-level digest.
func NewBuilder(holder string, ht hasher.HashType) Builder {
	return Builder{holder: holder, hashType: ht}
}

// Add includes a credential under the given disclosure policy. Insertion
// order is preserved and significant.
func (b Builder) Add(c *vc.Credential, d Disclosure) Builder {
	entries := make([]entry, 0, len(b.entries)+1)
	entries = append(entries, b.entries...)
	entries = append(entries, entry{credential: c, disclosure: d})
	b.entries = entries
	return b
}

// WithChallenge binds a verifier-supplied challenge into the proof.
func (b Builder) WithChallenge(challenge string) Builder {
	b.challenge = challenge
	return b
}

// WithDomain binds a verifier-supplied domain into the proof.
func (b Builder) WithDomain(domain string) Builder {
	b.domain = domain
	return b
}

// Build applies every disclosure policy, computes the presentation digest
// over the included credential digests in insertion order, and signs it
// with the holder's authentication key.
func (b Builder) Build(ctx context.Context, signer provider.Signer) (*Presentation, error) {
	if b.holder == "" {
		return nil, fmt.Errorf("holder is required")
	}
	if _, err := did.Parse(b.holder); err != nil {
		return nil, err
	}
	if len(b.entries) == 0 {
		return nil, fmt.Errorf("presentation has no credentials")
	}
	if !hasher.Valid(b.hashType) {
		return nil, fmt.Errorf("unknown presentation hash type %q", b.hashType)
	}

	disclosed := make([]DisclosedCredential, 0, len(b.entries))
	digests := make([][]byte, 0, len(b.entries))

	for i, e := range b.entries {
		if e.credential == nil {
			return nil, fmt.Errorf("credential %d is nil", i)
		}
		if e.credential.Holder != b.holder {
			return nil, fmt.Errorf("credential %d is held by %q, not %q", i, e.credential.Holder, b.holder)
		}

		redacted, err := redact(e.credential, e.disclosure)
		if err != nil {
			return nil, fmt.Errorf("failed to redact credential %d: %w", i, err)
		}

		d, err := hexutil.Decode(redacted.Digest)
		if err != nil {
			return nil, fmt.Errorf("failed to decode digest of credential %d: %w", i, err)
		}

		disclosed = append(disclosed, DisclosedCredential{Mode: e.disclosure.Mode, Credential: *redacted})
		digests = append(digests, d)
	}

	presentationDigest, err := digest.Presentation(digests, b.hashType)
	if err != nil {
		return nil, err
	}

	sig, err := signer.Sign(ctx, model.KeyPurposeAuthentication, presentationDigest)
	if err != nil {
		return nil, fmt.Errorf("failed to sign presentation digest: %w", err)
	}

	return &Presentation{
		ID:          "urn:uuid:" + uuid.NewString(),
		Holder:      b.holder,
		Credentials: disclosed,
		HashType:    b.hashType,
		Digest:      hexutil.Encode(presentationDigest),
		Proof: dto.Proof{
			Type:               sig.Alg,
			Created:            time.Now().UTC().Format(time.RFC3339),
			VerificationMethod: sig.VerificationMethod,
			ProofPurpose:       string(model.KeyPurposeAuthentication),
			ProofValue:         hexutil.Encode(sig.Value),
			Challenge:          b.challenge,
			Domain:             b.domain,
		},
	}, nil
}
