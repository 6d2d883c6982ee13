package vc

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"

	"github.com/zcloak-network/go-credential-sdk/credential/common/claim"
	"github.com/zcloak-network/go-credential-sdk/credential/common/commit"
	"github.com/zcloak-network/go-credential-sdk/credential/common/ctype"
	"github.com/zcloak-network/go-credential-sdk/credential/common/digest"
	"github.com/zcloak-network/go-credential-sdk/credential/common/dto"
	"github.com/zcloak-network/go-credential-sdk/credential/common/hasher"
	"github.com/zcloak-network/go-credential-sdk/credential/common/model"
	"github.com/zcloak-network/go-credential-sdk/credential/common/provider"
	"github.com/zcloak-network/go-credential-sdk/did"
)

// Builder assembles a credential from a raw credential. It is an immutable
// value: every With method returns an adjusted copy, and all validation
// happens once, inside Build. Commitment, digest and signature are computed
// together and never recomputed afterwards.
type Builder struct {
	raw            RawCredential
	schema         *model.SchemaDocument
	hashType       hasher.HashType
	digestHashType hasher.HashType
	version        digest.Version
	public         bool
	status         *Status
}

// NewBuilder starts a builder over a raw credential with default hash
// types and digest version.
func NewBuilder(raw RawCredential) Builder {
	return Builder{
		raw:            raw,
		hashType:       hasher.Sha256,
		digestHashType: hasher.Sha256,
		version:        digest.DefaultVersion,
	}
}

// WithHashType sets the algorithm used for claim commitments and the root hash.
func (b Builder) WithHashType(ht hasher.HashType) Builder {
	b.hashType = ht
	return b
}

// WithDigestHashType sets the algorithm used for the outer digest.
func (b Builder) WithDigestHashType(ht hasher.HashType) Builder {
	b.digestHashType = ht
	return b
}

// WithVersion selects the digest version.
func (b Builder) WithVersion(v digest.Version) Builder {
	b.version = v
	return b
}

// WithSchema attaches the ctype document the claims must conform to.
func (b Builder) WithSchema(doc *model.SchemaDocument) Builder {
	b.schema = doc
	return b
}

// WithStatus attaches a status list entry for later revocation checks.
func (b Builder) WithStatus(status *Status) Builder {
	b.status = status
	return b
}

// Public makes the built credential fully disclosed: the claim hash list
// and nonce map are discarded, so it can never be redacted.
func (b Builder) Public() Builder {
	b.public = true
	return b
}

// Build validates the raw credential, commits to its claims, derives the
// digest and requests an attestation signature from the issuer's signer.
// Construction is all or nothing: any failure yields no credential.
func (b Builder) Build(ctx context.Context, signer provider.Signer) (*Credential, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	commitment, err := commit.Commit(b.raw.Claims, b.hashType)
	if err != nil {
		return nil, fmt.Errorf("failed to commit to claims: %w", err)
	}

	meta := digest.Metadata{
		Holder:         b.raw.Holder,
		CType:          b.raw.CType,
		IssuanceDate:   b.raw.IssuanceDate,
		ExpirationDate: b.raw.ExpirationDate,
	}
	d, err := digest.Calculate(b.version, commitment.RootHash, meta, b.digestHashType)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate digest: %w", err)
	}

	payload, err := digest.SigningPayload(b.version, d)
	if err != nil {
		return nil, err
	}

	sig, err := signer.Sign(ctx, model.KeyPurposeAssertion, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to sign digest: %w", err)
	}

	issuer, _, err := did.SplitKeyURI(sig.VerificationMethod)
	if err != nil {
		return nil, fmt.Errorf("signer returned an invalid verification method: %w", err)
	}

	claims, err := claim.Copy(b.raw.Claims)
	if err != nil {
		return nil, fmt.Errorf("failed to copy claims: %w", err)
	}

	c := &Credential{
		ID:             "urn:uuid:" + uuid.NewString(),
		CType:          b.raw.CType,
		Issuer:         issuer,
		Holder:         b.raw.Holder,
		IssuanceDate:   b.raw.IssuanceDate,
		ExpirationDate: b.raw.ExpirationDate,
		Claims:         claims,
		RootHash:       hexutil.Encode(commitment.RootHash),
		HashType:       b.hashType,
		DigestHashType: b.digestHashType,
		Version:        b.version,
		Digest:         hexutil.Encode(d),
		Status:         b.status,
		Proof: dto.Proof{
			Type:               sig.Alg,
			Created:            time.Now().UTC().Format(time.RFC3339),
			VerificationMethod: sig.VerificationMethod,
			ProofPurpose:       string(model.KeyPurposeAssertion),
			ProofValue:         hexutil.Encode(sig.Value),
		},
	}

	if !b.public {
		c.ClaimHashes = make([]string, 0, len(commitment.FieldHashes))
		for _, fh := range commitment.FieldHashes {
			c.ClaimHashes = append(c.ClaimHashes, hexutil.Encode(fh))
		}
		c.ClaimNonces = commitment.Nonces
	}

	return c, nil
}

func (b Builder) validate() error {
	if b.raw.Holder == "" {
		return fmt.Errorf("%w: holder is required", ErrIncompleteCredential)
	}
	if _, err := did.Parse(b.raw.Holder); err != nil {
		return fmt.Errorf("%w: %v", ErrIncompleteCredential, err)
	}
	if b.raw.CType == "" {
		return fmt.Errorf("%w: ctype is required", ErrIncompleteCredential)
	}
	if b.raw.IssuanceDate.IsZero() {
		return fmt.Errorf("%w: issuance date is required", ErrIncompleteCredential)
	}
	if !hasher.Valid(b.hashType) || !hasher.Valid(b.digestHashType) {
		return fmt.Errorf("%w: unknown hash type", ErrIncompleteCredential)
	}
	if !digest.Valid(b.version) {
		return fmt.Errorf("%w: %d", digest.ErrUnsupportedVersion, b.version)
	}

	if b.schema != nil {
		if b.schema.ID != b.raw.CType {
			return fmt.Errorf("%w: ctype %q does not match schema %q", ErrIncompleteCredential, b.raw.CType, b.schema.ID)
		}
		if err := ctype.Validate(b.raw.Claims, b.schema); err != nil {
			return fmt.Errorf("%w: %v", ErrIncompleteCredential, err)
		}
	}

	return nil
}
