package vc

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/zcloak-network/go-credential-sdk/credential/common/claim"
	"github.com/zcloak-network/go-credential-sdk/credential/common/commit"
	credentialstatus "github.com/zcloak-network/go-credential-sdk/credential/common/credential-status"
	"github.com/zcloak-network/go-credential-sdk/credential/common/crypto"
	"github.com/zcloak-network/go-credential-sdk/credential/common/digest"
	"github.com/zcloak-network/go-credential-sdk/credential/common/dto"
	"github.com/zcloak-network/go-credential-sdk/credential/common/model"
	"github.com/zcloak-network/go-credential-sdk/credential/common/provider"
	"github.com/zcloak-network/go-credential-sdk/did"
)

// Reason explains why a verification returned false.
type Reason string

const (
	// ReasonNone means the artifact verified.
	ReasonNone Reason = ""
	// ReasonDisclosureMismatch means the disclosed claims, nonces and
	// stored hashes do not reproduce the signed digest.
	ReasonDisclosureMismatch Reason = "DisclosureMismatch"
	// ReasonSignatureInvalid means the signature was cryptographically rejected.
	ReasonSignatureInvalid Reason = "SignatureInvalid"
	// ReasonExpired means the credential's validity window has passed.
	ReasonExpired Reason = "Expired"
	// ReasonRevoked means the status list marks the credential revoked.
	ReasonRevoked Reason = "Revoked"
)

// Result is the outcome of a verification. A false result with a reason is
// an expected outcome, not an error; errors are reserved for infrastructure
// failures and malformed input.
type Result struct {
	Verified bool
	Reason   Reason
}

func failed(reason Reason) Result {
	return Result{Verified: false, Reason: reason}
}

var verified = Result{Verified: true, Reason: ReasonNone}

// VerifyOpt configures verification.
type VerifyOpt func(*verifyOptions)

type verifyOptions struct {
	resolver    provider.DIDResolver
	document    *model.DIDDocument
	checkStatus bool
	now         time.Time
}

// WithResolver sets the DID resolver used to look up verification keys.
func WithResolver(r provider.DIDResolver) VerifyOpt {
	return func(o *verifyOptions) {
		o.resolver = r
	}
}

// WithDIDDocument verifies against a pre-fetched DID document instead of
// resolving one.
func WithDIDDocument(doc *model.DIDDocument) VerifyOpt {
	return func(o *verifyOptions) {
		o.document = doc
	}
}

// WithStatusCheck additionally checks the credential's status list entry
// and fails verification with ReasonRevoked when the credential is revoked.
func WithStatusCheck() VerifyOpt {
	return func(o *verifyOptions) {
		o.checkStatus = true
	}
}

// WithVerifyTime pins the time used for the expiration check.
func WithVerifyTime(now time.Time) VerifyOpt {
	return func(o *verifyOptions) {
		o.now = now
	}
}

func newVerifyOptions(opts []VerifyOpt) *verifyOptions {
	o := &verifyOptions{now: time.Now()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Verify checks a credential: expiration, disclosure integrity when claims
// are present, digest recomputation and the issuer's signature. It is
// stateless; verifying the same credential twice yields the same result.
func Verify(ctx context.Context, c *Credential, opts ...VerifyOpt) (Result, error) {
	o := newVerifyOptions(opts)
	return verifyCredential(ctx, c, o)
}

func verifyCredential(ctx context.Context, c *Credential, o *verifyOptions) (Result, error) {
	if c == nil {
		return Result{}, fmt.Errorf("credential is nil")
	}

	if c.ExpirationDate != nil && o.now.After(*c.ExpirationDate) {
		return failed(ReasonExpired), nil
	}

	rootHash, err := hexutil.Decode(c.RootHash)
	if err != nil {
		return Result{}, fmt.Errorf("failed to decode root hash: %w", err)
	}

	// Any claim or nonce material triggers the disclosure check; a credential
	// carrying nonces but a stripped hash list must fail it, not skip it.
	// Only a public credential (claims without any commitment material)
	// verifies on signature and digest alone.
	if len(c.Claims) > 0 && (c.Private() || len(c.ClaimNonces) > 0) {
		ok, err := checkDisclosure(c, rootHash)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			return failed(ReasonDisclosureMismatch), nil
		}
	}

	// The digest is re-derived from the root hash and metadata rather than
	// trusted from the artifact; a tampered holder, ctype or validity window
	// lands here as well.
	expectedDigest, err := digest.Calculate(c.Version, rootHash, c.Metadata(), c.DigestHashType)
	if err != nil {
		return Result{}, fmt.Errorf("failed to recompute digest: %w", err)
	}
	storedDigest, err := hexutil.Decode(c.Digest)
	if err != nil {
		return Result{}, fmt.Errorf("failed to decode digest: %w", err)
	}
	if !bytes.Equal(expectedDigest, storedDigest) {
		return failed(ReasonDisclosureMismatch), nil
	}

	if c.Proof.ProofPurpose != string(model.KeyPurposeAssertion) {
		return failed(ReasonSignatureInvalid), nil
	}

	payload, err := digest.SigningPayload(c.Version, storedDigest)
	if err != nil {
		return Result{}, err
	}
	result, err := verifyProof(ctx, &c.Proof, payload, model.KeyPurposeAssertion, o)
	if err != nil || !result.Verified {
		return result, err
	}

	if o.checkStatus && c.Status != nil {
		revoked, err := checkStatus(ctx, c.Status)
		if err != nil {
			return Result{}, err
		}
		if revoked {
			return failed(ReasonRevoked), nil
		}
	}

	return verified, nil
}

// checkDisclosure recomputes the salted hash of every disclosed claim from
// its retained nonce, requires each to be present in the stored hash list,
// and requires the stored list to reproduce the stored root hash.
func checkDisclosure(c *Credential, rootHash []byte) (bool, error) {
	leaves, err := claim.Flatten(c.Claims)
	if err != nil {
		return false, fmt.Errorf("failed to flatten disclosed claims: %w", err)
	}

	// A nonce must exist exactly for the disclosed leaves.
	if len(c.ClaimNonces) != len(leaves) {
		return false, nil
	}

	stored := make(map[string]struct{}, len(c.ClaimHashes))
	fieldHashes := make([][]byte, 0, len(c.ClaimHashes))
	for _, encoded := range c.ClaimHashes {
		fh, err := hexutil.Decode(encoded)
		if err != nil {
			return false, fmt.Errorf("failed to decode claim hash: %w", err)
		}
		stored[encoded] = struct{}{}
		fieldHashes = append(fieldHashes, fh)
	}

	for _, leaf := range leaves {
		sd, err := commit.StatementDigest(c.HashType, leaf)
		if err != nil {
			return false, err
		}
		encodedNonce, ok := c.ClaimNonces[hexutil.Encode(sd)]
		if !ok {
			return false, nil
		}
		nonce, err := hexutil.Decode(encodedNonce)
		if err != nil {
			return false, nil
		}
		fh, err := commit.FieldHash(c.HashType, nonce, sd)
		if err != nil {
			return false, err
		}
		if _, ok := stored[hexutil.Encode(fh)]; !ok {
			return false, nil
		}
	}

	recomputedRoot, err := commit.RootHash(c.HashType, fieldHashes)
	if err != nil {
		return false, err
	}

	return bytes.Equal(recomputedRoot, rootHash), nil
}

// VerifyProof resolves the proof's verification key and checks the
// signature over the given payload. It is shared with presentation
// verification, which signs the presentation digest directly.
func VerifyProof(ctx context.Context, proof *dto.Proof, payload []byte, purpose model.KeyPurpose, opts ...VerifyOpt) (Result, error) {
	return verifyProof(ctx, proof, payload, purpose, newVerifyOptions(opts))
}

func verifyProof(ctx context.Context, proof *dto.Proof, payload []byte, purpose model.KeyPurpose, o *verifyOptions) (Result, error) {
	signature, err := hexutil.Decode(proof.ProofValue)
	if err != nil {
		return Result{}, fmt.Errorf("failed to decode proof value: %w", err)
	}

	signerDID, _, err := did.SplitKeyURI(proof.VerificationMethod)
	if err != nil {
		return Result{}, err
	}

	doc := o.document
	if doc == nil || doc.ID != signerDID {
		if o.resolver == nil {
			return Result{}, fmt.Errorf("%w: no DID resolver configured", provider.ErrResolution)
		}
		doc, err = o.resolver.Resolve(ctx, signerDID)
		if err != nil {
			return Result{}, err
		}
	}

	entry, publicKey, err := did.LookupKey(doc, proof.VerificationMethod, purpose)
	if err != nil {
		return Result{}, err
	}

	ok, err := crypto.VerifySignature(entry.Type, publicKey, payload, signature)
	if err != nil {
		return Result{}, fmt.Errorf("failed to verify signature: %w", err)
	}
	if !ok {
		return failed(ReasonSignatureInvalid), nil
	}

	return verified, nil
}

func checkStatus(ctx context.Context, status *Status) (bool, error) {
	if status.StatusListCredential == "" {
		return false, fmt.Errorf("credential status has no statusListCredential URL")
	}
	position, err := strconv.Atoi(status.StatusListIndex)
	if err != nil {
		return false, fmt.Errorf("invalid statusListIndex %q: %w", status.StatusListIndex, err)
	}
	return credentialstatus.FetchAndCheckRevocation(ctx, status.StatusListCredential, position)
}
