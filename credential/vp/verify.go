package vp

import (
	"bytes"
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/sync/errgroup"

	"github.com/zcloak-network/go-credential-sdk/credential/common/digest"
	"github.com/zcloak-network/go-credential-sdk/credential/common/model"
	"github.com/zcloak-network/go-credential-sdk/credential/vc"
	"github.com/zcloak-network/go-credential-sdk/did"
)

// Verify checks a presentation: the recorded credential digests must
// reproduce the presentation digest in their recorded order, the holder's
// authentication proof must verify over it, and every included credential
// must verify under its own disclosure.
//
// Credential checks run concurrently; results are reported in insertion
// order, so verification is deterministic.
func Verify(ctx context.Context, p *Presentation, opts ...vc.VerifyOpt) (vc.Result, error) {
	if p == nil {
		return vc.Result{}, fmt.Errorf("presentation is nil")
	}
	if len(p.Credentials) == 0 {
		return vc.Result{}, fmt.Errorf("presentation has no credentials")
	}

	digests := make([][]byte, 0, len(p.Credentials))
	for i := range p.Credentials {
		c := &p.Credentials[i].Credential
		if c.Holder != p.Holder {
			return vc.Result{}, fmt.Errorf("credential %d is held by %q, not by the presentation holder %q", i, c.Holder, p.Holder)
		}
		ok, err := checkDisclosureMode(p.Credentials[i].Mode, c)
		if err != nil {
			return vc.Result{}, fmt.Errorf("credential %d: %w", i, err)
		}
		if !ok {
			return vc.Result{Verified: false, Reason: vc.ReasonDisclosureMismatch}, nil
		}
		d, err := hexutil.Decode(c.Digest)
		if err != nil {
			return vc.Result{}, fmt.Errorf("failed to decode digest of credential %d: %w", i, err)
		}
		digests = append(digests, d)
	}

	// Credential digests are immutable under redaction, so checking the
	// presentation digest reduces to recomputing it over the recorded
	// digests in the recorded order.
	expected, err := digest.Presentation(digests, p.HashType)
	if err != nil {
		return vc.Result{}, err
	}
	recorded, err := hexutil.Decode(p.Digest)
	if err != nil {
		return vc.Result{}, fmt.Errorf("failed to decode presentation digest: %w", err)
	}
	if !bytes.Equal(expected, recorded) {
		return vc.Result{Verified: false, Reason: vc.ReasonDisclosureMismatch}, nil
	}

	if p.Proof.ProofPurpose != string(model.KeyPurposeAuthentication) {
		return vc.Result{Verified: false, Reason: vc.ReasonSignatureInvalid}, nil
	}

	// The authentication proof must come from the holder's own key.
	signerDID, _, err := did.SplitKeyURI(p.Proof.VerificationMethod)
	if err != nil {
		return vc.Result{}, err
	}
	if signerDID != p.Holder {
		return vc.Result{Verified: false, Reason: vc.ReasonSignatureInvalid}, nil
	}

	results := make([]vc.Result, len(p.Credentials)+1)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		result, err := vc.VerifyProof(gctx, &p.Proof, recorded, model.KeyPurposeAuthentication, opts...)
		if err != nil {
			return err
		}
		results[0] = result
		return nil
	})

	for i := range p.Credentials {
		g.Go(func() error {
			result, err := vc.Verify(gctx, &p.Credentials[i].Credential, opts...)
			if err != nil {
				return fmt.Errorf("failed to verify credential %d: %w", i, err)
			}
			results[i+1] = result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return vc.Result{}, err
	}

	for _, result := range results {
		if !result.Verified {
			return result, nil
		}
	}

	return vc.Result{Verified: true, Reason: vc.ReasonNone}, nil
}

// checkDisclosureMode reports whether the material a credential carries is
// consistent with its recorded disclosure mode. A digest-only entry must
// carry no claims, hashes or nonces; reattached claims without commitment
// material would otherwise skip the disclosure check entirely and verify on
// the signature alone.
func checkDisclosureMode(mode DisclosureMode, c *vc.Credential) (bool, error) {
	switch mode {
	case ModeDigestOnly:
		return len(c.Claims) == 0 && len(c.ClaimHashes) == 0 && len(c.ClaimNonces) == 0, nil

	case ModeSelective:
		// Selective entries only ever come from private credentials: the
		// hash list and the nonces of the disclosed claims must be present
		// so the disclosure check has something to verify against.
		return c.Private() && len(c.Claims) > 0 && len(c.ClaimNonces) > 0, nil

	case ModeFull:
		// Full disclosure of a public credential carries no commitment
		// material at all; a private one must carry hash list and nonces
		// together. One without the other means the entry was stripped.
		if len(c.ClaimHashes) > 0 || len(c.ClaimNonces) > 0 {
			return c.Private() && len(c.ClaimNonces) > 0 && len(c.Claims) > 0, nil
		}
		return true, nil

	default:
		return false, fmt.Errorf("unknown disclosure mode %q", mode)
	}
}
