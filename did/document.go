package did

import (
	"encoding/hex"
	"fmt"

	"github.com/multiformats/go-multibase"

	"github.com/zcloak-network/go-credential-sdk/credential/common/model"
)

// LookupKey finds the verification method referenced by keyURI in a resolved
// document, checks it is listed under the required purpose and is not
// revoked, and returns the entry together with its decoded public key.
func LookupKey(doc *model.DIDDocument, keyURI string, purpose model.KeyPurpose) (*model.VerificationMethodEntry, []byte, error) {
	if doc == nil {
		return nil, nil, fmt.Errorf("DID document is nil")
	}

	var entry *model.VerificationMethodEntry
	for i := range doc.VerificationMethod {
		if doc.VerificationMethod[i].ID == keyURI {
			entry = &doc.VerificationMethod[i]
			break
		}
	}
	if entry == nil {
		return nil, nil, fmt.Errorf("%w: %q in document %q", ErrKeyNotFound, keyURI, doc.ID)
	}
	if entry.Revoked {
		return nil, nil, fmt.Errorf("%w: %q", ErrKeyRevoked, keyURI)
	}

	if !referencedBy(purposeList(doc, purpose), keyURI) {
		return nil, nil, fmt.Errorf("%w: %q is not listed under %s", ErrKeyNotFound, keyURI, purpose)
	}

	publicKey, err := decodePublicKey(entry)
	if err != nil {
		return nil, nil, err
	}

	return entry, publicKey, nil
}

func purposeList(doc *model.DIDDocument, purpose model.KeyPurpose) []string {
	switch purpose {
	case model.KeyPurposeAssertion:
		return doc.AssertionMethod
	case model.KeyPurposeAuthentication:
		return doc.Authentication
	}
	return nil
}

func referencedBy(refs []string, keyURI string) bool {
	for _, ref := range refs {
		if ref == keyURI {
			return true
		}
	}
	return false
}

func decodePublicKey(entry *model.VerificationMethodEntry) ([]byte, error) {
	switch {
	case entry.PublicKeyHex != "":
		key, err := hex.DecodeString(entry.PublicKeyHex)
		if err != nil {
			return nil, fmt.Errorf("failed to decode publicKeyHex of %q: %w", entry.ID, err)
		}
		return key, nil
	case entry.PublicKeyMultibase != "":
		_, key, err := multibase.Decode(entry.PublicKeyMultibase)
		if err != nil {
			return nil, fmt.Errorf("failed to decode publicKeyMultibase of %q: %w", entry.ID, err)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("%w: %q carries no public key material", ErrKeyNotFound, entry.ID)
	}
}

// KeySpec describes one key to publish in a document built with NewDocument.
type KeySpec struct {
	Fragment  string
	Type      string
	PublicKey []byte
	Purposes  []model.KeyPurpose
	Revoked   bool
}

// NewDocument assembles a DID document for a locally controlled identity.
// Public keys are published multibase-encoded (base58btc).
func NewDocument(didURI string, keys []KeySpec) (*model.DIDDocument, error) {
	d, err := Parse(didURI)
	if err != nil {
		return nil, err
	}

	doc := &model.DIDDocument{
		Context: []string{"https://www.w3.org/ns/did/v1"},
		ID:      d.String(),
	}

	for _, key := range keys {
		if key.Fragment == "" {
			return nil, fmt.Errorf("key spec has no fragment")
		}
		encoded, err := multibase.Encode(multibase.Base58BTC, key.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("failed to encode public key %q: %w", key.Fragment, err)
		}

		keyURI := d.KeyURI(key.Fragment)
		doc.VerificationMethod = append(doc.VerificationMethod, model.VerificationMethodEntry{
			ID:                 keyURI,
			Type:               key.Type,
			Controller:         d.String(),
			PublicKeyMultibase: encoded,
			Revoked:            key.Revoked,
		})

		for _, purpose := range key.Purposes {
			switch purpose {
			case model.KeyPurposeAssertion:
				doc.AssertionMethod = append(doc.AssertionMethod, keyURI)
			case model.KeyPurposeAuthentication:
				doc.Authentication = append(doc.Authentication, keyURI)
			default:
				return nil, fmt.Errorf("unknown key purpose %q", purpose)
			}
		}
	}

	return doc, nil
}
