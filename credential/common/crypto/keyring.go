package crypto

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/zcloak-network/go-credential-sdk/credential/common/dto"
	"github.com/zcloak-network/go-credential-sdk/credential/common/model"
)

// ErrKeyPurposeNotFound is returned when a keyring holds no key for the
// requested purpose.
var ErrKeyPurposeNotFound = errors.New("no key for purpose")

type signingKey struct {
	verificationMethod string
	alg                string
	sign               func(message []byte) ([]byte, error)
}

// Keyring holds one identity's signing keys, one per key purpose. It
// implements provider.Signer.
type Keyring struct {
	keys map[model.KeyPurpose]signingKey
}

// NewKeyring creates an empty keyring.
func NewKeyring() *Keyring {
	return &Keyring{keys: make(map[model.KeyPurpose]signingKey)}
}

// AddSecp256k1Key binds a secp256k1 private key to a purpose.
func (k *Keyring) AddSecp256k1Key(purpose model.KeyPurpose, verificationMethod, privateKeyHex string) error {
	if verificationMethod == "" {
		return fmt.Errorf("verification method is required")
	}
	if _, err := CompressedPublicKeyHex(privateKeyHex); err != nil {
		return err
	}

	k.keys[purpose] = signingKey{
		verificationMethod: verificationMethod,
		alg:                ProofTypeSecp256k1,
		sign: func(message []byte) ([]byte, error) {
			return SignSecp256k1(privateKeyHex, message)
		},
	}
	return nil
}

// AddEd25519Key binds an ed25519 private key to a purpose.
func (k *Keyring) AddEd25519Key(purpose model.KeyPurpose, verificationMethod string, priv ed25519.PrivateKey) error {
	if verificationMethod == "" {
		return fmt.Errorf("verification method is required")
	}
	if len(priv) != ed25519.PrivateKeySize {
		return fmt.Errorf("ed25519: invalid private key length %d", len(priv))
	}

	k.keys[purpose] = signingKey{
		verificationMethod: verificationMethod,
		alg:                ProofTypeEd25519,
		sign: func(message []byte) ([]byte, error) {
			return SignEd25519(priv, message)
		},
	}
	return nil
}

// Sign signs a message with the key bound to the given purpose.
func (k *Keyring) Sign(ctx context.Context, purpose model.KeyPurpose, message []byte) (*dto.Signature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key, ok := k.keys[purpose]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrKeyPurposeNotFound, purpose)
	}

	value, err := key.sign(message)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}

	return &dto.Signature{
		VerificationMethod: key.verificationMethod,
		Alg:                key.alg,
		Value:              value,
	}, nil
}
