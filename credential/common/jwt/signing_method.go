// Package jwt provides the ES256K signing method used when credentials are
// exported in JWS form, registered with github.com/golang-jwt/jwt.
package jwt

import (
	"crypto/ecdsa"
	"crypto/sha256"
	"fmt"
	"math/big"
	"sync"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	jwtlib "github.com/golang-jwt/jwt/v5"
)

// SigningMethodES256K signs and verifies JWTs with secp256k1 / SHA-256.
type SigningMethodES256K struct{}

// ES256K is the shared signing method instance.
var ES256K = &SigningMethodES256K{}

var registerOnce sync.Once

// Register registers ES256K with the jwt library. Safe to call repeatedly.
func Register() {
	registerOnce.Do(func() {
		jwtlib.RegisterSigningMethod(ES256K.Alg(), func() jwtlib.SigningMethod {
			return ES256K
		})
	})
}

// Alg returns the JWA algorithm name.
func (m *SigningMethodES256K) Alg() string {
	return "ES256K"
}

// Sign signs the signing string. The key is a hex-encoded secp256k1
// private key. The signature is the 64-byte r‖s form without recovery id.
func (m *SigningMethodES256K) Sign(signingString string, key interface{}) ([]byte, error) {
	privKeyHex, ok := key.(string)
	if !ok {
		return nil, jwtlib.ErrInvalidKeyType
	}

	privKey, err := ethcrypto.HexToECDSA(privKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	hash := sha256.Sum256([]byte(signingString))
	sig, err := ethcrypto.Sign(hash[:], privKey)
	if err != nil {
		return nil, fmt.Errorf("signing failed: %w", err)
	}

	return sig[:64], nil
}

// Verify checks a 64-byte r‖s signature against an *ecdsa.PublicKey.
func (m *SigningMethodES256K) Verify(signingString string, signature []byte, key interface{}) error {
	publicKey, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return jwtlib.ErrInvalidKeyType
	}
	if len(signature) != 64 {
		return fmt.Errorf("invalid signature length %d", len(signature))
	}

	hash := sha256.Sum256([]byte(signingString))
	r := new(big.Int).SetBytes(signature[:32])
	s := new(big.Int).SetBytes(signature[32:])

	if !ecdsa.Verify(publicKey, hash[:], r, s) {
		return jwtlib.ErrSignatureInvalid
	}

	return nil
}
