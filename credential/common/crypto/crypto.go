// Package crypto implements the signature suites the SDK issues and
// verifies proofs under: secp256k1 (recoverable, Ethereum style) and
// ed25519.
package crypto

import (
	"bytes"
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// Proof types produced by the suites.
const (
	ProofTypeSecp256k1 = "EcdsaSecp256k1Signature2019"
	ProofTypeEd25519   = "Ed25519Signature2020"
)

// Verification method key types as they appear in DID documents.
const (
	KeyTypeSecp256k1 = "EcdsaSecp256k1VerificationKey2019"
	KeyTypeEd25519   = "Ed25519VerificationKey2020"
)

// SignSecp256k1 signs a message with a secp256k1 private key, producing a
// 65-byte [r, s, v] signature over the SHA-256 hash of the message.
func SignSecp256k1(privateKeyHex string, message []byte) ([]byte, error) {
	privKey, err := ethcrypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("secp256k1: invalid private key: %w", err)
	}

	hash := sha256.Sum256(message)
	signature, err := ethcrypto.Sign(hash[:], privKey)
	if err != nil {
		return nil, fmt.Errorf("secp256k1: sign error: %w", err)
	}
	if len(signature) != 65 {
		return nil, fmt.Errorf("secp256k1: invalid signature length, expected 65 bytes")
	}

	return signature, nil
}

// VerifySecp256k1 verifies a secp256k1 signature against a compressed
// 33-byte public key. A 65-byte signature is checked by public key
// recovery, a 64-byte one directly.
func VerifySecp256k1(publicKey, message, signature []byte) bool {
	if len(publicKey) != 33 || len(message) == 0 {
		return false
	}
	if len(signature) != 65 {
		return verifySecp256k1WithoutV(publicKey, message, signature)
	}

	hash := sha256.Sum256(message)

	recovered, err := ethcrypto.Ecrecover(hash[:], signature)
	if err != nil {
		return false
	}
	recoveredPub, err := ethcrypto.UnmarshalPubkey(recovered)
	if err != nil {
		return false
	}

	return bytes.Equal(ethcrypto.CompressPubkey(recoveredPub), publicKey)
}

func verifySecp256k1WithoutV(publicKey, message, signature []byte) bool {
	if len(signature) != 64 {
		return false
	}

	hash := sha256.Sum256(message)

	return ethcrypto.VerifySignature(publicKey, hash[:], signature)
}

// SignEd25519 signs a message with an ed25519 private key.
func SignEd25519(priv ed25519.PrivateKey, message []byte) ([]byte, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("ed25519: invalid private key length %d", len(priv))
	}
	return ed25519.Sign(priv, message), nil
}

// VerifyEd25519 verifies an ed25519 signature.
func VerifyEd25519(publicKey, message, signature []byte) bool {
	if len(publicKey) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(publicKey), message, signature)
}

// VerifySignature dispatches on the verification method key type. The
// boolean is the outcome of the signature check; an error is returned only
// for an unknown key type.
func VerifySignature(keyType string, publicKey, message, signature []byte) (bool, error) {
	switch keyType {
	case KeyTypeSecp256k1:
		return VerifySecp256k1(publicKey, message, signature), nil
	case KeyTypeEd25519:
		return VerifyEd25519(publicKey, message, signature), nil
	default:
		return false, fmt.Errorf("unsupported verification key type: %q", keyType)
	}
}

// CompressedPublicKeyHex derives the compressed public key of a secp256k1
// private key, for building DID documents.
func CompressedPublicKeyHex(privateKeyHex string) (string, error) {
	privKey, err := ethcrypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return "", fmt.Errorf("secp256k1: invalid private key: %w", err)
	}
	return fmt.Sprintf("%x", ethcrypto.CompressPubkey(&privKey.PublicKey)), nil
}

// DecompressPublicKey expands a compressed secp256k1 public key to its
// uncompressed 65-byte form.
func DecompressPublicKey(compressed []byte) ([]byte, error) {
	pub, err := btcec.ParsePubKey(compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse compressed public key: %w", err)
	}
	return pub.SerializeUncompressed(), nil
}
