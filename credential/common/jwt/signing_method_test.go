package jwt

import (
	"fmt"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestES256KSignVerify(t *testing.T) {
	priv, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	privHex := fmt.Sprintf("%x", ethcrypto.FromECDSA(priv))

	const signingString = "eyJhbGciOiJFUzI1NksifQ.eyJpc3MiOiJkaWQ6ems6aXNzdWVyIn0"

	sig, err := ES256K.Sign(signingString, privHex)
	require.NoError(t, err)
	assert.Len(t, sig, 64)

	require.NoError(t, ES256K.Verify(signingString, sig, &priv.PublicKey))

	// Tampered input fails.
	assert.ErrorIs(t, ES256K.Verify(signingString+"x", sig, &priv.PublicKey), jwtlib.ErrSignatureInvalid)

	// Wrong key fails.
	other, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	assert.ErrorIs(t, ES256K.Verify(signingString, sig, &other.PublicKey), jwtlib.ErrSignatureInvalid)
}

func TestES256KKeyTypes(t *testing.T) {
	_, err := ES256K.Sign("msg", 42)
	assert.ErrorIs(t, err, jwtlib.ErrInvalidKeyType)

	err = ES256K.Verify("msg", make([]byte, 64), "not a public key")
	assert.ErrorIs(t, err, jwtlib.ErrInvalidKeyType)

	priv, err := ethcrypto.GenerateKey()
	require.NoError(t, err)
	err = ES256K.Verify("msg", make([]byte, 10), &priv.PublicKey)
	assert.Error(t, err)
}

func TestRegisterIdempotent(t *testing.T) {
	Register()
	Register()

	method := jwtlib.GetSigningMethod("ES256K")
	require.NotNil(t, method)
	assert.Equal(t, "ES256K", method.Alg())
}
