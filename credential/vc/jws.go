package vc

import (
	"crypto/ecdsa"
	"encoding/json"
	"fmt"

	jwtlib "github.com/golang-jwt/jwt/v5"

	sdkjwt "github.com/zcloak-network/go-credential-sdk/credential/common/jwt"
)

// ExportJWS renders a public credential as a JWS signed with the issuer's
// secp256k1 key under ES256K. Private credentials are refused: their nonce
// map has no place in the JWT claim set and must not leak through interop
// exports.
func ExportJWS(c *Credential, privKeyHex string) (string, error) {
	if c.Private() {
		return "", fmt.Errorf("only public credentials can be exported as JWS")
	}

	serialized, err := c.Serialize()
	if err != nil {
		return "", err
	}
	var vcClaim map[string]interface{}
	if err := json.Unmarshal(serialized, &vcClaim); err != nil {
		return "", fmt.Errorf("failed to build vc claim: %w", err)
	}

	sdkjwt.Register()

	claims := jwtlib.MapClaims{
		"iss": c.Issuer,
		"sub": c.Holder,
		"jti": c.ID,
		"vc":  vcClaim,
	}
	if c.ExpirationDate != nil {
		claims["exp"] = c.ExpirationDate.Unix()
	}

	token := jwtlib.NewWithClaims(sdkjwt.ES256K, claims)
	signed, err := token.SignedString(privKeyHex)
	if err != nil {
		return "", fmt.Errorf("failed to sign JWS: %w", err)
	}

	return signed, nil
}

// ParseJWS parses and verifies a JWS-form credential against the issuer's
// public key, returning the embedded credential.
func ParseJWS(token string, publicKey *ecdsa.PublicKey) (*Credential, error) {
	sdkjwt.Register()

	parsed, err := jwtlib.Parse(token, func(t *jwtlib.Token) (interface{}, error) {
		if t.Method.Alg() != sdkjwt.ES256K.Alg() {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return publicKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWS: %w", err)
	}

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, fmt.Errorf("unexpected claims type %T", parsed.Claims)
	}
	vcClaim, ok := claims["vc"]
	if !ok {
		return nil, fmt.Errorf("JWS carries no vc claim")
	}

	raw, err := json.Marshal(vcClaim)
	if err != nil {
		return nil, fmt.Errorf("failed to re-encode vc claim: %w", err)
	}

	return ParseCredential(raw)
}
