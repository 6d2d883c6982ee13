package vc_test

import (
	"context"
	"strings"
	"testing"

	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcloak-network/go-credential-sdk/credential/vc"
)

func TestExportJWSRoundTrip(t *testing.T) {
	ctx := context.Background()
	issuer := newIdentity(t, "did:zk:issuer-0001")
	holder := newIdentity(t, "did:zk:holder-0001")

	credential, err := vc.NewBuilder(testRawCredential(holder.did.String())).
		Public().
		Build(ctx, issuer.keyring)
	require.NoError(t, err)

	token, err := vc.ExportJWS(credential, issuer.privKeyHex)
	require.NoError(t, err)
	assert.Len(t, strings.Split(token, "."), 3)

	priv, err := ethcrypto.HexToECDSA(issuer.privKeyHex)
	require.NoError(t, err)

	parsed, err := vc.ParseJWS(token, &priv.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, credential.ID, parsed.ID)
	assert.Equal(t, credential.Digest, parsed.Digest)
	assert.Equal(t, credential.Holder, parsed.Holder)

	result, err := vc.Verify(ctx, parsed, vc.WithDIDDocument(issuer.document))
	require.NoError(t, err)
	assert.True(t, result.Verified)
}

func TestExportJWSRefusesPrivateCredential(t *testing.T) {
	issuer := newIdentity(t, "did:zk:issuer-0001")
	holder := newIdentity(t, "did:zk:holder-0001")

	credential, err := vc.NewBuilder(testRawCredential(holder.did.String())).
		Build(context.Background(), issuer.keyring)
	require.NoError(t, err)

	_, err = vc.ExportJWS(credential, issuer.privKeyHex)
	assert.Error(t, err)
}

func TestParseJWSRejectsWrongKey(t *testing.T) {
	ctx := context.Background()
	issuer := newIdentity(t, "did:zk:issuer-0001")
	holder := newIdentity(t, "did:zk:holder-0001")

	credential, err := vc.NewBuilder(testRawCredential(holder.did.String())).
		Public().
		Build(ctx, issuer.keyring)
	require.NoError(t, err)

	token, err := vc.ExportJWS(credential, issuer.privKeyHex)
	require.NoError(t, err)

	other, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	_, err = vc.ParseJWS(token, &other.PublicKey)
	assert.Error(t, err)
}
