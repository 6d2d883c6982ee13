package ctype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcloak-network/go-credential-sdk/credential/common/claim"
	"github.com/zcloak-network/go-credential-sdk/credential/common/hasher"
	"github.com/zcloak-network/go-credential-sdk/credential/common/model"
)

func membershipSchema() *model.SchemaDocument {
	return &model.SchemaDocument{
		Title: "Membership",
		Schema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"name": map[string]interface{}{"type": "string"},
				"age":  map[string]interface{}{"type": "number"},
			},
			"required": []interface{}{"name", "age"},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		claims      claim.Set
		expectError bool
	}{
		{
			name:   "Conforming claims",
			claims: claim.Set{"name": "zCloak", "age": 19},
		},
		{
			name:        "Wrong type",
			claims:      claim.Set{"name": "zCloak", "age": "nineteen"},
			expectError: true,
		},
		{
			name:        "Missing required field",
			claims:      claim.Set{"name": "zCloak"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.claims, membershipSchema())

			if tt.expectError {
				assert.ErrorIs(t, err, ErrSchemaMismatch)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateNilSchema(t *testing.T) {
	assert.Error(t, Validate(claim.Set{"name": "x"}, nil))
	assert.Error(t, Validate(claim.Set{"name": "x"}, &model.SchemaDocument{ID: "0xabc"}))
}

func TestHashOf(t *testing.T) {
	doc := membershipSchema()

	id, err := HashOf(doc, hasher.Sha256)
	require.NoError(t, err)
	assert.Regexp(t, "^0x[0-9a-f]{64}$", id)

	again, err := HashOf(doc, hasher.Sha256)
	require.NoError(t, err)
	assert.Equal(t, id, again, "ctype hash must be deterministic")

	other := membershipSchema()
	other.Title = "Membership-v2"
	otherID, err := HashOf(other, hasher.Sha256)
	require.NoError(t, err)
	assert.NotEqual(t, id, otherID)
}

func TestVerifyID(t *testing.T) {
	doc := membershipSchema()

	id, err := HashOf(doc, hasher.Sha256)
	require.NoError(t, err)
	doc.ID = id

	ok, err := VerifyID(doc, hasher.Sha256)
	require.NoError(t, err)
	assert.True(t, ok)

	doc.ID = "0x0000"
	ok, err = VerifyID(doc, hasher.Sha256)
	require.NoError(t, err)
	assert.False(t, ok)
}
