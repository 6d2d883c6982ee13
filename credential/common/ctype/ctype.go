// Package ctype handles claim schemas: validating claim contents against a
// schema and deriving the schema's content-addressed identifier.
package ctype

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/xeipuuv/gojsonschema"

	"github.com/zcloak-network/go-credential-sdk/credential/common/claim"
	"github.com/zcloak-network/go-credential-sdk/credential/common/hasher"
	"github.com/zcloak-network/go-credential-sdk/credential/common/model"
)

// ErrSchemaMismatch is returned when claim contents do not satisfy the schema.
var ErrSchemaMismatch = errors.New("claim contents do not match ctype")

// Validate checks claim contents against the ctype's JSON schema.
func Validate(set claim.Set, doc *model.SchemaDocument) error {
	if doc == nil {
		return fmt.Errorf("ctype document is nil")
	}
	if doc.Schema == nil {
		return fmt.Errorf("ctype %q has no schema", doc.ID)
	}

	normalized, err := claim.Normalize(set)
	if err != nil {
		return fmt.Errorf("failed to normalize claim contents: %w", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(doc.Schema),
		gojsonschema.NewGoLoader(map[string]interface{}(normalized)),
	)
	if err != nil {
		return fmt.Errorf("failed to run schema validation: %w", err)
	}

	if !result.Valid() {
		msg := ""
		for _, desc := range result.Errors() {
			if msg != "" {
				msg += "; "
			}
			msg += desc.String()
		}
		return fmt.Errorf("%w: %s", ErrSchemaMismatch, msg)
	}

	return nil
}

// HashOf derives the content-addressed identifier of a ctype by hashing its
// canonicalized schema document.
func HashOf(doc *model.SchemaDocument, ht hasher.HashType) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("ctype document is nil")
	}

	canonical, err := canonicalizeDocument(map[string]interface{}{
		"title":  doc.Title,
		"schema": doc.Schema,
	})
	if err != nil {
		return "", fmt.Errorf("failed to canonicalize ctype: %w", err)
	}

	h, err := hasher.Hash(ht, canonical)
	if err != nil {
		return "", fmt.Errorf("failed to hash ctype: %w", err)
	}

	return hexutil.Encode(h), nil
}

// VerifyID recomputes the ctype identifier and compares it to the recorded one.
func VerifyID(doc *model.SchemaDocument, ht hasher.HashType) (bool, error) {
	expected, err := HashOf(doc, ht)
	if err != nil {
		return false, err
	}
	return expected == doc.ID, nil
}
