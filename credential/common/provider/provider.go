// Package provider defines the external collaborators the credential logic
// depends on: DID resolution, claim schema (ctype) resolution and signing.
// Custom implementations can be injected anywhere the SDK takes one of
// these interfaces.
package provider

import (
	"context"
	"errors"

	"github.com/zcloak-network/go-credential-sdk/credential/common/dto"
	"github.com/zcloak-network/go-credential-sdk/credential/common/model"
)

var (
	// ErrNotFound is returned when a DID or schema does not exist.
	ErrNotFound = errors.New("not found")

	// ErrResolution is returned when resolution infrastructure fails.
	ErrResolution = errors.New("resolution failed")
)

// DIDResolver resolves a DID string into a DID Document.
type DIDResolver interface {
	Resolve(ctx context.Context, did string) (*model.DIDDocument, error)
}

// SchemaResolver fetches a claim schema (ctype) by its identifier.
type SchemaResolver interface {
	ResolveSchema(ctx context.Context, id string) (*model.SchemaDocument, error)
}

// Signer creates a signature over the given message with the key the
// identity holds for the given purpose.
type Signer interface {
	Sign(ctx context.Context, purpose model.KeyPurpose, message []byte) (*dto.Signature, error)
}
