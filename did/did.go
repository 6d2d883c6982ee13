// Package did provides DID string handling, DID document construction for
// locally held keys, and verification key lookup inside resolved documents.
package did

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidDID is returned when a DID string is malformed.
	ErrInvalidDID = errors.New("invalid DID")

	// ErrKeyNotFound is returned when a document holds no usable key for a
	// verification method reference and purpose.
	ErrKeyNotFound = errors.New("verification key not found")

	// ErrKeyRevoked is returned when the referenced key is marked revoked.
	ErrKeyRevoked = errors.New("verification key revoked")
)

// Method is the DID method this SDK mints identifiers under.
const Method = "zk"

// DID is a parsed decentralized identifier.
type DID struct {
	Method     string
	Identifier string
}

// String renders the DID back to its URI form.
func (d DID) String() string {
	return "did:" + d.Method + ":" + d.Identifier
}

// KeyURI returns the DID URL of a key fragment on this DID.
func (d DID) KeyURI(fragment string) string {
	return d.String() + "#" + fragment
}

// Parse splits a DID URI into method and method-specific identifier. A key
// fragment, if present, is rejected; use SplitKeyURI for DID URLs.
func Parse(uri string) (DID, error) {
	parts := strings.SplitN(uri, ":", 3)
	if len(parts) != 3 || parts[0] != "did" || parts[1] == "" || parts[2] == "" {
		return DID{}, fmt.Errorf("%w: %q", ErrInvalidDID, uri)
	}
	if strings.Contains(parts[2], "#") {
		return DID{}, fmt.Errorf("%w: %q contains a key fragment", ErrInvalidDID, uri)
	}
	return DID{Method: parts[1], Identifier: parts[2]}, nil
}

// SplitKeyURI splits a DID URL of the form did:method:id#fragment into the
// bare DID and the fragment.
func SplitKeyURI(keyURI string) (string, string, error) {
	didPart, fragment, found := strings.Cut(keyURI, "#")
	if !found || fragment == "" {
		return "", "", fmt.Errorf("%w: %q has no key fragment", ErrInvalidDID, keyURI)
	}
	if _, err := Parse(didPart); err != nil {
		return "", "", err
	}
	return didPart, fragment, nil
}
