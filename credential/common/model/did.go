package model

// DIDDocument represents the structure of a resolved DID Document.
type DIDDocument struct {
	Context             []string                  `json:"@context"`
	ID                  string                    `json:"id"`
	VerificationMethod  []VerificationMethodEntry `json:"verificationMethod"`
	Authentication      []string                  `json:"authentication"`
	AssertionMethod     []string                  `json:"assertionMethod"`
	Controller          interface{}               `json:"controller"` // Can be string or []string
	DIDDocumentMetadata map[string]interface{}    `json:"didDocumentMetadata"`
}

// VerificationMethodEntry represents a single verification method in a DID Document.
type VerificationMethodEntry struct {
	ID                 string `json:"id"`
	Type               string `json:"type"`
	Controller         string `json:"controller"`
	PublicKeyHex       string `json:"publicKeyHex,omitempty"`
	PublicKeyMultibase string `json:"publicKeyMultibase,omitempty"`
	Revoked            bool   `json:"revoked,omitempty"`
}

// KeyPurpose names the verification relationship a key is used under.
type KeyPurpose string

const (
	// KeyPurposeAssertion is the purpose of keys that attest credentials.
	KeyPurposeAssertion KeyPurpose = "assertionMethod"
	// KeyPurposeAuthentication is the purpose of keys that sign presentations.
	KeyPurposeAuthentication KeyPurpose = "authentication"
)
