package dto

// Proof carries the signature over a credential or presentation digest.
type Proof struct {
	Type               string `json:"type"`
	Created            string `json:"created"`
	VerificationMethod string `json:"verificationMethod"`
	ProofPurpose       string `json:"proofPurpose"`
	ProofValue         string `json:"proofValue,omitempty"`
	Challenge          string `json:"challenge,omitempty"`
	Domain             string `json:"domain,omitempty"`
}

// Signature is the raw output of a Signer before it is wrapped in a Proof.
type Signature struct {
	// VerificationMethod references the key that produced the signature,
	// as a DID URL with a key fragment.
	VerificationMethod string
	// Alg is the proof type the key signs under.
	Alg string
	// Value holds the signature bytes.
	Value []byte
}
