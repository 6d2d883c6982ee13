package credentialstatus

// StatusListCredential models the credential published at a status list
// endpoint. Only the fields the revocation check needs are typed.
type StatusListCredential struct {
	ID                string            `json:"id"`
	Issuer            string            `json:"issuer"`
	Type              []string          `json:"type"`
	ValidFrom         string            `json:"validFrom"`
	ValidUntil        string            `json:"validUntil"`
	CredentialSubject StatusListSubject `json:"credentialSubject"`
}

// StatusListSubject carries the encoded bitstring of the status list.
type StatusListSubject struct {
	ID            string `json:"id"`
	Type          string `json:"type"`
	StatusPurpose string `json:"statusPurpose"`
	EncodedList   string `json:"encodedList"`
}
