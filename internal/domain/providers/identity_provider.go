package providers

import "context"

// Person is the identity record returned by the national registry.
type Person struct {
	DNI                string `json:"dni"`
	FullName           string `json:"full_name"`
	VerificationSource string `json:"verification_source"`
}

// IdentityProvider defines the interface for national-ID (DNI) lookups
// against the RENIEC registry or a stand-in.
type IdentityProvider interface {
	// LookupDNI resolves an 8-digit DNI to a person record
	LookupDNI(ctx context.Context, dni string) (*Person, error)
}
