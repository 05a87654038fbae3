package xapay

import "context"

// Verifier is the injected signature-verification primitive. The engine
// never depends on a specific cryptographic library; implementations decide
// the digest and signature scheme.
type Verifier interface {
	// Verify reports whether signature is valid over message for the given
	// credential (public key bytes).
	Verify(message, signature, credential []byte) bool
}

// CredentialResolver resolves the signing credential currently bound to an
// account: its regular key when one is set, otherwise its master key.
type CredentialResolver interface {
	// Resolve returns the account's active public key, or an error wrapping
	// ErrCredentialUnresolved when the account has none.
	Resolve(ctx context.Context, account Account) ([]byte, error)
}
