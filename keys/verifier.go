package keys

import "github.com/ethereum/go-ethereum/crypto"

// Verifier implements xapay.Verifier over compact secp256k1 signatures and
// compressed public keys.
type Verifier struct{}

// NewVerifier returns the production signature verifier.
func NewVerifier() Verifier {
	return Verifier{}
}

// Verify reports whether signature is a valid compact signature over
// message for the given compressed public key. Malformed inputs verify as
// false rather than erroring; the engine treats both identically.
func (Verifier) Verify(message, signature, credential []byte) bool {
	if len(signature) != SignatureLen || len(credential) != PublicKeyLen {
		return false
	}
	return crypto.VerifySignature(credential, digest(message), signature)
}
