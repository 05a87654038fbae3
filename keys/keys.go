// Package keys provides the secp256k1 signing and verification primitives
// the engine consumes through its capability interfaces, plus key derivation
// for hosts and clients.
package keys

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/ripemd160"

	"github.com/xapay/xapay-go"
	"github.com/xapay/xapay-go/address"
)

// SignatureLen is the length of a compact signature: 32-byte R plus
// 32-byte S.
const SignatureLen = 64

// PublicKeyLen is the length of a compressed secp256k1 public key.
const PublicKeyLen = 33

// Key is a secp256k1 signing key bound to an account identity.
type Key struct {
	private *ecdsa.PrivateKey
}

// Generate creates a new random key.
func Generate() (*Key, error) {
	private, err := ecdsa.GenerateKey(crypto.S256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xapay.ErrInvalidKey, err)
	}
	return &Key{private: private}, nil
}

// FromHex loads a key from a hex-encoded private scalar, with or without a
// 0x prefix.
func FromHex(hexKey string) (*Key, error) {
	hexKey = strings.TrimPrefix(hexKey, "0x")
	private, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xapay.ErrInvalidKey, err)
	}
	return &Key{private: private}, nil
}

// FromMnemonic derives a key from a BIP39 mnemonic phrase. The accountIndex
// parameter selects the HD account along m/44'/144'/0'/0/{accountIndex}.
func FromMnemonic(mnemonic string, accountIndex uint32) (*Key, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, xapay.ErrInvalidMnemonic
	}
	seed := bip39.NewSeed(mnemonic, "")

	key, err := deriveAccountKey(seed, accountIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xapay.ErrInvalidMnemonic, err)
	}
	return key, nil
}

// deriveAccountKey walks the BIP44 path m/44'/144'/0'/0/{index}.
func deriveAccountKey(seed []byte, index uint32) (*Key, error) {
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, err
	}

	// 44' = BIP44 purpose, 144' = coin type, 0' = account, 0 = external chain.
	path := []uint32{
		bip32.FirstHardenedChild + 44,
		bip32.FirstHardenedChild + 144,
		bip32.FirstHardenedChild + 0,
		0,
		index,
	}

	key := master
	for _, child := range path {
		if key, err = key.NewChildKey(child); err != nil {
			return nil, err
		}
	}

	private, err := crypto.ToECDSA(key.Key)
	if err != nil {
		return nil, err
	}
	return &Key{private: private}, nil
}

// PublicKey returns the compressed 33-byte public key, the form the engine
// receives as a credential.
func (k *Key) PublicKey() []byte {
	return crypto.CompressPubkey(&k.private.PublicKey)
}

// AccountID derives the 20-byte account id: RIPEMD160(SHA256(pubkey)).
func (k *Key) AccountID() xapay.Account {
	return AccountFromPublicKey(k.PublicKey())
}

// Address returns the account's external text address.
func (k *Key) Address() string {
	return address.Encode(k.AccountID())
}

// Sign produces a compact 64-byte signature over the message digest.
func (k *Key) Sign(message []byte) ([]byte, error) {
	sig, err := crypto.Sign(digest(message), k.private)
	if err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}
	// Drop the recovery byte; verification does not need it.
	return sig[:SignatureLen], nil
}

// AccountFromPublicKey derives the account id bound to a compressed
// public key.
func AccountFromPublicKey(publicKey []byte) xapay.Account {
	var account xapay.Account
	sha := sha256.Sum256(publicKey)
	ripemd := ripemd160.New()
	ripemd.Write(sha[:])
	copy(account[:], ripemd.Sum(nil))
	return account
}

// digest hashes a message to the 32-byte value that is actually signed:
// the first half of its SHA-512.
func digest(message []byte) []byte {
	sum := sha512.Sum512(message)
	return sum[:32]
}
