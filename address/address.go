// Package address implements the external text encoding of account
// identifiers: base58check over a version byte and the 20-byte account id,
// using the ripple alphabet with a double-SHA256 checksum.
package address

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/xapay/xapay-go"
)

// alphabet is the base58 dictionary used for account addresses.
var alphabet = base58.NewAlphabet("rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz")

// versionAccount is the version byte prefixed to account ids before
// encoding; it makes every address start with 'r'.
const versionAccount = 0x00

// checksumLen is the number of checksum bytes appended before encoding.
const checksumLen = 4

// Encode renders an account id in its external text form.
func Encode(account xapay.Account) string {
	payload := make([]byte, 0, 1+xapay.AccountLen+checksumLen)
	payload = append(payload, versionAccount)
	payload = append(payload, account[:]...)
	payload = append(payload, checksum(payload)...)
	return base58.EncodeAlphabet(payload, alphabet)
}

// Decode parses an external address back to its raw account id. Malformed
// characters, wrong lengths, bad version bytes, and checksum mismatches all
// reject with ErrInvalidAddress.
func Decode(addr string) (xapay.Account, error) {
	var account xapay.Account

	payload, err := base58.DecodeAlphabet(addr, alphabet)
	if err != nil {
		return account, fmt.Errorf("%w: %v", xapay.ErrInvalidAddress, err)
	}
	if len(payload) != 1+xapay.AccountLen+checksumLen {
		return account, fmt.Errorf("%w: wrong payload length %d", xapay.ErrInvalidAddress, len(payload))
	}
	if payload[0] != versionAccount {
		return account, fmt.Errorf("%w: unexpected version byte %#x", xapay.ErrInvalidAddress, payload[0])
	}

	body, sum := payload[:1+xapay.AccountLen], payload[1+xapay.AccountLen:]
	if !bytes.Equal(sum, checksum(body)) {
		return account, fmt.Errorf("%w: checksum mismatch", xapay.ErrInvalidAddress)
	}

	copy(account[:], body[1:])
	return account, nil
}

// checksum returns the first four bytes of SHA256(SHA256(payload)).
func checksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:checksumLen]
}
