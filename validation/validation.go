// Package validation performs structural validation of instruction payloads:
// required-field presence and field formats. It stops short of cryptographic
// and accounting checks, which belong to the engine.
package validation

import (
	"encoding/hex"
	"fmt"
	"regexp"

	"github.com/xapay/xapay-go"
)

var (
	// addressRegex matches the external account-address text form: the
	// base58 dictionary used by address encoding, with the leading 'r'
	// version character.
	addressRegex = regexp.MustCompile(`^r[rpshnaf39wBUDNEGHJKLM4PQRST7VWXYZ2bcdeCg65jkm8oFqi1tuvAxyz]{24,34}$`)

	// amountRegex matches non-negative decimal literals.
	amountRegex = regexp.MustCompile(`^[0-9]+(\.[0-9]+)?$`)
)

// Address validates the text form of an account address.
func Address(addr string) error {
	if addr == "" {
		return fmt.Errorf("%w: user_address", xapay.ErrMissingField)
	}
	if !addressRegex.MatchString(addr) {
		return fmt.Errorf("%w: user_address %q", xapay.ErrMalformedField, addr)
	}
	return nil
}

// AmountLiteral validates a decimal amount literal.
func AmountLiteral(field, literal string) error {
	if literal == "" {
		return fmt.Errorf("%w: %s", xapay.ErrMissingField, field)
	}
	if !amountRegex.MatchString(literal) {
		return fmt.Errorf("%w: %s %q", xapay.ErrMalformedField, field, literal)
	}
	return nil
}

// SignatureHex validates a hex-encoded signature field.
func SignatureHex(field, sig string) error {
	if sig == "" {
		return fmt.Errorf("%w: %s", xapay.ErrMissingField, field)
	}
	raw, err := hex.DecodeString(sig)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", xapay.ErrMalformedField, field, err)
	}
	if len(raw) == 0 {
		return fmt.Errorf("%w: %s is empty", xapay.ErrMalformedField, field)
	}
	return nil
}

// NonceHex validates a hex-encoded 16-byte nonce field.
func NonceHex(nonce string) error {
	if nonce == "" {
		return fmt.Errorf("%w: nonce", xapay.ErrMissingField)
	}
	raw, err := hex.DecodeString(nonce)
	if err != nil {
		return fmt.Errorf("%w: nonce: %v", xapay.ErrMalformedField, err)
	}
	if len(raw) != xapay.NonceLen {
		return fmt.Errorf("%w: nonce must be %d bytes, got %d", xapay.ErrMalformedField, xapay.NonceLen, len(raw))
	}
	return nil
}

// Instruction validates the structural requirements of a decoded payload for
// its declared type.
func Instruction(inst *xapay.Instruction) error {
	switch inst.Type {
	case xapay.InstructionDirectPayment:
		if err := Address(inst.UserAddress); err != nil {
			return err
		}
		if err := AmountLiteral("amount", inst.Amount); err != nil {
			return err
		}
		if err := NonceHex(inst.Nonce); err != nil {
			return err
		}
		return SignatureHex("signature", inst.Signature)

	case xapay.InstructionAllowancePayment:
		if err := Address(inst.UserAddress); err != nil {
			return err
		}
		if err := AmountLiteral("payment_amount", inst.PaymentAmount); err != nil {
			return err
		}
		if inst.Allowance == nil {
			return fmt.Errorf("%w: allowance", xapay.ErrMissingField)
		}
		if err := AmountLiteral("allowance.amount", inst.Allowance.Amount); err != nil {
			return err
		}
		return SignatureHex("allowance.signature", inst.Allowance.Signature)

	case xapay.InstructionUpdateAllowance:
		if err := Address(inst.UserAddress); err != nil {
			return err
		}
		if err := AmountLiteral("allowance", inst.AllowanceCap); err != nil {
			return err
		}
		return SignatureHex("signature", inst.Signature)

	case "":
		return fmt.Errorf("%w: type", xapay.ErrMissingField)

	default:
		return fmt.Errorf("%w: %q", xapay.ErrUnknownInstruction, inst.Type)
	}
}
