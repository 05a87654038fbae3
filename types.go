// Package xapay implements the authorization and accounting core of a
// custodial stablecoin ledger. The engine consumes discrete trigger events
// (deposits and operator-submitted instructions), validates cryptographic
// authorizations against injected capabilities, and mutates a persistent
// per-account ledger under strict invariants: no negative balances, no
// replayed authorizations, no allowance overrun.
package xapay

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// AccountLen is the length of a raw account identifier in bytes.
const AccountLen = 20

// NonceLen is the length of a direct-payment nonce in bytes.
const NonceLen = 16

// Account is an opaque 20-byte account identifier. It carries no mutable
// attributes of its own; it is purely a ledger key.
type Account [AccountLen]byte

// AccountFromHex parses a 40-character hex string into an Account.
func AccountFromHex(s string) (Account, error) {
	var a Account
	raw, err := hex.DecodeString(s)
	if err != nil {
		return a, fmt.Errorf("%w: %v", ErrInvalidAccount, err)
	}
	if len(raw) != AccountLen {
		return a, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAccount, AccountLen, len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

// Hex returns the account id as a lowercase hex string.
func (a Account) Hex() string {
	return hex.EncodeToString(a[:])
}

// IsZero reports whether the account id is all zero bytes.
func (a Account) IsZero() bool {
	return a == Account{}
}

// Currency is a 160-bit currency code in the standard layout: a three-letter
// ASCII code at bytes 12..14, zero elsewhere.
type Currency [20]byte

// CurrencyFromCode builds a Currency from a three-letter ASCII code.
func CurrencyFromCode(code string) (Currency, error) {
	var c Currency
	if len(code) != 3 {
		return c, fmt.Errorf("%w: code must be 3 characters, got %q", ErrInvalidCurrencyCode, code)
	}
	copy(c[12:15], code)
	return c, nil
}

// Code returns the three-letter ASCII code embedded in the currency, or the
// full hex form if the standard layout does not apply.
func (c Currency) Code() string {
	var zero Currency
	probe := c
	copy(probe[12:15], []byte{0, 0, 0})
	if probe == zero {
		return string(bytes.TrimRight(c[12:15], "\x00"))
	}
	return hex.EncodeToString(c[:])
}

// Nonce is a caller-supplied 16-byte value authorizing exactly one direct
// payment. Once marked used it permanently blocks reuse.
type Nonce [NonceLen]byte

// NonceFromHex parses a 32-character hex string into a Nonce.
func NonceFromHex(s string) (Nonce, error) {
	var n Nonce
	raw, err := hex.DecodeString(s)
	if err != nil {
		return n, fmt.Errorf("%w: %v", ErrInvalidNonce, err)
	}
	if len(raw) != NonceLen {
		return n, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidNonce, NonceLen, len(raw))
	}
	copy(n[:], raw)
	return n, nil
}

// TriggerKind classifies the external event that causes one engine
// invocation.
type TriggerKind string

const (
	// KindValueTransfer is an asset transfer into the custodial account.
	// Routed to the deposit path, or to the combined recharge path when the
	// attached instruction requests an allowance update.
	KindValueTransfer TriggerKind = "value_transfer"

	// KindInstruction is an operator-submitted instruction carrying a
	// structured payload that selects the payment path.
	KindInstruction TriggerKind = "instruction"
)

// TriggerEvent is one external occurrence presented to the engine. Events of
// a kind the engine does not recognize pass through with no state effect.
type TriggerEvent struct {
	// Kind is the declared event classification.
	Kind TriggerKind

	// Source is the account that originated the event.
	Source Account

	// Amount is the value-transfer amount, nil for pure instructions.
	Amount *AssetAmount

	// Memo is the raw JSON instruction payload attached to the event,
	// empty when absent.
	Memo []byte
}

// AssetAmount is a transient view of a value transfer: an asset identity and
// a magnitude. It is validated against the engine's configured stablecoin
// identity and then folded into the payer's balance.
type AssetAmount struct {
	Issuer   Account
	Currency Currency
	Value    Amount
}

// InstructionType selects the handler for a structured instruction payload.
type InstructionType string

const (
	// InstructionDirectPayment is a one-shot nonce-authorized debit.
	InstructionDirectPayment InstructionType = "direct_payment"

	// InstructionAllowancePayment is a debit under a signed cumulative-cap
	// allowance.
	InstructionAllowancePayment InstructionType = "allowance_payment"

	// InstructionUpdateAllowance is the combined deposit credit plus
	// allowance replacement, attached to a value transfer.
	InstructionUpdateAllowance InstructionType = "update_allowance"
)

// AllowanceField is the object form of the "allowance" payload field used by
// allowance payments: the signed cap literal and the authorizing signature.
type AllowanceField struct {
	// Amount is the cap literal exactly as signed by the payer.
	Amount string `json:"amount"`

	// Signature is the hex-encoded signature over the canonical message.
	Signature string `json:"signature"`
}

// Instruction is a decoded structured payload. The "allowance" JSON field is
// an object for allowance payments and a bare cap literal for recharge
// payloads; DecodeInstruction accepts both shapes.
type Instruction struct {
	// Type selects the handler.
	Type InstructionType

	// UserAddress is the payer address in its external text encoding.
	UserAddress string

	// Amount is the direct-payment amount literal.
	Amount string

	// PaymentAmount is the allowance-payment amount literal.
	PaymentAmount string

	// Nonce is the hex-encoded 16-byte direct-payment nonce.
	Nonce string

	// Signature is the hex-encoded signature: over the nonce for direct
	// payments, over the canonical message for recharge payloads.
	Signature string

	// Allowance is the object form carried by allowance payments.
	Allowance *AllowanceField

	// AllowanceCap is the flat cap literal carried by recharge payloads.
	AllowanceCap string
}

// instructionWire mirrors Instruction with the polymorphic "allowance"
// field left raw.
type instructionWire struct {
	Type          InstructionType `json:"type"`
	UserAddress   string          `json:"user_address,omitempty"`
	Amount        string          `json:"amount,omitempty"`
	PaymentAmount string          `json:"payment_amount,omitempty"`
	Nonce         string          `json:"nonce,omitempty"`
	Signature     string          `json:"signature,omitempty"`
	Allowance     json.RawMessage `json:"allowance,omitempty"`
}

// DecodeInstruction parses a raw JSON instruction payload.
func DecodeInstruction(raw []byte) (*Instruction, error) {
	var wire instructionWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	inst := &Instruction{
		Type:          wire.Type,
		UserAddress:   wire.UserAddress,
		Amount:        wire.Amount,
		PaymentAmount: wire.PaymentAmount,
		Nonce:         wire.Nonce,
		Signature:     wire.Signature,
	}

	if allowance := bytes.TrimSpace(wire.Allowance); len(allowance) > 0 {
		switch allowance[0] {
		case '{':
			var field AllowanceField
			if err := json.Unmarshal(allowance, &field); err != nil {
				return nil, fmt.Errorf("%w: allowance: %v", ErrInvalidJSON, err)
			}
			inst.Allowance = &field
		case '"':
			if err := json.Unmarshal(allowance, &inst.AllowanceCap); err != nil {
				return nil, fmt.Errorf("%w: allowance: %v", ErrInvalidJSON, err)
			}
		case 'n': // JSON null
		default:
			return nil, fmt.Errorf("%w: allowance must be an object or literal", ErrInvalidJSON)
		}
	}

	return inst, nil
}

// UnmarshalJSON decodes the wire form, accepting both "allowance" shapes.
func (in *Instruction) UnmarshalJSON(raw []byte) error {
	decoded, err := DecodeInstruction(raw)
	if err != nil {
		return err
	}
	*in = *decoded
	return nil
}

// MarshalJSON encodes the instruction back to its wire form, emitting the
// "allowance" field in whichever shape the instruction carries.
func (in Instruction) MarshalJSON() ([]byte, error) {
	wire := instructionWire{
		Type:          in.Type,
		UserAddress:   in.UserAddress,
		Amount:        in.Amount,
		PaymentAmount: in.PaymentAmount,
		Nonce:         in.Nonce,
		Signature:     in.Signature,
	}
	switch {
	case in.Allowance != nil:
		raw, err := json.Marshal(in.Allowance)
		if err != nil {
			return nil, err
		}
		wire.Allowance = raw
	case in.AllowanceCap != "":
		raw, err := json.Marshal(in.AllowanceCap)
		if err != nil {
			return nil, err
		}
		wire.Allowance = raw
	}
	return json.Marshal(wire)
}

// Outcome is the terminal result of one engine invocation: exactly one of
// commit-with-message or reject-with-message-and-code. The numeric code is
// the durable contract; the message is diagnostic only.
type Outcome struct {
	// Committed reports whether the invocation's writes took effect.
	Committed bool `json:"committed"`

	// Code is the stable numeric outcome code, CodeOK on commit.
	Code Code `json:"code"`

	// Message is a human-readable description of the outcome.
	Message string `json:"message"`
}

// Commit builds a successful outcome.
func Commit(message string) Outcome {
	return Outcome{Committed: true, Code: CodeOK, Message: message}
}

// Reject builds a failed outcome carrying a taxonomy code.
func Reject(code Code, message string) Outcome {
	return Outcome{Committed: false, Code: code, Message: message}
}
