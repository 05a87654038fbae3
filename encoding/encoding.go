// Package encoding provides the wire codecs hosts use to feed the engine:
// base64-wrapped JSON instruction payloads and JSON trigger envelopes with
// addresses and amounts in their external text forms.
package encoding

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/xapay/xapay-go"
	"github.com/xapay/xapay-go/address"
)

// EncodeInstruction converts an instruction to a base64-encoded JSON string,
// the form carried in trigger memos and transport headers.
//
// Returns an error if JSON marshaling fails.
func EncodeInstruction(inst *xapay.Instruction) (string, error) {
	raw, err := json.Marshal(inst)
	if err != nil {
		return "", fmt.Errorf("failed to marshal instruction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeInstruction converts a base64-encoded JSON string back to an
// instruction.
//
// Returns an error if base64 decoding or JSON unmarshaling fails.
func DecodeInstruction(encoded string) (*xapay.Instruction, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode base64: %v", xapay.ErrInvalidJSON, err)
	}
	return xapay.DecodeInstruction(raw)
}

// triggerWire is the JSON envelope form of a trigger event.
type triggerWire struct {
	Kind   string     `json:"kind"`
	Source string     `json:"source"`
	Amount *assetWire `json:"amount,omitempty"`
	Memo   string     `json:"memo,omitempty"`
}

// assetWire is the JSON form of a value-transfer amount.
type assetWire struct {
	Issuer   string `json:"issuer"`
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

// DecodeTrigger parses a JSON trigger envelope into the engine's event form.
// Addresses are decoded from their text encoding, the value literal is parsed
// at the given scale, and the memo is base64-decoded to the raw instruction
// payload bytes.
func DecodeTrigger(data []byte, decimals int) (xapay.TriggerEvent, error) {
	var wire triggerWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return xapay.TriggerEvent{}, fmt.Errorf("%w: %v", xapay.ErrInvalidJSON, err)
	}

	source, err := address.Decode(wire.Source)
	if err != nil {
		return xapay.TriggerEvent{}, fmt.Errorf("source: %w", err)
	}

	ev := xapay.TriggerEvent{
		Kind:   xapay.TriggerKind(wire.Kind),
		Source: source,
	}

	if wire.Amount != nil {
		issuer, err := address.Decode(wire.Amount.Issuer)
		if err != nil {
			return xapay.TriggerEvent{}, fmt.Errorf("amount.issuer: %w", err)
		}
		currency, err := xapay.CurrencyFromCode(wire.Amount.Currency)
		if err != nil {
			return xapay.TriggerEvent{}, fmt.Errorf("amount.currency: %w", err)
		}
		value, err := xapay.ParseAmount(wire.Amount.Value, decimals)
		if err != nil {
			return xapay.TriggerEvent{}, fmt.Errorf("amount.value: %w", err)
		}
		ev.Amount = &xapay.AssetAmount{Issuer: issuer, Currency: currency, Value: value}
	}

	if wire.Memo != "" {
		memo, err := base64.StdEncoding.DecodeString(wire.Memo)
		if err != nil {
			return xapay.TriggerEvent{}, fmt.Errorf("%w: memo: %v", xapay.ErrInvalidJSON, err)
		}
		ev.Memo = memo
	}

	return ev, nil
}

// EncodeTrigger converts a trigger event back to its JSON envelope form, the
// inverse of DecodeTrigger. Used by clients and tests constructing events.
func EncodeTrigger(ev xapay.TriggerEvent, decimals int) ([]byte, error) {
	wire := triggerWire{
		Kind:   string(ev.Kind),
		Source: address.Encode(ev.Source),
	}
	if ev.Amount != nil {
		wire.Amount = &assetWire{
			Issuer:   address.Encode(ev.Amount.Issuer),
			Currency: ev.Amount.Currency.Code(),
			Value:    ev.Amount.Value.Format(decimals),
		}
	}
	if len(ev.Memo) > 0 {
		wire.Memo = base64.StdEncoding.EncodeToString(ev.Memo)
	}
	return json.Marshal(wire)
}
