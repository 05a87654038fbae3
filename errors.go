package xapay

import "errors"

// Standard engine error definitions. Handlers translate these into numeric
// outcome codes; library call sites wrap them with %w.

var (
	// ErrNotFound indicates the requested key has no persisted entry.
	ErrNotFound = errors.New("xapay: entry not found")

	// ErrUnauthorizedTrigger indicates the triggering identity is not the
	// configured operator.
	ErrUnauthorizedTrigger = errors.New("xapay: unauthorized trigger")

	// ErrMissingField indicates a required instruction field is absent.
	ErrMissingField = errors.New("xapay: missing required field")

	// ErrMalformedField indicates a present instruction field that does not
	// parse in its declared format.
	ErrMalformedField = errors.New("xapay: malformed field")

	// ErrInvalidJSON indicates an instruction payload that is not valid JSON.
	ErrInvalidJSON = errors.New("xapay: invalid json payload")

	// ErrUnknownInstruction indicates an unrecognized instruction type.
	ErrUnknownInstruction = errors.New("xapay: unknown instruction type")

	// ErrInvalidAddress indicates an account address that fails decoding.
	ErrInvalidAddress = errors.New("xapay: invalid address")

	// ErrInvalidAccount indicates a malformed raw account identifier.
	ErrInvalidAccount = errors.New("xapay: invalid account id")

	// ErrInvalidCurrencyCode indicates a malformed currency code.
	ErrInvalidCurrencyCode = errors.New("xapay: invalid currency code")

	// ErrInvalidNonce indicates a malformed nonce value.
	ErrInvalidNonce = errors.New("xapay: invalid nonce")

	// ErrSignatureInvalid indicates a signature that fails verification.
	ErrSignatureInvalid = errors.New("xapay: signature verification failed")

	// ErrCredentialUnresolved indicates the payer's signing credential
	// could not be resolved.
	ErrCredentialUnresolved = errors.New("xapay: credential unresolved")

	// ErrNonceReplayed indicates a nonce already marked used.
	ErrNonceReplayed = errors.New("xapay: nonce already used")

	// ErrInsufficientBalance indicates a debit exceeding the balance.
	ErrInsufficientBalance = errors.New("xapay: insufficient balance")

	// ErrAllowanceExceeded indicates cumulative spend over the cap.
	ErrAllowanceExceeded = errors.New("xapay: allowance exceeded")

	// ErrAmountOverflow indicates monetary arithmetic overflow.
	ErrAmountOverflow = errors.New("xapay: amount overflow")

	// ErrInvalidAmount indicates a malformed or negative amount literal.
	ErrInvalidAmount = errors.New("xapay: invalid amount")

	// ErrInvalidKey indicates an invalid private key.
	ErrInvalidKey = errors.New("xapay: invalid private key")

	// ErrInvalidMnemonic indicates an invalid mnemonic phrase.
	ErrInvalidMnemonic = errors.New("xapay: invalid mnemonic phrase")
)

// Code is a stable numeric outcome code. Codes are the durable external
// contract for auditability; messages may change, codes may not.
type Code int

const (
	// CodeOK signals a committed invocation.
	CodeOK Code = 0

	// Structural codes.

	// CodeUnauthorizedTrigger: the triggering identity is not the operator.
	CodeUnauthorizedTrigger Code = 100
	// CodeMalformedPayload: a field is present but does not parse.
	CodeMalformedPayload Code = 101
	// CodeInvalidJSON: the instruction payload is not valid JSON.
	CodeInvalidJSON Code = 102
	// CodeMissingField: a required field is absent.
	CodeMissingField Code = 103
	// CodeUnknownInstruction: the declared type is not recognized.
	CodeUnknownInstruction Code = 104

	// Asset-identity codes.

	// CodeCurrencyMismatch: the transferred currency is not the configured one.
	CodeCurrencyMismatch Code = 201
	// CodeIssuerMismatch: the transferred asset's issuer is not the configured one.
	CodeIssuerMismatch Code = 202
	// CodeNonPositiveAmount: a matched-asset deposit of zero or less.
	CodeNonPositiveAmount Code = 203

	// Authorization codes.

	// CodeInvalidAddress: the payer address fails decoding.
	CodeInvalidAddress Code = 301
	// CodeSignatureInvalid: signature verification failed.
	CodeSignatureInvalid Code = 302
	// CodeAllowanceExceeded: cumulative spend would exceed the cap.
	CodeAllowanceExceeded Code = 303
	// CodeInsufficientBalance: the debit exceeds the balance.
	CodeInsufficientBalance Code = 304
	// CodeCredentialUnresolved: no signing credential for the payer.
	CodeCredentialUnresolved Code = 305
	// CodeNonceReplayed: the nonce was already consumed.
	CodeNonceReplayed Code = 306
	// CodeAmountOverflow: monetary arithmetic overflowed.
	CodeAmountOverflow Code = 307

	// CodeStoreFailure: the ledger store failed an operation.
	CodeStoreFailure Code = 500
)

// String returns a short identifier for the code.
func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeUnauthorizedTrigger:
		return "unauthorized_trigger"
	case CodeMalformedPayload:
		return "malformed_payload"
	case CodeInvalidJSON:
		return "invalid_json"
	case CodeMissingField:
		return "missing_field"
	case CodeUnknownInstruction:
		return "unknown_instruction"
	case CodeCurrencyMismatch:
		return "currency_mismatch"
	case CodeIssuerMismatch:
		return "issuer_mismatch"
	case CodeNonPositiveAmount:
		return "non_positive_amount"
	case CodeInvalidAddress:
		return "invalid_address"
	case CodeSignatureInvalid:
		return "signature_invalid"
	case CodeAllowanceExceeded:
		return "allowance_exceeded"
	case CodeInsufficientBalance:
		return "insufficient_balance"
	case CodeCredentialUnresolved:
		return "credential_unresolved"
	case CodeNonceReplayed:
		return "nonce_replayed"
	case CodeAmountOverflow:
		return "amount_overflow"
	case CodeStoreFailure:
		return "store_failure"
	default:
		return "unknown"
	}
}
