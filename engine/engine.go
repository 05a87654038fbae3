// Package engine implements the trigger dispatcher and the four
// authorization/accounting handlers: deposit acceptance, nonce-authorized
// direct payment, allowance-capped payment, and the combined
// recharge-plus-allowance-update.
//
// Each invocation processes exactly one trigger event to completion. Handlers
// collect their ledger writes while validating and the dispatcher applies
// them in a single atomic batch only when the invocation commits; a rejected
// invocation leaves the ledger untouched. The host driving the engine is
// responsible for serializing invocations per event order.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/xapay/xapay-go"
	"github.com/xapay/xapay-go/address"
	"github.com/xapay/xapay-go/internal/logging"
	"github.com/xapay/xapay-go/keys"
	"github.com/xapay/xapay-go/validation"
)

// Engine is the authorization/accounting state machine. It is pure against
// its injected capabilities and keeps no state between invocations beyond
// what the store persists.
type Engine struct {
	cfg      xapay.Config
	ledger   *xapay.Ledger
	verifier xapay.Verifier
	resolver xapay.CredentialResolver
	logger   *slog.Logger

	// operatorAddress is the operator's account in its external text form,
	// precomputed because every canonical allowance message embeds it.
	operatorAddress string
}

// Option configures optional engine capabilities.
type Option func(*Engine)

// WithVerifier overrides the default secp256k1 signature verifier.
func WithVerifier(v xapay.Verifier) Option {
	return func(e *Engine) { e.verifier = v }
}

// WithResolver sets the payer credential resolver. Required.
func WithResolver(r xapay.CredentialResolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithLogger sets the engine's structured logger. Defaults to a discard
// logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New builds an engine over the given configuration and backing store.
func New(cfg xapay.Config, store xapay.Store, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	if store == nil {
		return nil, fmt.Errorf("engine: store is required")
	}

	e := &Engine{
		cfg:             cfg,
		ledger:          xapay.NewLedger(store),
		verifier:        keys.NewVerifier(),
		logger:          logging.Discard(),
		operatorAddress: address.Encode(cfg.Operator),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.resolver == nil {
		return nil, fmt.Errorf("engine: credential resolver is required")
	}
	return e, nil
}

// Process runs one invocation for the given trigger event and returns its
// terminal outcome. Ledger writes take effect only when the outcome commits.
func (e *Engine) Process(ctx context.Context, ev xapay.TriggerEvent) xapay.Outcome {
	var (
		writes  []xapay.Write
		outcome xapay.Outcome
	)

	switch ev.Kind {
	case xapay.KindValueTransfer:
		if inst := rechargePayload(ev.Memo); inst != nil {
			writes, outcome = e.recharge(ctx, ev, inst)
		} else {
			writes, outcome = e.deposit(ctx, ev)
		}

	case xapay.KindInstruction:
		// Operator identity gates the whole path, before any payload work.
		if ev.Source != e.cfg.Operator {
			outcome = xapay.Reject(xapay.CodeUnauthorizedTrigger, "trigger source is not the configured operator")
			break
		}
		writes, outcome = e.instruction(ctx, ev)

	default:
		outcome = xapay.Commit("ignored: unrecognized event kind")
	}

	if outcome.Committed && len(writes) > 0 {
		if err := e.ledger.Apply(ctx, writes); err != nil {
			outcome = xapay.Reject(xapay.CodeStoreFailure, fmt.Sprintf("apply writes: %v", err))
		}
	}

	if outcome.Committed {
		e.logger.DebugContext(ctx, "invocation committed",
			"kind", string(ev.Kind),
			"source", ev.Source.Hex(),
			"message", outcome.Message)
	} else {
		e.logger.InfoContext(ctx, "invocation rejected",
			"kind", string(ev.Kind),
			"source", ev.Source.Hex(),
			"code", int(outcome.Code),
			"message", outcome.Message)
	}
	return outcome
}

// instruction decodes and dispatches an operator-submitted payload.
func (e *Engine) instruction(ctx context.Context, ev xapay.TriggerEvent) ([]xapay.Write, xapay.Outcome) {
	if len(ev.Memo) == 0 {
		return nil, xapay.Reject(xapay.CodeMissingField, "instruction event carries no payload")
	}
	inst, err := xapay.DecodeInstruction(ev.Memo)
	if err != nil {
		return nil, rejectError(err)
	}
	if err := validation.Instruction(inst); err != nil {
		return nil, rejectError(err)
	}

	switch inst.Type {
	case xapay.InstructionDirectPayment:
		return e.directPayment(ctx, inst)
	case xapay.InstructionAllowancePayment:
		return e.allowancePayment(ctx, inst)
	case xapay.InstructionUpdateAllowance:
		// The combined update rides on the value transfer that funds it.
		return nil, xapay.Reject(xapay.CodeMalformedPayload, "update_allowance must accompany a value transfer")
	default:
		return nil, xapay.Reject(xapay.CodeUnknownInstruction, fmt.Sprintf("unknown instruction type %q", inst.Type))
	}
}

// rechargePayload reports whether a value-transfer memo carries a recharge
// instruction. Anything else, including memos that are not instruction JSON
// at all, leaves the event on the pure deposit path.
func rechargePayload(memo []byte) *xapay.Instruction {
	if len(memo) == 0 {
		return nil
	}
	inst, err := xapay.DecodeInstruction(memo)
	if err != nil || inst.Type != xapay.InstructionUpdateAllowance {
		return nil
	}
	return inst
}

// rejectError maps a classified engine error to its terminal outcome.
func rejectError(err error) xapay.Outcome {
	var code xapay.Code
	switch {
	case errors.Is(err, xapay.ErrMissingField):
		code = xapay.CodeMissingField
	case errors.Is(err, xapay.ErrInvalidJSON):
		code = xapay.CodeInvalidJSON
	case errors.Is(err, xapay.ErrUnknownInstruction):
		code = xapay.CodeUnknownInstruction
	case errors.Is(err, xapay.ErrMalformedField),
		errors.Is(err, xapay.ErrInvalidNonce),
		errors.Is(err, xapay.ErrInvalidAmount):
		code = xapay.CodeMalformedPayload
	case errors.Is(err, xapay.ErrInvalidAddress):
		code = xapay.CodeInvalidAddress
	case errors.Is(err, xapay.ErrSignatureInvalid):
		code = xapay.CodeSignatureInvalid
	case errors.Is(err, xapay.ErrCredentialUnresolved):
		code = xapay.CodeCredentialUnresolved
	case errors.Is(err, xapay.ErrNonceReplayed):
		code = xapay.CodeNonceReplayed
	case errors.Is(err, xapay.ErrInsufficientBalance):
		code = xapay.CodeInsufficientBalance
	case errors.Is(err, xapay.ErrAllowanceExceeded):
		code = xapay.CodeAllowanceExceeded
	case errors.Is(err, xapay.ErrAmountOverflow):
		code = xapay.CodeAmountOverflow
	default:
		code = xapay.CodeStoreFailure
	}
	return xapay.Reject(code, err.Error())
}
