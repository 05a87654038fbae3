package engine

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/xapay/xapay-go"
	"github.com/xapay/xapay-go/address"
	"github.com/xapay/xapay-go/validation"
)

// recharge handles a value transfer carrying an allowance-update payload:
// the deposit credit and the allowance replacement commit together or not at
// all. Unlike a pure deposit, a mismatched asset is a hard error here; the
// caller explicitly asked for the combined operation.
func (e *Engine) recharge(ctx context.Context, ev xapay.TriggerEvent, inst *xapay.Instruction) ([]xapay.Write, xapay.Outcome) {
	if ev.Amount == nil {
		return nil, xapay.Reject(xapay.CodeMissingField, "recharge transfer carries no amount")
	}
	if ev.Amount.Issuer != e.cfg.Issuer {
		return nil, xapay.Reject(xapay.CodeIssuerMismatch, "recharge asset issuer does not match")
	}
	if ev.Amount.Currency != e.cfg.Currency {
		return nil, xapay.Reject(xapay.CodeCurrencyMismatch, "recharge asset currency does not match")
	}
	if !ev.Amount.Value.IsPositive() {
		return nil, xapay.Reject(xapay.CodeNonPositiveAmount, "recharge amount must be positive")
	}

	if err := validation.Instruction(inst); err != nil {
		return nil, rejectError(err)
	}
	payer, err := address.Decode(inst.UserAddress)
	if err != nil {
		return nil, rejectError(err)
	}
	if payer != ev.Source {
		return nil, xapay.Reject(xapay.CodeMalformedPayload, "user_address does not match the transferring account")
	}
	capAmount, err := xapay.ParseAmount(inst.AllowanceCap, e.cfg.Decimals)
	if err != nil {
		return nil, rejectError(err)
	}
	signature, err := hex.DecodeString(inst.Signature)
	if err != nil {
		return nil, xapay.Reject(xapay.CodeMalformedPayload, fmt.Sprintf("signature: %v", err))
	}

	credential, err := e.resolver.Resolve(ctx, payer)
	if err != nil {
		return nil, rejectError(err)
	}
	message := xapay.AllowanceMessage(inst.UserAddress, e.operatorAddress, inst.AllowanceCap)
	if !e.verifier.Verify(message, signature, credential) {
		return nil, xapay.Reject(xapay.CodeSignatureInvalid, "signature does not authorize this allowance update")
	}

	balance, err := e.ledger.Balance(ctx, payer)
	if err != nil {
		return nil, rejectError(err)
	}
	updated, err := balance.Add(ev.Amount.Value)
	if err != nil {
		return nil, rejectError(err)
	}

	// The new signature keys a fresh authorization; its spent counter begins
	// at zero implicitly. Prior records stay where they are.
	writes := []xapay.Write{
		xapay.SetBalance(payer, updated),
		xapay.SetAllowanceRecord(payer, signature, capAmount),
	}
	msg := fmt.Sprintf("recharged %s %s for %s, balance %s, allowance cap %s",
		ev.Amount.Value.Format(e.cfg.Decimals),
		e.cfg.Currency.Code(),
		inst.UserAddress,
		updated.Format(e.cfg.Decimals),
		capAmount.Format(e.cfg.Decimals))
	return writes, xapay.Commit(msg)
}
