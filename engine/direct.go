package engine

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/xapay/xapay-go"
	"github.com/xapay/xapay-go/address"
)

// directPayment debits the payer once under a nonce-bound signature. Check
// order is fixed: credential and signature first, then replay, then balance.
// A zero amount passes the balance check and still consumes the nonce; the
// authorization is spent even when nothing moves.
func (e *Engine) directPayment(ctx context.Context, inst *xapay.Instruction) ([]xapay.Write, xapay.Outcome) {
	payer, err := address.Decode(inst.UserAddress)
	if err != nil {
		return nil, rejectError(err)
	}
	amount, err := xapay.ParseAmount(inst.Amount, e.cfg.Decimals)
	if err != nil {
		return nil, rejectError(err)
	}
	nonce, err := xapay.NonceFromHex(inst.Nonce)
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
	if !e.verifier.Verify(xapay.NonceMessage(nonce), signature, credential) {
		return nil, xapay.Reject(xapay.CodeSignatureInvalid, "signature does not authorize this nonce")
	}

	used, err := e.ledger.NonceUsed(ctx, nonce)
	if err != nil {
		return nil, rejectError(err)
	}
	if used {
		return nil, xapay.Reject(xapay.CodeNonceReplayed, "nonce already consumed")
	}

	balance, err := e.ledger.Balance(ctx, payer)
	if err != nil {
		return nil, rejectError(err)
	}
	remaining, err := balance.Sub(amount)
	if err != nil {
		return nil, rejectError(err)
	}

	writes := []xapay.Write{
		xapay.SetBalance(payer, remaining),
		xapay.MarkNonce(nonce),
	}
	msg := fmt.Sprintf("paid %s %s from %s, balance %s",
		amount.Format(e.cfg.Decimals),
		e.cfg.Currency.Code(),
		inst.UserAddress,
		remaining.Format(e.cfg.Decimals))
	return writes, xapay.Commit(msg)
}
