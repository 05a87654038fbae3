package engine

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/xapay/xapay-go"
	"github.com/xapay/xapay-go/address"
)

// allowancePayment debits the payer under a signed cumulative-cap
// authorization. The signature bytes key the authorization's state: a fresh
// signature starts a fresh spent counter at zero, while re-presenting a
// previously seen signature accumulates against the same counter.
func (e *Engine) allowancePayment(ctx context.Context, inst *xapay.Instruction) ([]xapay.Write, xapay.Outcome) {
	payer, err := address.Decode(inst.UserAddress)
	if err != nil {
		return nil, rejectError(err)
	}
	payment, err := xapay.ParseAmount(inst.PaymentAmount, e.cfg.Decimals)
	if err != nil {
		return nil, rejectError(err)
	}
	capAmount, err := xapay.ParseAmount(inst.Allowance.Amount, e.cfg.Decimals)
	if err != nil {
		return nil, rejectError(err)
	}
	signature, err := hex.DecodeString(inst.Allowance.Signature)
	if err != nil {
		return nil, xapay.Reject(xapay.CodeMalformedPayload, fmt.Sprintf("allowance.signature: %v", err))
	}

	// The message binds (payer, operator, cap): the cap literal is verified
	// byte-for-byte as supplied, so reformatting it invalidates the signature.
	credential, err := e.resolver.Resolve(ctx, payer)
	if err != nil {
		return nil, rejectError(err)
	}
	message := xapay.AllowanceMessage(inst.UserAddress, e.operatorAddress, inst.Allowance.Amount)
	if !e.verifier.Verify(message, signature, credential) {
		return nil, xapay.Reject(xapay.CodeSignatureInvalid, "signature does not authorize this allowance")
	}

	spent, err := e.ledger.AllowanceSpent(ctx, payer, signature)
	if err != nil {
		return nil, rejectError(err)
	}
	newSpent, err := spent.Add(payment)
	if err != nil {
		return nil, rejectError(err)
	}
	if newSpent > capAmount {
		return nil, xapay.Reject(xapay.CodeAllowanceExceeded,
			fmt.Sprintf("cumulative spend %s exceeds cap %s",
				newSpent.Format(e.cfg.Decimals), capAmount.Format(e.cfg.Decimals)))
	}

	balance, err := e.ledger.Balance(ctx, payer)
	if err != nil {
		return nil, rejectError(err)
	}
	remaining, err := balance.Sub(payment)
	if err != nil {
		return nil, rejectError(err)
	}

	writes := []xapay.Write{
		xapay.SetBalance(payer, remaining),
		xapay.SetAllowanceSpent(payer, signature, newSpent),
	}
	msg := fmt.Sprintf("paid %s %s from %s under allowance, spent %s of %s",
		payment.Format(e.cfg.Decimals),
		e.cfg.Currency.Code(),
		inst.UserAddress,
		newSpent.Format(e.cfg.Decimals),
		capAmount.Format(e.cfg.Decimals))
	return writes, xapay.Commit(msg)
}
