package engine

import (
	"context"
	"fmt"

	"github.com/xapay/xapay-go"
)

// deposit folds a matching value transfer into the sender's balance.
// Transfers of any other asset are accepted without effect: trigger events
// may legitimately carry unrelated assets, and treating them as errors would
// make the engine reject traffic it was never meant to account for.
func (e *Engine) deposit(ctx context.Context, ev xapay.TriggerEvent) ([]xapay.Write, xapay.Outcome) {
	if ev.Amount == nil {
		return nil, xapay.Commit("ignored: transfer carries no amount")
	}
	if ev.Amount.Issuer != e.cfg.Issuer {
		return nil, xapay.Commit("ignored: unrelated issuer")
	}
	if ev.Amount.Currency != e.cfg.Currency {
		return nil, xapay.Commit("ignored: unrelated currency")
	}
	if !ev.Amount.Value.IsPositive() {
		return nil, xapay.Reject(xapay.CodeNonPositiveAmount, "deposit amount must be positive")
	}

	balance, err := e.ledger.Balance(ctx, ev.Source)
	if err != nil {
		return nil, rejectError(err)
	}
	updated, err := balance.Add(ev.Amount.Value)
	if err != nil {
		return nil, rejectError(err)
	}

	writes := []xapay.Write{xapay.SetBalance(ev.Source, updated)}
	msg := fmt.Sprintf("deposited %s %s, balance %s",
		ev.Amount.Value.Format(e.cfg.Decimals),
		e.cfg.Currency.Code(),
		updated.Format(e.cfg.Decimals))
	return writes, xapay.Commit(msg)
}
