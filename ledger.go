package xapay

import (
	"context"
	"errors"
	"fmt"
)

// Keyspace prefixes. All persisted entities share one keyspace partitioned
// by a single semantic byte.
const (
	prefixBalance         = 0x55 // 'U': account id -> balance
	prefixNonce           = 0x4E // 'N': nonce -> presence marker
	prefixAllowanceSpent  = 0x41 // 'A': account id ++ signature -> spent
	prefixAllowanceRecord = 0x52 // 'R': account id ++ signature -> cap
)

// nonceMarker is the 1-byte presence value stored for consumed nonces.
var nonceMarker = []byte{1}

// BalanceKey returns the store key holding an account's balance.
func BalanceKey(account Account) []byte {
	key := make([]byte, 1+AccountLen)
	key[0] = prefixBalance
	copy(key[1:], account[:])
	return key
}

// NonceKey returns the store key marking a consumed nonce.
func NonceKey(nonce Nonce) []byte {
	key := make([]byte, 1+NonceLen)
	key[0] = prefixNonce
	copy(key[1:], nonce[:])
	return key
}

// AllowanceSpentKey returns the store key holding the cumulative spend under
// one allowance authorization. The signature itself is the authorization's
// identity: a fresh signature always starts a fresh counter.
func AllowanceSpentKey(account Account, signature []byte) []byte {
	key := make([]byte, 1+AccountLen+len(signature))
	key[0] = prefixAllowanceSpent
	copy(key[1:], account[:])
	copy(key[1+AccountLen:], signature)
	return key
}

// AllowanceRecordKey returns the store key holding the cap recorded for an
// allowance authorization at recharge time.
func AllowanceRecordKey(account Account, signature []byte) []byte {
	key := make([]byte, 1+AccountLen+len(signature))
	key[0] = prefixAllowanceRecord
	copy(key[1:], account[:])
	copy(key[1+AccountLen:], signature)
	return key
}

// Ledger wraps a Store with the engine's typed entity accessors. Unseen keys
// default to zero here, in one place, rather than at every call site.
type Ledger struct {
	store Store
}

// NewLedger wraps the given store.
func NewLedger(store Store) *Ledger {
	return &Ledger{store: store}
}

// Store returns the underlying key-value store.
func (l *Ledger) Store() Store {
	return l.store
}

// Balance returns the account's balance, zero when the account has never
// been referenced.
func (l *Ledger) Balance(ctx context.Context, account Account) (Amount, error) {
	raw, err := l.store.Get(ctx, BalanceKey(account))
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read balance: %w", err)
	}
	return DecodeAmount(raw)
}

// NonceUsed reports whether the nonce has been consumed.
func (l *Ledger) NonceUsed(ctx context.Context, nonce Nonce) (bool, error) {
	used, err := l.store.Has(ctx, NonceKey(nonce))
	if err != nil {
		return false, fmt.Errorf("read nonce: %w", err)
	}
	return used, nil
}

// AllowanceSpent returns the cumulative spend under the authorization
// identified by (account, signature), zero when unseen.
func (l *Ledger) AllowanceSpent(ctx context.Context, account Account, signature []byte) (Amount, error) {
	raw, err := l.store.Get(ctx, AllowanceSpentKey(account, signature))
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read allowance spent: %w", err)
	}
	return DecodeAmount(raw)
}

// AllowanceCap returns the cap recorded for (account, signature) at recharge
// time, reporting ok=false when no record exists.
func (l *Ledger) AllowanceCap(ctx context.Context, account Account, signature []byte) (Amount, bool, error) {
	raw, err := l.store.Get(ctx, AllowanceRecordKey(account, signature))
	if errors.Is(err, ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read allowance record: %w", err)
	}
	amount, err := DecodeAmount(raw)
	if err != nil {
		return 0, false, err
	}
	return amount, true, nil
}

// Apply commits a batch of writes through the underlying store.
func (l *Ledger) Apply(ctx context.Context, writes []Write) error {
	return l.store.Apply(ctx, writes)
}

// SetBalance builds the write persisting an account balance.
func SetBalance(account Account, amount Amount) Write {
	return Write{Key: BalanceKey(account), Value: amount.Encode()}
}

// MarkNonce builds the write marking a nonce consumed.
func MarkNonce(nonce Nonce) Write {
	return Write{Key: NonceKey(nonce), Value: nonceMarker}
}

// SetAllowanceSpent builds the write persisting cumulative allowance spend.
func SetAllowanceSpent(account Account, signature []byte, spent Amount) Write {
	return Write{Key: AllowanceSpentKey(account, signature), Value: spent.Encode()}
}

// SetAllowanceRecord builds the write persisting an allowance cap record.
func SetAllowanceRecord(account Account, signature []byte, cap Amount) Write {
	return Write{Key: AllowanceRecordKey(account, signature), Value: cap.Encode()}
}
