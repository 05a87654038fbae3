package keys

import (
	"context"
	"fmt"
	"sync"

	"github.com/xapay/xapay-go"
)

// Directory is an in-process credential resolver: a registry of the master
// and regular public keys bound to each account. Resolution prefers the
// regular key when one is set and falls back to the master key, matching
// the credential model of the triggering ledger.
type Directory struct {
	mu      sync.RWMutex
	master  map[xapay.Account][]byte
	regular map[xapay.Account][]byte
}

// NewDirectory creates an empty credential directory.
func NewDirectory() *Directory {
	return &Directory{
		master:  make(map[xapay.Account][]byte),
		regular: make(map[xapay.Account][]byte),
	}
}

// RegisterMaster binds an account's master public key.
func (d *Directory) RegisterMaster(account xapay.Account, publicKey []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.master[account] = append([]byte(nil), publicKey...)
}

// SetRegularKey binds or replaces an account's regular public key.
func (d *Directory) SetRegularKey(account xapay.Account, publicKey []byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.regular[account] = append([]byte(nil), publicKey...)
}

// ClearRegularKey removes an account's regular key, restoring master-key
// resolution.
func (d *Directory) ClearRegularKey(account xapay.Account) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.regular, account)
}

// Resolve implements xapay.CredentialResolver.
func (d *Directory) Resolve(_ context.Context, account xapay.Account) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if key, ok := d.regular[account]; ok {
		return append([]byte(nil), key...), nil
	}
	if key, ok := d.master[account]; ok {
		return append([]byte(nil), key...), nil
	}
	return nil, fmt.Errorf("%w: account %s", xapay.ErrCredentialUnresolved, account.Hex())
}
