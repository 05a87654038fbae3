package xapay

import "context"

// Write is one pending key/value mutation. Handlers accumulate writes while
// validating and hand the full batch to Store.Apply only after every check
// has passed; the store never sees a partial invocation.
type Write struct {
	Key   []byte
	Value []byte
}

// Store is the persistent key-value ledger abstraction. The engine is the
// only writer within an invocation; the host serializes invocations, so
// implementations need no cross-invocation coordination beyond making Apply
// atomic.
type Store interface {
	// Get returns the value for key, or an error wrapping ErrNotFound.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Has reports whether key has a persisted entry.
	Has(ctx context.Context, key []byte) (bool, error)

	// Apply commits all writes together; either every write takes effect
	// or none do.
	Apply(ctx context.Context, writes []Write) error
}
