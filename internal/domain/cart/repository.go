package cart

import "context"

// Store is the durable key-value persistence contract for the cart and the
// saved recipient identity. All writes are full-document replaces; partial
// patches are not part of the contract, which keeps interleaved writers from
// structurally corrupting the collection.
//
// Implementations wrap backend failures as STORAGE_ERROR domain errors.
type Store interface {
	// ReadCart returns the current cart, or an empty cart when the store is
	// uninitialized. "Not found" is never an error.
	ReadCart(ctx context.Context) (Cart, error)
	// WriteCart replaces the whole cart collection.
	WriteCart(ctx context.Context, items Cart) error

	// ReadIdentity returns the saved recipient identity, or nil when none has
	// been saved yet.
	ReadIdentity(ctx context.Context) (*RecipientIdentity, error)
	// WriteIdentity overwrites the saved recipient identity.
	WriteIdentity(ctx context.Context, identity RecipientIdentity) error
}
