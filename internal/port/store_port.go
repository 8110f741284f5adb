package port

import "context"

// Store bundles the repositories with an explicit transaction capability,
// so finalization does not depend on any ambient transaction state.
type Store interface {
	Products() ProductRepository
	Orders() OrderRepository

	// WithinTx runs fn against repositories bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	// Calling WithinTx on a store that is itself transaction-bound opens a
	// savepoint, so finalization composes with an outer transaction.
	WithinTx(ctx context.Context, fn func(s Store) error) error
}
