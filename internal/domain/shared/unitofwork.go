package shared

import "context"

// UnitOfWork runs a function inside a single all-or-nothing transaction.
// Repositories participating in the unit of work resolve the active
// transaction from the context passed to fn. If fn returns an error the
// transaction is rolled back and the error is returned to the caller.
type UnitOfWork interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
