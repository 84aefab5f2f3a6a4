package repositories

import (
	"context"
)

// TransactionManager runs fn inside a single storage transaction.
// The transaction travels in ctx; repository calls made with that ctx join it.
// A nested RunInTransaction joins the outer transaction instead of opening a new one.
// If fn returns an error the transaction is rolled back and the error is returned unchanged.
type TransactionManager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// RepositoryWithTx is a marker interface for repositories that support transactions
type RepositoryWithTx interface {
	TransactionManager
}
