package repositories

import (
	"context"

	"github.com/clearstream/hubledger/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountsByIDs retrieves the accounts whose ids are in accountIDs.
	// Missing ids are silently omitted from the result; a partial miss is
	// never an error.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account. Returns apperrors.ErrDuplicate if
	// an account with the same id already exists.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccounts bulk-replaces the full stored state of each account.
	UpdateAccounts(ctx context.Context, accounts []domain.Account) error

	// UpdateAccountStatesByIDs sets the state of every listed account.
	UpdateAccountStatesByIDs(ctx context.Context, accountIDs []string, state domain.AccountState) error
}

// AccountRepository combines all account store operations.
type AccountRepository interface {
	AccountReader
	AccountWriter
}
