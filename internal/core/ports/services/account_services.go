package services

import (
	"context"

	"github.com/clearstream/hubledger/internal/core/domain"
	"github.com/clearstream/hubledger/internal/dto"
)

// AccountSvcFacade covers account creation, lookup and the administrative
// state transitions. Accounts are never physically deleted.
type AccountSvcFacade interface {
	// CreateAccounts processes each request independently and returns one
	// requested-id/attributed-id mapping per created account. A failure on a
	// later request does not roll back accounts already created in the call.
	CreateAccounts(ctx context.Context, caller domain.CallerContext, reqs []dto.CreateAccountRequest) ([]dto.AccountIDMapping, error)

	// GetAccountsByIDs fetches accounts by id; missing ids are omitted.
	GetAccountsByIDs(ctx context.Context, caller domain.CallerContext, accountIDs []string) ([]domain.Account, error)

	// GetJournalEntriesByAccountID fetches all entries touching an account.
	GetJournalEntriesByAccountID(ctx context.Context, caller domain.CallerContext, accountID string) ([]domain.JournalEntry, error)

	// DeactivateAccountsByIDs moves ACTIVE accounts to INACTIVE.
	DeactivateAccountsByIDs(ctx context.Context, caller domain.CallerContext, accountIDs []string) error

	// ReactivateAccountsByIDs moves INACTIVE accounts back to ACTIVE.
	ReactivateAccountsByIDs(ctx context.Context, caller domain.CallerContext, accountIDs []string) error

	// DeleteAccountsByIDs marks accounts DELETED.
	DeleteAccountsByIDs(ctx context.Context, caller domain.CallerContext, accountIDs []string) error
}
