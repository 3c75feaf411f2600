package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/clearstream/hubledger/internal/apperrors"
	"github.com/clearstream/hubledger/internal/core/domain"
	portsrepo "github.com/clearstream/hubledger/internal/core/ports/repositories"
	portssvc "github.com/clearstream/hubledger/internal/core/ports/services"
	"github.com/clearstream/hubledger/internal/dto"
	"github.com/clearstream/hubledger/internal/middleware"
)

// accountService handles account creation, lookup and the administrative
// state transitions. State changes invalidate the shared account cache so an
// in-flight ledger instance never keeps serving a deactivated account from
// memory.
type accountService struct {
	accountRepo portsrepo.AccountRepository
	journalRepo portsrepo.JournalReader
	currencySvc portssvc.CurrencySvcFacade
	privileges  portssvc.PrivilegeChecker
	cache       *accountCache
}

// NewAccountService creates the account service.
func NewAccountService(
	accountRepo portsrepo.AccountRepository,
	journalRepo portsrepo.JournalReader,
	currencySvc portssvc.CurrencySvcFacade,
	privileges portssvc.PrivilegeChecker,
	cache *accountCache,
) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		currencySvc: currencySvc,
		privileges:  privileges,
		cache:       cache,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccounts processes each request independently: a failure on one does
// not roll back accounts already created in the same call. The partial
// mappings are returned alongside the error in that case.
func (s *accountService) CreateAccounts(ctx context.Context, caller domain.CallerContext, reqs []dto.CreateAccountRequest) ([]dto.AccountIDMapping, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !s.privileges.HasPrivilege(ctx, caller, domain.PrivilegeCreateAccounts) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, domain.PrivilegeCreateAccounts)
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: no accounts provided", apperrors.ErrValidation)
	}

	mappings := make([]dto.AccountIDMapping, 0, len(reqs))
	for _, req := range reqs {
		accountType := domain.AccountType(req.Type)
		if !domain.ValidAccountType(accountType) {
			return mappings, fmt.Errorf("%w: invalid account type %q", apperrors.ErrValidation, req.Type)
		}

		currency, err := s.currencySvc.GetCurrencyByCode(ctx, req.CurrencyCode)
		if err != nil {
			return mappings, err
		}

		attributedID := req.RequestedID
		if attributedID == "" {
			attributedID = uuid.NewString()
		}

		account := domain.Account{
			ID:               attributedID,
			State:            domain.AccountStateActive,
			Type:             accountType,
			CurrencyCode:     currency.Code,
			CurrencyDecimals: currency.Decimals,
		}

		err = s.accountRepo.SaveAccount(ctx, account)
		if errors.Is(err, apperrors.ErrDuplicate) && req.RequestedID != "" {
			// The requested id is taken; silently attribute a fresh one.
			account.ID = uuid.NewString()
			attributedID = account.ID
			err = s.accountRepo.SaveAccount(ctx, account)
		}
		if err != nil {
			logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_id", account.ID))
			return mappings, err
		}

		mappings = append(mappings, dto.AccountIDMapping{
			RequestedID:  req.RequestedID,
			AttributedID: attributedID,
		})
	}

	logger.Info("Accounts created", slog.Int("count", len(mappings)))
	return mappings, nil
}

// GetAccountsByIDs reads straight from the store; missing ids are omitted.
func (s *accountService) GetAccountsByIDs(ctx context.Context, caller domain.CallerContext, accountIDs []string) ([]domain.Account, error) {
	if !s.privileges.HasPrivilege(ctx, caller, domain.PrivilegeViewAccounts) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, domain.PrivilegeViewAccounts)
	}
	if len(accountIDs) == 0 {
		return nil, fmt.Errorf("%w: no account ids provided", apperrors.ErrValidation)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	return accounts, nil
}

// GetJournalEntriesByAccountID fetches every entry touching the account.
func (s *accountService) GetJournalEntriesByAccountID(ctx context.Context, caller domain.CallerContext, accountID string) ([]domain.JournalEntry, error) {
	if !s.privileges.HasPrivilege(ctx, caller, domain.PrivilegeViewJournalEntries) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, domain.PrivilegeViewJournalEntries)
	}
	if accountID == "" {
		return nil, fmt.Errorf("%w: account id is required", apperrors.ErrValidation)
	}

	entries, err := s.journalRepo.FindJournalEntriesByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch journal entries for account %s: %w", accountID, err)
	}
	return entries, nil
}

// DeactivateAccountsByIDs moves ACTIVE accounts to INACTIVE.
func (s *accountService) DeactivateAccountsByIDs(ctx context.Context, caller domain.CallerContext, accountIDs []string) error {
	return s.changeAccountStates(ctx, caller, accountIDs, domain.AccountStateActive, domain.AccountStateInactive)
}

// ReactivateAccountsByIDs moves INACTIVE accounts back to ACTIVE.
func (s *accountService) ReactivateAccountsByIDs(ctx context.Context, caller domain.CallerContext, accountIDs []string) error {
	return s.changeAccountStates(ctx, caller, accountIDs, domain.AccountStateInactive, domain.AccountStateActive)
}

// DeleteAccountsByIDs marks accounts DELETED. Accounts are never physically
// removed; their journal history stays intact.
func (s *accountService) DeleteAccountsByIDs(ctx context.Context, caller domain.CallerContext, accountIDs []string) error {
	return s.changeAccountStates(ctx, caller, accountIDs, "", domain.AccountStateDeleted)
}

// changeAccountStates performs one bulk state transition. fromState empty
// means any non-deleted state is acceptable. The shared cache is invalidated
// after the store update so the aggregate re-reads the new states.
func (s *accountService) changeAccountStates(ctx context.Context, caller domain.CallerContext, accountIDs []string, fromState, toState domain.AccountState) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !s.privileges.HasPrivilege(ctx, caller, domain.PrivilegeChangeAccountState) {
		return fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, domain.PrivilegeChangeAccountState)
	}
	if len(accountIDs) == 0 {
		return fmt.Errorf("%w: no account ids provided", apperrors.ErrValidation)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to fetch accounts for state change: %w", err)
	}
	found := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		found[acc.ID] = acc
	}
	for _, id := range accountIDs {
		acc, ok := found[id]
		if !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, id)
		}
		if acc.State == domain.AccountStateDeleted {
			return fmt.Errorf("%w: account %s is deleted", apperrors.ErrValidation, id)
		}
		if fromState != "" && acc.State != fromState {
			return fmt.Errorf("%w: account %s is %s, expected %s", apperrors.ErrValidation, id, acc.State, fromState)
		}
	}

	if err := s.accountRepo.UpdateAccountStatesByIDs(ctx, accountIDs, toState); err != nil {
		return fmt.Errorf("failed to update account states: %w", err)
	}
	s.cache.invalidate(accountIDs)

	logger.Info("Account states changed",
		slog.Int("count", len(accountIDs)),
		slog.String("state", string(toState)))
	return nil
}
