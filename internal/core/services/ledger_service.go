package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clearstream/hubledger/internal/apperrors"
	"github.com/clearstream/hubledger/internal/core/domain"
	portsrepo "github.com/clearstream/hubledger/internal/core/ports/repositories"
	portssvc "github.com/clearstream/hubledger/internal/core/ports/services"
	"github.com/clearstream/hubledger/internal/dto"
	"github.com/clearstream/hubledger/internal/middleware"
	"github.com/clearstream/hubledger/internal/utils/accounting"
	"github.com/clearstream/hubledger/internal/utils/moneycodec"
)

// liquidityCheckFailedMsg is reported when a reservation fails the liquidity
// check. The rejection is an expected business outcome, never a Go error.
const liquidityCheckFailedMsg = "payer liquidity check failed"

// ledgerService is the ledger aggregate: it enforces privileges, validates
// requests, runs the liquidity check and creates journal entries through the
// staging cache. A single mutex serializes every mutating call against the
// shared account cache; without it concurrent batches over overlapping
// accounts could break the non-negative balance invariant.
type ledgerService struct {
	journalRepo portsrepo.JournalRepository
	accountRepo portsrepo.AccountRepository
	currencySvc portssvc.CurrencySvcFacade
	privileges  portssvc.PrivilegeChecker
	cache       *accountCache

	mu sync.Mutex
}

// NewLedgerService creates the ledger aggregate. The cache must be the one
// shared with the account service so admin state changes invalidate it.
func NewLedgerService(
	journalRepo portsrepo.JournalRepository,
	accountRepo portsrepo.AccountRepository,
	currencySvc portssvc.CurrencySvcFacade,
	privileges portssvc.PrivilegeChecker,
	cache *accountCache,
) portssvc.LedgerSvcFacade {
	return &ledgerService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
		currencySvc: currencySvc,
		privileges:  privileges,
		cache:       cache,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateJournalEntry stores one entry with the immediate writer: the entry
// and both balance updates are persisted before the call returns.
func (s *ledgerService) CreateJournalEntry(ctx context.Context, caller domain.CallerContext, req dto.CreateJournalEntryRequest) (string, error) {
	if !s.privileges.HasPrivilege(ctx, caller, domain.PrivilegeCreateJournalEntries) {
		return "", fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, domain.PrivilegeCreateJournalEntries)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	writer := &immediateWriter{journalRepo: s.journalRepo, accountRepo: s.accountRepo}
	entry, err := s.createJournalEntry(ctx, req, false, writer)
	if err != nil {
		s.cache.invalidate([]string{req.DebitedAccountID, req.CreditedAccountID})
		return "", err
	}
	return entry.ID, nil
}

// CreateJournalEntries validates and stages every entry, then flushes once.
// The first failure aborts the batch: nothing staged is persisted and the
// touched cache entries are invalidated so later reads see stored state.
func (s *ledgerService) CreateJournalEntries(ctx context.Context, caller domain.CallerContext, reqs []dto.CreateJournalEntryRequest) ([]string, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !s.privileges.HasPrivilege(ctx, caller, domain.PrivilegeCreateJournalEntries) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, domain.PrivilegeCreateJournalEntries)
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: no journal entries provided", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := newLedgerBatch()
	writer := &batchedWriter{batch: batch}

	ids := make([]string, 0, len(reqs))
	for i := range reqs {
		entry, err := s.createJournalEntry(ctx, reqs[i], false, writer)
		if err != nil {
			s.cache.invalidate(batch.dirtyAccountIDs())
			return nil, err
		}
		ids = append(ids, entry.ID)
	}

	if err := s.flush(ctx, batch); err != nil {
		s.cache.invalidate(batch.dirtyAccountIDs())
		return nil, err
	}

	logger.Info("Journal entries created", slog.Int("count", len(ids)))
	return ids, nil
}

// ProcessHighLevelBatch evaluates the requests strictly in array order.
// Business outcomes (validation, not-found, liquidity rejection) are captured
// in that request's response entry and the batch continues; a system error
// aborts the remaining requests and propagates. Exactly one flush runs after
// all requests were evaluated.
func (s *ledgerService) ProcessHighLevelBatch(ctx context.Context, caller domain.CallerContext, reqs []domain.HighLevelRequest) ([]domain.HighLevelResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !s.privileges.HasPrivilege(ctx, caller, domain.PrivilegeProcessHighLevelBatch) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, domain.PrivilegeProcessHighLevelBatch)
	}
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: no high-level requests provided", apperrors.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batch := newLedgerBatch()
	writer := &batchedWriter{batch: batch}

	responses := make([]domain.HighLevelResponse, 0, len(reqs))
	for _, req := range reqs {
		reserved := true
		var err error

		switch r := req.(type) {
		case domain.CheckLiquidAndReserve:
			reserved, err = s.checkLiquidAndReserve(ctx, r, writer)
		case domain.CancelReservationAndCommit:
			err = s.cancelReservationAndCommit(ctx, r, writer)
		case domain.CancelReservation:
			err = s.cancelReservation(ctx, r, writer)
		default:
			// The sum type is sealed; reaching this is a programming error.
			err = fmt.Errorf("%w: unhandled high-level request type %T", apperrors.ErrInternal, req)
		}

		resp := domain.HighLevelResponse{
			RequestID:   req.RequestID(),
			RequestType: req.Type(),
			Success:     err == nil && reserved,
		}
		switch {
		case err != nil && isBusinessFailure(err):
			logger.Warn("High-level request rejected",
				slog.String("request_id", req.RequestID()),
				slog.String("request_type", string(req.Type())),
				slog.String("error", err.Error()))
			resp.ErrorMessage = err.Error()
		case err != nil:
			s.cache.invalidate(batch.dirtyAccountIDs())
			logger.Error("High-level batch aborted",
				slog.String("request_id", req.RequestID()),
				slog.String("error", err.Error()))
			return nil, err
		case !reserved:
			resp.ErrorMessage = liquidityCheckFailedMsg
		}
		responses = append(responses, resp)
	}

	if err := s.flush(ctx, batch); err != nil {
		s.cache.invalidate(batch.dirtyAccountIDs())
		return nil, err
	}

	logger.Info("High-level batch processed",
		slog.Int("requests", len(reqs)),
		slog.Int("entries_flushed", len(batch.entries)))
	return responses, nil
}

// checkLiquidAndReserve gates a transfer on the payer's liquidity. An
// insufficient balance returns (false, nil) with no side effect; a pass
// creates one pending entry debiting the payer position and crediting the
// hub account, tagged with the transfer id.
func (s *ledgerService) checkLiquidAndReserve(ctx context.Context, req domain.CheckLiquidAndReserve, w journalWriter) (bool, error) {
	currency, err := s.currencySvc.GetCurrencyByCode(ctx, req.CurrencyCode)
	if err != nil {
		return false, err
	}

	amount, err := moneycodec.StringToInt(req.Amount, currency.Decimals)
	if err != nil {
		return false, fmt.Errorf("%w: invalid transfer amount: %s", apperrors.ErrValidation, err.Error())
	}
	netDebitCap, err := moneycodec.StringToInt(req.PayerNetDebitCap, currency.Decimals)
	if err != nil {
		return false, fmt.Errorf("%w: invalid net debit cap: %s", apperrors.ErrValidation, err.Error())
	}

	accounts, err := s.cache.getAccounts(ctx, []string{req.PayerPositionAccountID, req.PayerLiquidityAccountID})
	if err != nil {
		return false, err
	}
	position, ok := accounts[req.PayerPositionAccountID]
	if !ok {
		return false, fmt.Errorf("%w: payer position account %s", apperrors.ErrNotFound, req.PayerPositionAccountID)
	}
	liquidity, ok := accounts[req.PayerLiquidityAccountID]
	if !ok {
		return false, fmt.Errorf("%w: payer liquidity account %s", apperrors.ErrNotFound, req.PayerLiquidityAccountID)
	}

	if !accounting.CheckLiquidity(position, liquidity, amount, netDebitCap) {
		return false, nil
	}

	_, err = s.createJournalEntry(ctx, dto.CreateJournalEntryRequest{
		OwnerID:           req.TransferID,
		CurrencyCode:      req.CurrencyCode,
		Amount:            req.Amount,
		Pending:           true,
		DebitedAccountID:  req.PayerPositionAccountID,
		CreditedAccountID: req.HubAccountID,
	}, false, w)
	if err != nil {
		return false, err
	}
	return true, nil
}

// cancelReservationAndCommit releases the reservation, then posts the
// settlement leg. If the settlement leg fails after the reversal leg was
// applied, no automatic compensation runs; in the staged path the flush is
// skipped on system errors, but a business failure of the second leg leaves
// the flushed ledger missing the settlement. Remediation is an explicit
// compensating entry or an atomically-linked store.
func (s *ledgerService) cancelReservationAndCommit(ctx context.Context, req domain.CancelReservationAndCommit, w journalWriter) error {
	_, err := s.createJournalEntry(ctx, dto.CreateJournalEntryRequest{
		OwnerID:           req.TransferID,
		CurrencyCode:      req.CurrencyCode,
		Amount:            req.Amount,
		Pending:           true,
		DebitedAccountID:  req.HubAccountID,
		CreditedAccountID: req.PayerPositionAccountID,
	}, true, w)
	if err != nil {
		return err
	}

	_, err = s.createJournalEntry(ctx, dto.CreateJournalEntryRequest{
		OwnerID:           req.TransferID,
		CurrencyCode:      req.CurrencyCode,
		Amount:            req.Amount,
		Pending:           false,
		DebitedAccountID:  req.PayerPositionAccountID,
		CreditedAccountID: req.PayeePositionAccountID,
	}, false, w)
	return err
}

// cancelReservation releases the reservation without settling it.
func (s *ledgerService) cancelReservation(ctx context.Context, req domain.CancelReservation, w journalWriter) error {
	_, err := s.createJournalEntry(ctx, dto.CreateJournalEntryRequest{
		OwnerID:           req.TransferID,
		CurrencyCode:      req.CurrencyCode,
		Amount:            req.Amount,
		Pending:           true,
		DebitedAccountID:  req.HubAccountID,
		CreditedAccountID: req.PayerPositionAccountID,
	}, true, w)
	return err
}

// createJournalEntry is the single routine every protocol step builds on.
// It validates the request, converts the amount, fetches both accounts
// through the cache, applies the balance movement (guarded to stay >= 0)
// and hands the entry to the selected writer.
//
// A normal entry adds amount to the debited account's debit balance and the
// credited account's credit balance of the pair selected by pending. A
// reversal entry undoes the prior mirrored entry: it subtracts amount from
// the debited account's credit balance and the credited account's debit
// balance. Reversals are only produced internally by the cancel paths.
func (s *ledgerService) createJournalEntry(ctx context.Context, req dto.CreateJournalEntryRequest, reversal bool, w journalWriter) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.CurrencyCode == "" || req.Amount == "" || req.DebitedAccountID == "" || req.CreditedAccountID == "" {
		return nil, fmt.Errorf("%w: currencyCode, amount, debitedAccountId and creditedAccountId are required", apperrors.ErrValidation)
	}
	if req.DebitedAccountID == req.CreditedAccountID {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, domain.ErrSameAccount.Error())
	}

	currency, err := s.currencySvc.GetCurrencyByCode(ctx, req.CurrencyCode)
	if err != nil {
		return nil, err
	}

	amount, err := moneycodec.StringToInt(req.Amount, currency.Decimals)
	if err != nil || amount <= 0 {
		return nil, fmt.Errorf("%w: invalid journal entry amount %q", apperrors.ErrValidation, req.Amount)
	}

	accounts, err := s.cache.getAccounts(ctx, []string{req.DebitedAccountID, req.CreditedAccountID})
	if err != nil {
		return nil, err
	}
	debited, ok := accounts[req.DebitedAccountID]
	if !ok {
		return nil, fmt.Errorf("%w: debited account %s", apperrors.ErrNotFound, req.DebitedAccountID)
	}
	credited, ok := accounts[req.CreditedAccountID]
	if !ok {
		return nil, fmt.Errorf("%w: credited account %s", apperrors.ErrNotFound, req.CreditedAccountID)
	}

	for _, acc := range []*domain.Account{debited, credited} {
		if acc.CurrencyCode != currency.Code || acc.CurrencyDecimals != currency.Decimals {
			return nil, fmt.Errorf("%w: account %s currency %s/%d does not match entry currency %s/%d",
				apperrors.ErrValidation, acc.ID, acc.CurrencyCode, acc.CurrencyDecimals, currency.Code, currency.Decimals)
		}
	}

	now := time.Now().UnixMilli()
	entry := domain.JournalEntry{
		ID:                uuid.NewString(),
		OwnerID:           req.OwnerID,
		CurrencyCode:      currency.Code,
		CurrencyDecimals:  currency.Decimals,
		Amount:            amount,
		Pending:           req.Pending,
		DebitedAccountID:  req.DebitedAccountID,
		CreditedAccountID: req.CreditedAccountID,
		Timestamp:         now,
	}
	if err := entry.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
	}

	var newDebitBalance, newCreditBalance int64
	if reversal {
		// Undo the mirrored entry: the debited side of the reversal carried
		// the credit, and vice versa.
		newCreditBalance = debited.CreditBalance(entry.Pending) - amount
		newDebitBalance = credited.DebitBalance(entry.Pending) - amount
	} else {
		newDebitBalance = debited.DebitBalance(entry.Pending) + amount
		newCreditBalance = credited.CreditBalance(entry.Pending) + amount
	}
	if newDebitBalance < 0 || newCreditBalance < 0 {
		// A balance below zero is an invariant violation, not a business
		// rejection: it means a bug or an unmatched reversal upstream.
		err := fmt.Errorf("%w: entry %s would drive a balance negative (debit %d, credit %d)",
			apperrors.ErrConsistency, entry.ID, newDebitBalance, newCreditBalance)
		logger.Error("Ledger consistency guard tripped",
			slog.String("entry_id", entry.ID),
			slog.String("debited_account_id", debited.ID),
			slog.String("credited_account_id", credited.ID),
			slog.Int64("amount", amount))
		return nil, err
	}

	if reversal {
		debited.SetCreditBalance(entry.Pending, newCreditBalance)
		credited.SetDebitBalance(entry.Pending, newDebitBalance)
	} else {
		debited.SetDebitBalance(entry.Pending, newDebitBalance)
		credited.SetCreditBalance(entry.Pending, newCreditBalance)
	}
	debited.TimestampLastJournalEntry = &entry.Timestamp
	credited.TimestampLastJournalEntry = &entry.Timestamp

	if err := w.writeEntry(ctx, entry, debited, credited); err != nil {
		return nil, err
	}
	return &entry, nil
}

// flush bulk-persists the staged journal entries, then the full current
// state of every account mutated during the batch, then clears the staging
// buffer. Durability is guaranteed only after flush returns; the account
// cache itself is not evicted.
func (s *ledgerService) flush(ctx context.Context, batch *ledgerBatch) error {
	if len(batch.entries) > 0 {
		if err := s.journalRepo.SaveJournalEntries(ctx, batch.entries); err != nil {
			return fmt.Errorf("failed to flush journal entries: %w", err)
		}
	}
	if len(batch.dirty) > 0 {
		accounts := make([]domain.Account, 0, len(batch.dirty))
		for _, acc := range batch.dirty {
			accounts = append(accounts, *acc)
		}
		if err := s.accountRepo.UpdateAccounts(ctx, accounts); err != nil {
			return fmt.Errorf("failed to flush account balances: %w", err)
		}
	}
	batch.entries = nil
	batch.dirty = make(map[string]*domain.Account)
	return nil
}

// isBusinessFailure classifies the errors captured per request inside a
// high-level batch; everything else aborts the batch.
func isBusinessFailure(err error) bool {
	return errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrUnauthorized)
}
