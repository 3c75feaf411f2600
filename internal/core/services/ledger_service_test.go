package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearstream/hubledger/internal/apperrors"
	"github.com/clearstream/hubledger/internal/core/domain"
	portssvc "github.com/clearstream/hubledger/internal/core/ports/services"
	"github.com/clearstream/hubledger/internal/dto"
)

// memAccountRepo is an in-memory account store for service tests.
type memAccountRepo struct {
	accounts           map[string]domain.Account
	updateAccountCalls int
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: make(map[string]domain.Account)}
}

func (r *memAccountRepo) FindAccountsByIDs(_ context.Context, accountIDs []string) ([]domain.Account, error) {
	var result []domain.Account
	for _, id := range accountIDs {
		if acc, ok := r.accounts[id]; ok {
			result = append(result, acc)
		}
	}
	return result, nil
}

func (r *memAccountRepo) SaveAccount(_ context.Context, account domain.Account) error {
	if _, ok := r.accounts[account.ID]; ok {
		return fmt.Errorf("%w: account %s", apperrors.ErrDuplicate, account.ID)
	}
	r.accounts[account.ID] = account
	return nil
}

func (r *memAccountRepo) UpdateAccounts(_ context.Context, accounts []domain.Account) error {
	r.updateAccountCalls++
	for _, acc := range accounts {
		if _, ok := r.accounts[acc.ID]; !ok {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, acc.ID)
		}
		r.accounts[acc.ID] = acc
	}
	return nil
}

func (r *memAccountRepo) UpdateAccountStatesByIDs(_ context.Context, accountIDs []string, state domain.AccountState) error {
	for _, id := range accountIDs {
		acc := r.accounts[id]
		acc.State = state
		r.accounts[id] = acc
	}
	return nil
}

// memJournalRepo is an in-memory journal store that counts bulk saves.
type memJournalRepo struct {
	entries       []domain.JournalEntry
	bulkSaveCalls int
}

func (r *memJournalRepo) SaveJournalEntry(_ context.Context, entry domain.JournalEntry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memJournalRepo) SaveJournalEntries(_ context.Context, entries []domain.JournalEntry) error {
	r.bulkSaveCalls++
	r.entries = append(r.entries, entries...)
	return nil
}

func (r *memJournalRepo) FindJournalEntriesByAccountID(_ context.Context, accountID string) ([]domain.JournalEntry, error) {
	var result []domain.JournalEntry
	for _, e := range r.entries {
		if e.DebitedAccountID == accountID || e.CreditedAccountID == accountID {
			result = append(result, e)
		}
	}
	return result, nil
}

// memCurrencyRepo is an in-memory currency directory.
type memCurrencyRepo struct {
	currencies map[string]domain.Currency
}

func (r *memCurrencyRepo) FindCurrencyByCode(_ context.Context, code string) (*domain.Currency, error) {
	if c, ok := r.currencies[code]; ok {
		return &c, nil
	}
	return nil, fmt.Errorf("%w: currency %s", apperrors.ErrNotFound, code)
}

func (r *memCurrencyRepo) ListCurrencies(_ context.Context) ([]domain.Currency, error) {
	var result []domain.Currency
	for _, c := range r.currencies {
		result = append(result, c)
	}
	return result, nil
}

func (r *memCurrencyRepo) SaveCurrency(_ context.Context, currency domain.Currency) error {
	if _, ok := r.currencies[currency.Code]; ok {
		return fmt.Errorf("%w: currency %s", apperrors.ErrDuplicate, currency.Code)
	}
	r.currencies[currency.Code] = currency
	return nil
}

// ledgerFixture bundles the aggregate with its in-memory stores.
type ledgerFixture struct {
	ledger      portssvc.LedgerSvcFacade
	accountRepo *memAccountRepo
	journalRepo *memJournalRepo
	cache       *accountCache
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()

	accountRepo := newMemAccountRepo()
	journalRepo := &memJournalRepo{}
	currencyRepo := &memCurrencyRepo{currencies: map[string]domain.Currency{
		"EUR": {Code: "EUR", Decimals: 2},
		"JPY": {Code: "JPY", Decimals: 0},
	}}

	privileges := NewPrivilegeService()
	currencySvc := NewCurrencyService(currencyRepo, privileges)
	cache := newAccountCache(accountRepo)

	return &ledgerFixture{
		ledger:      NewLedgerService(journalRepo, accountRepo, currencySvc, privileges, cache),
		accountRepo: accountRepo,
		journalRepo: journalRepo,
		cache:       cache,
	}
}

func (f *ledgerFixture) addAccount(id string, accType domain.AccountType, postedCredit int64) {
	f.accountRepo.accounts[id] = domain.Account{
		ID:                  id,
		State:               domain.AccountStateActive,
		Type:                accType,
		CurrencyCode:        "EUR",
		CurrencyDecimals:    2,
		PostedCreditBalance: postedCredit,
	}
}

func (f *ledgerFixture) storedAccount(t *testing.T, id string) domain.Account {
	t.Helper()
	acc, ok := f.accountRepo.accounts[id]
	require.True(t, ok, "account %s not stored", id)
	return acc
}

var (
	operatorCaller = domain.CallerContext{SubjectID: "op-1", Roles: []string{RoleHubOperator}}
	auditorCaller  = domain.CallerContext{SubjectID: "aud-1", Roles: []string{RoleAuditor}}
)

func TestCreateJournalEntry_UpdatesBothBalances(t *testing.T) {
	f := newLedgerFixture(t)
	f.addAccount("alpha", domain.AccountTypePosition, 0)
	f.addAccount("beta", domain.AccountTypePosition, 0)

	id, err := f.ledger.CreateJournalEntry(context.Background(), operatorCaller, dto.CreateJournalEntryRequest{
		CurrencyCode:      "EUR",
		Amount:            "12.34",
		DebitedAccountID:  "alpha",
		CreditedAccountID: "beta",
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	alpha := f.storedAccount(t, "alpha")
	beta := f.storedAccount(t, "beta")
	assert.Equal(t, int64(1234), alpha.PostedDebitBalance)
	assert.Equal(t, int64(1234), beta.PostedCreditBalance)
	assert.Zero(t, alpha.PendingDebitBalance)
	require.NotNil(t, alpha.TimestampLastJournalEntry)
	require.NotNil(t, beta.TimestampLastJournalEntry)

	require.Len(t, f.journalRepo.entries, 1)
	entry := f.journalRepo.entries[0]
	assert.Equal(t, int64(1234), entry.Amount)
	assert.False(t, entry.Pending)
}

func TestCreateJournalEntry_PendingSelectsPendingPair(t *testing.T) {
	f := newLedgerFixture(t)
	f.addAccount("alpha", domain.AccountTypePosition, 0)
	f.addAccount("beta", domain.AccountTypePosition, 0)

	_, err := f.ledger.CreateJournalEntry(context.Background(), operatorCaller, dto.CreateJournalEntryRequest{
		CurrencyCode:      "EUR",
		Amount:            "5",
		Pending:           true,
		DebitedAccountID:  "alpha",
		CreditedAccountID: "beta",
	})
	require.NoError(t, err)

	alpha := f.storedAccount(t, "alpha")
	beta := f.storedAccount(t, "beta")
	assert.Equal(t, int64(500), alpha.PendingDebitBalance)
	assert.Equal(t, int64(500), beta.PendingCreditBalance)
	assert.Zero(t, alpha.PostedDebitBalance)
	assert.Zero(t, beta.PostedCreditBalance)
}

func TestCreateJournalEntry_Rejections(t *testing.T) {
	f := newLedgerFixture(t)
	f.addAccount("alpha", domain.AccountTypePosition, 0)
	f.addAccount("beta", domain.AccountTypePosition, 0)

	base := dto.CreateJournalEntryRequest{
		CurrencyCode:      "EUR",
		Amount:            "10",
		DebitedAccountID:  "alpha",
		CreditedAccountID: "beta",
	}

	tests := []struct {
		name    string
		mutate  func(*dto.CreateJournalEntryRequest)
		wantErr error
	}{
		{
			name:    "same account",
			mutate:  func(r *dto.CreateJournalEntryRequest) { r.CreditedAccountID = "alpha" },
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "zero amount",
			mutate:  func(r *dto.CreateJournalEntryRequest) { r.Amount = "0" },
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "malformed amount",
			mutate:  func(r *dto.CreateJournalEntryRequest) { r.Amount = "1,000" },
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "too many fractional digits",
			mutate:  func(r *dto.CreateJournalEntryRequest) { r.Amount = "1.234" },
			wantErr: apperrors.ErrValidation,
		},
		{
			name:    "unknown currency",
			mutate:  func(r *dto.CreateJournalEntryRequest) { r.CurrencyCode = "XXX" },
			wantErr: apperrors.ErrNotFound,
		},
		{
			name:    "unknown debited account",
			mutate:  func(r *dto.CreateJournalEntryRequest) { r.DebitedAccountID = "ghost" },
			wantErr: apperrors.ErrNotFound,
		},
		{
			name:    "currency mismatch with accounts",
			mutate:  func(r *dto.CreateJournalEntryRequest) { r.CurrencyCode = "JPY" },
			wantErr: apperrors.ErrValidation,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			tt.mutate(&req)
			_, err := f.ledger.CreateJournalEntry(context.Background(), operatorCaller, req)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Empty(t, f.journalRepo.entries, "rejected entries must not be stored")
	assert.Zero(t, f.storedAccount(t, "alpha").PostedDebitBalance)
}

func TestCreateJournalEntry_RequiresPrivilege(t *testing.T) {
	f := newLedgerFixture(t)
	f.addAccount("alpha", domain.AccountTypePosition, 0)
	f.addAccount("beta", domain.AccountTypePosition, 0)

	_, err := f.ledger.CreateJournalEntry(context.Background(), auditorCaller, dto.CreateJournalEntryRequest{
		CurrencyCode:      "EUR",
		Amount:            "10",
		DebitedAccountID:  "alpha",
		CreditedAccountID: "beta",
	})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Empty(t, f.journalRepo.entries)
}

func TestCreateJournalEntries_FlushesOnce(t *testing.T) {
	f := newLedgerFixture(t)
	f.addAccount("alpha", domain.AccountTypePosition, 0)
	f.addAccount("beta", domain.AccountTypePosition, 0)
	f.addAccount("gamma", domain.AccountTypePosition, 0)

	ids, err := f.ledger.CreateJournalEntries(context.Background(), operatorCaller, []dto.CreateJournalEntryRequest{
		{CurrencyCode: "EUR", Amount: "1.00", DebitedAccountID: "alpha", CreditedAccountID: "beta"},
		{CurrencyCode: "EUR", Amount: "2.00", DebitedAccountID: "alpha", CreditedAccountID: "gamma"},
		{CurrencyCode: "EUR", Amount: "0.50", DebitedAccountID: "beta", CreditedAccountID: "gamma"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 3)

	assert.Equal(t, 1, f.journalRepo.bulkSaveCalls, "staged entries must flush exactly once")
	assert.Equal(t, 1, f.accountRepo.updateAccountCalls, "dirty accounts must flush exactly once")
	require.Len(t, f.journalRepo.entries, 3)

	assert.Equal(t, int64(300), f.storedAccount(t, "alpha").PostedDebitBalance)
	assert.Equal(t, int64(50), f.storedAccount(t, "beta").PostedDebitBalance)
	assert.Equal(t, int64(100), f.storedAccount(t, "beta").PostedCreditBalance)
	assert.Equal(t, int64(250), f.storedAccount(t, "gamma").PostedCreditBalance)
}

func TestCreateJournalEntries_AbortsWholeBatchOnFailure(t *testing.T) {
	f := newLedgerFixture(t)
	f.addAccount("alpha", domain.AccountTypePosition, 0)
	f.addAccount("beta", domain.AccountTypePosition, 0)

	_, err := f.ledger.CreateJournalEntries(context.Background(), operatorCaller, []dto.CreateJournalEntryRequest{
		{CurrencyCode: "EUR", Amount: "1.00", DebitedAccountID: "alpha", CreditedAccountID: "beta"},
		{CurrencyCode: "EUR", Amount: "1.00", DebitedAccountID: "alpha", CreditedAccountID: "ghost"},
	})
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Zero(t, f.journalRepo.bulkSaveCalls, "nothing may be flushed")
	assert.Empty(t, f.journalRepo.entries, "nothing may be persisted")
	assert.Zero(t, f.storedAccount(t, "alpha").PostedDebitBalance, "stored balances must be untouched")

	// The staged mutation must not leak through the cache either.
	ids, err := f.ledger.CreateJournalEntries(context.Background(), operatorCaller, []dto.CreateJournalEntryRequest{
		{CurrencyCode: "EUR", Amount: "2.00", DebitedAccountID: "alpha", CreditedAccountID: "beta"},
	})
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, int64(200), f.storedAccount(t, "alpha").PostedDebitBalance)
}

func TestHighLevelBatch_RequiresPrivilege(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.ledger.ProcessHighLevelBatch(context.Background(), auditorCaller, []domain.HighLevelRequest{
		domain.CancelReservation{ID: "r1", TransferID: "t1"},
	})
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestHighLevelBatch_ReserveDebitsPositionPending(t *testing.T) {
	f := newLedgerFixture(t)
	f.addAccount("dfsp1-position", domain.AccountTypePosition, 0)
	f.addAccount("dfsp1-liquidity", domain.AccountTypeLiquidity, 100000) // 1000.00 EUR
	f.addAccount("hub", domain.AccountTypeHubReconciliation, 0)

	responses, err := f.ledger.ProcessHighLevelBatch(context.Background(), operatorCaller, []domain.HighLevelRequest{
		domain.CheckLiquidAndReserve{
			ID:                      "r1",
			TransferID:              "transfer-1",
			PayerPositionAccountID:  "dfsp1-position",
			PayerLiquidityAccountID: "dfsp1-liquidity",
			HubAccountID:            "hub",
			Amount:                  "50.00",
			CurrencyCode:            "EUR",
			PayerNetDebitCap:        "0",
		},
	})
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.True(t, responses[0].Success)
	assert.Empty(t, responses[0].ErrorMessage)

	assert.Equal(t, int64(5000), f.storedAccount(t, "dfsp1-position").PendingDebitBalance)
	assert.Equal(t, int64(5000), f.storedAccount(t, "hub").PendingCreditBalance)

	require.Len(t, f.journalRepo.entries, 1)
	entry := f.journalRepo.entries[0]
	assert.True(t, entry.Pending)
	assert.Equal(t, "transfer-1", entry.OwnerID)
	assert.Equal(t, "dfsp1-position", entry.DebitedAccountID)
	assert.Equal(t, "hub", entry.CreditedAccountID)
}

func TestHighLevelBatch_ReserveRejectedWithoutSideEffect(t *testing.T) {
	f := newLedgerFixture(t)
	f.addAccount("dfsp1-position", domain.AccountTypePosition, 0)
	f.addAccount("dfsp1-liquidity", domain.AccountTypeLiquidity, 4000) // 40.00 EUR
	f.addAccount("hub", domain.AccountTypeHubReconciliation, 0)

	responses, err := f.ledger.ProcessHighLevelBatch(context.Background(), operatorCaller, []domain.HighLevelRequest{
		domain.CheckLiquidAndReserve{
			ID:                      "r1",
			TransferID:              "transfer-1",
			PayerPositionAccountID:  "dfsp1-position",
			PayerLiquidityAccountID: "dfsp1-liquidity",
			HubAccountID:            "hub",
			Amount:                  "50.00",
			CurrencyCode:            "EUR",
			PayerNetDebitCap:        "0",
		},
	})
	require.NoError(t, err)
	require.Len(t, responses, 1)
	assert.False(t, responses[0].Success)
	assert.Equal(t, liquidityCheckFailedMsg, responses[0].ErrorMessage)

	assert.Empty(t, f.journalRepo.entries, "a rejected reservation leaves no entry")
	assert.Zero(t, f.storedAccount(t, "dfsp1-position").PendingDebitBalance)
	assert.Zero(t, f.storedAccount(t, "hub").PendingCreditBalance)
}

func TestHighLevelBatch_ReserveAllowedAtExactLiquidity(t *testing.T) {
	f := newLedgerFixture(t)
	f.addAccount("dfsp1-position", domain.AccountTypePosition, 0)
	f.addAccount("dfsp1-liquidity", domain.AccountTypeLiquidity, 6000) // 60.00 EUR
	f.addAccount("hub", domain.AccountTypeHubReconciliation, 0)

	// Net debit cap 10.00 leaves exactly 50.00 of headroom.
	responses, err := f.ledger.ProcessHighLevelBatch(context.Background(), operatorCaller, []domain.HighLevelRequest{
		domain.CheckLiquidAndReserve{
			ID:                      "r1",
			TransferID:              "transfer-1",
			PayerPositionAccountID:  "dfsp1-position",
			PayerLiquidityAccountID: "dfsp1-liquidity",
			HubAccountID:            "hub",
			Amount:                  "50.00",
			CurrencyCode:            "EUR",
			PayerNetDebitCap:        "10.00",
		},
	})
	require.NoError(t, err)
	assert.True(t, responses[0].Success)
}

func TestHighLevelBatch_CommitNetsReservationIntoPostedTransfer(t *testing.T) {
	f := newLedgerFixture(t)
	f.addAccount("dfsp1-position", domain.AccountTypePosition, 0)
	f.addAccount("dfsp1-liquidity", domain.AccountTypeLiquidity, 100000)
	f.addAccount("dfsp2-position", domain.AccountTypePosition, 0)
	f.addAccount("hub", domain.AccountTypeHubReconciliation, 0)

	responses, err := f.ledger.ProcessHighLevelBatch(context.Background(), operatorCaller, []domain.HighLevelRequest{
		domain.CheckLiquidAndReserve{
			ID:                      "r1",
			TransferID:              "transfer-1",
			PayerPositionAccountID:  "dfsp1-position",
			PayerLiquidityAccountID: "dfsp1-liquidity",
			HubAccountID:            "hub",
			Amount:                  "50.00",
			CurrencyCode:            "EUR",
			PayerNetDebitCap:        "0",
		},
		domain.CancelReservationAndCommit{
			ID:                     "r2",
			TransferID:             "transfer-1",
			PayerPositionAccountID: "dfsp1-position",
			PayeePositionAccountID: "dfsp2-position",
			HubAccountID:           "hub",
			Amount:                 "50.00",
			CurrencyCode:           "EUR",
		},
	})
	require.NoError(t, err)
	require.Len(t, responses, 2)
	assert.True(t, responses[0].Success)
	assert.True(t, responses[1].Success)

	payer := f.storedAccount(t, "dfsp1-position")
	payee := f.storedAccount(t, "dfsp2-position")
	hub := f.storedAccount(t, "hub")

	// The reservation is fully released and the transfer is posted.
	assert.Zero(t, payer.PendingDebitBalance)
	assert.Zero(t, payer.PendingCreditBalance)
	assert.Zero(t, hub.PendingCreditBalance)
	assert.Zero(t, hub.PendingDebitBalance)
	assert.Equal(t, int64(5000), payer.PostedDebitBalance)
	assert.Equal(t, int64(5000), payee.PostedCreditBalance)

	// Reservation, reversal, settlement.
	require.Len(t, f.journalRepo.entries, 3)
	assert.Equal(t, 1, f.journalRepo.bulkSaveCalls, "the whole batch flushes once")
}

func TestHighLevelBatch_CancelRestoresPendingBalances(t *testing.T) {
	f := newLedgerFixture(t)
	f.addAccount("dfsp1-position", domain.AccountTypePosition, 0)
	f.addAccount("dfsp1-liquidity", domain.AccountTypeLiquidity, 100000)
	f.addAccount("hub", domain.AccountTypeHubReconciliation, 0)

	responses, err := f.ledger.ProcessHighLevelBatch(context.Background(), operatorCaller, []domain.HighLevelRequest{
		domain.CheckLiquidAndReserve{
			ID:                      "r1",
			TransferID:              "transfer-1",
			PayerPositionAccountID:  "dfsp1-position",
			PayerLiquidityAccountID: "dfsp1-liquidity",
			HubAccountID:            "hub",
			Amount:                  "50.00",
			CurrencyCode:            "EUR",
			PayerNetDebitCap:        "0",
		},
		domain.CancelReservation{
			ID:                     "r2",
			TransferID:             "transfer-1",
			PayerPositionAccountID: "dfsp1-position",
			HubAccountID:           "hub",
			Amount:                 "50.00",
			CurrencyCode:           "EUR",
		},
	})
	require.NoError(t, err)
	assert.True(t, responses[0].Success)
	assert.True(t, responses[1].Success)

	payer := f.storedAccount(t, "dfsp1-position")
	hub := f.storedAccount(t, "hub")
	assert.Zero(t, payer.PendingDebitBalance)
	assert.Zero(t, payer.PostedDebitBalance, "a cancelled transfer posts nothing")
	assert.Zero(t, hub.PendingCreditBalance)

	require.Len(t, f.journalRepo.entries, 2)
}

func TestHighLevelBatch_BusinessFailureIsCapturedPerRequest(t *testing.T) {
	f := newLedgerFixture(t)
	f.addAccount("dfsp1-position", domain.AccountTypePosition, 0)
	f.addAccount("dfsp1-liquidity", domain.AccountTypeLiquidity, 100000)
	f.addAccount("hub", domain.AccountTypeHubReconciliation, 0)

	responses, err := f.ledger.ProcessHighLevelBatch(context.Background(), operatorCaller, []domain.HighLevelRequest{
		domain.CheckLiquidAndReserve{
			ID:                      "r1",
			TransferID:              "transfer-1",
			PayerPositionAccountID:  "ghost",
			PayerLiquidityAccountID: "dfsp1-liquidity",
			HubAccountID:            "hub",
			Amount:                  "50.00",
			CurrencyCode:            "EUR",
			PayerNetDebitCap:        "0",
		},
		domain.CheckLiquidAndReserve{
			ID:                      "r2",
			TransferID:              "transfer-2",
			PayerPositionAccountID:  "dfsp1-position",
			PayerLiquidityAccountID: "dfsp1-liquidity",
			HubAccountID:            "hub",
			Amount:                  "50.00",
			CurrencyCode:            "EUR",
			PayerNetDebitCap:        "0",
		},
	})
	require.NoError(t, err, "a business failure must not abort the batch")
	require.Len(t, responses, 2)

	assert.False(t, responses[0].Success)
	assert.Contains(t, responses[0].ErrorMessage, "ghost")
	assert.True(t, responses[1].Success)

	require.Len(t, f.journalRepo.entries, 1)
	assert.Equal(t, "transfer-2", f.journalRepo.entries[0].OwnerID)
}

func TestHighLevelBatch_UnmatchedReversalTripsConsistencyGuard(t *testing.T) {
	f := newLedgerFixture(t)
	f.addAccount("dfsp1-position", domain.AccountTypePosition, 0)
	f.addAccount("dfsp2-position", domain.AccountTypePosition, 0)
	f.addAccount("hub", domain.AccountTypeHubReconciliation, 0)

	// Committing a transfer that was never reserved would drive the pending
	// balances negative.
	_, err := f.ledger.ProcessHighLevelBatch(context.Background(), operatorCaller, []domain.HighLevelRequest{
		domain.CancelReservationAndCommit{
			ID:                     "r1",
			TransferID:             "transfer-1",
			PayerPositionAccountID: "dfsp1-position",
			PayeePositionAccountID: "dfsp2-position",
			HubAccountID:           "hub",
			Amount:                 "50.00",
			CurrencyCode:           "EUR",
		},
	})
	require.ErrorIs(t, err, apperrors.ErrConsistency)

	assert.Empty(t, f.journalRepo.entries, "an aborted batch persists nothing")
	assert.Zero(t, f.storedAccount(t, "dfsp1-position").PendingDebitBalance)
	assert.Zero(t, f.storedAccount(t, "dfsp2-position").PostedCreditBalance)
}

func TestHighLevelBatch_AbortedBatchDoesNotPoisonTheCache(t *testing.T) {
	f := newLedgerFixture(t)
	f.addAccount("dfsp1-position", domain.AccountTypePosition, 0)
	f.addAccount("dfsp1-liquidity", domain.AccountTypeLiquidity, 100000)
	f.addAccount("dfsp2-position", domain.AccountTypePosition, 0)
	f.addAccount("hub", domain.AccountTypeHubReconciliation, 0)

	// Reserve succeeds, then the commit of a different (never reserved)
	// transfer aborts the batch after the reservation was staged.
	_, err := f.ledger.ProcessHighLevelBatch(context.Background(), operatorCaller, []domain.HighLevelRequest{
		domain.CheckLiquidAndReserve{
			ID:                      "r1",
			TransferID:              "transfer-1",
			PayerPositionAccountID:  "dfsp1-position",
			PayerLiquidityAccountID: "dfsp1-liquidity",
			HubAccountID:            "hub",
			Amount:                  "50.00",
			CurrencyCode:            "EUR",
			PayerNetDebitCap:        "0",
		},
		domain.CancelReservationAndCommit{
			ID:                     "r2",
			TransferID:             "transfer-9",
			PayerPositionAccountID: "dfsp2-position",
			PayeePositionAccountID: "dfsp1-position",
			HubAccountID:           "hub",
			Amount:                 "999.00",
			CurrencyCode:           "EUR",
		},
	})
	require.ErrorIs(t, err, apperrors.ErrConsistency)
	assert.Empty(t, f.journalRepo.entries)

	// The staged reservation was discarded, so the full liquidity is still
	// available to the next batch.
	responses, err := f.ledger.ProcessHighLevelBatch(context.Background(), operatorCaller, []domain.HighLevelRequest{
		domain.CheckLiquidAndReserve{
			ID:                      "r3",
			TransferID:              "transfer-2",
			PayerPositionAccountID:  "dfsp1-position",
			PayerLiquidityAccountID: "dfsp1-liquidity",
			HubAccountID:            "hub",
			Amount:                  "1000.00",
			CurrencyCode:            "EUR",
			PayerNetDebitCap:        "0",
		},
	})
	require.NoError(t, err)
	assert.True(t, responses[0].Success)
	assert.Equal(t, int64(100000), f.storedAccount(t, "dfsp1-position").PendingDebitBalance)
}

func TestHighLevelBatch_EmptyBatchIsRejected(t *testing.T) {
	f := newLedgerFixture(t)

	_, err := f.ledger.ProcessHighLevelBatch(context.Background(), operatorCaller, nil)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}
