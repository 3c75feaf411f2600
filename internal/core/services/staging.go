package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/clearstream/hubledger/internal/core/domain"
	portsrepo "github.com/clearstream/hubledger/internal/core/ports/repositories"
)

// accountCache is a read-through cache over the account store. It is
// populated lazily, lives for the lifetime of the aggregate and is evicted
// only by explicit invalidation (admin state changes, aborted batches).
// The map itself is guarded by a mutex; mutation of the cached accounts is
// serialized by the ledger service's batch lock.
type accountCache struct {
	repo portsrepo.AccountReader

	mu       sync.Mutex
	accounts map[string]*domain.Account
}

func newAccountCache(repo portsrepo.AccountReader) *accountCache {
	return &accountCache{
		repo:     repo,
		accounts: make(map[string]*domain.Account),
	}
}

// getAccounts returns the cached accounts for accountIDs, fetching missing
// ones from the store. Ids unknown to the store are omitted from the result.
func (c *accountCache) getAccounts(ctx context.Context, accountIDs []string) (map[string]*domain.Account, error) {
	result := make(map[string]*domain.Account, len(accountIDs))
	var missing []string

	c.mu.Lock()
	for _, id := range accountIDs {
		if acc, ok := c.accounts[id]; ok {
			result[id] = acc
		} else {
			missing = append(missing, id)
		}
	}
	c.mu.Unlock()

	if len(missing) == 0 {
		return result, nil
	}

	fetched, err := c.repo.FindAccountsByIDs(ctx, missing)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts from store: %w", err)
	}

	c.mu.Lock()
	for i := range fetched {
		acc := fetched[i]
		c.accounts[acc.ID] = &acc
		result[acc.ID] = &acc
	}
	c.mu.Unlock()

	return result, nil
}

// invalidate drops the given ids from the cache so the next read goes back
// to the store.
func (c *accountCache) invalidate(accountIDs []string) {
	c.mu.Lock()
	for _, id := range accountIDs {
		delete(c.accounts, id)
	}
	c.mu.Unlock()
}

// ledgerBatch stages the effects of one batch: the journal entries created
// and the accounts whose balances were mutated. Nothing staged here is
// durable until flush.
type ledgerBatch struct {
	entries []domain.JournalEntry
	dirty   map[string]*domain.Account
}

func newLedgerBatch() *ledgerBatch {
	return &ledgerBatch{dirty: make(map[string]*domain.Account)}
}

func (b *ledgerBatch) dirtyAccountIDs() []string {
	ids := make([]string, 0, len(b.dirty))
	for id := range b.dirty {
		ids = append(ids, id)
	}
	return ids
}

// journalWriter is the strategy selected by the caller of the entry creation
// routine: immediate persistence or stage-then-flush.
type journalWriter interface {
	writeEntry(ctx context.Context, entry domain.JournalEntry, debited, credited *domain.Account) error
}

// immediateWriter persists the entry and the two mutated accounts as soon as
// the entry is created.
type immediateWriter struct {
	journalRepo portsrepo.JournalWriter
	accountRepo portsrepo.AccountWriter
}

func (w *immediateWriter) writeEntry(ctx context.Context, entry domain.JournalEntry, debited, credited *domain.Account) error {
	if err := w.journalRepo.SaveJournalEntry(ctx, entry); err != nil {
		return fmt.Errorf("failed to store journal entry %s: %w", entry.ID, err)
	}
	if err := w.accountRepo.UpdateAccounts(ctx, []domain.Account{*debited, *credited}); err != nil {
		return fmt.Errorf("failed to persist balance updates for entry %s: %w", entry.ID, err)
	}
	return nil
}

// batchedWriter stages the entry and marks both accounts dirty; everything
// is persisted by the batch's single flush.
type batchedWriter struct {
	batch *ledgerBatch
}

func (w *batchedWriter) writeEntry(_ context.Context, entry domain.JournalEntry, debited, credited *domain.Account) error {
	w.batch.entries = append(w.batch.entries, entry)
	w.batch.dirty[debited.ID] = debited
	w.batch.dirty[credited.ID] = credited
	return nil
}
