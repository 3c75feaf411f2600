package services

import (
	"context"

	"github.com/clearstream/hubledger/internal/core/domain"
	"github.com/clearstream/hubledger/internal/dto"
)

// LedgerSvcFacade is the ledger aggregate: journal entry creation and the
// three-request high-level transfer protocol.
type LedgerSvcFacade interface {
	// CreateJournalEntry validates and stores a single entry, persisting the
	// entry and both balance updates immediately.
	CreateJournalEntry(ctx context.Context, caller domain.CallerContext, req dto.CreateJournalEntryRequest) (string, error)

	// CreateJournalEntries validates and stores a batch of journal entries,
	// updating account balances. Entries are staged and flushed once; any
	// failure aborts the batch before durability.
	CreateJournalEntries(ctx context.Context, caller domain.CallerContext, reqs []dto.CreateJournalEntryRequest) ([]string, error)

	// ProcessHighLevelBatch evaluates the requests strictly in order,
	// capturing business failures per request, and flushes staged state
	// exactly once after all requests were evaluated. A system error aborts
	// the remaining requests and propagates.
	ProcessHighLevelBatch(ctx context.Context, caller domain.CallerContext, reqs []domain.HighLevelRequest) ([]domain.HighLevelResponse, error)
}
