package repositories

import (
	"context"

	"github.com/clearstream/hubledger/internal/core/domain"
)

// JournalReader defines read operations for journal entry data.
type JournalReader interface {
	// FindJournalEntriesByAccountID retrieves every entry that debits or
	// credits the given account, oldest first.
	FindJournalEntriesByAccountID(ctx context.Context, accountID string) ([]domain.JournalEntry, error)
}

// JournalWriter defines write operations for journal entry data. Entries are
// append-only; there is no update or delete.
type JournalWriter interface {
	// SaveJournalEntry persists a single entry.
	SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error

	// SaveJournalEntries bulk-persists entries in order.
	SaveJournalEntries(ctx context.Context, entries []domain.JournalEntry) error
}

// JournalRepository combines all journal store operations.
type JournalRepository interface {
	JournalReader
	JournalWriter
}
