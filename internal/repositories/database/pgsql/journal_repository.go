package pgsql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clearstream/hubledger/internal/core/domain"
	portsrepo "github.com/clearstream/hubledger/internal/core/ports/repositories"
)

const journalInsertQuery = `
	INSERT INTO journal_entries (journal_entry_id, owner_id, currency_code, currency_decimals,
		amount, pending, debited_account_id, credited_account_id, entry_timestamp)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
`

// PgxJournalRepository is the PostgreSQL adapter for the append-only journal.
type PgxJournalRepository struct {
	pool *pgxpool.Pool
}

func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepository {
	return &PgxJournalRepository{pool: pool}
}

var _ portsrepo.JournalRepository = (*PgxJournalRepository)(nil)

// SaveJournalEntry appends a single entry.
func (r *PgxJournalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	_, err := r.pool.Exec(ctx, journalInsertQuery,
		entry.ID,
		entry.OwnerID,
		entry.CurrencyCode,
		entry.CurrencyDecimals,
		entry.Amount,
		entry.Pending,
		entry.DebitedAccountID,
		entry.CreditedAccountID,
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to save journal entry %s: %w", entry.ID, err)
	}
	return nil
}

// SaveJournalEntries appends all entries in one batched round trip.
func (r *PgxJournalRepository) SaveJournalEntries(ctx context.Context, entries []domain.JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, entry := range entries {
		batch.Queue(journalInsertQuery,
			entry.ID,
			entry.OwnerID,
			entry.CurrencyCode,
			entry.CurrencyDecimals,
			entry.Amount,
			entry.Pending,
			entry.DebitedAccountID,
			entry.CreditedAccountID,
			entry.Timestamp,
		)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to save journal entry %s: %w", entries[i].ID, err)
		}
	}
	return nil
}

// FindJournalEntriesByAccountID lists every entry touching the account,
// oldest first.
func (r *PgxJournalRepository) FindJournalEntriesByAccountID(ctx context.Context, accountID string) ([]domain.JournalEntry, error) {
	query := `
		SELECT journal_entry_id, owner_id, currency_code, currency_decimals,
			amount, pending, debited_account_id, credited_account_id, entry_timestamp
		FROM journal_entries
		WHERE debited_account_id = $1 OR credited_account_id = $1
		ORDER BY entry_timestamp ASC, journal_entry_id ASC;
	`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal entries for account %s: %w", accountID, err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		var entry domain.JournalEntry
		err := rows.Scan(
			&entry.ID,
			&entry.OwnerID,
			&entry.CurrencyCode,
			&entry.CurrencyDecimals,
			&entry.Amount,
			&entry.Pending,
			&entry.DebitedAccountID,
			&entry.CreditedAccountID,
			&entry.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal entry rows: %w", err)
	}
	return entries, nil
}
