package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clearstream/hubledger/internal/apperrors"
	"github.com/clearstream/hubledger/internal/core/domain"
	portsrepo "github.com/clearstream/hubledger/internal/core/ports/repositories"
)

// PgxAccountRepository is the PostgreSQL adapter for the account store.
type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepository {
	return &PgxAccountRepository{pool: pool}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account. A unique violation maps to
// apperrors.ErrDuplicate so the service can substitute a fresh id.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (account_id, state, account_type, currency_code, currency_decimals,
			posted_debit_balance, posted_credit_balance, pending_debit_balance, pending_credit_balance,
			timestamp_last_journal_entry)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	var lastEntry sql.NullInt64
	if account.TimestampLastJournalEntry != nil {
		lastEntry = sql.NullInt64{Int64: *account.TimestampLastJournalEntry, Valid: true}
	}

	_, err := r.pool.Exec(ctx, query,
		account.ID,
		account.State,
		account.Type,
		account.CurrencyCode,
		account.CurrencyDecimals,
		account.PostedDebitBalance,
		account.PostedCreditBalance,
		account.PendingDebitBalance,
		account.PendingCreditBalance,
		lastEntry,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, account.ID)
		}
		return fmt.Errorf("failed to save account %s: %w", account.ID, err)
	}
	return nil
}

// FindAccountsByIDs returns only the accounts that exist; a partial miss is
// not an error.
func (r *PgxAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) ([]domain.Account, error) {
	query := `
		SELECT account_id, state, account_type, currency_code, currency_decimals,
			posted_debit_balance, posted_credit_balance, pending_debit_balance, pending_credit_balance,
			timestamp_last_journal_entry
		FROM accounts
		WHERE account_id = ANY($1);
	`
	rows, err := r.pool.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account rows: %w", err)
	}
	return accounts, nil
}

// UpdateAccounts bulk-replaces the full stored state of each account within
// one transaction.
func (r *PgxAccountRepository) UpdateAccounts(ctx context.Context, accounts []domain.Account) error {
	query := `
		UPDATE accounts
		SET state = $2, posted_debit_balance = $3, posted_credit_balance = $4,
			pending_debit_balance = $5, pending_credit_balance = $6,
			timestamp_last_journal_entry = $7
		WHERE account_id = $1;
	`
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin account update transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	for _, acc := range accounts {
		var lastEntry sql.NullInt64
		if acc.TimestampLastJournalEntry != nil {
			lastEntry = sql.NullInt64{Int64: *acc.TimestampLastJournalEntry, Valid: true}
		}
		tag, err := tx.Exec(ctx, query,
			acc.ID,
			acc.State,
			acc.PostedDebitBalance,
			acc.PostedCreditBalance,
			acc.PendingDebitBalance,
			acc.PendingCreditBalance,
			lastEntry,
		)
		if err != nil {
			return fmt.Errorf("failed to update account %s: %w", acc.ID, err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: account %s", apperrors.ErrNotFound, acc.ID)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit account updates: %w", err)
	}
	return nil
}

// UpdateAccountStatesByIDs sets the state of every listed account.
func (r *PgxAccountRepository) UpdateAccountStatesByIDs(ctx context.Context, accountIDs []string, state domain.AccountState) error {
	query := `UPDATE accounts SET state = $1 WHERE account_id = ANY($2);`
	_, err := r.pool.Exec(ctx, query, state, accountIDs)
	if err != nil {
		return fmt.Errorf("failed to update account states: %w", err)
	}
	return nil
}

func scanAccount(rows pgx.Rows) (domain.Account, error) {
	var acc domain.Account
	var lastEntry sql.NullInt64
	err := rows.Scan(
		&acc.ID,
		&acc.State,
		&acc.Type,
		&acc.CurrencyCode,
		&acc.CurrencyDecimals,
		&acc.PostedDebitBalance,
		&acc.PostedCreditBalance,
		&acc.PendingDebitBalance,
		&acc.PendingCreditBalance,
		&lastEntry,
	)
	if err != nil {
		return domain.Account{}, fmt.Errorf("failed to scan account row: %w", err)
	}
	if lastEntry.Valid {
		acc.TimestampLastJournalEntry = &lastEntry.Int64
	}
	return acc, nil
}
