package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clearstream/hubledger/internal/apperrors"
	"github.com/clearstream/hubledger/internal/core/domain"
	portsrepo "github.com/clearstream/hubledger/internal/core/ports/repositories"
)

// PgxCurrencyRepository is the PostgreSQL adapter for the currency registry.
type PgxCurrencyRepository struct {
	pool *pgxpool.Pool
}

func newPgxCurrencyRepository(pool *pgxpool.Pool) portsrepo.CurrencyRepository {
	return &PgxCurrencyRepository{pool: pool}
}

var _ portsrepo.CurrencyRepository = (*PgxCurrencyRepository)(nil)

// FindCurrencyByCode returns the currency or apperrors.ErrNotFound.
func (r *PgxCurrencyRepository) FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	query := `SELECT currency_code, decimals FROM currencies WHERE currency_code = $1;`

	var currency domain.Currency
	err := r.pool.QueryRow(ctx, query, code).Scan(&currency.Code, &currency.Decimals)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: currency %s", apperrors.ErrNotFound, code)
		}
		return nil, fmt.Errorf("failed to query currency %s: %w", code, err)
	}
	return &currency, nil
}

// ListCurrencies returns every registered currency ordered by code.
func (r *PgxCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	query := `SELECT currency_code, decimals FROM currencies ORDER BY currency_code ASC;`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", err)
	}
	defer rows.Close()

	var currencies []domain.Currency
	for rows.Next() {
		var currency domain.Currency
		if err := rows.Scan(&currency.Code, &currency.Decimals); err != nil {
			return nil, fmt.Errorf("failed to scan currency row: %w", err)
		}
		currencies = append(currencies, currency)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read currency rows: %w", err)
	}
	return currencies, nil
}

// SaveCurrency registers a new currency. A unique violation maps to
// apperrors.ErrDuplicate.
func (r *PgxCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	query := `INSERT INTO currencies (currency_code, decimals) VALUES ($1, $2);`

	_, err := r.pool.Exec(ctx, query, currency.Code, currency.Decimals)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: currency %s already exists", apperrors.ErrDuplicate, currency.Code)
		}
		return fmt.Errorf("failed to save currency %s: %w", currency.Code, err)
	}
	return nil
}
