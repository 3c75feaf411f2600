package repositories

import (
	"context"

	"github.com/clearstream/hubledger/internal/core/domain"
)

// CurrencyReader defines read operations for the currency directory.
type CurrencyReader interface {
	// FindCurrencyByCode retrieves a currency by its code. Returns
	// apperrors.ErrNotFound when the code is unknown.
	FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)

	// ListCurrencies retrieves all supported currencies.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyWriter defines write operations for the currency directory.
type CurrencyWriter interface {
	// SaveCurrency persists a new currency.
	SaveCurrency(ctx context.Context, currency domain.Currency) error
}

// CurrencyRepository combines all currency directory operations.
type CurrencyRepository interface {
	CurrencyReader
	CurrencyWriter
}
