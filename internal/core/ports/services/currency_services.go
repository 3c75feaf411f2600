package services

import (
	"context"

	"github.com/clearstream/hubledger/internal/core/domain"
	"github.com/clearstream/hubledger/internal/dto"
)

// CurrencySvcFacade is the currency directory consulted by the ledger.
type CurrencySvcFacade interface {
	// GetCurrencyByCode resolves a currency. Returns apperrors.ErrNotFound
	// for an unknown code.
	GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)

	// ListCurrencies returns every supported currency.
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)

	// CreateCurrency registers a new currency.
	CreateCurrency(ctx context.Context, caller domain.CallerContext, req dto.CreateCurrencyRequest) (*domain.Currency, error)
}
