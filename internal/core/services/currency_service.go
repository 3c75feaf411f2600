package services

import (
	"context"
	"fmt"

	"github.com/clearstream/hubledger/internal/apperrors"
	"github.com/clearstream/hubledger/internal/core/domain"
	portsrepo "github.com/clearstream/hubledger/internal/core/ports/repositories"
	portssvc "github.com/clearstream/hubledger/internal/core/ports/services"
	"github.com/clearstream/hubledger/internal/dto"
)

// currencyService is the currency directory. Lookups go through the
// repository every time; currencies are few and effectively immutable.
type currencyService struct {
	currencyRepo portsrepo.CurrencyRepository
	privileges   portssvc.PrivilegeChecker
}

// NewCurrencyService creates the currency directory service.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepository, privileges portssvc.PrivilegeChecker) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo, privileges: privileges}
}

var _ portssvc.CurrencySvcFacade = (*currencyService)(nil)

func (s *currencyService) GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve currency %s: %w", code, err)
	}
	return currency, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	if currencies == nil {
		currencies = []domain.Currency{}
	}
	return currencies, nil
}

func (s *currencyService) CreateCurrency(ctx context.Context, caller domain.CallerContext, req dto.CreateCurrencyRequest) (*domain.Currency, error) {
	if !s.privileges.HasPrivilege(ctx, caller, domain.PrivilegeManageCurrencies) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnauthorized, domain.PrivilegeManageCurrencies)
	}

	currency := domain.Currency{Code: req.Code, Decimals: req.Decimals}
	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		return nil, fmt.Errorf("failed to save currency %s: %w", req.Code, err)
	}
	return &currency, nil
}
