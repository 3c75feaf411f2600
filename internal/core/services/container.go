package services

import (
	portsrepo "github.com/clearstream/hubledger/internal/core/ports/repositories"
	portssvc "github.com/clearstream/hubledger/internal/core/ports/services"
)

// NewContainer wires the service layer. The account cache is created once
// here and shared between the ledger aggregate (read-through balance cache)
// and the account service (invalidation on admin state changes).
func NewContainer(repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	privileges := NewPrivilegeService()
	cache := newAccountCache(repos.AccountRepo)

	currency := NewCurrencyService(repos.CurrencyRepo, privileges)
	ledger := NewLedgerService(repos.JournalRepo, repos.AccountRepo, currency, privileges, cache)
	account := NewAccountService(repos.AccountRepo, repos.JournalRepo, currency, privileges, cache)

	return &portssvc.ServiceContainer{
		Ledger:   ledger,
		Account:  account,
		Currency: currency,
	}
}
