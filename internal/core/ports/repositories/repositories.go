package repositories

// RepositoryProvider bundles the store adapters handed to the service layer.
type RepositoryProvider struct {
	AccountRepo  AccountRepository
	JournalRepo  JournalRepository
	CurrencyRepo CurrencyRepository
}
