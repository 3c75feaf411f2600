package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/clearstream/hubledger/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every PostgreSQL adapter onto a shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo:  newPgxAccountRepository(pool),
		JournalRepo:  newPgxJournalRepository(pool),
		CurrencyRepo: newPgxCurrencyRepository(pool),
	}
}
