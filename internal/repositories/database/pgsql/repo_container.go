package pgsql

import (
	portsrepo "github.com/NovaBankHQ/nova_banking_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires all pgx-backed repositories over a shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AccountRepo:     newPgxAccountRepository(pool),
		TransactionRepo: newPgxTransactionRepository(pool),
		FraudAlertRepo:  newPgxFraudAlertRepository(pool),
		LoanRepo:        newPgxLoanRepository(pool),
		UserRepo:        newPgxUserRepository(pool),
	}
}
