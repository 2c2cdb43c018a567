package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/khata-app/khata-backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	customerRepo := newPgxCustomerRepository(dbPool)
	transactionRepo := newPgxTransactionRepository(dbPool, customerRepo)

	return portsrepo.RepositoryProvider{
		CustomerRepo:    customerRepo,
		TransactionRepo: transactionRepo,
	}
}
