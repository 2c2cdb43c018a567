package services

import (
	portsrepo "github.com/khata-app/khata-backend/internal/core/ports/repositories"
	portssvc "github.com/khata-app/khata-backend/internal/core/ports/services"
)

// NewServiceContainer wires the services from the repository provider.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Customer: NewCustomerService(repos.CustomerRepo),
		Ledger:   NewLedgerService(repos.TransactionRepo),
	}
}
