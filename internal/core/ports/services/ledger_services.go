package services

import (
	"context"

	"github.com/khata-app/khata-backend/internal/core/domain"
	"github.com/khata-app/khata-backend/internal/dto"
	"github.com/khata-app/khata-backend/internal/utils/pagination"
)

// LedgerReaderSvc defines read operations over recorded transactions
type LedgerReaderSvc interface {
	// GetTransactionByID retrieves a transaction joined with its customer.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves one page of transactions filtered by the
	// related customer's name or phone.
	ListTransactions(ctx context.Context, p pagination.Params) ([]domain.Transaction, pagination.Meta, error)

	// ListTransactionsByCustomer retrieves every transaction of one customer.
	ListTransactionsByCustomer(ctx context.Context, customerID string) ([]domain.Transaction, error)
}

// LedgerWriterSvc defines the ledger state transitions
type LedgerWriterSvc interface {
	// RecordTransaction records a due/payment entry and atomically applies
	// its effect to the customer's balance and lifetime sums.
	RecordTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// ReverseTransaction deletes a transaction and atomically undoes its
	// effect on the customer's aggregates.
	ReverseTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
