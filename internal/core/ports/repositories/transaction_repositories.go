package repositories

import (
	"context"

	"github.com/khata-app/khata-backend/internal/core/domain"
	"github.com/khata-app/khata-backend/internal/utils/pagination"
)

// TransactionReader defines read operations for transaction data
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction joined with its customer.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionsByCustomerID retrieves every transaction recorded
	// against one customer, newest first.
	FindTransactionsByCustomerID(ctx context.Context, customerID string) ([]domain.Transaction, error)

	// ListTransactions retrieves one page of transactions filtered by a
	// substring match on the related customer's name or phone, newest first.
	ListTransactions(ctx context.Context, p pagination.Params) ([]domain.Transaction, int64, error)
}

// TransactionLedger defines the two atomic units of work of the ledger.
// Each executes as a single database transaction: the customer aggregate
// update and the transaction row change commit or roll back together.
type TransactionLedger interface {
	// RecordTransaction applies the transaction's monetary effect to its
	// customer and inserts the row with balance_after_transaction set to the
	// customer balance produced by the update. Returns ErrNotFound when the
	// customer does not exist, with nothing persisted.
	RecordTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error)

	// ReverseTransaction undoes the monetary effect recorded by the given
	// transaction and deletes its row. The stored due/payment values are the
	// source of truth for what to undo. Returns ErrNotFound when the
	// transaction does not exist.
	ReverseTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionLedger
}

// TransactionRepositoryWithTx extends the facade with transaction management
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
