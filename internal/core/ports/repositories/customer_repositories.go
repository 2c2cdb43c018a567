package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/khata-app/khata-backend/internal/core/domain"
	"github.com/khata-app/khata-backend/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// AggregateDeltas are the signed adjustments applied to a customer's monetary
// aggregates as one server-evaluated update.
type AggregateDeltas struct {
	Balance decimal.Decimal
	Due     decimal.Decimal
	Payment decimal.Decimal
}

// CustomerReader defines read operations for customer data
type CustomerReader interface {
	// FindCustomerByID retrieves a specific customer by its unique identifier.
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)

	// ListCustomers retrieves one page of customers matched by a
	// case-insensitive substring filter on name or phone, newest first.
	// The returned count is taken over the filtered set.
	ListCustomers(ctx context.Context, p pagination.Params) ([]domain.Customer, int64, error)

	// SearchCustomers retrieves all customers matching the filter, unpaginated.
	SearchCustomers(ctx context.Context, query string) ([]domain.Customer, error)
}

// CustomerWriter defines write operations for customer data
type CustomerWriter interface {
	// SaveCustomer persists a customer, upserting by phone number.
	SaveCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error)

	// UpdateCustomer updates the mutable customer fields. It never touches
	// balance, total_due or total_payment.
	UpdateCustomer(ctx context.Context, customer domain.Customer) error

	// DeleteCustomer removes a customer. Returns ErrDependentRecords when
	// transactions still reference it.
	DeleteCustomer(ctx context.Context, customerID string) error
}

// CustomerLedgerSupport defines operations used inside ledger transactions
type CustomerLedgerSupport interface {
	// ApplyAggregateDeltasInTx applies the given deltas to a customer's
	// balance, total_due and total_payment as a single server-evaluated
	// relative update and returns the resulting balance. Must be called
	// within a transaction; this is the only sanctioned path to the three
	// aggregate columns.
	ApplyAggregateDeltasInTx(ctx context.Context, tx pgx.Tx, customerID string, deltas AggregateDeltas, now time.Time) (decimal.Decimal, error)
}

// CustomerRepositoryFacade combines all customer-related repository interfaces
type CustomerRepositoryFacade interface {
	CustomerReader
	CustomerWriter
	CustomerLedgerSupport
}
