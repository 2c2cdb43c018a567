package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/khata-app/khata-backend/internal/apperrors"
	"github.com/khata-app/khata-backend/internal/core/domain"
	portsrepo "github.com/khata-app/khata-backend/internal/core/ports/repositories"
	"github.com/khata-app/khata-backend/internal/models"
	"github.com/khata-app/khata-backend/internal/utils/mapping"
	"github.com/khata-app/khata-backend/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const customerColumns = `customer_id, name, phone, address, remark, balance, total_due, total_payment, created_at, updated_at`

type PgxCustomerRepository struct {
	BaseRepository
}

// newPgxCustomerRepository creates a new repository for customer data.
func newPgxCustomerRepository(pool *pgxpool.Pool) portsrepo.CustomerRepositoryFacade {
	return &PgxCustomerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxCustomerRepository implements portsrepo.CustomerRepositoryFacade
var _ portsrepo.CustomerRepositoryFacade = (*PgxCustomerRepository)(nil)

func scanCustomer(row pgx.Row) (models.Customer, error) {
	var m models.Customer
	err := row.Scan(
		&m.CustomerID,
		&m.Name,
		&m.Phone,
		&m.Address,
		&m.Remark,
		&m.Balance,
		&m.TotalDue,
		&m.TotalPayment,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

// SaveCustomer inserts a customer, or updates the existing record when the
// phone number is already registered. Only the first insert seeds the
// lifetime sums; the conflict path leaves total_due/total_payment untouched.
func (r *PgxCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	modelCust := mapping.ToModelCustomer(customer)

	query := `
		INSERT INTO customers (customer_id, name, phone, address, remark, balance, total_due, total_payment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (phone) DO UPDATE
		SET name = EXCLUDED.name,
		    address = EXCLUDED.address,
		    remark = EXCLUDED.remark,
		    balance = EXCLUDED.balance,
		    updated_at = EXCLUDED.updated_at
		RETURNING ` + customerColumns + `;
	`

	saved, err := scanCustomer(r.Pool.QueryRow(ctx, query,
		modelCust.CustomerID,
		modelCust.Name,
		modelCust.Phone,
		modelCust.Address,
		modelCust.Remark,
		modelCust.Balance,
		modelCust.TotalDue,
		modelCust.TotalPayment,
		modelCust.CreatedAt,
		modelCust.UpdatedAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to save customer %s: %w", modelCust.CustomerID, err)
	}

	domainCust := mapping.ToDomainCustomer(saved)
	return &domainCust, nil
}

// FindCustomerByID retrieves a customer by its ID.
func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1;`

	modelCust, err := scanCustomer(r.Pool.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer by ID %s: %w", customerID, err)
	}

	domainCust := mapping.ToDomainCustomer(modelCust)
	return &domainCust, nil
}

// UpdateCustomer updates the mutable customer fields. The monetary aggregate
// columns are deliberately absent from the SET list.
func (r *PgxCustomerRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	modelCust := mapping.ToModelCustomer(customer)

	query := `
		UPDATE customers
		SET name = $2, phone = $3, address = $4, remark = $5, updated_at = $6
		WHERE customer_id = $1;
	`

	cmdTag, err := r.Pool.Exec(ctx, query,
		modelCust.CustomerID,
		modelCust.Name,
		modelCust.Phone,
		modelCust.Address,
		modelCust.Remark,
		modelCust.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique violation on phone
			return fmt.Errorf("%w: phone %s already registered", apperrors.ErrDuplicate, modelCust.Phone)
		}
		return fmt.Errorf("failed to execute update customer %s: %w", modelCust.CustomerID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// DeleteCustomer removes a customer row. The transactions table holds a
// RESTRICT foreign key to customers, so deleting a customer with remaining
// transactions surfaces as ErrDependentRecords rather than a cascade.
func (r *PgxCustomerRepository) DeleteCustomer(ctx context.Context, customerID string) error {
	query := `DELETE FROM customers WHERE customer_id = $1;`

	cmdTag, err := r.Pool.Exec(ctx, query, customerID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign key violation
			return fmt.Errorf("%w: customer %s still has transactions", apperrors.ErrDependentRecords, customerID)
		}
		return fmt.Errorf("failed to delete customer %s: %w", customerID, err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// ApplyAggregateDeltasInTx moves a customer's balance, total_due and
// total_payment by the given signed deltas in one server-evaluated update and
// returns the new balance. Expressing the adjustment as `balance = balance +
// delta` inside the caller's transaction is what serializes concurrent
// ledger writes against the same customer; the application never writes back
// a balance it read.
func (r *PgxCustomerRepository) ApplyAggregateDeltasInTx(ctx context.Context, tx pgx.Tx, customerID string, deltas portsrepo.AggregateDeltas, now time.Time) (decimal.Decimal, error) {
	query := `
		UPDATE customers
		SET balance = balance + $2,
		    total_due = total_due + $3,
		    total_payment = total_payment + $4,
		    updated_at = $5
		WHERE customer_id = $1
		RETURNING balance;
	`

	var newBalance decimal.Decimal
	err := tx.QueryRow(ctx, query, customerID, deltas.Balance, deltas.Due, deltas.Payment, now).Scan(&newBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, customerID)
		}
		return decimal.Zero, fmt.Errorf("failed to apply aggregate deltas for customer %s: %w", customerID, err)
	}

	return newBalance, nil
}

// ListCustomers retrieves one page of customers filtered by a
// case-insensitive substring match on name or phone, newest first.
func (r *PgxCustomerRepository) ListCustomers(ctx context.Context, p pagination.Params) ([]domain.Customer, int64, error) {
	filter := "%" + p.Query + "%"

	var count int64
	countQuery := `SELECT COUNT(*) FROM customers WHERE name ILIKE $1 OR phone ILIKE $1;`
	if err := r.Pool.QueryRow(ctx, countQuery, filter).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	query := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE name ILIKE $1 OR phone ILIKE $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, filter, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		m, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer row: %w", err)
		}
		customers = append(customers, m)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating customer rows: %w", err)
	}

	return mapping.ToDomainCustomerSlice(customers), count, nil
}

// SearchCustomers retrieves all customers matching the filter, unpaginated.
// Used by the autocomplete search endpoint.
func (r *PgxCustomerRepository) SearchCustomers(ctx context.Context, query string) ([]domain.Customer, error) {
	filter := "%" + query + "%"

	sqlQuery := `
		SELECT ` + customerColumns + `
		FROM customers
		WHERE name ILIKE $1 OR phone ILIKE $1
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, sqlQuery, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		m, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer row during search: %w", err)
		}
		customers = append(customers, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer rows during search: %w", err)
	}

	return mapping.ToDomainCustomerSlice(customers), nil
}
