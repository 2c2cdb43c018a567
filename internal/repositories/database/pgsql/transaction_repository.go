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
)

const transactionColumns = `transaction_id, customer_id, due, payment, balance_after_transaction, invoice_id, notes, created_at`

type PgxTransactionRepository struct {
	BaseRepository
	customerRepo portsrepo.CustomerLedgerSupport
}

// newPgxTransactionRepository creates a new repository for transaction data.
func newPgxTransactionRepository(pool *pgxpool.Pool, customerRepo portsrepo.CustomerLedgerSupport) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		customerRepo:   customerRepo,
	}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryWithTx
var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

// RecordTransaction applies the transaction's monetary effect to its customer
// and inserts the row, all within a single database transaction.
//
// The aggregate update runs first and its RETURNING balance becomes the
// row's balance_after_transaction snapshot, so the snapshot is taken under
// the same row lock that serializes concurrent writes to this customer.
func (r *PgxTransactionRepository) RecordTransaction(ctx context.Context, txn domain.Transaction) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	// Ignored if the transaction commits successfully
	defer r.Rollback(ctx, tx)

	delta := txn.Delta()
	newBalance, err := r.customerRepo.ApplyAggregateDeltasInTx(ctx, tx, txn.CustomerID, portsrepo.AggregateDeltas{
		Balance: delta.Decimal(),
		Due:     txn.Due.Decimal(),
		Payment: txn.Payment.Decimal(),
	}, txn.CreatedAt)
	if err != nil {
		return nil, err
	}

	modelTxn := mapping.ToModelTransaction(txn)
	modelTxn.BalanceAfter = newBalance

	insertQuery := `
		INSERT INTO transactions (transaction_id, customer_id, due, payment, balance_after_transaction, invoice_id, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, insertQuery,
		modelTxn.TransactionID,
		modelTxn.CustomerID,
		modelTxn.Due,
		modelTxn.Payment,
		modelTxn.BalanceAfter,
		modelTxn.InvoiceID,
		modelTxn.Notes,
		modelTxn.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // foreign key violation
			return nil, fmt.Errorf("%w: customer %s", apperrors.ErrNotFound, modelTxn.CustomerID)
		}
		return nil, fmt.Errorf("failed to insert transaction %s: %w", modelTxn.TransactionID, err)
	}

	// Read the customer inside the same transaction so the attached snapshot
	// matches the committed state.
	customerQuery := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1;`
	modelCust, err := scanCustomer(tx.QueryRow(ctx, customerQuery, modelTxn.CustomerID))
	if err != nil {
		return nil, fmt.Errorf("failed to read customer %s after aggregate update: %w", modelTxn.CustomerID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	recorded := mapping.ToDomainTransaction(modelTxn)
	domainCust := mapping.ToDomainCustomer(modelCust)
	recorded.Customer = &domainCust
	return &recorded, nil
}

// ReverseTransaction deletes a transaction row and undoes its monetary
// effect on the customer, all within a single database transaction. The
// stored due/payment values are the source of truth for the reversal; the
// row is locked first so a concurrent reversal of the same transaction
// cannot apply the deltas twice.
func (r *PgxTransactionRepository) ReverseTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	selectQuery := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE transaction_id = $1
		FOR UPDATE;
	`
	modelTxn, err := scanTransaction(tx.QueryRow(ctx, selectQuery, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("failed to find transaction %s for reversal: %w", transactionID, err)
	}

	txn := mapping.ToDomainTransaction(modelTxn)
	delta := txn.Delta()

	_, err = r.customerRepo.ApplyAggregateDeltasInTx(ctx, tx, txn.CustomerID, portsrepo.AggregateDeltas{
		Balance: delta.Neg().Decimal(),
		Due:     txn.Due.Neg().Decimal(),
		Payment: txn.Payment.Neg().Decimal(),
	}, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	deleteQuery := `DELETE FROM transactions WHERE transaction_id = $1;`
	cmdTag, err := tx.Exec(ctx, deleteQuery, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// Row was locked above, so it cannot have vanished.
		return nil, apperrors.NewAppError(500, "transaction "+transactionID+" disappeared during reversal", nil)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}

	return &txn, nil
}

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.CustomerID,
		&m.Due,
		&m.Payment,
		&m.BalanceAfter,
		&m.InvoiceID,
		&m.Notes,
		&m.CreatedAt,
	)
	return m, err
}

// FindTransactionByID retrieves a transaction joined with its customer.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT t.transaction_id, t.customer_id, t.due, t.payment, t.balance_after_transaction, t.invoice_id, t.notes, t.created_at,
		       c.customer_id, c.name, c.phone, c.address, c.remark, c.balance, c.total_due, c.total_payment, c.created_at, c.updated_at
		FROM transactions t
		JOIN customers c ON t.customer_id = c.customer_id
		WHERE t.transaction_id = $1;
	`

	var modelTxn models.Transaction
	var modelCust models.Customer
	err := r.Pool.QueryRow(ctx, query, transactionID).Scan(
		&modelTxn.TransactionID,
		&modelTxn.CustomerID,
		&modelTxn.Due,
		&modelTxn.Payment,
		&modelTxn.BalanceAfter,
		&modelTxn.InvoiceID,
		&modelTxn.Notes,
		&modelTxn.CreatedAt,
		&modelCust.CustomerID,
		&modelCust.Name,
		&modelCust.Phone,
		&modelCust.Address,
		&modelCust.Remark,
		&modelCust.Balance,
		&modelCust.TotalDue,
		&modelCust.TotalPayment,
		&modelCust.CreatedAt,
		&modelCust.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}

	txn := mapping.ToDomainTransaction(modelTxn)
	cust := mapping.ToDomainCustomer(modelCust)
	txn.Customer = &cust
	return &txn, nil
}

// FindTransactionsByCustomerID retrieves all transactions of one customer,
// newest first.
func (r *PgxTransactionRepository) FindTransactionsByCustomerID(ctx context.Context, customerID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE customer_id = $1
		ORDER BY created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for customer %s: %w", customerID, err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row for customer %s: %w", customerID, err)
		}
		transactions = append(transactions, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows for customer %s: %w", customerID, err)
	}

	return mapping.ToDomainTransactionSlice(transactions), nil
}

// ListTransactions retrieves one page of transactions filtered by the
// related customer's name or phone, newest first, joined with the customer.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, p pagination.Params) ([]domain.Transaction, int64, error) {
	filter := "%" + p.Query + "%"

	var count int64
	countQuery := `
		SELECT COUNT(*)
		FROM transactions t
		JOIN customers c ON t.customer_id = c.customer_id
		WHERE c.name ILIKE $1 OR c.phone ILIKE $1;
	`
	if err := r.Pool.QueryRow(ctx, countQuery, filter).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	query := `
		SELECT t.transaction_id, t.customer_id, t.due, t.payment, t.balance_after_transaction, t.invoice_id, t.notes, t.created_at,
		       c.customer_id, c.name, c.phone, c.address, c.remark, c.balance, c.total_due, c.total_payment, c.created_at, c.updated_at
		FROM transactions t
		JOIN customers c ON t.customer_id = c.customer_id
		WHERE c.name ILIKE $1 OR c.phone ILIKE $1
		ORDER BY t.created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, filter, p.Limit, p.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		var modelTxn models.Transaction
		var modelCust models.Customer
		err := rows.Scan(
			&modelTxn.TransactionID,
			&modelTxn.CustomerID,
			&modelTxn.Due,
			&modelTxn.Payment,
			&modelTxn.BalanceAfter,
			&modelTxn.InvoiceID,
			&modelTxn.Notes,
			&modelTxn.CreatedAt,
			&modelCust.CustomerID,
			&modelCust.Name,
			&modelCust.Phone,
			&modelCust.Address,
			&modelCust.Remark,
			&modelCust.Balance,
			&modelCust.TotalDue,
			&modelCust.TotalPayment,
			&modelCust.CreatedAt,
			&modelCust.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan transaction row: %w", err)
		}

		txn := mapping.ToDomainTransaction(modelTxn)
		cust := mapping.ToDomainCustomer(modelCust)
		txn.Customer = &cust
		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return transactions, count, nil
}
