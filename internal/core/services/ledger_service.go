package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/khata-app/khata-backend/internal/apperrors"
	"github.com/khata-app/khata-backend/internal/core/domain"
	portsrepo "github.com/khata-app/khata-backend/internal/core/ports/repositories"
	portssvc "github.com/khata-app/khata-backend/internal/core/ports/services"
	"github.com/khata-app/khata-backend/internal/dto"
	"github.com/khata-app/khata-backend/internal/middleware"
	"github.com/khata-app/khata-backend/internal/utils/pagination"
)

var (
	ErrNegativeAmount = errors.New("due and payment must not be negative")
)

// ledgerService owns the protocol for mutating a customer and its
// transactions together. It holds no data of its own: every record/reverse
// call delegates to the repository's single atomic unit of work, so a
// transaction row and its customer's aggregates can never drift apart.
type ledgerService struct {
	transactionRepo portsrepo.TransactionRepositoryFacade
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(transactionRepo portsrepo.TransactionRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{transactionRepo: transactionRepo}
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// RecordTransaction records one due/payment entry against a customer.
// The customer's balance moves by (payment - due) and the lifetime sums grow
// by due and payment, all applied server-side inside one database
// transaction together with the row insert. On any failure nothing persists.
func (s *ledgerService) RecordTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	due := domain.MoneyFromDecimal(req.Due)
	payment := domain.MoneyFromDecimal(req.Payment)

	// Amounts are accepted as given (payment may exceed due and vice versa;
	// negative balances are a normal state), but each amount itself must be
	// a non-negative quantity.
	if due.IsNegative() || payment.IsNegative() {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, ErrNegativeAmount)
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		CustomerID:    req.CustomerID,
		Due:           due,
		Payment:       payment,
		InvoiceID:     req.InvoiceID,
		Notes:         req.Notes,
		CreatedAt:     time.Now().UTC(),
		// BalanceAfter is set by the repository from the post-update balance.
	}

	recorded, err := s.transactionRepo.RecordTransaction(ctx, txn)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Record transaction for unknown customer", slog.String("customer_id", req.CustomerID))
			return nil, err
		}
		return nil, fmt.Errorf("failed to record transaction for customer %s: %w", req.CustomerID, err)
	}

	logger.Info("Transaction recorded",
		slog.String("transaction_id", recorded.TransactionID),
		slog.String("customer_id", recorded.CustomerID),
		slog.String("balance_after", recorded.BalanceAfter.String()),
	)
	return recorded, nil
}

// ReverseTransaction deletes a transaction and undoes its monetary effect.
// The delta is recomputed from the stored row's own due/payment fields, not
// from caller input; update and delete commit or roll back together.
func (s *ledgerService) ReverseTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	reversed, err := s.transactionRepo.ReverseTransaction(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Reverse of unknown transaction", slog.String("transaction_id", transactionID))
			return nil, err
		}
		return nil, fmt.Errorf("failed to reverse transaction %s: %w", transactionID, err)
	}

	logger.Info("Transaction reversed",
		slog.String("transaction_id", reversed.TransactionID),
		slog.String("customer_id", reversed.CustomerID),
	)
	return reversed, nil
}

func (s *ledgerService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", transactionID, err)
	}
	return txn, nil
}

func (s *ledgerService) ListTransactions(ctx context.Context, p pagination.Params) ([]domain.Transaction, pagination.Meta, error) {
	p = p.Normalize()

	transactions, count, err := s.transactionRepo.ListTransactions(ctx, p)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, pagination.NewMeta(count, p), nil
}

func (s *ledgerService) ListTransactionsByCustomer(ctx context.Context, customerID string) ([]domain.Transaction, error) {
	transactions, err := s.transactionRepo.FindTransactionsByCustomerID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for customer %s: %w", customerID, err)
	}
	return transactions, nil
}
