package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/khata-app/khata-backend/internal/core/domain"
	portsrepo "github.com/khata-app/khata-backend/internal/core/ports/repositories"
	portssvc "github.com/khata-app/khata-backend/internal/core/ports/services"
	"github.com/khata-app/khata-backend/internal/dto"
	"github.com/khata-app/khata-backend/internal/middleware"
	"github.com/khata-app/khata-backend/internal/utils/pagination"
)

// customerService provides customer CRUD and listing operations.
type customerService struct {
	customerRepo portsrepo.CustomerRepositoryFacade
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(customerRepo portsrepo.CustomerRepositoryFacade) portssvc.CustomerSvcFacade {
	return &customerService{customerRepo: customerRepo}
}

// Ensure customerService implements the portssvc.CustomerSvcFacade interface
var _ portssvc.CustomerSvcFacade = (*customerService)(nil)

// CreateCustomer persists a new customer. A request carrying an already
// registered phone number updates that customer instead (upsert-by-phone);
// the lifetime due/payment sums start at zero only on first insert.
func (s *customerService) CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*domain.Customer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	customer := domain.Customer{
		CustomerID:   uuid.NewString(),
		Name:         req.Name,
		Phone:        req.Phone,
		Address:      req.Address,
		Remark:       req.Remark,
		Balance:      domain.MoneyFromDecimal(req.Balance),
		TotalDue:     domain.ZeroMoney(),
		TotalPayment: domain.ZeroMoney(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	saved, err := s.customerRepo.SaveCustomer(ctx, customer)
	if err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	logger.Info("Customer saved", slog.String("customer_id", saved.CustomerID))
	return saved, nil
}

func (s *customerService) GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer %s: %w", customerID, err)
	}
	return customer, nil
}

// UpdateCustomer applies a partial update of name/phone/address/remark.
// Monetary aggregates are out of reach here; only the ledger mutates them.
func (s *customerService) UpdateCustomer(ctx context.Context, customerID string, req dto.UpdateCustomerRequest) (*domain.Customer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to find customer %s for update: %w", customerID, err)
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.Remark != nil {
		customer.Remark = *req.Remark
	}
	customer.UpdatedAt = time.Now().UTC()

	if err := s.customerRepo.UpdateCustomer(ctx, *customer); err != nil {
		return nil, fmt.Errorf("failed to update customer %s: %w", customerID, err)
	}

	logger.Info("Customer updated", slog.String("customer_id", customerID))
	return customer, nil
}

// DeleteCustomer removes a customer. Deletion is refused while transactions
// still reference the customer; the ledger history is never cascaded away.
func (s *customerService) DeleteCustomer(ctx context.Context, customerID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.customerRepo.DeleteCustomer(ctx, customerID); err != nil {
		return fmt.Errorf("failed to delete customer %s: %w", customerID, err)
	}

	logger.Info("Customer deleted", slog.String("customer_id", customerID))
	return nil
}

func (s *customerService) ListCustomers(ctx context.Context, p pagination.Params) ([]domain.Customer, pagination.Meta, error) {
	p = p.Normalize()

	customers, count, err := s.customerRepo.ListCustomers(ctx, p)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("failed to list customers: %w", err)
	}

	return customers, pagination.NewMeta(count, p), nil
}

func (s *customerService) SearchCustomers(ctx context.Context, query string) ([]domain.Customer, error) {
	customers, err := s.customerRepo.SearchCustomers(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	return customers, nil
}
