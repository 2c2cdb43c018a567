package services

import (
	"context"

	"github.com/khata-app/khata-backend/internal/core/domain"
	"github.com/khata-app/khata-backend/internal/dto"
	"github.com/khata-app/khata-backend/internal/utils/pagination"
)

// CustomerReaderSvc defines read operations for customer data
type CustomerReaderSvc interface {
	// GetCustomerByID retrieves a specific customer.
	GetCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)

	// ListCustomers retrieves one page of customers plus pagination metadata.
	ListCustomers(ctx context.Context, p pagination.Params) ([]domain.Customer, pagination.Meta, error)

	// SearchCustomers retrieves all customers matching a substring filter.
	SearchCustomers(ctx context.Context, query string) ([]domain.Customer, error)
}

// CustomerWriterSvc defines write operations for customer data
type CustomerWriterSvc interface {
	// CreateCustomer creates a customer, or updates the existing one when the
	// phone number is already registered (upsert-by-phone).
	CreateCustomer(ctx context.Context, req dto.CreateCustomerRequest) (*domain.Customer, error)

	// UpdateCustomer applies a partial update of the mutable fields.
	UpdateCustomer(ctx context.Context, customerID string, req dto.UpdateCustomerRequest) (*domain.Customer, error)

	// DeleteCustomer removes a customer with no remaining transactions.
	DeleteCustomer(ctx context.Context, customerID string) error
}

// CustomerSvcFacade combines all customer-related service interfaces
type CustomerSvcFacade interface {
	CustomerReaderSvc
	CustomerWriterSvc
}
