package dto

import (
	"time"

	"github.com/khata-app/khata-backend/internal/core/domain"
	"github.com/khata-app/khata-backend/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// CreateCustomerRequest carries the customer form fields. Phone is the
// natural key: posting an existing phone updates that customer instead of
// creating a duplicate.
type CreateCustomerRequest struct {
	Name    string          `json:"name" binding:"required,min=2"`
	Phone   string          `json:"phone" binding:"required,len=11"`
	Address string          `json:"address"`
	Remark  string          `json:"remark"`
	Balance decimal.Decimal `json:"balance"`
}

// UpdateCustomerRequest is a partial update of the mutable customer fields.
// Balance and the lifetime sums are never updatable from outside the ledger.
type UpdateCustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=2"`
	Phone   *string `json:"phone" binding:"omitempty,len=11"`
	Address *string `json:"address"`
	Remark  *string `json:"remark"`
}

// ListRequest carries the shared query-string parameters for list endpoints.
type ListRequest struct {
	Query string `form:"query"`
	Page  int    `form:"page"`
	Limit int    `form:"limit"`
}

// Params converts the request into normalized pagination parameters.
func (r ListRequest) Params() pagination.Params {
	return pagination.Params{Query: r.Query, Page: r.Page, Limit: r.Limit}.Normalize()
}

// CustomerResponse defines the data returned for a customer.
type CustomerResponse struct {
	CustomerID   string          `json:"customerID"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone"`
	Address      string          `json:"address"`
	Remark       string          `json:"remark"`
	Balance      decimal.Decimal `json:"balance"`
	TotalDue     decimal.Decimal `json:"totalDue"`
	TotalPayment decimal.Decimal `json:"totalPayment"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// ListCustomersResponse is one page of customers plus pagination metadata.
type ListCustomersResponse struct {
	Customers []CustomerResponse `json:"customers"`
	pagination.Meta
}

// ToCustomerResponse converts a domain.Customer to its response DTO.
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID:   c.CustomerID,
		Name:         c.Name,
		Phone:        c.Phone,
		Address:      c.Address,
		Remark:       c.Remark,
		Balance:      c.Balance.Decimal(),
		TotalDue:     c.TotalDue.Decimal(),
		TotalPayment: c.TotalPayment.Decimal(),
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// ToCustomerResponses converts a slice of domain customers.
func ToCustomerResponses(cs []domain.Customer) []CustomerResponse {
	responses := make([]CustomerResponse, len(cs))
	for i, c := range cs {
		responses[i] = ToCustomerResponse(&c)
	}
	return responses
}
