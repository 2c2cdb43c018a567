package dto

import (
	"time"

	"github.com/khata-app/khata-backend/internal/core/domain"
	"github.com/khata-app/khata-backend/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest records one due/payment entry for a customer.
type CreateTransactionRequest struct {
	CustomerID string          `json:"customerID" binding:"required"`
	Due        decimal.Decimal `json:"due"`
	Payment    decimal.Decimal `json:"payment"`
	InvoiceID  string          `json:"invoiceID"`
	Notes      string          `json:"notes"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID string            `json:"transactionID"`
	CustomerID    string            `json:"customerID"`
	Due           decimal.Decimal   `json:"due"`
	Payment       decimal.Decimal   `json:"payment"`
	BalanceAfter  decimal.Decimal   `json:"balanceAfterTransaction"`
	InvoiceID     string            `json:"invoiceID"`
	Notes         string            `json:"notes"`
	CreatedAt     time.Time         `json:"createdAt"`
	Customer      *CustomerResponse `json:"customer,omitempty"`
}

// ListTransactionsResponse is one page of transactions plus pagination metadata.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	pagination.Meta
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	resp := TransactionResponse{
		TransactionID: t.TransactionID,
		CustomerID:    t.CustomerID,
		Due:           t.Due.Decimal(),
		Payment:       t.Payment.Decimal(),
		BalanceAfter:  t.BalanceAfter.Decimal(),
		InvoiceID:     t.InvoiceID,
		Notes:         t.Notes,
		CreatedAt:     t.CreatedAt,
	}
	if t.Customer != nil {
		customer := ToCustomerResponse(t.Customer)
		resp.Customer = &customer
	}
	return resp
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(ts []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(ts))
	for i, t := range ts {
		responses[i] = ToTransactionResponse(&t)
	}
	return responses
}
