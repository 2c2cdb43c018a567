package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction mirrors the transactions table.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	CustomerID    string          `json:"customerID"` // FK -> Customer.customerID (Not Null)
	Due           decimal.Decimal `json:"due"`
	Payment       decimal.Decimal `json:"payment"`
	BalanceAfter  decimal.Decimal `json:"balanceAfterTransaction"` // snapshot, immutable
	InvoiceID     string          `json:"invoiceID"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"createdAt"`
}
