package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer mirrors the customers table.
// Note: monetary columns use a precise decimal type like github.com/shopspring/decimal
type Customer struct {
	CustomerID   string          `json:"customerID"`
	Name         string          `json:"name"`
	Phone        string          `json:"phone"` // Unique
	Address      string          `json:"address"`
	Remark       string          `json:"remark"`
	Balance      decimal.Decimal `json:"balance"`
	TotalDue     decimal.Decimal `json:"totalDue"`
	TotalPayment decimal.Decimal `json:"totalPayment"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}
