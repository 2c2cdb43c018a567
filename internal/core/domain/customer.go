package domain

import "time"

// Customer is a ledger party identified by phone number. Balance and the two
// lifetime sums always reflect exactly the set of existing transactions for
// the customer: balance == totalPayment - totalDue accumulated over time.
type Customer struct {
	CustomerID   string    `json:"customerID"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"` // natural unique key, upsert target
	Address      string    `json:"address"`
	Remark       string    `json:"remark"`
	Balance      Money     `json:"balance"`
	TotalDue     Money     `json:"totalDue"`
	TotalPayment Money     `json:"totalPayment"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
