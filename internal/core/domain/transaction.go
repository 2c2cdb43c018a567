package domain

import "time"

// Transaction is one due/payment entry against a customer. BalanceAfter is a
// snapshot of the customer balance taken when the entry was recorded; it is a
// historical fact and is never recomputed.
type Transaction struct {
	TransactionID string    `json:"transactionID"`
	CustomerID    string    `json:"customerID"`
	Due           Money     `json:"due"`
	Payment       Money     `json:"payment"`
	BalanceAfter  Money     `json:"balanceAfterTransaction"`
	InvoiceID     string    `json:"invoiceID"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`

	// Customer is populated on reads that join the owning customer.
	Customer *Customer `json:"customer,omitempty"`
}

// Delta returns the net effect of the transaction on the customer balance.
func (t Transaction) Delta() Money {
	return t.Payment.Sub(t.Due)
}
