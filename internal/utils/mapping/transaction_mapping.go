package mapping

import (
	"github.com/khata-app/khata-backend/internal/core/domain"
	"github.com/khata-app/khata-backend/internal/models"
)

// ToModelTransaction converts a domain.Transaction to its DB representation.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		CustomerID:    d.CustomerID,
		Due:           d.Due.Decimal(),
		Payment:       d.Payment.Decimal(),
		BalanceAfter:  d.BalanceAfter.Decimal(),
		InvoiceID:     d.InvoiceID,
		Notes:         d.Notes,
		CreatedAt:     d.CreatedAt,
	}
}

// ToDomainTransaction converts a DB transaction row to the domain type.
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		CustomerID:    m.CustomerID,
		Due:           domain.MoneyFromDecimal(m.Due),
		Payment:       domain.MoneyFromDecimal(m.Payment),
		BalanceAfter:  domain.MoneyFromDecimal(m.BalanceAfter),
		InvoiceID:     m.InvoiceID,
		Notes:         m.Notes,
		CreatedAt:     m.CreatedAt,
	}
}

// ToDomainTransactionSlice converts a slice of DB rows.
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
