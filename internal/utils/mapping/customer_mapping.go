package mapping

import (
	"github.com/khata-app/khata-backend/internal/core/domain"
	"github.com/khata-app/khata-backend/internal/models"
)

// ToModelCustomer converts a domain.Customer to its DB representation.
func ToModelCustomer(d domain.Customer) models.Customer {
	return models.Customer{
		CustomerID:   d.CustomerID,
		Name:         d.Name,
		Phone:        d.Phone,
		Address:      d.Address,
		Remark:       d.Remark,
		Balance:      d.Balance.Decimal(),
		TotalDue:     d.TotalDue.Decimal(),
		TotalPayment: d.TotalPayment.Decimal(),
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// ToDomainCustomer converts a DB customer row to the domain type.
func ToDomainCustomer(m models.Customer) domain.Customer {
	return domain.Customer{
		CustomerID:   m.CustomerID,
		Name:         m.Name,
		Phone:        m.Phone,
		Address:      m.Address,
		Remark:       m.Remark,
		Balance:      domain.MoneyFromDecimal(m.Balance),
		TotalDue:     domain.MoneyFromDecimal(m.TotalDue),
		TotalPayment: domain.MoneyFromDecimal(m.TotalPayment),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

// ToDomainCustomerSlice converts a slice of DB rows.
func ToDomainCustomerSlice(ms []models.Customer) []domain.Customer {
	ds := make([]domain.Customer, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainCustomer(m)
	}
	return ds
}
