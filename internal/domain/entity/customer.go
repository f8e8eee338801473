package entity

import "github.com/shopspring/decimal"

// Customer cliente del negocio.
type Customer struct {
	Meta
	Name           string          `json:"name" validate:"required"`
	Email          string          `json:"email,omitempty" validate:"omitempty,email"`
	Phone          string          `json:"phone,omitempty"`
	Address        string          `json:"address,omitempty"`
	TotalPurchases decimal.Decimal `json:"totalPurchases"`
	Notes          string          `json:"notes,omitempty"`
}

// Resource implementa Record.
func (Customer) Resource() Resource { return ResourceCustomers }
