package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense gasto operativo (arriendo, servicios, transporte...).
type Expense struct {
	Meta
	Category      string          `json:"category" validate:"required"`
	Description   string          `json:"description,omitempty"`
	Amount        decimal.Decimal `json:"amount" validate:"gt=0"`
	Date          Date            `json:"date"`
	Vendor        string          `json:"vendor,omitempty"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
}

// Resource implementa Record.
func (Expense) Resource() Resource { return ResourceExpenses }

// BusinessDate fecha del gasto.
func (e Expense) BusinessDate() time.Time { return e.Date.Time }
