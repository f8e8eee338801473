package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de pago habituales.
const (
	PaymentMethodCash  = "cash"
	PaymentMethodMpesa = "mpesa"
	PaymentMethodCard  = "card"
	PaymentMethodBank  = "bank"
)

// Payment pago recibido contra una venta.
type Payment struct {
	Meta
	SaleID     string          `json:"saleId,omitempty"`
	CustomerID string          `json:"customerId,omitempty"`
	Amount     decimal.Decimal `json:"amount" validate:"gt=0"`
	Method     string          `json:"method" validate:"required"`
	Reference  string          `json:"reference,omitempty"` // código de transacción M-Pesa, cheque...
	Status     string          `json:"status,omitempty"`
	Date       Date            `json:"date"`
}

// Resource implementa Record.
func (Payment) Resource() Resource { return ResourcePayments }

// BusinessDate fecha del pago.
func (p Payment) BusinessDate() time.Time { return p.Date.Time }
