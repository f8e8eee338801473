package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de venta.
const (
	SaleStatusCompleted = "completed"
	SaleStatusPending   = "pending"
	SaleStatusCancelled = "cancelled"
)

// SaleItem línea de una venta o devolución.
type SaleItem struct {
	ProductID string          `json:"productId,omitempty"`
	Name      string          `json:"name" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unitPrice" validate:"gte=0"`
}

// LineTotal cantidad * precio unitario.
func (i SaleItem) LineTotal() decimal.Decimal {
	return i.Quantity.Mul(i.UnitPrice)
}

// Sale venta registrada en el punto de venta.
// Total incluye impuestos; si llega en cero se deriva de las líneas.
type Sale struct {
	Meta
	InvoiceNumber string          `json:"invoiceNumber,omitempty"`
	CustomerID    string          `json:"customerId,omitempty"`
	CustomerName  string          `json:"customerName,omitempty"`
	Items         []SaleItem      `json:"items" validate:"required,min=1,dive"`
	Total         decimal.Decimal `json:"total" validate:"gte=0"`
	PaymentMethod string          `json:"paymentMethod,omitempty"`
	Status        string          `json:"status,omitempty"`
	Date          Date            `json:"date"`
}

// Resource implementa Record.
func (Sale) Resource() Resource { return ResourceSales }

// BusinessDate fecha de la venta.
func (s Sale) BusinessDate() time.Time { return s.Date.Time }

// Amount total de la venta; suma de líneas si Total no vino informado.
func (s Sale) Amount() decimal.Decimal {
	if !s.Total.IsZero() {
		return s.Total
	}
	sum := decimal.Zero
	for _, it := range s.Items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

// Counts indica si la venta suma en reportes (las canceladas no).
func (s Sale) Counts() bool {
	return s.Status != SaleStatusCancelled
}

// Return devolución total o parcial de una venta.
type Return struct {
	Meta
	SaleID string          `json:"saleId" validate:"required"`
	Items  []SaleItem      `json:"items,omitempty" validate:"dive"`
	Amount decimal.Decimal `json:"amount" validate:"gte=0"`
	Reason string          `json:"reason,omitempty"`
	Status string          `json:"status,omitempty"`
	Date   Date            `json:"date"`
}

// Resource implementa Record.
func (Return) Resource() Resource { return ResourceReturns }

// BusinessDate fecha de la devolución.
func (r Return) BusinessDate() time.Time { return r.Date.Time }
