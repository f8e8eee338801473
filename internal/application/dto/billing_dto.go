package dto

import "github.com/shopspring/decimal"

// InvoicePartyDTO emisor o receptor de la factura.
type InvoicePartyDTO struct {
	Name    string `json:"name"`
	TaxPIN  string `json:"taxPin,omitempty"` // KRA PIN
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// InvoiceLineDTO línea de la factura. Los montos incluyen IVA.
type InvoiceLineDTO struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// InvoiceDTO factura de una venta lista para renderizar.
// NetTotal + VATTotal = GrandTotal; el IVA se extrae del total (precios con IVA incluido).
type InvoiceDTO struct {
	SaleKey       string           `json:"saleKey"`
	Number        string           `json:"number"`
	Date          string           `json:"date"` // dd/mm/yyyy
	Issuer        InvoicePartyDTO  `json:"issuer"`
	Customer      InvoicePartyDTO  `json:"customer"`
	Lines         []InvoiceLineDTO `json:"lines"`
	Currency      string           `json:"currency"`
	VATRate       decimal.Decimal  `json:"vatRate"`
	NetTotal      decimal.Decimal  `json:"netTotal"`
	VATTotal      decimal.Decimal  `json:"vatTotal"`
	GrandTotal    decimal.Decimal  `json:"grandTotal"`
	PaymentMethod string           `json:"paymentMethod,omitempty"`
	Status        string           `json:"status,omitempty"`
	// Pending la venta aún no fue confirmada por el servidor.
	Pending bool `json:"pending"`
}
