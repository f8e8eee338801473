package entity

import "github.com/shopspring/decimal"

// SettingsMirrorKey clave de la configuración del negocio en el espejo local.
const SettingsMirrorKey = "businessSettings"

// Settings configuración del negocio (singleton, /business/settings).
type Settings struct {
	BusinessName      string          `json:"businessName,omitempty"`
	Currency          string          `json:"currency,omitempty"`
	VATRate           decimal.Decimal `json:"vatRate"` // fracción: 0.16 = 16 %
	LowStockThreshold decimal.Decimal `json:"lowStockThreshold"`
	InvoicePrefix     string          `json:"invoicePrefix,omitempty"`
	TaxPIN            string          `json:"taxPin,omitempty"` // KRA PIN
	Address           string          `json:"address,omitempty"`
	Phone             string          `json:"phone,omitempty"`
	Email             string          `json:"email,omitempty"`
}

// DefaultSettings valores usados antes de cargar la configuración remota.
func DefaultSettings() Settings {
	return Settings{
		BusinessName:      "Mi Negocio",
		Currency:          "KES",
		VATRate:           decimal.NewFromFloat(0.16),
		LowStockThreshold: decimal.NewFromInt(10),
		InvoicePrefix:     "INV",
	}
}

// WithDefaults completa los campos vacíos con los de base.
func (s Settings) WithDefaults(base Settings) Settings {
	if s.BusinessName == "" {
		s.BusinessName = base.BusinessName
	}
	if s.Currency == "" {
		s.Currency = base.Currency
	}
	if s.VATRate.IsZero() {
		s.VATRate = base.VATRate
	}
	if s.LowStockThreshold.IsZero() {
		s.LowStockThreshold = base.LowStockThreshold
	}
	if s.InvoicePrefix == "" {
		s.InvoicePrefix = base.InvoicePrefix
	}
	return s
}
