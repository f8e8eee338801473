package entity

import "github.com/shopspring/decimal"

// InventoryItem producto del inventario del negocio.
// UnitPrice es el precio de venta; CostPrice el de compra (para COGS).
type InventoryItem struct {
	Meta
	Name         string          `json:"name" validate:"required"`
	SKU          string          `json:"sku,omitempty"`
	Category     string          `json:"category,omitempty"`
	Quantity     decimal.Decimal `json:"quantity" validate:"gte=0"`
	UnitPrice    decimal.Decimal `json:"unitPrice" validate:"gte=0"`
	CostPrice    decimal.Decimal `json:"costPrice" validate:"gte=0"`
	ReorderLevel decimal.Decimal `json:"reorderLevel" validate:"gte=0"`
	Supplier     string          `json:"supplier,omitempty"`
	Description  string          `json:"description,omitempty"`
}

// Resource implementa Record.
func (InventoryItem) Resource() Resource { return ResourceInventory }

// StockValue valor del stock a precio de costo.
func (i InventoryItem) StockValue() decimal.Decimal {
	return i.Quantity.Mul(i.CostPrice)
}

// IsLowStock verdadero si la cantidad está en o bajo el punto de reorden.
// Sin punto de reorden propio se usa el umbral del negocio.
func (i InventoryItem) IsLowStock(threshold decimal.Decimal) bool {
	level := i.ReorderLevel
	if level.IsZero() {
		level = threshold
	}
	return i.Quantity.LessThanOrEqual(level)
}
