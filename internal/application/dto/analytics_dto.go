package dto

import "github.com/shopspring/decimal"

// Origen de un reporte financiero.
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
)

// ── Query parameters ──────────────────────────────────────────────────────────

// FinancialReportRequest parámetros para GET /api/reports/financial.
type FinancialReportRequest struct {
	StartDate string `query:"start_date"` // YYYY-MM-DD; por defecto primer día del mes actual
	EndDate   string `query:"end_date"`   // YYYY-MM-DD; por defecto hoy
	TopN      int    `query:"top_n"`      // máx productos a devolver (default 5, max 50)
}

// ── Reporte ───────────────────────────────────────────────────────────────────

// PeriodDTO rango de fechas del reporte.
type PeriodDTO struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// VATSummaryDTO IVA del período. Los montos de ventas y gastos se asumen con IVA incluido.
type VATSummaryDTO struct {
	Rate      decimal.Decimal `json:"rate"`      // fracción: 0.16
	OutputVAT decimal.Decimal `json:"outputVat"` // IVA cobrado en ventas netas de devoluciones
	InputVAT  decimal.Decimal `json:"inputVat"`  // IVA pagado en gastos
	NetVAT    decimal.Decimal `json:"netVat"`    // OutputVAT - InputVAT (a pagar si > 0)
}

// CategoryTotalDTO gasto agregado por categoría.
type CategoryTotalDTO struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Percent  decimal.Decimal `json:"percent"` // participación % en el gasto total
}

// TopProductDTO producto más vendido del período.
type TopProductDTO struct {
	ProductID string          `json:"productId,omitempty"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// TrendPointDTO ventas de un día.
type TrendPointDTO struct {
	Date    string          `json:"date"` // YYYY-MM-DD
	Revenue decimal.Decimal `json:"revenue"`
	Count   int             `json:"count"`
}

// LowStockDTO proyección de agotamiento de un producto.
type LowStockDTO struct {
	ItemID            string           `json:"itemId"`
	Name              string           `json:"name"`
	SKU               string           `json:"sku,omitempty"`
	Quantity          decimal.Decimal  `json:"quantity"`
	ReorderLevel      decimal.Decimal  `json:"reorderLevel"`
	AvgDailySales     decimal.Decimal  `json:"avgDailySales"`
	DaysOfCover       *decimal.Decimal `json:"daysOfCover"` // nil: sin ventas en el período
	SuggestedOrderQty decimal.Decimal  `json:"suggestedOrderQty"`
}

// FinancialReportDTO respuesta de GET /api/reports/financial.
type FinancialReportDTO struct {
	Source             string             `json:"source"` // remote | local
	Period             PeriodDTO          `json:"period"`
	Currency           string             `json:"currency,omitempty"`
	GrossSales         decimal.Decimal    `json:"grossSales"`
	Returns            decimal.Decimal    `json:"returns"`
	Revenue            decimal.Decimal    `json:"revenue"` // GrossSales - Returns
	CostOfGoods        decimal.Decimal    `json:"costOfGoods"`
	GrossProfit        decimal.Decimal    `json:"grossProfit"`
	Expenses           decimal.Decimal    `json:"expenses"`
	NetProfit          decimal.Decimal    `json:"netProfit"`
	ProfitMargin       decimal.Decimal    `json:"profitMargin"` // NetProfit / Revenue * 100
	SalesCount         int                `json:"salesCount"`
	VAT                VATSummaryDTO      `json:"vat"`
	ExpensesByCategory []CategoryTotalDTO `json:"expensesByCategory"`
	TopProducts        []TopProductDTO    `json:"topProducts"`
	SalesTrend         []TrendPointDTO    `json:"salesTrend"`
	LowStock           []LowStockDTO      `json:"lowStock"`
}
