package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Contiene los KPIs principales del día y del mes en curso, calculados sobre el espejo local.
type DashboardSummaryDTO struct {
	// Métricas del día actual (00:00 – 23:59)
	TodaySales  decimal.Decimal `json:"todaySales"`  // ingresos netos de hoy
	TodayMargin decimal.Decimal `json:"todayMargin"` // margen bruto de hoy (revenue - COGS)

	// Métricas del mes en curso (día 1 – hoy)
	MonthlySales    decimal.Decimal `json:"monthlySales"`
	MonthlyMargin   decimal.Decimal `json:"monthlyMargin"`
	MonthlyExpenses decimal.Decimal `json:"monthlyExpenses"`

	// Top 5 productos por ingreso del mes
	TopProducts []TopProductDTO `json:"topProducts"`

	LowStockCount int `json:"lowStockCount"`
	PendingSync   int `json:"pendingSync"` // operaciones en la cola offline

	// Metadatos del período
	DateLabel string `json:"dateLabel"` // ej: "Febrero 2026"
}
