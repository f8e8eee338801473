// Package analytics agrega las métricas de negocio (ingresos, márgenes, IVA,
// proyección de stock) a partir de las colecciones cacheadas localmente.
// Todas las funciones son puras: no leen reloj, red ni espejo.
package analytics

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

var (
	hundred = decimal.NewFromInt(100)
	// reposición ideal: 1.5 veces el punto de reorden
	idealStockFactor = decimal.NewFromFloat(1.5)
)

// Snapshot colecciones sobre las que se calcula.
type Snapshot struct {
	Inventory []*entity.InventoryItem
	Sales     []*entity.Sale
	Expenses  []*entity.Expense
	Customers []*entity.Customer
	Returns   []*entity.Return
}

// NewSnapshot arma un Snapshot a partir de colecciones genéricas; ignora tipos ajenos.
func NewSnapshot(collections map[entity.Resource][]entity.Record) Snapshot {
	var s Snapshot
	for _, r := range collections[entity.ResourceInventory] {
		if v, ok := r.(*entity.InventoryItem); ok {
			s.Inventory = append(s.Inventory, v)
		}
	}
	for _, r := range collections[entity.ResourceSales] {
		if v, ok := r.(*entity.Sale); ok {
			s.Sales = append(s.Sales, v)
		}
	}
	for _, r := range collections[entity.ResourceExpenses] {
		if v, ok := r.(*entity.Expense); ok {
			s.Expenses = append(s.Expenses, v)
		}
	}
	for _, r := range collections[entity.ResourceCustomers] {
		if v, ok := r.(*entity.Customer); ok {
			s.Customers = append(s.Customers, v)
		}
	}
	for _, r := range collections[entity.ResourceReturns] {
		if v, ok := r.(*entity.Return); ok {
			s.Returns = append(s.Returns, v)
		}
	}
	return s
}

// ratio divide con la única guarda de división por cero del paquete.
func ratio(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole)
}

func percent(part, whole decimal.Decimal) decimal.Decimal {
	return ratio(part, whole).Mul(hundred).Round(2)
}

// nameKey clave de producto cuando la línea de venta no trae productId.
func nameKey(name string) string {
	return "name:" + strings.ToLower(strings.TrimSpace(name))
}

// ── Ventas ───────────────────────────────────────────────────────────────────

func (s Snapshot) salesIn(p Period) []*entity.Sale {
	out := make([]*entity.Sale, 0, len(s.Sales))
	for _, sale := range s.Sales {
		if sale.Counts() && p.Contains(entity.RecordDate(sale)) {
			out = append(out, sale)
		}
	}
	return out
}

// GrossSales suma de ventas no canceladas del período.
func (s Snapshot) GrossSales(p Period) decimal.Decimal {
	total := decimal.Zero
	for _, sale := range s.salesIn(p) {
		total = total.Add(sale.Amount())
	}
	return total
}

// SalesCount número de ventas no canceladas del período.
func (s Snapshot) SalesCount(p Period) int {
	return len(s.salesIn(p))
}

// ReturnsTotal devoluciones del período.
func (s Snapshot) ReturnsTotal(p Period) decimal.Decimal {
	total := decimal.Zero
	for _, r := range s.Returns {
		if p.Contains(entity.RecordDate(r)) {
			total = total.Add(r.Amount)
		}
	}
	return total
}

// Revenue ingresos netos: ventas menos devoluciones.
func (s Snapshot) Revenue(p Period) decimal.Decimal {
	return s.GrossSales(p).Sub(s.ReturnsTotal(p))
}

// CostOfGoods costo de lo vendido según el precio de costo del inventario.
// Las líneas sin producto conocido no suman costo.
func (s Snapshot) CostOfGoods(p Period) decimal.Decimal {
	byID, byName := s.inventoryIndex()
	total := decimal.Zero
	for _, sale := range s.salesIn(p) {
		for _, it := range sale.Items {
			item := byID[it.ProductID]
			if item == nil {
				item = byName[nameKey(it.Name)]
			}
			if item != nil {
				total = total.Add(it.Quantity.Mul(item.CostPrice))
			}
		}
	}
	return total
}

func (s Snapshot) inventoryIndex() (map[string]*entity.InventoryItem, map[string]*entity.InventoryItem) {
	byID := make(map[string]*entity.InventoryItem, len(s.Inventory))
	byName := make(map[string]*entity.InventoryItem, len(s.Inventory))
	for _, item := range s.Inventory {
		byID[item.Key()] = item
		byName[nameKey(item.Name)] = item
	}
	return byID, byName
}

// GrossProfit ingresos netos menos costo de lo vendido.
func (s Snapshot) GrossProfit(p Period) decimal.Decimal {
	return s.Revenue(p).Sub(s.CostOfGoods(p))
}

// TotalExpenses gastos del período.
func (s Snapshot) TotalExpenses(p Period) decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.Expenses {
		if p.Contains(entity.RecordDate(e)) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// NetProfit utilidad bruta menos gastos.
func (s Snapshot) NetProfit(p Period) decimal.Decimal {
	return s.GrossProfit(p).Sub(s.TotalExpenses(p))
}

// ProfitMargin utilidad neta sobre ingresos, en porcentaje. Cero si no hubo ingresos.
func (s Snapshot) ProfitMargin(p Period) decimal.Decimal {
	return percent(s.NetProfit(p), s.Revenue(p))
}

// ── Desgloses ────────────────────────────────────────────────────────────────

// CategoryTotal gasto de una categoría.
type CategoryTotal struct {
	Category string
	Amount   decimal.Decimal
	Percent  decimal.Decimal
}

// ExpensesByCategory gastos agrupados, de mayor a menor.
func (s Snapshot) ExpensesByCategory(p Period) []CategoryTotal {
	sums := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, e := range s.Expenses {
		if !p.Contains(entity.RecordDate(e)) {
			continue
		}
		cat := strings.TrimSpace(e.Category)
		if cat == "" {
			cat = "Other"
		}
		sums[cat] = sums[cat].Add(e.Amount)
		total = total.Add(e.Amount)
	}
	out := make([]CategoryTotal, 0, len(sums))
	for cat, amount := range sums {
		out = append(out, CategoryTotal{Category: cat, Amount: amount, Percent: percent(amount, total)})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Amount.Equal(out[j].Amount) {
			return out[i].Amount.GreaterThan(out[j].Amount)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// ProductSales ventas acumuladas de un producto.
type ProductSales struct {
	ProductID string
	Name      string
	Quantity  decimal.Decimal
	Revenue   decimal.Decimal
}

// TopProducts los n productos con más ingresos (n <= 0: todos).
func (s Snapshot) TopProducts(p Period, n int) []ProductSales {
	acc := make(map[string]*ProductSales)
	var order []string
	for _, sale := range s.salesIn(p) {
		for _, it := range sale.Items {
			key := it.ProductID
			if key == "" {
				key = nameKey(it.Name)
			}
			ps, ok := acc[key]
			if !ok {
				ps = &ProductSales{ProductID: it.ProductID, Name: it.Name}
				acc[key] = ps
				order = append(order, key)
			}
			ps.Quantity = ps.Quantity.Add(it.Quantity)
			ps.Revenue = ps.Revenue.Add(it.LineTotal())
		}
	}
	out := make([]ProductSales, 0, len(order))
	for _, k := range order {
		out = append(out, *acc[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Revenue.Equal(out[j].Revenue) {
			return out[i].Revenue.GreaterThan(out[j].Revenue)
		}
		return out[i].Quantity.GreaterThan(out[j].Quantity)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// TrendPoint ventas de un día.
type TrendPoint struct {
	Date    string // YYYY-MM-DD
	Revenue decimal.Decimal
	Count   int
}

// SalesTrend ventas diarias. En períodos acotados incluye los días sin ventas.
func (s Snapshot) SalesTrend(p Period) []TrendPoint {
	byDay := make(map[string]*TrendPoint)
	for _, sale := range s.salesIn(p) {
		d := entity.RecordDate(sale)
		if d.IsZero() {
			continue
		}
		if !p.Start.IsZero() {
			d = d.In(p.Start.Location())
		}
		day := d.Format(dateLayout)
		tp, ok := byDay[day]
		if !ok {
			tp = &TrendPoint{Date: day}
			byDay[day] = tp
		}
		tp.Revenue = tp.Revenue.Add(sale.Amount())
		tp.Count++
	}

	if p.Bounded() {
		out := make([]TrendPoint, 0, p.Days())
		for d := p.Start; !d.After(p.End); d = d.AddDate(0, 0, 1) {
			day := d.Format(dateLayout)
			if tp, ok := byDay[day]; ok {
				out = append(out, *tp)
			} else {
				out = append(out, TrendPoint{Date: day, Revenue: decimal.Zero})
			}
		}
		return out
	}

	out := make([]TrendPoint, 0, len(byDay))
	for _, tp := range byDay {
		out = append(out, *tp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// ── Inventario ───────────────────────────────────────────────────────────────

// StockProjection proyección de agotamiento de un producto.
type StockProjection struct {
	Item              *entity.InventoryItem
	AvgDailySales     decimal.Decimal
	DaysOfCover       *decimal.Decimal // nil: sin ventas en el período
	SuggestedOrderQty decimal.Decimal
}

// LowStockProjection productos bajo el punto de reorden o cuya cobertura
// (cantidad / venta diaria promedio del período) es menor a horizonDays.
// Orden: menor cobertura primero; los productos sin ventas al final.
func (s Snapshot) LowStockProjection(p Period, threshold decimal.Decimal, horizonDays int) []StockProjection {
	sold := make(map[string]decimal.Decimal)
	for _, ps := range s.TopProducts(p, 0) {
		if ps.ProductID != "" {
			sold[ps.ProductID] = sold[ps.ProductID].Add(ps.Quantity)
		}
		sold[nameKey(ps.Name)] = sold[nameKey(ps.Name)].Add(ps.Quantity)
	}
	days := decimal.NewFromInt(int64(p.Days()))
	horizon := decimal.NewFromInt(int64(horizonDays))

	out := make([]StockProjection, 0)
	for _, item := range s.Inventory {
		units, ok := sold[item.Key()]
		if !ok {
			units = sold[nameKey(item.Name)]
		}
		avg := ratio(units, days).Round(2)

		var cover *decimal.Decimal
		if avg.IsPositive() {
			c := ratio(item.Quantity, avg).Round(1)
			cover = &c
		}

		low := item.IsLowStock(threshold)
		short := cover != nil && horizonDays > 0 && cover.LessThan(horizon)
		if !low && !short {
			continue
		}

		level := item.ReorderLevel
		if level.IsZero() {
			level = threshold
		}
		suggested := level.Mul(idealStockFactor).Sub(item.Quantity)
		if avg.IsPositive() && horizonDays > 0 {
			// cubrir al menos el horizonte con la venta promedio
			if need := avg.Mul(horizon).Sub(item.Quantity); need.GreaterThan(suggested) {
				suggested = need
			}
		}
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}

		out = append(out, StockProjection{
			Item:              item,
			AvgDailySales:     avg,
			DaysOfCover:       cover,
			SuggestedOrderQty: suggested.Ceil(),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch {
		case a.DaysOfCover != nil && b.DaysOfCover != nil:
			if !a.DaysOfCover.Equal(*b.DaysOfCover) {
				return a.DaysOfCover.LessThan(*b.DaysOfCover)
			}
		case a.DaysOfCover != nil:
			return true
		case b.DaysOfCover != nil:
			return false
		}
		return a.Item.Quantity.LessThan(b.Item.Quantity)
	})
	return out
}

// ── IVA ──────────────────────────────────────────────────────────────────────

// VATSummary IVA del período.
type VATSummary struct {
	Rate      decimal.Decimal
	OutputVAT decimal.Decimal
	InputVAT  decimal.Decimal
	NetVAT    decimal.Decimal
}

// VAT calcula el IVA contenido en ventas netas y gastos (montos con IVA incluido):
// iva = monto * rate / (1 + rate).
func (s Snapshot) VAT(p Period, rate decimal.Decimal) VATSummary {
	factor := ratio(rate, decimal.NewFromInt(1).Add(rate))
	out := s.Revenue(p).Mul(factor).Round(2)
	in := s.TotalExpenses(p).Mul(factor).Round(2)
	return VATSummary{Rate: rate, OutputVAT: out, InputVAT: in, NetVAT: out.Sub(in)}
}

// ── Agregados de colección ───────────────────────────────────────────────────

// Summary agregados derivados que acompañan a cada colección en el estado.
type Summary struct {
	Count    int             `json:"count"`
	Pending  int             `json:"pending"`  // registros aún sin confirmar por el servidor
	Total    decimal.Decimal `json:"total"`    // monto total (valor de stock para inventario)
	LowStock int             `json:"lowStock"` // solo inventario
}

// Summarize agregados de una colección completa (sin filtro de fechas).
func Summarize(records []entity.Record, lowStockThreshold decimal.Decimal) Summary {
	sum := Summary{Count: len(records), Total: decimal.Zero}
	for _, r := range records {
		if r.Base().Pending {
			sum.Pending++
		}
		switch v := r.(type) {
		case *entity.InventoryItem:
			sum.Total = sum.Total.Add(v.StockValue())
			if v.IsLowStock(lowStockThreshold) {
				sum.LowStock++
			}
		case *entity.Sale:
			if v.Counts() {
				sum.Total = sum.Total.Add(v.Amount())
			}
		case *entity.Expense:
			sum.Total = sum.Total.Add(v.Amount)
		case *entity.Return:
			sum.Total = sum.Total.Add(v.Amount)
		case *entity.Payment:
			sum.Total = sum.Total.Add(v.Amount)
		case *entity.Customer:
			sum.Total = sum.Total.Add(v.TotalPurchases)
		}
	}
	return sum
}
