package export

import (
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/skillbridge-business/internal/application/analytics"
	"github.com/jhoicas/skillbridge-business/internal/application/dto"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

// Hojas del libro del reporte financiero.
const (
	SheetSummary  = "Summary"
	SheetSales    = "Sales"
	SheetExpenses = "Expenses"
	SheetLowStock = "Low stock"
)

// ContentTypeXLSX tipo MIME del libro.
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FinancialWorkbook escribe el reporte en un libro con cuatro hojas:
// resumen, ventas y gastos del período, y productos con stock bajo.
func FinancialWorkbook(w io.Writer, rep *dto.FinancialReportDTO, snap analytics.Snapshot, p analytics.Period) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("xlsx: %w", err)
	}
	for _, name := range []string{SheetSales, SheetExpenses, SheetLowStock} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("xlsx: crear hoja %s: %w", name, err)
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("xlsx: estilo: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return fmt.Errorf("xlsx: estilo: %w", err)
	}

	sw := sheetWriter{f: f, bold: bold, money: money}
	sw.summary(rep)
	sw.sales(snap, p)
	sw.expenses(snap, p)
	sw.lowStock(rep)
	if sw.err != nil {
		return fmt.Errorf("xlsx: %w", sw.err)
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return nil
}

// sheetWriter acumula el primer error para no cortar cada SetCellValue.
type sheetWriter struct {
	f     *excelize.File
	bold  int
	money int
	err   error
}

func (s *sheetWriter) set(sheet string, col, row int, v any) {
	if s.err != nil {
		return
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetCellValue(sheet, cell, v)
}

func (s *sheetWriter) style(sheet string, fromCol, fromRow, toCol, toRow, style int) {
	if s.err != nil {
		return
	}
	from, _ := excelize.CoordinatesToCellName(fromCol, fromRow)
	to, _ := excelize.CoordinatesToCellName(toCol, toRow)
	s.err = s.f.SetCellStyle(sheet, from, to, style)
}

func (s *sheetWriter) header(sheet string, headings ...string) {
	for i, h := range headings {
		s.set(sheet, i+1, 1, h)
	}
	s.style(sheet, 1, 1, len(headings), 1, s.bold)
}

func (s *sheetWriter) summary(rep *dto.FinancialReportDTO) {
	rows := []struct {
		label string
		value any
		money bool
	}{
		{"Source", rep.Source, false},
		{"Period", rep.Period.StartDate + " / " + rep.Period.EndDate, false},
		{"Currency", rep.Currency, false},
		{"Sales count", rep.SalesCount, false},
		{"Gross sales", rep.GrossSales.InexactFloat64(), true},
		{"Returns", rep.Returns.InexactFloat64(), true},
		{"Revenue", rep.Revenue.InexactFloat64(), true},
		{"Cost of goods", rep.CostOfGoods.InexactFloat64(), true},
		{"Gross profit", rep.GrossProfit.InexactFloat64(), true},
		{"Expenses", rep.Expenses.InexactFloat64(), true},
		{"Net profit", rep.NetProfit.InexactFloat64(), true},
		{"Profit margin %", rep.ProfitMargin.InexactFloat64(), true},
		{"Output VAT", rep.VAT.OutputVAT.InexactFloat64(), true},
		{"Input VAT", rep.VAT.InputVAT.InexactFloat64(), true},
		{"Net VAT", rep.VAT.NetVAT.InexactFloat64(), true},
	}
	s.header(SheetSummary, "Metric", "Value")
	for i, r := range rows {
		s.set(SheetSummary, 1, i+2, r.label)
		s.set(SheetSummary, 2, i+2, r.value)
		if r.money {
			s.style(SheetSummary, 2, i+2, 2, i+2, s.money)
		}
	}
	_ = s.f.SetColWidth(SheetSummary, "A", "B", 22)
}

func (s *sheetWriter) sales(snap analytics.Snapshot, p analytics.Period) {
	s.header(SheetSales, "Date", "Invoice", "Customer", "Items", "Total", "Payment", "Status", "Pending")
	sales := make([]*entity.Sale, 0, len(snap.Sales))
	for _, sale := range snap.Sales {
		if sale.Counts() && p.Contains(entity.RecordDate(sale)) {
			sales = append(sales, sale)
		}
	}
	sort.SliceStable(sales, func(i, j int) bool {
		return entity.RecordDate(sales[i]).Before(entity.RecordDate(sales[j]))
	})
	for i, sale := range sales {
		row := i + 2
		s.set(SheetSales, 1, row, day(entity.RecordDate(sale)))
		s.set(SheetSales, 2, row, sale.InvoiceNumber)
		s.set(SheetSales, 3, row, sale.CustomerName)
		s.set(SheetSales, 4, row, itemsSummary(sale.Items))
		s.set(SheetSales, 5, row, sale.Amount().InexactFloat64())
		s.set(SheetSales, 6, row, sale.PaymentMethod)
		s.set(SheetSales, 7, row, sale.Status)
		s.set(SheetSales, 8, row, sale.Pending)
	}
	if len(sales) > 0 {
		s.style(SheetSales, 5, 2, 5, len(sales)+1, s.money)
	}
}

func (s *sheetWriter) expenses(snap analytics.Snapshot, p analytics.Period) {
	s.header(SheetExpenses, "Date", "Category", "Description", "Vendor", "Amount", "Pending")
	n := 0
	for _, e := range snap.Expenses {
		if !p.Contains(entity.RecordDate(e)) {
			continue
		}
		n++
		row := n + 1
		s.set(SheetExpenses, 1, row, day(entity.RecordDate(e)))
		s.set(SheetExpenses, 2, row, e.Category)
		s.set(SheetExpenses, 3, row, e.Description)
		s.set(SheetExpenses, 4, row, e.Vendor)
		s.set(SheetExpenses, 5, row, e.Amount.InexactFloat64())
		s.set(SheetExpenses, 6, row, e.Pending)
	}
	if n > 0 {
		s.style(SheetExpenses, 5, 2, 5, n+1, s.money)
	}
}

func (s *sheetWriter) lowStock(rep *dto.FinancialReportDTO) {
	s.header(SheetLowStock, "Item", "SKU", "Quantity", "Reorder level", "Avg daily sales", "Days of cover", "Suggested order")
	for i, ls := range rep.LowStock {
		row := i + 2
		s.set(SheetLowStock, 1, row, ls.Name)
		s.set(SheetLowStock, 2, row, ls.SKU)
		s.set(SheetLowStock, 3, row, ls.Quantity.InexactFloat64())
		s.set(SheetLowStock, 4, row, ls.ReorderLevel.InexactFloat64())
		s.set(SheetLowStock, 5, row, ls.AvgDailySales.InexactFloat64())
		if ls.DaysOfCover != nil {
			s.set(SheetLowStock, 6, row, ls.DaysOfCover.InexactFloat64())
		} else {
			s.set(SheetLowStock, 6, row, "-")
		}
		s.set(SheetLowStock, 7, row, ls.SuggestedOrderQty.InexactFloat64())
	}
}
