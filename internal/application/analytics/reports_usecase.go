package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/skillbridge-business/internal/application/dto"
	"github.com/jhoicas/skillbridge-business/internal/domain"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

const (
	defaultTopN         = 5
	maxTopN             = 50
	lowStockHorizonDays = 7 // cobertura mínima deseada en días
)

// SnapshotSource colecciones cacheadas localmente (las entrega el núcleo de sincronización).
type SnapshotSource interface {
	Snapshot() (Snapshot, entity.Settings)
	QueueLen() int
}

// RemoteAnalytics endpoint de analítica del backend (/business/analytics).
type RemoteAnalytics interface {
	GetAnalytics(ctx context.Context, params map[string]string) ([]byte, error)
}

// ReportsUseCase reporte financiero: primero el backend, si falla el cálculo local.
type ReportsUseCase struct {
	remote RemoteAnalytics
	local  SnapshotSource
	now    func() time.Time
}

// NewReportsUseCase construye el caso de uso. remote puede ser nil (solo cálculo local).
func NewReportsUseCase(remote RemoteAnalytics, local SnapshotSource) *ReportsUseCase {
	return &ReportsUseCase{remote: remote, local: local, now: time.Now}
}

// Financial construye el reporte del período pedido.
// Source indica de dónde salieron las cifras: "remote" o "local".
func (uc *ReportsUseCase) Financial(ctx context.Context, req dto.FinancialReportRequest) (*dto.FinancialReportDTO, error) {
	period, err := ParsePeriod(req.StartDate, req.EndDate, uc.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	topN := req.TopN
	if topN <= 0 {
		topN = defaultTopN
	}
	if topN > maxTopN {
		topN = maxTopN
	}

	periodDTO := dto.PeriodDTO{
		StartDate: period.Start.Format(dateLayout),
		EndDate:   period.End.Format(dateLayout),
	}

	if uc.remote != nil {
		raw, err := uc.remote.GetAnalytics(ctx, map[string]string{
			"type":      "financial",
			"startDate": periodDTO.StartDate,
			"endDate":   periodDTO.EndDate,
		})
		if err == nil {
			if report, derr := decodeRemoteReport(raw); derr == nil {
				report.Source = dto.SourceRemote
				report.Period = periodDTO
				return report, nil
			}
		}
	}

	snap, settings := uc.local.Snapshot()
	report := BuildFinancialReport(snap, settings, period, topN)
	return &report, nil
}

// BuildFinancialReport calcula el reporte completo sobre el snapshot local.
func BuildFinancialReport(s Snapshot, settings entity.Settings, p Period, topN int) dto.FinancialReportDTO {
	settings = settings.WithDefaults(entity.DefaultSettings())

	report := dto.FinancialReportDTO{
		Source:       dto.SourceLocal,
		Period:       dto.PeriodDTO{StartDate: p.Start.Format(dateLayout), EndDate: p.End.Format(dateLayout)},
		Currency:     settings.Currency,
		GrossSales:   s.GrossSales(p).Round(2),
		Returns:      s.ReturnsTotal(p).Round(2),
		Revenue:      s.Revenue(p).Round(2),
		CostOfGoods:  s.CostOfGoods(p).Round(2),
		GrossProfit:  s.GrossProfit(p).Round(2),
		Expenses:     s.TotalExpenses(p).Round(2),
		NetProfit:    s.NetProfit(p).Round(2),
		ProfitMargin: s.ProfitMargin(p),
		SalesCount:   s.SalesCount(p),
	}

	vat := s.VAT(p, settings.VATRate)
	report.VAT = dto.VATSummaryDTO{Rate: vat.Rate, OutputVAT: vat.OutputVAT, InputVAT: vat.InputVAT, NetVAT: vat.NetVAT}

	report.ExpensesByCategory = make([]dto.CategoryTotalDTO, 0)
	for _, c := range s.ExpensesByCategory(p) {
		report.ExpensesByCategory = append(report.ExpensesByCategory, dto.CategoryTotalDTO{
			Category: c.Category, Amount: c.Amount.Round(2), Percent: c.Percent,
		})
	}
	report.TopProducts = toTopProductDTOs(s.TopProducts(p, topN))
	report.SalesTrend = make([]dto.TrendPointDTO, 0)
	for _, tp := range s.SalesTrend(p) {
		report.SalesTrend = append(report.SalesTrend, dto.TrendPointDTO{Date: tp.Date, Revenue: tp.Revenue.Round(2), Count: tp.Count})
	}
	report.LowStock = make([]dto.LowStockDTO, 0)
	for _, sp := range s.LowStockProjection(p, settings.LowStockThreshold, lowStockHorizonDays) {
		report.LowStock = append(report.LowStock, dto.LowStockDTO{
			ItemID:            sp.Item.Key(),
			Name:              sp.Item.Name,
			SKU:               sp.Item.SKU,
			Quantity:          sp.Item.Quantity,
			ReorderLevel:      sp.Item.ReorderLevel,
			AvgDailySales:     sp.AvgDailySales,
			DaysOfCover:       sp.DaysOfCover,
			SuggestedOrderQty: sp.SuggestedOrderQty,
		})
	}
	return report
}

func toTopProductDTOs(products []ProductSales) []dto.TopProductDTO {
	out := make([]dto.TopProductDTO, 0, len(products))
	for _, ps := range products {
		out = append(out, dto.TopProductDTO{
			ProductID: ps.ProductID,
			Name:      ps.Name,
			Quantity:  ps.Quantity,
			Revenue:   ps.Revenue.Round(2),
		})
	}
	return out
}

// decodeRemoteReport acepta el reporte directo o envuelto en {"data": {...}}.
// Una respuesta sin "revenue" no se considera un reporte.
func decodeRemoteReport(raw []byte) (*dto.FinancialReportDTO, error) {
	var env map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimSpace(raw), &env); err != nil {
		return nil, err
	}
	if inner, ok := env["data"]; ok {
		var data map[string]json.RawMessage
		if err := json.Unmarshal(inner, &data); err != nil {
			return nil, err
		}
		env, raw = data, inner
	}
	if _, ok := env["revenue"]; !ok {
		return nil, fmt.Errorf("%w: reporte sin revenue", domain.ErrRemote)
	}
	var report dto.FinancialReportDTO
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
