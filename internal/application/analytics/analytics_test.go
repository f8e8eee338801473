package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/skillbridge-business/internal/application/analytics"
	"github.com/jhoicas/skillbridge-business/internal/application/dto"
	"github.com/jhoicas/skillbridge-business/internal/domain"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func day(n int) entity.Date {
	return entity.NewDate(time.Date(2026, time.March, n, 10, 0, 0, 0, time.UTC))
}

var march = analytics.Period{
	Start: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2026, time.March, 10, 23, 59, 59, 0, time.UTC),
}

func fixture() analytics.Snapshot {
	soap := &entity.InventoryItem{Name: "Soap", Quantity: d("4"), CostPrice: d("60"), UnitPrice: d("100"), ReorderLevel: d("5")}
	soap.ID = "p1"
	flour := &entity.InventoryItem{Name: "Flour", Quantity: d("50"), CostPrice: d("120"), UnitPrice: d("150")}
	flour.ID = "p2"

	return analytics.Snapshot{
		Inventory: []*entity.InventoryItem{soap, flour},
		Sales: []*entity.Sale{
			{Items: []entity.SaleItem{{ProductID: "p1", Name: "Soap", Quantity: d("10"), UnitPrice: d("100")}}, Date: day(2)},
			{Items: []entity.SaleItem{{Name: "flour", Quantity: d("2"), UnitPrice: d("150")}}, Date: day(3)},
			{Items: []entity.SaleItem{{ProductID: "p1", Name: "Soap", Quantity: d("1"), UnitPrice: d("100")}}, Date: day(3), Status: entity.SaleStatusCancelled},
			{Items: []entity.SaleItem{{ProductID: "p1", Name: "Soap", Quantity: d("5"), UnitPrice: d("100")}}, Date: day(20)},
		},
		Expenses: []*entity.Expense{
			{Category: "Rent", Amount: d("500"), Date: day(1)},
			{Category: "Transport", Amount: d("100"), Date: day(5)},
			{Category: "Rent", Amount: d("900"), Date: day(25)},
		},
		Returns: []*entity.Return{
			{SaleID: "s1", Amount: d("100"), Date: day(4)},
		},
	}
}

// ==================== Métricas ====================

func TestSnapshot_MetricasDelPeriodo(t *testing.T) {
	s := fixture()

	assert.Equal(t, "1300", s.GrossSales(march).String(), "ignora canceladas y fuera de período")
	assert.Equal(t, "1200", s.Revenue(march).String())
	assert.Equal(t, 2, s.SalesCount(march))
	// 10 * 60 (por productId) + 2 * 120 (por nombre)
	assert.Equal(t, "840", s.CostOfGoods(march).String())
	assert.Equal(t, "360", s.GrossProfit(march).String())
	assert.Equal(t, "600", s.TotalExpenses(march).String())
	assert.Equal(t, "-240", s.NetProfit(march).String())
	assert.Equal(t, "-20", s.ProfitMargin(march).String())
}

func TestSnapshot_SinIngresosNoDivide(t *testing.T) {
	var s analytics.Snapshot
	assert.True(t, s.ProfitMargin(march).IsZero())
	assert.Empty(t, s.ExpensesByCategory(march))
	assert.True(t, s.VAT(march, decimal.Zero).OutputVAT.IsZero())
}

func TestSnapshot_ExpensesByCategory(t *testing.T) {
	got := fixture().ExpensesByCategory(march)
	require.Len(t, got, 2)
	assert.Equal(t, "Rent", got[0].Category)
	assert.Equal(t, "83.33", got[0].Percent.String())
	assert.Equal(t, "Transport", got[1].Category)
}

func TestSnapshot_TopProducts(t *testing.T) {
	got := fixture().TopProducts(march, 1)
	require.Len(t, got, 1)
	assert.Equal(t, "p1", got[0].ProductID)
	assert.Equal(t, "1000", got[0].Revenue.String())
}

func TestSnapshot_SalesTrendRellenaDias(t *testing.T) {
	trend := fixture().SalesTrend(march)
	require.Len(t, trend, 10)
	assert.Equal(t, "2026-03-01", trend[0].Date)
	assert.True(t, trend[0].Revenue.IsZero())
	assert.Equal(t, "1000", trend[1].Revenue.String())
	assert.Equal(t, 1, trend[2].Count)
}

func TestSnapshot_VATConIVAIncluido(t *testing.T) {
	vat := fixture().VAT(march, d("0.16"))
	// 1200 * 0.16 / 1.16
	assert.Equal(t, "165.52", vat.OutputVAT.String())
	assert.Equal(t, "82.76", vat.InputVAT.String())
	assert.Equal(t, "82.76", vat.NetVAT.String())
}

func TestSnapshot_LowStockProjection(t *testing.T) {
	got := fixture().LowStockProjection(march, d("10"), 7)
	require.Len(t, got, 1, "flour tiene 50 unidades y vende 0.2 diarias")
	p := got[0]
	assert.Equal(t, "Soap", p.Item.Name)
	assert.Equal(t, "1", p.AvgDailySales.String())
	require.NotNil(t, p.DaysOfCover)
	assert.Equal(t, "4", p.DaysOfCover.String())
	assert.Equal(t, "4", p.SuggestedOrderQty.String(), "1.5 veces el punto de reorden menos el stock, redondeado hacia arriba")
}

func TestSummarize(t *testing.T) {
	item := &entity.InventoryItem{Name: "Soap", Quantity: d("2"), CostPrice: d("50")}
	item.Pending = true
	sum := analytics.Summarize([]entity.Record{item}, d("10"))
	assert.Equal(t, 1, sum.Count)
	assert.Equal(t, 1, sum.Pending)
	assert.Equal(t, 1, sum.LowStock)
	assert.Equal(t, "100", sum.Total.String())
}

// ==================== Período ====================

func TestParsePeriod(t *testing.T) {
	now := time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

	p, err := analytics.ParsePeriod("", "", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", p.Start.Format("2006-01-02"))
	assert.Equal(t, "2026-03-15", p.End.Format("2006-01-02"))
	assert.Equal(t, 15, p.Days())

	_, err = analytics.ParsePeriod("2026-03-10", "2026-03-01", now)
	assert.Error(t, err)

	_, err = analytics.ParsePeriod("10/03/2026", "", now)
	assert.Error(t, err)
}

// ==================== ReportsUseCase ====================

type fakeSource struct{ snap analytics.Snapshot }

func (f fakeSource) Snapshot() (analytics.Snapshot, entity.Settings) {
	return f.snap, entity.DefaultSettings()
}
func (f fakeSource) QueueLen() int { return 3 }

type fakeRemote struct {
	raw []byte
	err error
}

func (f fakeRemote) GetAnalytics(context.Context, map[string]string) ([]byte, error) {
	return f.raw, f.err
}

func TestFinancial_UsaRemotoCuandoResponde(t *testing.T) {
	uc := analytics.NewReportsUseCase(
		fakeRemote{raw: []byte(`{"success":true,"data":{"revenue":9999,"netProfit":10}}`)},
		fakeSource{snap: fixture()},
	)
	rep, err := uc.Financial(context.Background(), dto.FinancialReportRequest{StartDate: "2026-03-01", EndDate: "2026-03-10"})
	require.NoError(t, err)
	assert.Equal(t, dto.SourceRemote, rep.Source)
	assert.Equal(t, "9999", rep.Revenue.String())
	assert.Equal(t, "2026-03-01", rep.Period.StartDate)
}

func TestFinancial_CaeAlCalculoLocal(t *testing.T) {
	cases := map[string]fakeRemote{
		"error de red":          {err: domain.ErrNetwork},
		"respuesta sin datos":   {raw: []byte(`{"message":"ok"}`)},
		"json inválido":         {raw: []byte(`<html>`)},
		"revenue fuera de data": {raw: []byte(`{"revenue":1,"data":{"netProfit":10}}`)},
	}
	for name, remote := range cases {
		t.Run(name, func(t *testing.T) {
			uc := analytics.NewReportsUseCase(remote, fakeSource{snap: fixture()})
			rep, err := uc.Financial(context.Background(), dto.FinancialReportRequest{StartDate: "2026-03-01", EndDate: "2026-03-10"})
			require.NoError(t, err)
			assert.Equal(t, dto.SourceLocal, rep.Source)
			assert.Equal(t, "1200", rep.Revenue.String())
			assert.Equal(t, "KES", rep.Currency)
			assert.Len(t, rep.SalesTrend, 10)
			assert.Len(t, rep.LowStock, 1)
		})
	}
}

func TestFinancial_PeriodoInvalido(t *testing.T) {
	uc := analytics.NewReportsUseCase(nil, fakeSource{})
	_, err := uc.Financial(context.Background(), dto.FinancialReportRequest{StartDate: "ayer"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestDashboard_GetSummary(t *testing.T) {
	uc := analytics.NewDashboardUseCase(fakeSource{snap: fixture()})
	sum := uc.GetSummary()
	assert.Equal(t, 3, sum.PendingSync)
	assert.Equal(t, 1, sum.LowStockCount)
	assert.NotEmpty(t, sum.DateLabel)
}
