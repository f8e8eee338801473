package export_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/skillbridge-business/internal/application/analytics"
	"github.com/jhoicas/skillbridge-business/internal/application/dto"
	"github.com/jhoicas/skillbridge-business/internal/application/export"
	"github.com/jhoicas/skillbridge-business/internal/domain"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

func d(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func march(day int) entity.Date {
	return entity.NewDate(time.Date(2026, time.March, day, 10, 0, 0, 0, time.UTC))
}

func sales() []entity.Record {
	synced := &entity.Sale{
		InvoiceNumber: "INV-001",
		CustomerName:  "Wanjiru, Ltd",
		Items:         []entity.SaleItem{{Name: "Unga", Quantity: d("2"), UnitPrice: d("120")}},
		PaymentMethod: "mpesa",
		Status:        entity.SaleStatusCompleted,
		Date:          march(2),
	}
	synced.ID = "s1"

	offline := &entity.Sale{
		CustomerName: "Café Nyota",
		Items: []entity.SaleItem{
			{Name: "Sukari", Quantity: d("1.5"), UnitPrice: d("150")},
			{Name: "Chai", Quantity: d("1"), UnitPrice: d("50")},
		},
		Total:         d("275"),
		PaymentMethod: "cash",
	}
	offline.LocalID = 1760000000000
	offline.Pending = true
	return []entity.Record{synced, offline}
}

func expenses() []entity.Record {
	e := &entity.Expense{
		Category:      "Rent",
		Description:   `Shop "A"`,
		Amount:        d("5000"),
		Vendor:        "Landlord",
		PaymentMethod: "bank",
		Date:          march(5),
	}
	e.ID = "e1"
	return []entity.Record{e}
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// ──────────────────────────────────────────────────────────────────────────────
// CSV
// ──────────────────────────────────────────────────────────────────────────────

func TestCSV_Golden(t *testing.T) {
	cases := map[string]struct {
		res     entity.Resource
		records []entity.Record
	}{
		"sales":    {entity.ResourceSales, sales()},
		"expenses": {entity.ResourceExpenses, expenses()},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, export.CSV(&buf, tc.res, tc.records, export.EncodingUTF8))
			golden(t).Assert(t, name, buf.Bytes())
		})
	}
}

func TestCSV_IgnoraRegistrosDeOtraColeccion(t *testing.T) {
	var buf bytes.Buffer
	mixed := append(expenses(), sales()...)
	require.NoError(t, export.CSV(&buf, entity.ResourceExpenses, mixed, export.EncodingUTF8))
	assert.Equal(t, 2, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestCSV_Windows1252(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.CSV(&buf, entity.ResourceSales, sales(), export.EncodingWindows1252))

	assert.Contains(t, buf.String(), "Caf\xe9 Nyota")
	assert.NotContains(t, buf.String(), "Café")
}

func TestCSV_ColeccionDesconocida(t *testing.T) {
	err := export.CSV(&bytes.Buffer{}, entity.Resource("learners"), nil, export.EncodingUTF8)
	assert.ErrorIs(t, err, domain.ErrUnknownResource)
}

func TestParseEncoding(t *testing.T) {
	enc, err := export.ParseEncoding("")
	require.NoError(t, err)
	assert.Equal(t, export.EncodingUTF8, enc)

	enc, err = export.ParseEncoding("CP1252")
	require.NoError(t, err)
	assert.Equal(t, export.EncodingWindows1252, enc)

	_, err = export.ParseEncoding("ebcdic")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHeaders(t *testing.T) {
	h, err := export.Headers(entity.ResourcePayments)
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "localId", "pending", "date", "saleId", "amount", "method", "reference", "status"}, h)
}

// ──────────────────────────────────────────────────────────────────────────────
// XLSX
// ──────────────────────────────────────────────────────────────────────────────

type source struct{}

func (source) Snapshot() (analytics.Snapshot, entity.Settings) {
	colls := map[entity.Resource][]entity.Record{
		entity.ResourceSales:    sales(),
		entity.ResourceExpenses: expenses(),
	}
	item := &entity.InventoryItem{Name: "Unga", Quantity: d("1"), ReorderLevel: d("5"), CostPrice: d("90")}
	item.ID = "p1"
	colls[entity.ResourceInventory] = []entity.Record{item}
	return analytics.NewSnapshot(colls), entity.DefaultSettings()
}

func (source) QueueLen() int { return 1 }

func (source) Records(res entity.Resource) []entity.Record {
	switch res {
	case entity.ResourceSales:
		return sales()
	case entity.ResourceExpenses:
		return expenses()
	}
	return nil
}

func TestFinancialXLSX(t *testing.T) {
	svc := export.NewService(source{}, analytics.NewReportsUseCase(nil, source{}))

	var buf bytes.Buffer
	err := svc.FinancialXLSX(context.Background(), &buf, dto.FinancialReportRequest{StartDate: "2026-03-01", EndDate: "2026-03-31"})
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{export.SheetSummary, export.SheetSales, export.SheetExpenses, export.SheetLowStock}, f.GetSheetList())

	summary, err := f.GetRows(export.SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, []string{"Metric", "Value"}, summary[0])
	assert.Equal(t, "local", summary[1][1])

	salesRows, err := f.GetRows(export.SheetSales)
	require.NoError(t, err)
	assert.Len(t, salesRows, 2, "la venta sin fecha queda fuera del período")
	assert.Equal(t, "2026-03-02", salesRows[1][0])

	expRows, err := f.GetRows(export.SheetExpenses)
	require.NoError(t, err)
	require.Len(t, expRows, 2)
	assert.Equal(t, "Rent", expRows[1][1])

	low, err := f.GetRows(export.SheetLowStock)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Unga", low[1][0])
}

func TestCollectionCSV_ColeccionInvalida(t *testing.T) {
	svc := export.NewService(source{}, analytics.NewReportsUseCase(nil, source{}))
	err := svc.CollectionCSV(&bytes.Buffer{}, entity.Resource("x"), export.EncodingUTF8)
	assert.ErrorIs(t, err, domain.ErrUnknownResource)
}

func TestFilenames(t *testing.T) {
	now := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "sales_2026-10-19.csv", export.Filename(entity.ResourceSales, now))
	assert.Equal(t, "financial_2026-10-19.xlsx", export.XLSXFilename(now))
}
