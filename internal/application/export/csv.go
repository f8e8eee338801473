package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/skillbridge-business/internal/domain"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

// Encoding codificación del archivo CSV.
type Encoding string

const (
	EncodingUTF8 Encoding = "utf-8"
	// EncodingWindows1252 la que Excel en Windows abre sin asistente.
	EncodingWindows1252 Encoding = "windows-1252"
)

// ParseEncoding valida el nombre recibido desde CLI/HTTP; "" es UTF-8.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "utf-8", "utf8":
		return EncodingUTF8, nil
	case "windows-1252", "cp1252", "latin1":
		return EncodingWindows1252, nil
	}
	return "", fmt.Errorf("%w: codificación %q", domain.ErrInvalidInput, s)
}

// column encabezado + extractor de una columna.
type column struct {
	header string
	value  func(entity.Record) string
}

// col construye una columna para un tipo concreto; otros tipos quedan vacíos.
func col[T entity.Record](header string, fn func(T) string) column {
	return column{header: header, value: func(r entity.Record) string {
		if v, ok := r.(T); ok {
			return fn(v)
		}
		return ""
	}}
}

// metaColumns columnas comunes al inicio de cada archivo.
var metaColumns = []column{
	{"id", func(r entity.Record) string { return r.Base().ID }},
	{"localId", func(r entity.Record) string {
		if id := r.Base().LocalID; id != 0 {
			return strconv.FormatInt(id, 10)
		}
		return ""
	}},
	{"pending", func(r entity.Record) string { return strconv.FormatBool(r.Base().Pending) }},
}

var columns = map[entity.Resource][]column{
	entity.ResourceInventory: {
		col("name", func(v *entity.InventoryItem) string { return v.Name }),
		col("sku", func(v *entity.InventoryItem) string { return v.SKU }),
		col("category", func(v *entity.InventoryItem) string { return v.Category }),
		col("quantity", func(v *entity.InventoryItem) string { return v.Quantity.String() }),
		col("unitPrice", func(v *entity.InventoryItem) string { return amount(v.UnitPrice) }),
		col("costPrice", func(v *entity.InventoryItem) string { return amount(v.CostPrice) }),
		col("reorderLevel", func(v *entity.InventoryItem) string { return v.ReorderLevel.String() }),
		col("supplier", func(v *entity.InventoryItem) string { return v.Supplier }),
	},
	entity.ResourceCustomers: {
		col("name", func(v *entity.Customer) string { return v.Name }),
		col("email", func(v *entity.Customer) string { return v.Email }),
		col("phone", func(v *entity.Customer) string { return v.Phone }),
		col("address", func(v *entity.Customer) string { return v.Address }),
		col("totalPurchases", func(v *entity.Customer) string { return amount(v.TotalPurchases) }),
	},
	entity.ResourceSales: {
		col("date", func(v *entity.Sale) string { return day(v.Date.Time) }),
		col("invoiceNumber", func(v *entity.Sale) string { return v.InvoiceNumber }),
		col("customer", func(v *entity.Sale) string { return v.CustomerName }),
		col("items", func(v *entity.Sale) string { return itemsSummary(v.Items) }),
		col("total", func(v *entity.Sale) string { return amount(v.Amount()) }),
		col("paymentMethod", func(v *entity.Sale) string { return v.PaymentMethod }),
		col("status", func(v *entity.Sale) string { return v.Status }),
	},
	entity.ResourceExpenses: {
		col("date", func(v *entity.Expense) string { return day(v.Date.Time) }),
		col("category", func(v *entity.Expense) string { return v.Category }),
		col("description", func(v *entity.Expense) string { return v.Description }),
		col("amount", func(v *entity.Expense) string { return amount(v.Amount) }),
		col("vendor", func(v *entity.Expense) string { return v.Vendor }),
		col("paymentMethod", func(v *entity.Expense) string { return v.PaymentMethod }),
	},
	entity.ResourceSuppliers: {
		col("name", func(v *entity.Supplier) string { return v.Name }),
		col("contactPerson", func(v *entity.Supplier) string { return v.ContactPerson }),
		col("email", func(v *entity.Supplier) string { return v.Email }),
		col("phone", func(v *entity.Supplier) string { return v.Phone }),
		col("products", func(v *entity.Supplier) string { return strings.Join(v.Products, "; ") }),
	},
	entity.ResourceReturns: {
		col("date", func(v *entity.Return) string { return day(v.Date.Time) }),
		col("saleId", func(v *entity.Return) string { return v.SaleID }),
		col("items", func(v *entity.Return) string { return itemsSummary(v.Items) }),
		col("amount", func(v *entity.Return) string { return amount(v.Amount) }),
		col("reason", func(v *entity.Return) string { return v.Reason }),
		col("status", func(v *entity.Return) string { return v.Status }),
	},
	entity.ResourcePayments: {
		col("date", func(v *entity.Payment) string { return day(v.Date.Time) }),
		col("saleId", func(v *entity.Payment) string { return v.SaleID }),
		col("amount", func(v *entity.Payment) string { return amount(v.Amount) }),
		col("method", func(v *entity.Payment) string { return v.Method }),
		col("reference", func(v *entity.Payment) string { return v.Reference }),
		col("status", func(v *entity.Payment) string { return v.Status }),
	},
}

// Headers encabezados del CSV de una colección.
func Headers(res entity.Resource) ([]string, error) {
	cols, err := columnsFor(res)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.header
	}
	return out, nil
}

// CSV escribe la colección con columnas en orden fijo y montos con dos decimales.
// Los registros se escriben en el orden recibido.
func CSV(w io.Writer, res entity.Resource, records []entity.Record, enc Encoding) error {
	cols, err := columnsFor(res)
	if err != nil {
		return err
	}

	var tw *transform.Writer
	if enc == EncodingWindows1252 {
		tw = transform.NewWriter(w, encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder()))
		w = tw
	}

	cw := csv.NewWriter(w)
	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.header
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv %s: %w", res, err)
	}
	row := make([]string, len(cols))
	for _, r := range records {
		if r == nil || r.Resource() != res {
			continue
		}
		for i, c := range cols {
			row[i] = c.value(r)
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv %s: %w", res, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv %s: %w", res, err)
	}
	if tw != nil {
		return tw.Close()
	}
	return nil
}

// Filename nombre sugerido: sales_2026-10-19.csv.
func Filename(res entity.Resource, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", res, now.Format("2006-01-02"))
}

func columnsFor(res entity.Resource) ([]column, error) {
	cols, ok := columns[res]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownResource, res)
	}
	return append(append([]column{}, metaColumns...), cols...), nil
}

func amount(d decimal.Decimal) string { return d.StringFixed(2) }

func day(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// itemsSummary "Unga x2; Sukari x1".
func itemsSummary(items []entity.SaleItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s x%s", it.Name, it.Quantity.String()))
	}
	return strings.Join(parts, "; ")
}
