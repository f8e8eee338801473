package billing

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/skillbridge-business/internal/application/analytics"
	"github.com/jhoicas/skillbridge-business/internal/application/dto"
	"github.com/jhoicas/skillbridge-business/internal/domain"
	"github.com/jhoicas/skillbridge-business/internal/domain/entity"
)

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// PDFUseCase genera la factura en PDF de una venta.
// Se arma con los datos del espejo local, así que funciona sin conexión;
// si se pide la versión oficial y hay backend, se descarga la del servidor.
type PDFUseCase struct {
	source    analytics.SnapshotSource
	generator InvoicePDFGenerator
	remote    RemoteInvoices
}

// NewPDFUseCase construye el caso de uso. remote puede ser nil.
func NewPDFUseCase(source analytics.SnapshotSource, generator InvoicePDFGenerator, remote RemoteInvoices) *PDFUseCase {
	return &PDFUseCase{source: source, generator: generator, remote: remote}
}

// Invoice arma la factura de la venta identificada por key (_id o local-<localId>).
//
// Retorna:
//   - domain.ErrNotFound     si la venta no está en el espejo.
//   - domain.ErrInvalidInput si la venta está anulada.
func (uc *PDFUseCase) Invoice(key string) (*dto.InvoiceDTO, error) {
	snap, settings := uc.source.Snapshot()
	settings = settings.WithDefaults(entity.DefaultSettings())

	var sale *entity.Sale
	for _, s := range snap.Sales {
		if s.Key() == key {
			sale = s
			break
		}
	}
	if sale == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, key)
	}
	if !sale.Counts() {
		return nil, fmt.Errorf("%w: la venta %s está anulada", domain.ErrInvalidInput, key)
	}
	inv := BuildInvoice(sale, findCustomer(snap.Customers, sale), settings)
	return &inv, nil
}

// DownloadInvoicePDF devuelve (pdfBytes, filename).
// official=true intenta primero la factura del servidor; sin id del servidor
// o sin backend se genera la local.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, key string, official bool) ([]byte, string, error) {
	inv, err := uc.Invoice(key)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("factura_%s.pdf", unsafeFilename.ReplaceAllString(inv.Number, "_"))

	if official && uc.remote != nil && !inv.Pending && !strings.HasPrefix(key, "local-") {
		if raw, err := uc.remote.DownloadInvoice(ctx, key); err == nil {
			return raw, filename, nil
		}
	}

	pdfBytes, err := uc.generator.GenerateInvoicePDF(ctx, inv)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, filename, nil
}

// BuildInvoice calcula la factura de una venta. customer puede ser nil.
func BuildInvoice(sale *entity.Sale, customer *entity.Customer, settings entity.Settings) dto.InvoiceDTO {
	lines := make([]dto.InvoiceLineDTO, 0, len(sale.Items))
	for _, it := range sale.Items {
		lines = append(lines, dto.InvoiceLineDTO{
			Description: it.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice.Round(2),
			Subtotal:    it.LineTotal().Round(2),
		})
	}

	gross := sale.Amount().Round(2)
	net := gross
	if rate := settings.VATRate; rate.IsPositive() {
		net = gross.Div(decimal.NewFromInt(1).Add(rate)).Round(2)
	}

	buyer := dto.InvoicePartyDTO{Name: nonEmpty(sale.CustomerName, "Cliente de contado")}
	if customer != nil {
		buyer = dto.InvoicePartyDTO{
			Name:    customer.Name,
			Address: customer.Address,
			Phone:   customer.Phone,
			Email:   customer.Email,
		}
	}

	date := ""
	if d := entity.RecordDate(sale); !d.IsZero() {
		date = d.Format("02/01/2006")
	}

	return dto.InvoiceDTO{
		SaleKey: sale.Key(),
		Number:  invoiceNumber(sale, settings.InvoicePrefix),
		Date:    date,
		Issuer: dto.InvoicePartyDTO{
			Name:    settings.BusinessName,
			TaxPIN:  settings.TaxPIN,
			Address: settings.Address,
			Phone:   settings.Phone,
			Email:   settings.Email,
		},
		Customer:      buyer,
		Lines:         lines,
		Currency:      settings.Currency,
		VATRate:       settings.VATRate,
		NetTotal:      net,
		VATTotal:      gross.Sub(net),
		GrandTotal:    gross,
		PaymentMethod: sale.PaymentMethod,
		Status:        sale.Status,
		Pending:       sale.Pending,
	}
}

// invoiceNumber usa el número asignado por el servidor; si no hay, prefijo + clave.
func invoiceNumber(sale *entity.Sale, prefix string) string {
	if sale.InvoiceNumber != "" {
		return sale.InvoiceNumber
	}
	ref := sale.ID
	if ref == "" {
		ref = fmt.Sprintf("L%d", sale.LocalID)
	} else if len(ref) > 8 {
		ref = ref[len(ref)-8:]
	}
	return fmt.Sprintf("%s-%s", prefix, strings.ToUpper(ref))
}

func findCustomer(customers []*entity.Customer, sale *entity.Sale) *entity.Customer {
	if sale.CustomerID != "" {
		for _, c := range customers {
			if c.Key() == sale.CustomerID {
				return c
			}
		}
	}
	if name := strings.TrimSpace(sale.CustomerName); name != "" {
		for _, c := range customers {
			if strings.EqualFold(strings.TrimSpace(c.Name), name) {
				return c
			}
		}
	}
	return nil
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
